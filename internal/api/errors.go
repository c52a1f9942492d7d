// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abhis59060/Network-analyzer/internal/models"
	"github.com/abhis59060/Network-analyzer/internal/session"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int              `json:"-"`
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Kind    models.ErrorKind `json:"kind,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Message = fmt.Sprintf("%s: %v", message, cause)
	}
	return err
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("validation failed for field: %s", field),
	}
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewConflictError creates a 409 Conflict error
func NewConflictError(message string) *APIError {
	return &APIError{
		Status:  http.StatusConflict,
		Code:    "CONFLICT",
		Message: message,
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Message = fmt.Sprintf("%s: %v", message, cause)
	}
	return err
}

// fromSessionError maps the session error taxonomy onto an API error.
// Only validation kinds surface directly through handlers; the analysis
// kinds live in the session's lastError slot instead.
func fromSessionError(serr *models.SessionError) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: serr.Message,
		Kind:    serr.Kind,
	}
}

// fromActionError maps the controller's state machine refusals.
func fromActionError(err error) *APIError {
	switch {
	case errors.Is(err, session.ErrAnalysisInFlight):
		return NewConflictError(err.Error())
	case errors.Is(err, session.ErrUploadNotComplete):
		return NewConflictError(err.Error())
	case errors.Is(err, session.ErrInvalidState):
		return NewConflictError(err.Error())
	case errors.Is(err, session.ErrNoFile):
		return NewBadRequestError(err.Error(), nil)
	case errors.Is(err, session.ErrBadChartKind):
		return NewBadRequestError(err.Error(), nil)
	}

	var serr *models.SessionError
	if errors.As(err, &serr) {
		return fromSessionError(serr)
	}
	return NewInternalError("unexpected error", err)
}

// ErrorHandler middleware for Echo
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError

	switch e := err.(type) {
	case *APIError:
		apiErr = e
	case *echo.HTTPError:
		apiErr = &APIError{
			Status:  e.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", e.Message),
		}
	default:
		apiErr = &APIError{
			Status:  http.StatusInternalServerError,
			Code:    "UNKNOWN_ERROR",
			Message: "An unexpected error occurred",
		}
	}

	c.JSON(apiErr.Status, apiErr)
}
