package models

import "fmt"

// ErrorKind classifies session failures.
type ErrorKind string

const (
	// ErrInvalidFormat and ErrTooLarge are local validation failures,
	// raised before any network activity.
	ErrInvalidFormat ErrorKind = "invalid_format"
	ErrTooLarge      ErrorKind = "too_large"

	// ErrNetwork means the analysis service could not be reached at all.
	ErrNetwork ErrorKind = "network"
	// ErrServer means the service was reached and rejected the request.
	ErrServer ErrorKind = "server"
	// ErrSchema means the service responded 2xx but the payload was malformed.
	ErrSchema ErrorKind = "schema"
)

// SessionError is the structured error surfaced in the session's lastError
// slot. StatusCode is set only for ErrServer.
type SessionError struct {
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"message"`
	StatusCode int       `json:"statusCode,omitempty"`
}

// Error implements the error interface.
func (e *SessionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsValidation reports whether the error is a pre-network validation failure.
func (e *SessionError) IsValidation() bool {
	return e.Kind == ErrInvalidFormat || e.Kind == ErrTooLarge
}
