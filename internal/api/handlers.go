// handlers.go - Session action and query handlers
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/abhis59060/Network-analyzer/internal/export"
	"github.com/abhis59060/Network-analyzer/internal/models"
	"github.com/abhis59060/Network-analyzer/internal/render"
	"github.com/abhis59060/Network-analyzer/internal/session"
)

// Handler exposes the session controller's actions over HTTP.
type Handler struct {
	controller *session.Controller
}

// NewHandler creates the API handler around the session controller.
func NewHandler(controller *session.Controller) *Handler {
	return &Handler{controller: controller}
}

// HandleHealth reports service liveness.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "Backend is running!"})
}

// HandleGetSession returns the current session snapshot.
func (h *Handler) HandleGetSession(c echo.Context) error {
	return c.JSON(http.StatusOK, h.controller.Snapshot())
}

// HandleSelectFile accepts a capture file from a multipart form field
// named "file" and starts the upload progress simulation.
func (h *Handler) HandleSelectFile(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return NewValidationError("file")
	}

	src, err := fh.Open()
	if err != nil {
		return NewBadRequestError("failed to read uploaded file", err)
	}
	defer src.Close()

	info, err := h.controller.SelectFile(fh.Filename, fh.Size, src)
	if err != nil {
		return fromActionError(err)
	}

	return c.JSON(http.StatusCreated, info)
}

// HandleAnalyze kicks off the remote analysis call. The call runs in the
// background; clients observe the outcome via the session snapshot or
// one of the streams.
func (h *Handler) HandleAnalyze(c echo.Context) error {
	if err := h.controller.StartAnalysis(); err != nil {
		return fromActionError(err)
	}
	return c.JSON(http.StatusAccepted, h.controller.Snapshot())
}

// HandleRetry re-invokes the analysis on the last accepted file.
func (h *Handler) HandleRetry(c echo.Context) error {
	if err := h.controller.StartRetry(); err != nil {
		return fromActionError(err)
	}
	return c.JSON(http.StatusAccepted, h.controller.Snapshot())
}

// HandleReset returns the session to idle, discarding all derived state.
func (h *Handler) HandleReset(c echo.Context) error {
	h.controller.Reset()
	return c.JSON(http.StatusOK, h.controller.Snapshot())
}

// applyViewParams commits optional search/page query parameters as
// view-state actions before projecting.
func (h *Handler) applyViewParams(c echo.Context) error {
	if search := c.QueryParams()["search"]; len(search) > 0 {
		h.controller.SetSearchTerm(search[0])
	}
	if pageStr := c.QueryParam("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			return NewValidationError("page")
		}
		h.controller.SetPage(page)
	}
	return nil
}

// HandleGetRecords returns the projected page of the filtered record
// set. Optional "search" and "page" query parameters update the session
// view state first.
func (h *Handler) HandleGetRecords(c echo.Context) error {
	if err := h.applyViewParams(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.controller.Records())
}

// HandleGetRecordsMsgpack is the compact variant of HandleGetRecords for
// large pages.
func (h *Handler) HandleGetRecordsMsgpack(c echo.Context) error {
	if err := h.applyViewParams(c); err != nil {
		return err
	}

	data, err := msgpack.Marshal(h.controller.Records())
	if err != nil {
		return NewInternalError("failed to encode records", err)
	}
	return c.Blob(http.StatusOK, "application/x-msgpack", data)
}

// searchRequest and friends are the view-state action bodies.
type searchRequest struct {
	SearchTerm string `json:"searchTerm"`
}

type pageRequest struct {
	Page int `json:"page"`
}

// HandleSetSearch updates the search term and resets to page one.
func (h *Handler) HandleSetSearch(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	h.controller.SetSearchTerm(req.SearchTerm)
	return c.JSON(http.StatusOK, h.controller.Snapshot())
}

// HandleSetPage moves to the requested page, clamped into range.
func (h *Handler) HandleSetPage(c echo.Context) error {
	var req pageRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	h.controller.SetPage(req.Page)
	return c.JSON(http.StatusOK, h.controller.Snapshot())
}

// HandleSetChart updates the chart type and color overrides.
func (h *Handler) HandleSetChart(c echo.Context) error {
	var req models.ChartChoice
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if err := h.controller.SetChartChoice(req); err != nil {
		return fromActionError(err)
	}
	return c.JSON(http.StatusOK, h.controller.Snapshot())
}

// HandleGetVisualizations returns every adapted chart configuration for
// the current chart choice.
func (h *Handler) HandleGetVisualizations(c echo.Context) error {
	return c.JSON(http.StatusOK, h.controller.Charts())
}

// HandleGetVisualizationPNG renders one adapted chart server-side.
func (h *Handler) HandleGetVisualizationPNG(c echo.Context) error {
	id := c.Param("id")
	cfg, ok := h.controller.Chart(id)
	if !ok {
		return NewNotFoundError("visualization", id)
	}

	data, err := render.PNG(cfg)
	if err != nil {
		return NewInternalError("failed to render chart", err)
	}
	return c.Blob(http.StatusOK, "image/png", data)
}

// HandleExportCSV serializes the full record set as a CSV download.
func (h *Handler) HandleExportCSV(c echo.Context) error {
	doc := export.ToCSV(h.controller.AllRecords())
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", export.CSVFileName))
	return c.Blob(http.StatusOK, "text/csv", []byte(doc))
}

// HandleExportJSON serializes the full record set as a JSON download.
func (h *Handler) HandleExportJSON(c echo.Context) error {
	doc, err := export.ToJSON(h.controller.AllRecords())
	if err != nil {
		return NewInternalError("failed to serialize records", err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", export.JSONFileName))
	return c.Blob(http.StatusOK, "application/json", []byte(doc))
}

// HandleSessionProgressStream streams session snapshots via SSE while
// the upload simulation runs, then closes once progress completes or the
// session leaves the awaiting state.
func (h *Handler) HandleSessionProgressStream(c echo.Context) error {
	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	h.sendSSEData(c, h.controller.Snapshot())

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	timeout := time.NewTimer(5 * time.Minute)
	defer timeout.Stop()

	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		case <-ticker.C:
			view := h.controller.Snapshot()
			h.sendSSEData(c, view)
			if view.Status != models.StatusAwaitingAnalysis || view.UploadProgress >= 100 {
				return nil
			}
		case <-timeout.C:
			return nil
		}
	}
}

func (h *Handler) sendSSEData(c echo.Context, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(c.Response(), "data: %s\n\n", data)
	c.Response().Flush()
}
