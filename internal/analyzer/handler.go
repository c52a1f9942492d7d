package analyzer

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Handler exposes the analyzer over the wire contract the gateway
// consumes: errors are plain {"error": "..."} objects and the success
// body carries analysis_results plus visualizations.
type Handler struct {
	analyzer *Analyzer
	workDir  string
}

// NewHandler creates the HTTP handler. workDir holds uploads for the
// duration of one analysis call.
func NewHandler(analyzer *Analyzer, workDir string) *Handler {
	return &Handler{analyzer: analyzer, workDir: workDir}
}

// RegisterRoutes registers the analyzer endpoints
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.HandleHealth)
	e.POST("/analyze", h.HandleAnalyze)
}

// HandleHealth reports service liveness.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "Backend is running!"})
}

// HandleAnalyze accepts a capture in the "pcap_file" multipart field,
// analyzes it and returns the report. The uploaded file is removed once
// the call finishes.
func (h *Handler) HandleAnalyze(c echo.Context) error {
	fmt.Println("[Analyzer] Received request to /analyze endpoint")

	fh, err := c.FormFile("pcap_file")
	if err != nil {
		fmt.Println("[Analyzer] No pcap_file part in the request")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No PCAP file provided"})
	}
	if fh.Filename == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No file selected"})
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".pcap" && ext != ".pcapng" {
		fmt.Printf("[Analyzer] Invalid file type for %s\n", fh.Filename)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Only .pcap or .pcapng files are allowed"})
	}

	path := filepath.Join(h.workDir, uuid.New().String()+ext)
	if err := h.saveUpload(fh, path); err != nil {
		fmt.Printf("[Analyzer] Failed to save upload: %v\n", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("Analysis failed: %v", err)})
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			fmt.Printf("[Analyzer] Failed to remove %s: %v\n", path, err)
		}
	}()

	report, err := h.analyzer.AnalyzeFile(path)
	if err != nil {
		fmt.Printf("[Analyzer] Error during analysis: %v\n", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("Analysis failed: %v", err)})
	}

	fmt.Printf("[Analyzer] Analyzed %s: %d records, %d visualizations\n",
		fh.Filename, len(report.Records), len(report.Visualizations))
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) saveUpload(fh *multipart.FileHeader, path string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
