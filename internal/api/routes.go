// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, h *Handler) {
	// Health check
	e.GET("/health", h.HandleHealth)
	e.GET("/api/health", h.HandleHealth)

	// Session lifecycle routes
	sessionGroup := e.Group("/api/session")
	sessionGroup.GET("", h.HandleGetSession)
	sessionGroup.POST("/file", h.HandleSelectFile)
	sessionGroup.GET("/progress", h.HandleSessionProgressStream)
	sessionGroup.POST("/analyze", h.HandleAnalyze)
	sessionGroup.POST("/retry", h.HandleRetry)
	sessionGroup.POST("/reset", h.HandleReset)
	sessionGroup.PUT("/search", h.HandleSetSearch)
	sessionGroup.PUT("/page", h.HandleSetPage)
	sessionGroup.PUT("/chart", h.HandleSetChart)

	// Record projection routes
	recordGroup := e.Group("/api/records")
	recordGroup.GET("", h.HandleGetRecords)
	recordGroup.GET("/msgpack", h.HandleGetRecordsMsgpack)

	// Export routes
	exportGroup := e.Group("/api/export")
	exportGroup.GET("/csv", h.HandleExportCSV)
	exportGroup.GET("/json", h.HandleExportJSON)

	// Visualization routes
	vizGroup := e.Group("/api/visualizations")
	vizGroup.GET("", h.HandleGetVisualizations)
	vizGroup.GET("/:id/png", h.HandleGetVisualizationPNG)
}

// RegisterWebSocketRoutes registers WebSocket routes
func RegisterWebSocketRoutes(e *echo.Echo, h *Handler) {
	e.GET("/api/ws/session", h.HandleSessionSocket)
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo) {
	e.HTTPErrorHandler = ErrorHandler
}
