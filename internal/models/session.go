package models

import (
	"path/filepath"
	"strings"
	"time"
)

// SessionStatus represents the lifecycle phase of the analysis session.
type SessionStatus string

const (
	StatusIdle             SessionStatus = "idle"
	StatusValidating       SessionStatus = "validating"
	StatusAwaitingAnalysis SessionStatus = "awaiting_analysis"
	StatusAnalyzing        SessionStatus = "analyzing"
	StatusReady            SessionStatus = "ready"
	StatusFailed           SessionStatus = "failed"
)

// FileInfo represents metadata about the currently selected capture file.
type FileInfo struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Ext        string    `json:"ext"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// NewFileInfo builds a FileInfo for a candidate file, deriving the
// lowercase extension from the name.
func NewFileInfo(id, name string, size int64) *FileInfo {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	return &FileInfo{
		ID:         id,
		Name:       name,
		Size:       size,
		Ext:        ext,
		UploadedAt: time.Now(),
	}
}

// DefaultPageSize is fixed for the lifetime of a session.
const DefaultPageSize = 10

// AnalysisSession is the single source of truth for one
// upload -> analyze -> explore -> export interaction. Exactly one
// instance exists per process; the session controller owns it
// exclusively and replaces Records/Visualizations wholesale, never
// mutating them in place.
type AnalysisSession struct {
	File           *FileInfo
	Status         SessionStatus
	UploadProgress int
	Records        []PacketRecord
	Visualizations []VisualizationSpec
	SearchTerm     string
	CurrentPage    int
	PageSize       int
	Chart          ChartChoice
	LastError      *SessionError
}

// NewAnalysisSession returns a session in its initial idle state.
func NewAnalysisSession() *AnalysisSession {
	return &AnalysisSession{
		Status:      StatusIdle,
		CurrentPage: 1,
		PageSize:    DefaultPageSize,
		Chart:       DefaultChartChoice(),
	}
}

// DefaultChartChoice is the chart configuration before any user override.
func DefaultChartChoice() ChartChoice {
	return ChartChoice{Type: ChartBar}
}

// SessionView is the JSON snapshot of the session exposed to clients.
// Records and visualizations travel over their own paginated endpoints,
// so the view carries counts only.
type SessionView struct {
	File               *FileInfo     `json:"file,omitempty"`
	Status             SessionStatus `json:"status"`
	UploadProgress     int           `json:"uploadProgress"`
	RecordCount        int           `json:"recordCount"`
	VisualizationCount int           `json:"visualizationCount"`
	SearchTerm         string        `json:"searchTerm"`
	CurrentPage        int           `json:"currentPage"`
	PageSize           int           `json:"pageSize"`
	Chart              ChartChoice   `json:"chart"`
	LastError          *SessionError `json:"lastError,omitempty"`
}

// View derives the client-facing snapshot from the session state.
func (s *AnalysisSession) View() SessionView {
	return SessionView{
		File:               s.File,
		Status:             s.Status,
		UploadProgress:     s.UploadProgress,
		RecordCount:        len(s.Records),
		VisualizationCount: len(s.Visualizations),
		SearchTerm:         s.SearchTerm,
		CurrentPage:        s.CurrentPage,
		PageSize:           s.PageSize,
		Chart:              s.Chart,
		LastError:          s.LastError,
	}
}
