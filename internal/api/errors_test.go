package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/abhis59060/Network-analyzer/internal/models"
	"github.com/abhis59060/Network-analyzer/internal/session"
)

func TestFromActionError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "analysis in flight", err: session.ErrAnalysisInFlight, wantStatus: http.StatusConflict, wantCode: "CONFLICT"},
		{name: "upload not complete", err: session.ErrUploadNotComplete, wantStatus: http.StatusConflict, wantCode: "CONFLICT"},
		{name: "invalid state", err: session.ErrInvalidState, wantStatus: http.StatusConflict, wantCode: "CONFLICT"},
		{name: "no file", err: session.ErrNoFile, wantStatus: http.StatusBadRequest, wantCode: "BAD_REQUEST"},
		{name: "bad chart kind", err: session.ErrBadChartKind, wantStatus: http.StatusBadRequest, wantCode: "BAD_REQUEST"},
		{name: "wrapped sentinel", err: fmt.Errorf("analyze: %w", session.ErrAnalysisInFlight), wantStatus: http.StatusConflict, wantCode: "CONFLICT"},
		{
			name:       "validation taxonomy",
			err:        &models.SessionError{Kind: models.ErrTooLarge, Message: "file exceeds the 100 MiB limit"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := fromActionError(tt.err)
			if apiErr.Status != tt.wantStatus {
				t.Errorf("status = %d, want %d", apiErr.Status, tt.wantStatus)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", apiErr.Code, tt.wantCode)
			}
		})
	}
}

func TestFromSessionError_KeepsKind(t *testing.T) {
	serr := &models.SessionError{Kind: models.ErrInvalidFormat, Message: "only .pcap or .pcapng files are allowed"}
	apiErr := fromSessionError(serr)
	if apiErr.Kind != models.ErrInvalidFormat {
		t.Errorf("kind = %q, want %q", apiErr.Kind, models.ErrInvalidFormat)
	}
	if apiErr.Message != serr.Message {
		t.Errorf("message = %q, want %q", apiErr.Message, serr.Message)
	}
}
