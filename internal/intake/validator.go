// Package intake enforces the capture-file acceptance policy.
package intake

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/abhis59060/Network-analyzer/internal/models"
)

// MaxFileSize is the upload cap in bytes (100 MiB).
const MaxFileSize = 100 * 1024 * 1024

// allowedExtensions mirrors the analysis service's accepted formats.
var allowedExtensions = map[string]bool{
	"pcap":   true,
	"pcapng": true,
}

// Validate checks a candidate file descriptor against the format and size
// policy. It returns a SessionError with kind invalid_format or too_large
// on rejection, nil on acceptance.
func Validate(name string, size int64) *models.SessionError {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if !allowedExtensions[ext] {
		return &models.SessionError{
			Kind:    models.ErrInvalidFormat,
			Message: "only .pcap or .pcapng files are allowed",
		}
	}
	if size > MaxFileSize {
		return &models.SessionError{
			Kind:    models.ErrTooLarge,
			Message: fmt.Sprintf("file exceeds the %d MB limit", MaxFileSize/(1024*1024)),
		}
	}
	return nil
}
