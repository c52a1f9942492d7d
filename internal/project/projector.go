// Package project derives the filtered, paginated view of packet records.
package project

import (
	"strings"

	"github.com/abhis59060/Network-analyzer/internal/models"
)

// Result is one projected page of records.
type Result struct {
	PageRecords []models.PacketRecord `json:"records"`
	Page        int                   `json:"page"`
	TotalPages  int                   `json:"totalPages"`
	Total       int                   `json:"total"`
}

// Project filters records by a case-insensitive substring match against
// every rendered field, then slices out the requested page. The page is
// clamped into [1, totalPages]. Pure function: identical inputs always
// yield identical output, so it is safe to recompute on every request.
func Project(records []models.PacketRecord, searchTerm string, page, pageSize int) Result {
	if pageSize < 1 {
		pageSize = models.DefaultPageSize
	}

	filtered := Filter(records, searchTerm)

	totalPages := (len(filtered) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return Result{
		PageRecords: filtered[start:end],
		Page:        page,
		TotalPages:  totalPages,
		Total:       len(filtered),
	}
}

// Filter returns the records where at least one rendered field contains
// the search term, case-insensitively. An empty term matches everything.
func Filter(records []models.PacketRecord, searchTerm string) []models.PacketRecord {
	if searchTerm == "" {
		return records
	}

	term := strings.ToLower(searchTerm)
	filtered := make([]models.PacketRecord, 0, len(records))
	for _, r := range records {
		for _, f := range r.Fields() {
			if strings.Contains(strings.ToLower(f), term) {
				filtered = append(filtered, r)
				break
			}
		}
	}
	return filtered
}

// ClampPage returns page clamped into the valid range for the given
// filtered record set. Used by the controller to keep currentPage legal
// whenever records or the search term change.
func ClampPage(records []models.PacketRecord, searchTerm string, page, pageSize int) int {
	return Project(records, searchTerm, page, pageSize).Page
}
