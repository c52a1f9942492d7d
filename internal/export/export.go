// Package export serializes the session's full record set into
// download-ready documents.
//
// Known limitation: ToCSV joins raw field values with commas and performs
// no quoting or escaping, so a field value containing a delimiter shifts
// the row's columns. This reproduces the analysis service's own CSV
// output and is kept intentionally.
package export

import (
	"encoding/json"
	"strings"

	"github.com/abhis59060/Network-analyzer/internal/models"
)

// CSVFileName and JSONFileName are the download names handed to clients.
const (
	CSVFileName  = "analysis_results.csv"
	JSONFileName = "analysis_results.json"
)

// csvHeader is the fixed column row; order matches models.RecordFieldNames.
var csvHeader = strings.Join(models.RecordFieldNames, ",")

// ToCSV renders the full, unfiltered record set as CSV text. Missing
// fields render as empty strings.
func ToCSV(records []models.PacketRecord) string {
	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteByte('\n')
	for _, r := range records {
		b.WriteString(strings.Join(r.Fields(), ","))
		b.WriteByte('\n')
	}
	return b.String()
}

// ToJSON renders the full record set as a pretty-printed JSON array.
func ToJSON(records []models.PacketRecord) (string, error) {
	if records == nil {
		records = []models.PacketRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
