// Package models contains domain types for the network traffic analyzer.
package models

import "strconv"

// PacketRecord is one row of decoded packet metadata returned by the
// analysis service. Every field is independently optional; a nil field
// renders as an empty placeholder, never as a parse failure.
type PacketRecord struct {
	SrcIP    *string `json:"src_ip"`
	DstIP    *string `json:"dst_ip"`
	Protocol *string `json:"protocol"`
	Size     *int64  `json:"size"`
	SrcPort  *int64  `json:"src_port"`
	DstPort  *int64  `json:"dst_port"`
	TCPFlags *string `json:"tcp_flags"`
}

// RecordFieldNames is the canonical column order used by search rendering
// and CSV export.
var RecordFieldNames = []string{"src_ip", "dst_ip", "protocol", "size", "src_port", "dst_port", "tcp_flags"}

// Fields renders every field as a string in RecordFieldNames order.
// Missing fields render as "".
func (r PacketRecord) Fields() []string {
	return []string{
		strVal(r.SrcIP),
		strVal(r.DstIP),
		strVal(r.Protocol),
		intVal(r.Size),
		intVal(r.SrcPort),
		intVal(r.DstPort),
		strVal(r.TCPFlags),
	}
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intVal(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

// StringPtr returns a pointer to s. Convenience for building records.
func StringPtr(s string) *string { return &s }

// Int64Ptr returns a pointer to n. Convenience for building records.
func Int64Ptr(n int64) *int64 { return &n }
