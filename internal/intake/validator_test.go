package intake

import (
	"testing"

	"github.com/abhis59060/Network-analyzer/internal/models"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		size     int64
		wantKind models.ErrorKind // "" means accepted
	}{
		{
			name:     "pcap accepted",
			fileName: "sample.pcap",
			size:     5 * 1024 * 1024,
			wantKind: "",
		},
		{
			name:     "pcapng accepted",
			fileName: "trace.pcapng",
			size:     1024,
			wantKind: "",
		},
		{
			name:     "uppercase extension accepted",
			fileName: "CAPTURE.PCAP",
			size:     1024,
			wantKind: "",
		},
		{
			name:     "txt rejected",
			fileName: "sample.txt",
			size:     10,
			wantKind: models.ErrInvalidFormat,
		},
		{
			name:     "no extension rejected",
			fileName: "sample",
			size:     10,
			wantKind: models.ErrInvalidFormat,
		},
		{
			name:     "pcap embedded mid-name rejected",
			fileName: "sample.pcap.txt",
			size:     10,
			wantKind: models.ErrInvalidFormat,
		},
		{
			name:     "over size limit rejected",
			fileName: "big.pcap",
			size:     150 * 1024 * 1024,
			wantKind: models.ErrTooLarge,
		},
		{
			name:     "exactly at limit accepted",
			fileName: "edge.pcap",
			size:     MaxFileSize,
			wantKind: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.fileName, tt.size)
			if tt.wantKind == "" {
				if err != nil {
					t.Errorf("expected acceptance, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected rejection with kind %s, got acceptance", tt.wantKind)
			}
			if err.Kind != tt.wantKind {
				t.Errorf("expected kind %s, got %s", tt.wantKind, err.Kind)
			}
		})
	}
}
