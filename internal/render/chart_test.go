package render

import (
	"bytes"
	"testing"

	"github.com/abhis59060/Network-analyzer/internal/models"
	"github.com/abhis59060/Network-analyzer/internal/viz"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func adapted(kind models.ChartKind) viz.ChartConfig {
	spec := models.VisualizationSpec{
		ID:    "v1",
		Title: "Protocol Distribution",
		Chart: &models.ChartData{
			Labels:   []string{"TCP", "UDP", "ICMP"},
			Datasets: []models.Dataset{{Label: "share", Values: []float64{60, 30, 10}}},
		},
	}
	return viz.Adapt(spec, models.ChartChoice{Type: kind})
}

func TestPNG_AllKinds(t *testing.T) {
	for _, kind := range []models.ChartKind{models.ChartBar, models.ChartLine, models.ChartPie} {
		t.Run(string(kind), func(t *testing.T) {
			data, err := PNG(adapted(kind))
			if err != nil {
				t.Fatalf("render failed: %v", err)
			}
			if !bytes.HasPrefix(data, pngMagic) {
				t.Errorf("output is not a PNG")
			}
		})
	}
}

func TestPNG_FallbackConfig(t *testing.T) {
	cfg := viz.Adapt(models.VisualizationSpec{}, models.ChartChoice{Type: models.ChartBar})
	data, err := PNG(cfg)
	if err != nil {
		t.Fatalf("fallback data must render: %v", err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Errorf("output is not a PNG")
	}
}

func TestPNG_NoData(t *testing.T) {
	if _, err := PNG(viz.ChartConfig{ID: "x"}); err == nil {
		t.Errorf("expected error for config without datasets")
	}
}
