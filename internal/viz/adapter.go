// Package viz turns raw visualization specs and the user's chart choice
// into renderable chart configurations. The adapter has no failure mode:
// malformed or absent chart data is replaced with fallback defaults so the
// view never shows a blank or crashed chart.
package viz

import (
	"github.com/google/uuid"

	"github.com/abhis59060/Network-analyzer/internal/models"
)

// Default colors applied when the user has not overridden them.
const (
	DefaultPrimaryColor   = "#1f77b4"
	DefaultSecondaryColor = "#ff7f0e"
)

// FallbackTitle is used when a spec carries no usable chart data.
const FallbackTitle = "Packet Distribution"

// FallbackID identifies the placeholder chart served before any analysis
// has produced visualizations.
const FallbackID = "packet-distribution"

// FallbackSpec is the placeholder adapted when the session holds no
// visualizations yet. Its empty chart data triggers the fallback path.
func FallbackSpec() models.VisualizationSpec {
	return models.VisualizationSpec{ID: FallbackID, Title: FallbackTitle}
}

// piePalette is cycled for pie slices beyond the primary color.
var piePalette = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd"}

// ConfigDataset is one series of a renderable chart configuration.
type ConfigDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor,omitempty"`
	BorderColor     []string  `json:"borderColor,omitempty"`
	BorderWidth     int       `json:"borderWidth,omitempty"`
	Fill            bool      `json:"fill"`
}

// ChartConfig is the renderable configuration handed to a chart surface.
type ChartConfig struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Type     models.ChartKind `json:"type"`
	Labels   []string         `json:"labels"`
	Datasets []ConfigDataset  `json:"datasets"`
	Fallback bool             `json:"fallback,omitempty"`
}

// Adapt builds a renderable configuration for one spec under the given
// chart choice. It always succeeds.
func Adapt(spec models.VisualizationSpec, choice models.ChartChoice) ChartConfig {
	kind := choice.Type
	switch kind {
	case models.ChartBar, models.ChartLine, models.ChartPie:
	default:
		kind = models.ChartBar
	}

	primary := choice.ColorPrimary
	if primary == "" {
		primary = DefaultPrimaryColor
	}
	secondary := choice.ColorSecondary
	if secondary == "" {
		secondary = DefaultSecondaryColor
	}

	cfg := ChartConfig{
		ID:    spec.ID,
		Title: spec.Title,
		Type:  kind,
	}

	labels, datasets, ok := usableData(spec.Chart)
	if !ok {
		labels = []string{"TCP", "UDP", "ICMP"}
		datasets = []models.Dataset{{Label: FallbackTitle, Values: []float64{50, 30, 20}}}
		cfg.Fallback = true
		if cfg.Title == "" {
			cfg.Title = FallbackTitle
		}
	}
	if cfg.ID == "" {
		cfg.ID = uuid.New().String()
	}
	cfg.Labels = labels

	for _, ds := range datasets {
		out := ConfigDataset{Label: ds.Label, Data: ds.Values}
		switch kind {
		case models.ChartPie:
			// Border color is meaningless for pie slices; cycle the
			// palette for slices beyond the primary color instead.
			colors := make([]string, len(labels))
			for i := range colors {
				if i == 0 {
					colors[i] = primary
					continue
				}
				colors[i] = piePalette[i%len(piePalette)]
			}
			out.BackgroundColor = colors
		case models.ChartLine:
			out.BorderColor = []string{primary}
			out.BackgroundColor = []string{secondary}
		default:
			out.BackgroundColor = []string{primary}
			out.BorderColor = []string{secondary}
			out.BorderWidth = 1
		}
		cfg.Datasets = append(cfg.Datasets, out)
	}

	return cfg
}

// AdaptAll adapts every spec. An empty input yields an empty (non-nil)
// slice so clients always receive a JSON array.
func AdaptAll(specs []models.VisualizationSpec, choice models.ChartChoice) []ChartConfig {
	configs := make([]ChartConfig, 0, len(specs))
	for _, spec := range specs {
		configs = append(configs, Adapt(spec, choice))
	}
	return configs
}

// usableData reports whether the spec's chart data can be rendered as-is.
// Anything missing labels, datasets, or values falls back to defaults.
func usableData(chart *models.ChartData) ([]string, []models.Dataset, bool) {
	if chart == nil || len(chart.Labels) == 0 || len(chart.Datasets) == 0 {
		return nil, nil, false
	}
	for _, ds := range chart.Datasets {
		if len(ds.Values) == 0 {
			return nil, nil, false
		}
	}
	return chart.Labels, chart.Datasets, true
}
