package models

// ChartKind identifies the chart family the user selected.
type ChartKind string

const (
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
	ChartPie  ChartKind = "pie"
)

// ChartChoice holds the user's chart type and color overrides.
type ChartChoice struct {
	Type           ChartKind `json:"type"`
	ColorPrimary   string    `json:"colorPrimary"`
	ColorSecondary string    `json:"colorSecondary"`
}

// Dataset is one labeled series inside a chart.
type Dataset struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// ChartData carries the raw series for a visualization.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// VisualizationSpec is a named, chart-ready aggregate returned by the
// analysis service alongside packet records. A spec with a nil or
// malformed Chart is still valid input to the adapter, which substitutes
// fallback data rather than rejecting it.
type VisualizationSpec struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Chart *ChartData `json:"chart"`
}
