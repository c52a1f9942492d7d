// Package render rasterizes adapted chart configurations to PNG for
// clients without a charting surface of their own.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/abhis59060/Network-analyzer/internal/models"
	"github.com/abhis59060/Network-analyzer/internal/viz"
)

const (
	chartWidth  = 800
	chartHeight = 420
)

// PNG renders one adapted chart configuration. The adapter guarantees at
// least one dataset with values, so rendering only fails on raster errors.
func PNG(cfg viz.ChartConfig) ([]byte, error) {
	if len(cfg.Datasets) == 0 || len(cfg.Datasets[0].Data) == 0 {
		return nil, fmt.Errorf("chart %s has no datasets", cfg.ID)
	}

	var buf bytes.Buffer
	var err error
	switch cfg.Type {
	case models.ChartPie:
		err = renderPie(cfg, &buf)
	case models.ChartLine:
		err = renderLine(cfg, &buf)
	default:
		err = renderBar(cfg, &buf)
	}
	if err != nil {
		return nil, fmt.Errorf("rendering chart %s: %w", cfg.ID, err)
	}
	return buf.Bytes(), nil
}

func renderBar(cfg viz.ChartConfig, buf *bytes.Buffer) error {
	ds := cfg.Datasets[0]
	fill := datasetColor(ds.BackgroundColor, 0, viz.DefaultPrimaryColor)

	bars := make([]chart.Value, 0, len(ds.Data))
	for i, v := range ds.Data {
		bars = append(bars, chart.Value{
			Value: v,
			Label: labelAt(cfg.Labels, i),
			Style: chart.Style{FillColor: fill, StrokeColor: fill},
		})
	}

	bc := chart.BarChart{
		Title:      cfg.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   48,
		Bars:       bars,
	}
	return bc.Render(chart.PNG, buf)
}

func renderLine(cfg viz.ChartConfig, buf *bytes.Buffer) error {
	series := make([]chart.Series, 0, len(cfg.Datasets))
	for _, ds := range cfg.Datasets {
		xs := make([]float64, len(ds.Data))
		for j := range ds.Data {
			xs[j] = float64(j)
		}
		stroke := datasetColor(ds.BorderColor, 0, viz.DefaultPrimaryColor)
		series = append(series, chart.ContinuousSeries{
			Name:    ds.Label,
			XValues: xs,
			YValues: ds.Data,
			Style:   chart.Style{StrokeColor: stroke, StrokeWidth: 2},
		})
	}

	ch := chart.Chart{
		Title:      cfg.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      chartWidth,
		Height:     chartHeight,
		Series:     series,
	}
	return ch.Render(chart.PNG, buf)
}

func renderPie(cfg viz.ChartConfig, buf *bytes.Buffer) error {
	ds := cfg.Datasets[0]
	values := make([]chart.Value, 0, len(ds.Data))
	for i, v := range ds.Data {
		if v <= 0 {
			// go-chart rejects non-positive slices.
			continue
		}
		fill := datasetColor(ds.BackgroundColor, i, viz.DefaultPrimaryColor)
		values = append(values, chart.Value{
			Value: v,
			Label: labelAt(cfg.Labels, i),
			Style: chart.Style{FillColor: fill},
		})
	}
	if len(values) == 0 {
		return fmt.Errorf("no positive slices")
	}

	pc := chart.PieChart{
		Title:  cfg.Title,
		Width:  chartHeight, // square canvas
		Height: chartHeight,
		Values: values,
	}
	return pc.Render(chart.PNG, buf)
}

func labelAt(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return fmt.Sprintf("#%d", i+1)
}

// datasetColor picks the i-th color of a per-slice color list, falling
// back to the first entry and then to a fixed default.
func datasetColor(colors []string, i int, fallback string) drawing.Color {
	hex := fallback
	if i < len(colors) {
		hex = colors[i]
	} else if len(colors) > 0 {
		hex = colors[0]
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
