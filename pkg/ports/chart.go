package ports

import (
	"image"
	"time"
)

// SamplePoint is one scored observation on a metric's timeline.
type SamplePoint struct {
	At    time.Time
	Score float64
}

// ChartSeries is the full timeline for a single metric, in capture order.
type ChartSeries struct {
	Kind   MetricKind
	Points []SamplePoint
}

// ChartInput contains everything the renderer needs to draw the timeline
// chart. Series are drawn top to bottom in slice order, one panel each.
type ChartInput struct {
	Title       string
	Series      []ChartSeries
	PanelWidth  int // Width of each panel in pixels (default: 960)
	PanelHeight int // Height of each panel in pixels (default: 180)
}

// ChartRenderer draws the score timeline as an image.
type ChartRenderer interface {
	// Render draws one panel per series and returns the composed chart.
	Render(input ChartInput) (image.Image, error)

	// EncodePNG encodes a rendered chart for writing to disk.
	EncodePNG(img image.Image) ([]byte, error)
}
