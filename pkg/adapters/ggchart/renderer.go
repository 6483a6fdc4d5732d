// Package ggchart renders score timelines using the gg library.
package ggchart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/user/framescore/pkg/ports"
)

// Theme defines chart styling.
type Theme struct {
	Background      color.Color
	PanelBackground color.Color
	Border          color.Color
	Grid            color.Color
	Line            color.Color
	Marker          color.Color
	Text            color.Color
}

// DefaultTheme returns the default dark theme.
func DefaultTheme() Theme {
	return Theme{
		Background:      color.RGBA{R: 26, G: 26, B: 46, A: 255},
		PanelBackground: color.RGBA{R: 34, G: 34, B: 59, A: 255},
		Border:          color.RGBA{R: 80, G: 80, B: 110, A: 255},
		Grid:            color.RGBA{R: 60, G: 60, B: 88, A: 255},
		Line:            color.RGBA{R: 74, G: 222, B: 128, A: 255},
		Marker:          color.RGBA{R: 134, G: 239, B: 172, A: 255},
		Text:            color.White,
	}
}

// Layout constants in pixels.
const (
	titleHeight  = 40
	panelGap     = 16
	marginLeft   = 72
	marginRight  = 16
	marginTop    = 24
	marginBottom = 22
	gridRows     = 4
)

// Renderer implements ports.ChartRenderer using gg. One panel is drawn
// per series, stacked vertically under a title strip.
type Renderer struct {
	theme Theme
}

// New creates a Renderer with the default theme.
func New() *Renderer {
	return &Renderer{theme: DefaultTheme()}
}

// NewWithTheme creates a Renderer with a custom theme.
func NewWithTheme(theme Theme) *Renderer {
	return &Renderer{theme: theme}
}

// Render draws the timeline chart. An input with no series still yields
// the title strip, so a run with zero scored frames produces an artifact.
func (r *Renderer) Render(input ports.ChartInput) (image.Image, error) {
	panelWidth := input.PanelWidth
	if panelWidth <= 0 {
		panelWidth = 960
	}
	panelHeight := input.PanelHeight
	if panelHeight <= 0 {
		panelHeight = 180
	}

	width := panelWidth
	height := titleHeight + len(input.Series)*(panelHeight+panelGap) + panelGap

	dc := gg.NewContext(width, height)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(r.theme.Background)
	dc.Clear()

	dc.SetColor(r.theme.Text)
	dc.DrawStringAnchored(input.Title, float64(width)/2, titleHeight/2, 0.5, 0.5)

	for i, series := range input.Series {
		top := titleHeight + i*(panelHeight+panelGap)
		r.drawPanel(dc, series, 0, top, panelWidth, panelHeight)
	}

	return dc.Image(), nil
}

// EncodePNG encodes a rendered chart for writing to disk.
func (r *Renderer) EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// drawPanel draws one metric's timeline into the given rectangle.
func (r *Renderer) drawPanel(dc *gg.Context, series ports.ChartSeries, x, y, w, h int) {
	dc.SetColor(r.theme.PanelBackground)
	dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	dc.Fill()
	dc.SetColor(r.theme.Border)
	dc.SetLineWidth(1)
	dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	dc.Stroke()

	dc.SetColor(r.theme.Text)
	dc.DrawStringAnchored(string(series.Kind), float64(x)+8, float64(y)+marginTop/2, 0, 0.5)

	plotX := float64(x + marginLeft)
	plotY := float64(y + marginTop)
	plotW := float64(w - marginLeft - marginRight)
	plotH := float64(h - marginTop - marginBottom)

	lo, hi := scoreRange(series.Points)

	// Horizontal grid with value labels
	for row := 0; row <= gridRows; row++ {
		gy := plotY + plotH*float64(row)/gridRows
		dc.SetColor(r.theme.Grid)
		dc.SetLineWidth(0.5)
		dc.DrawLine(plotX, gy, plotX+plotW, gy)
		dc.Stroke()

		value := hi - (hi-lo)*float64(row)/gridRows
		dc.SetColor(r.theme.Text)
		dc.DrawStringAnchored(fmt.Sprintf("%.3g", value), plotX-6, gy, 1, 0.5)
	}

	if len(series.Points) == 0 {
		dc.SetColor(r.theme.Text)
		dc.DrawStringAnchored("no data", plotX+plotW/2, plotY+plotH/2, 0.5, 0.5)
		return
	}

	first := series.Points[0].At
	last := series.Points[len(series.Points)-1].At
	span := last.Sub(first).Seconds()

	// Time axis labels
	dc.SetColor(r.theme.Text)
	dc.DrawStringAnchored(first.Format("15:04:05.000"), plotX, plotY+plotH+marginBottom/2, 0, 0.5)
	if span > 0 {
		dc.DrawStringAnchored(last.Format("15:04:05.000"), plotX+plotW, plotY+plotH+marginBottom/2, 1, 0.5)
	}

	// Score polyline with point markers
	toX := func(p ports.SamplePoint) float64 {
		if span <= 0 {
			return plotX + plotW/2
		}
		return plotX + plotW*p.At.Sub(first).Seconds()/span
	}
	toY := func(p ports.SamplePoint) float64 {
		return plotY + plotH*(hi-p.Score)/(hi-lo)
	}

	dc.SetColor(r.theme.Line)
	dc.SetLineWidth(1.5)
	for i := 1; i < len(series.Points); i++ {
		dc.DrawLine(toX(series.Points[i-1]), toY(series.Points[i-1]), toX(series.Points[i]), toY(series.Points[i]))
		dc.Stroke()
	}
	dc.SetColor(r.theme.Marker)
	for _, p := range series.Points {
		dc.DrawCircle(toX(p), toY(p), 2)
		dc.Fill()
	}
}

// scoreRange returns the padded value range for the y axis. A flat series
// is padded so the line sits mid-panel instead of on an edge.
func scoreRange(points []ports.SamplePoint) (lo, hi float64) {
	if len(points) == 0 {
		return 0, 1
	}
	lo, hi = points[0].Score, points[0].Score
	for _, p := range points {
		if p.Score < lo {
			lo = p.Score
		}
		if p.Score > hi {
			hi = p.Score
		}
	}
	if hi == lo {
		lo -= 0.5
		hi += 0.5
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

// Ensure Renderer implements ports.ChartRenderer
var _ ports.ChartRenderer = (*Renderer)(nil)
