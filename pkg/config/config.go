// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/framescore/pkg/pipeline"
	"github.com/user/framescore/pkg/ports"
)

// Config represents the full configuration for framescore.
type Config struct {
	// Capture target
	Source SourceConfig `yaml:"source"`

	// Pipeline
	Rate        float64  `yaml:"rate"`         // Frames per second
	DurationSec float64  `yaml:"duration_sec"` // Run length in seconds
	Metrics     []string `yaml:"metrics"`      // Metric kinds; empty = all
	QueueDepth  int      `yaml:"queue_depth"`  // Stage channel capacity

	// Output
	Output string      `yaml:"output"`
	Chart  ChartConfig `yaml:"chart"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// SourceConfig selects and configures the frame source.
type SourceConfig struct {
	Kind string `yaml:"kind"` // "cdp" or "display"

	// CDP source
	AttachURL   string `yaml:"attach_url"`
	TargetTitle string `yaml:"target_title"`
	TargetURL   string `yaml:"target_url"`
	PageURL     string `yaml:"page_url"`
	ChromePath  string `yaml:"chrome_path"`
	Headless    bool   `yaml:"headless"`

	// Display source
	Display int           `yaml:"display"`
	Region  *RegionConfig `yaml:"region"`
}

// RegionConfig is a capture rectangle in display coordinates.
type RegionConfig struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Rectangle converts the region to an image.Rectangle.
func (r RegionConfig) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// ChartConfig represents chart rendering options.
type ChartConfig struct {
	Title       string `yaml:"title"`
	PanelWidth  int    `yaml:"panel_width"`
	PanelHeight int    `yaml:"panel_height"`

	// Optional hex theme overrides, e.g. "#1a1a2e".
	BackgroundColor string `yaml:"background_color"`
	LineColor       string `yaml:"line_color"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Source: SourceConfig{
			Kind:        "cdp",
			TargetTitle: "Meeting",
		},

		Rate:        2.0,
		DurationSec: 10.0,
		QueueDepth:  8,

		Output: "frame_timeline.png",
		Chart: ChartConfig{
			Title:       "Frame quality timeline",
			PanelWidth:  960,
			PanelHeight: 180,
		},

		LogLevel: "info",
		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// MetricKinds resolves the configured metric names to the closed kind
// set, sorted for deterministic scoring order. Empty selects all kinds.
func (c Config) MetricKinds() ([]ports.MetricKind, error) {
	if len(c.Metrics) == 0 {
		return ports.AllMetricKinds(), nil
	}
	seen := map[ports.MetricKind]bool{}
	kinds := make([]ports.MetricKind, 0, len(c.Metrics))
	for _, name := range c.Metrics {
		kind, err := ports.ParseMetricKind(name)
		if err != nil {
			return nil, err
		}
		if seen[kind] {
			continue
		}
		seen[kind] = true
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds, nil
}

// ToPipelineConfig converts Config to pipeline.Config.
func (c Config) ToPipelineConfig() (pipeline.Config, error) {
	kinds, err := c.MetricKinds()
	if err != nil {
		return pipeline.Config{}, fmt.Errorf("metrics: %w", err)
	}
	return pipeline.Config{
		FrameRate:   c.Rate,
		Duration:    time.Duration(c.DurationSec * float64(time.Second)),
		MetricKinds: kinds,
		QueueDepth:  c.QueueDepth,
		OutputPath:  c.Output,
		ChartTitle:  c.Chart.Title,
		PanelWidth:  c.Chart.PanelWidth,
		PanelHeight: c.Chart.PanelHeight,
	}, nil
}

// ParseColor parses a hex color string to color.Color.
func ParseColor(hex string) color.Color {
	if len(hex) == 0 {
		return color.Black
	}

	if hex[0] == '#' {
		hex = hex[1:]
	}

	if len(hex) != 6 {
		return color.Black
	}

	parse := func(hi, lo byte) uint8 {
		return hexValue(hi)<<4 | hexValue(lo)
	}
	return color.RGBA{
		R: parse(hex[0], hex[1]),
		G: parse(hex[2], hex[3]),
		B: parse(hex[4], hex[5]),
		A: 255,
	}
}

func hexValue(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}
