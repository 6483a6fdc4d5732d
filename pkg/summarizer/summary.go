// Package summarizer provides summary generation for capture runs.
package summarizer

import (
	"time"

	"github.com/user/framescore/pkg/pipeline"
	"github.com/user/framescore/pkg/ports"
)

// Summary contains all data collected during a capture run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Capture target
	Target TargetInfo

	// Capture stage results
	Capture CaptureInfo

	// Scoring stage results
	Scoring ScoringInfo

	// Per-metric aggregates over the timeline
	Metrics []MetricStats

	// Rendered artifact details
	Artifact ArtifactInfo
}

// TargetInfo describes the capture target.
type TargetInfo struct {
	SourceKind string // "cdp" or "display"
	Descriptor string // Title/URL match or display index
}

// CaptureInfo contains capture stage measurements.
type CaptureInfo struct {
	RequestedRate float64
	Duration      time.Duration
	Ticks         int
	Frames        int
	FailedTicks   int
}

// EffectiveRate is the achieved frame rate over the run.
func (c CaptureInfo) EffectiveRate() float64 {
	if c.Duration <= 0 {
		return 0
	}
	return float64(c.Frames) / c.Duration.Seconds()
}

// ScoringInfo contains scoring stage measurements.
type ScoringInfo struct {
	Scored  int
	Dropped int
}

// MetricStats aggregates one metric's scores over the timeline.
type MetricStats struct {
	Kind ports.MetricKind
	Min  float64
	Mean float64
	Max  float64
}

// ArtifactInfo describes the rendered chart.
type ArtifactInfo struct {
	Path      string
	SizeBytes int
	Entries   int
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithTarget sets capture target information.
func (b *Builder) WithTarget(sourceKind, descriptor string) *Builder {
	b.summary.Target = TargetInfo{
		SourceKind: sourceKind,
		Descriptor: descriptor,
	}
	return b
}

// WithCapture sets capture stage measurements.
func (b *Builder) WithCapture(capture CaptureInfo) *Builder {
	b.summary.Capture = capture
	return b
}

// WithScoring sets scoring stage measurements.
func (b *Builder) WithScoring(scoring ScoringInfo) *Builder {
	b.summary.Scoring = scoring
	return b
}

// WithTimeline computes per-metric aggregates from the finished timeline.
func (b *Builder) WithTimeline(timeline pipeline.Timeline) *Builder {
	b.summary.Metrics = MetricStatsFromTimeline(timeline)
	return b
}

// WithArtifact sets artifact details.
func (b *Builder) WithArtifact(artifact ArtifactInfo) *Builder {
	b.summary.Artifact = artifact
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}

// MetricStatsFromTimeline computes min/mean/max per metric kind, in the
// timeline's sorted kind order.
func MetricStatsFromTimeline(timeline pipeline.Timeline) []MetricStats {
	kinds := timeline.Kinds()
	stats := make([]MetricStats, 0, len(kinds))
	for _, kind := range kinds {
		s := MetricStats{Kind: kind}
		sum := 0.0
		for i, v := range timeline {
			score := v.Scores[kind]
			if i == 0 || score < s.Min {
				s.Min = score
			}
			if i == 0 || score > s.Max {
				s.Max = score
			}
			sum += score
		}
		s.Mean = sum / float64(len(timeline))
		stats = append(stats, s)
	}
	return stats
}
