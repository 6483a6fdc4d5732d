package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/user/framescore/pkg/ports"
)

// Config contains all parameters for one pipeline run.
type Config struct {
	FrameRate   float64            // Target capture rate in frames/second
	Duration    time.Duration      // Wall-clock run length
	MetricKinds []ports.MetricKind // Closed metric set, sorted
	QueueDepth  int                // Capacity of each stage channel
	OutputPath  string             // Where the rendered chart is written
	ChartTitle  string
	PanelWidth  int
	PanelHeight int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		FrameRate:   2.0,
		Duration:    10 * time.Second,
		MetricKinds: ports.AllMetricKinds(),
		QueueDepth:  8,
		ChartTitle:  "Frame quality timeline",
		PanelWidth:  960,
		PanelHeight: 180,
	}
}

// Validate checks the configuration before a run.
func (c Config) Validate() error {
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be positive, got %g", c.FrameRate)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %s", c.Duration)
	}
	if len(c.MetricKinds) == 0 {
		return fmt.Errorf("at least one metric kind is required")
	}
	if c.QueueDepth <= 0 {
		return fmt.Errorf("queue depth must be positive, got %d", c.QueueDepth)
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	return nil
}

// RunResult contains the results of a pipeline run for summary generation.
type RunResult struct {
	Capture      CaptureStats
	Scoring      ScoreStats
	Timeline     Timeline
	OutputPath   string
	ArtifactSize int
	Elapsed      time.Duration
}

// Pipeline wires the three stages together and owns their lifecycle. It
// holds no domain data itself.
type Pipeline struct {
	source ports.FrameSource
	scorer ports.Scorer
	chart  ports.ChartRenderer
	fs     ports.FileSystem
	sink   ports.DebugSink
	clock  Clock
	logger ports.Logger
}

// New creates a Pipeline. A nil clock selects the system clock.
func New(
	source ports.FrameSource,
	scorer ports.Scorer,
	chart ports.ChartRenderer,
	fs ports.FileSystem,
	sink ports.DebugSink,
	clock Clock,
	logger ports.Logger,
) *Pipeline {
	if clock == nil {
		clock = SystemClock()
	}
	return &Pipeline{
		source: source,
		scorer: scorer,
		chart:  chart,
		fs:     fs,
		sink:   sink,
		clock:  clock,
		logger: logger,
	}
}

// Run executes one complete capture run: resolve the target, start the
// three stages as goroutines connected by bounded channels, wait for all
// of them, then render the timeline chart.
//
// The target is resolved before either channel exists, so a missing
// target aborts with no channel activity and no partial run. Termination
// is a three-hop relay: capture emits the end-of-stream marker, scoring
// forwards it, aggregation finalizes on it. The group wait below is the
// only synchronization point guaranteeing the pipeline has quiesced
// before the timeline is treated as final.
//
// When a stage fails but a partial timeline exists, the chart is still
// rendered and the stage error returned alongside the result.
func (p *Pipeline) Run(ctx context.Context, cfg Config) (RunResult, error) {
	result := RunResult{OutputPath: cfg.OutputPath}

	if err := cfg.Validate(); err != nil {
		return result, fmt.Errorf("config: %w", err)
	}

	p.logger.Info("Resolving capture target")
	handle, err := p.source.ResolveTarget(ctx)
	if err != nil {
		return result, fmt.Errorf("resolve target: %w", err)
	}
	p.logger.Info("Capturing at %g fps for %s", cfg.FrameRate, cfg.Duration)

	frames := make(chan Envelope[Frame], cfg.QueueDepth)
	vectors := make(chan Envelope[ScoreVector], cfg.QueueDepth)

	captureStage := NewCaptureStage(p.source, p.clock, p.sink, p.logger)
	scoreStage := NewScoreStage(p.scorer, cfg.MetricKinds, p.logger)
	aggregateStage := NewAggregateStage(p.logger)

	started := time.Now()

	var g errgroup.Group
	g.Go(func() error {
		stats, err := captureStage.Run(ctx, CaptureConfig{
			Handle:    handle,
			FrameRate: cfg.FrameRate,
			Duration:  cfg.Duration,
		}, frames)
		result.Capture = stats
		if err != nil {
			return fmt.Errorf("capture stage: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		stats, err := scoreStage.Run(ctx, frames, vectors)
		result.Scoring = stats
		if err != nil {
			return fmt.Errorf("score stage: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		timeline, err := aggregateStage.Run(ctx, vectors)
		result.Timeline = timeline
		if err != nil {
			return fmt.Errorf("aggregate stage: %w", err)
		}
		return nil
	})

	stageErr := g.Wait()
	result.Elapsed = time.Since(started)

	if stageErr != nil && len(result.Timeline) == 0 {
		return result, stageErr
	}
	if stageErr != nil {
		p.logger.Warn("Stage failed, rendering partial timeline of %d entries: %s", len(result.Timeline), stageErr)
	}

	if err := p.render(cfg, &result); err != nil {
		return result, err
	}

	if p.sink.Enabled() {
		if data, err := json.MarshalIndent(result.Timeline, "", "  "); err == nil {
			p.sink.SaveTimelineJSON(data)
		}
		p.sink.SaveTimelineCSV(result.Timeline.MarshalCSV())
	}

	return result, stageErr
}

func (p *Pipeline) render(cfg Config, result *RunResult) error {
	p.logger.Info("Rendering chart with %d entries", len(result.Timeline))

	input := result.Timeline.ChartInput(cfg.ChartTitle, cfg.PanelWidth, cfg.PanelHeight)
	img, err := p.chart.Render(input)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	data, err := p.chart.EncodePNG(img)
	if err != nil {
		return fmt.Errorf("encode chart: %w", err)
	}
	if err := p.fs.WriteFile(cfg.OutputPath, data); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}

	result.ArtifactSize = len(data)
	p.logger.Info("Chart written to %s (%d bytes)", cfg.OutputPath, len(data))
	return nil
}
