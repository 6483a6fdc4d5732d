// Package main provides the CLI entry point for framescore.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/framescore/pkg/adapters/cdpsource"
	"github.com/user/framescore/pkg/adapters/displaysource"
	"github.com/user/framescore/pkg/adapters/filesink"
	"github.com/user/framescore/pkg/adapters/ggchart"
	"github.com/user/framescore/pkg/adapters/logger"
	"github.com/user/framescore/pkg/adapters/nrscore"
	"github.com/user/framescore/pkg/adapters/nullsink"
	"github.com/user/framescore/pkg/adapters/osfilesystem"
	"github.com/user/framescore/pkg/config"
	"github.com/user/framescore/pkg/pipeline"
	"github.com/user/framescore/pkg/ports"
	"github.com/user/framescore/pkg/summarizer"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "framescore",
		Usage:   l10n.T("Score video-call frame quality over time"),
		Version: version,
		Commands: []*cli.Command{
			captureCommand(),
			versionCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func captureCommand() *cli.Command {
	return &cli.Command{
		Name:  "capture",
		Usage: l10n.T("Capture frames from a call window and render the score timeline"),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("Path to YAML configuration file")},

			// Capture target
			&cli.StringFlag{Name: "source", Usage: l10n.T("Frame source kind (cdp or display)")},
			&cli.StringFlag{Name: "title", Usage: l10n.T("Substring matched against tab titles")},
			&cli.StringFlag{Name: "url", Usage: l10n.T("Substring matched against tab URLs")},
			&cli.StringFlag{Name: "attach", Usage: l10n.T("DevTools endpoint of a running browser (e.g. ws://127.0.0.1:9222)")},
			&cli.StringFlag{Name: "page", Usage: l10n.T("URL to open when launching a fresh browser")},
			&cli.StringFlag{Name: "chrome-path", Usage: l10n.T("Path to Chrome executable")},
			&cli.BoolFlag{Name: "headless", Usage: l10n.T("Run a launched browser headless")},
			&cli.IntFlag{Name: "display", Usage: l10n.T("Display index for the display source")},

			// Pipeline
			&cli.Float64Flag{Name: "rate", Aliases: []string{"r"}, Usage: l10n.T("Capture rate in frames per second")},
			&cli.Float64Flag{Name: "duration", Aliases: []string{"d"}, Usage: l10n.T("Run length in seconds")},
			&cli.StringSliceFlag{Name: "metric", Aliases: []string{"m"}, Usage: l10n.T("Metric kind to score (repeatable; default: all)")},
			&cli.IntFlag{Name: "queue-depth", Usage: l10n.T("Stage channel capacity")},

			// Output
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: l10n.T("Output PNG file path")},
			&cli.StringFlag{Name: "chart-title", Usage: l10n.T("Chart title")},
			&cli.StringFlag{Name: "summary", Usage: l10n.T("Write the run summary markdown to this path")},

			// Logging
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Value: "info", Usage: l10n.T("Log level (debug, info, warn, error)")},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: l10n.T("Suppress all output")},

			// Debug
			&cli.BoolFlag{Name: "debug", Usage: l10n.T("Save frames and timeline dumps for diagnostics")},
			&cli.StringFlag{Name: "debug-dir", Usage: l10n.T("Directory for debug output")},
		},
		Action: runCapture,
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: l10n.T("Print the version"),
		Action: func(c *cli.Context) error {
			fmt.Println(c.App.Version)
			return nil
		},
	}
}

func runCapture(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}

	var log ports.Logger
	if c.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(c.String("log-level")))
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, err := buildSource(cfg.Source)
	if err != nil {
		return err
	}
	defer source.Close()

	fs := osfilesystem.New()

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs)
	} else {
		sink = nullsink.New()
	}

	chart := buildChart(cfg.Chart)
	scorer := nrscore.New()

	pcfg, err := cfg.ToPipelineConfig()
	if err != nil {
		return err
	}

	p := pipeline.New(source, scorer, chart, fs, sink, nil, log)
	result, runErr := p.Run(ctx, pcfg)

	if result.ArtifactSize > 0 {
		summary := buildSummary(cfg, result)
		formatter := summarizer.NewMarkdownFormatter(summarizer.WithVersion(version))

		formatted := formatter.Format(summary)
		if !c.Bool("quiet") {
			fmt.Println(formatted)
		}
		if sink.Enabled() {
			sink.SaveSummary([]byte(formatted))
		}
		if path := c.String("summary"); path != "" {
			if err := summarizer.NewWriter(formatter).Write(path, summary); err != nil {
				log.Warn("Write summary: %s", err)
			}
		}
	}

	if runErr != nil {
		log.Error("Run failed: %s", runErr)
		return cli.Exit("", 1)
	}
	return nil
}

// buildConfig merges the optional config file with CLI flag overrides.
func buildConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if c.IsSet("source") {
		cfg.Source.Kind = c.String("source")
	}
	if c.IsSet("title") {
		cfg.Source.TargetTitle = c.String("title")
	}
	if c.IsSet("url") {
		cfg.Source.TargetURL = c.String("url")
	}
	if c.IsSet("attach") {
		cfg.Source.AttachURL = c.String("attach")
	}
	if c.IsSet("page") {
		cfg.Source.PageURL = c.String("page")
	}
	if c.IsSet("chrome-path") {
		cfg.Source.ChromePath = c.String("chrome-path")
	}
	if c.IsSet("headless") {
		cfg.Source.Headless = c.Bool("headless")
	}
	if c.IsSet("display") {
		cfg.Source.Display = c.Int("display")
	}
	if c.IsSet("rate") {
		cfg.Rate = c.Float64("rate")
	}
	if c.IsSet("duration") {
		cfg.DurationSec = c.Float64("duration")
	}
	if c.IsSet("metric") {
		cfg.Metrics = c.StringSlice("metric")
	}
	if c.IsSet("queue-depth") {
		cfg.QueueDepth = c.Int("queue-depth")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("chart-title") {
		cfg.Chart.Title = c.String("chart-title")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}

	return cfg, nil
}

// buildSource constructs the configured frame source adapter.
func buildSource(cfg config.SourceConfig) (ports.FrameSource, error) {
	switch cfg.Kind {
	case "cdp":
		return cdpsource.New(cdpsource.Options{
			AttachURL:   cfg.AttachURL,
			TargetTitle: cfg.TargetTitle,
			TargetURL:   cfg.TargetURL,
			PageURL:     cfg.PageURL,
			ChromePath:  cfg.ChromePath,
			Headless:    cfg.Headless,
		}), nil
	case "display":
		opts := displaysource.Options{Display: cfg.Display}
		if cfg.Region != nil {
			rect := cfg.Region.Rectangle()
			opts.Region = &rect
		}
		return displaysource.New(opts), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q (want cdp or display)", cfg.Kind)
	}
}

// buildChart constructs the chart renderer with any theme overrides.
func buildChart(cfg config.ChartConfig) *ggchart.Renderer {
	if cfg.BackgroundColor == "" && cfg.LineColor == "" {
		return ggchart.New()
	}
	theme := ggchart.DefaultTheme()
	if cfg.BackgroundColor != "" {
		theme.Background = config.ParseColor(cfg.BackgroundColor)
	}
	if cfg.LineColor != "" {
		theme.Line = config.ParseColor(cfg.LineColor)
	}
	return ggchart.NewWithTheme(theme)
}

// buildSummary assembles the run summary from the pipeline result.
func buildSummary(cfg config.Config, result pipeline.RunResult) *summarizer.Summary {
	return summarizer.NewBuilder().
		WithTarget(cfg.Source.Kind, targetDescriptor(cfg.Source)).
		WithCapture(summarizer.CaptureInfo{
			RequestedRate: cfg.Rate,
			Duration:      result.Elapsed,
			Ticks:         result.Capture.Ticks,
			Frames:        result.Capture.FramesPushed,
			FailedTicks:   result.Capture.FailedTicks,
		}).
		WithScoring(summarizer.ScoringInfo{
			Scored:  result.Scoring.FramesScored,
			Dropped: result.Scoring.FramesDropped,
		}).
		WithTimeline(result.Timeline).
		WithArtifact(summarizer.ArtifactInfo{
			Path:      result.OutputPath,
			SizeBytes: result.ArtifactSize,
			Entries:   len(result.Timeline),
		}).
		Build()
}

func targetDescriptor(cfg config.SourceConfig) string {
	switch cfg.Kind {
	case "display":
		return fmt.Sprintf("display %d", cfg.Display)
	default:
		if cfg.TargetTitle != "" {
			return fmt.Sprintf("title ~ %q", cfg.TargetTitle)
		}
		if cfg.TargetURL != "" {
			return fmt.Sprintf("url ~ %q", cfg.TargetURL)
		}
		return cfg.PageURL
	}
}
