// Package integration contains end-to-end tests wiring real adapters
// through the capture pipeline with a synthetic frame source.
package integration

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/user/framescore/pkg/adapters/filesink"
	"github.com/user/framescore/pkg/adapters/ggchart"
	"github.com/user/framescore/pkg/adapters/logger"
	"github.com/user/framescore/pkg/adapters/nrscore"
	"github.com/user/framescore/pkg/adapters/nullsink"
	"github.com/user/framescore/pkg/adapters/osfilesystem"
	"github.com/user/framescore/pkg/pipeline"
	"github.com/user/framescore/pkg/ports"
)

// instantClock advances virtual time on every Sleep so paced runs finish
// immediately.
type instantClock struct {
	mu  sync.Mutex
	now time.Time
}

func newInstantClock() *instantClock {
	return &instantClock{now: time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)}
}

func (c *instantClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *instantClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d > 0 {
		c.now = c.now.Add(d)
	}
}

// syntheticSource produces frames that lose detail over the run: early
// frames are a checkerboard, later frames fade to flat gray.
type syntheticSource struct {
	frames int
	total  int
}

func (s *syntheticSource) ResolveTarget(ctx context.Context) (ports.TargetHandle, error) {
	return "synthetic", nil
}

func (s *syntheticSource) Capture(ctx context.Context, handle ports.TargetHandle) (image.Image, error) {
	progress := float64(s.frames) / float64(s.total)
	s.frames++

	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			v := 128.0
			if (x+y)%2 == 0 {
				v += 127 * (1 - progress)
			} else {
				v -= 127 * (1 - progress)
			}
			img.SetRGBA(x, y, color.RGBA{uint8(v), uint8(v), uint8(v), 255})
		}
	}
	return img, nil
}

func (s *syntheticSource) Close() error {
	return nil
}

func runConfig(output string) pipeline.Config {
	cfg := pipeline.DefaultConfig()
	cfg.FrameRate = 2
	cfg.Duration = 3 * time.Second
	cfg.OutputPath = output
	return cfg
}

// TestEndToEndRun drives a full run through the real scorer, renderer
// and filesystem, checking the artifact and the debug dumps.
func TestEndToEndRun(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "chart.png")

	source := &syntheticSource{total: 8}
	fs := osfilesystem.New()
	sink := filesink.New(filepath.Join(dir, "debug"), fs)

	p := pipeline.New(source, nrscore.New(), ggchart.New(), fs, sink, newInstantClock(), logger.NewNoop())
	result, err := p.Run(context.Background(), runConfig(output))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 2 fps over 3s: 7 inclusive ticks against an instant source.
	if got := len(result.Timeline); got < 5 || got > 7 {
		t.Errorf("expected 5 to 7 timeline entries, got %d", got)
	}

	// Every entry carries one score per default metric kind.
	for i, v := range result.Timeline {
		if len(v.Scores) != len(ports.AllMetricKinds()) {
			t.Errorf("entry %d has %d scores, want %d", i, len(v.Scores), len(ports.AllMetricKinds()))
		}
	}

	// The chart artifact exists and is a PNG.
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("expected PNG magic bytes in the chart artifact")
	}
	if result.ArtifactSize != len(data) {
		t.Errorf("reported size %d, file has %d bytes", result.ArtifactSize, len(data))
	}

	// Debug dumps landed next to the frames.
	for _, name := range []string{"timeline.json", "timeline.csv"} {
		if _, err := os.Stat(filepath.Join(dir, "debug", name)); err != nil {
			t.Errorf("expected debug dump %s: %v", name, err)
		}
	}
	frames, err := os.ReadDir(filepath.Join(dir, "debug", "frames"))
	if err != nil {
		t.Fatalf("read frames dir: %v", err)
	}
	if len(frames) != result.Capture.FramesPushed {
		t.Errorf("saved %d raw frames, captured %d", len(frames), result.Capture.FramesPushed)
	}
}

// TestScoresTrackFrameContent checks that the real metrics respond to
// the synthetic degradation: sharpness and contrast fall as the frames
// fade to flat gray.
func TestScoresTrackFrameContent(t *testing.T) {
	dir := t.TempDir()

	source := &syntheticSource{total: 8}
	p := pipeline.New(source, nrscore.New(), ggchart.New(), osfilesystem.New(), nullsink.New(), newInstantClock(), logger.NewNoop())
	result, err := p.Run(context.Background(), runConfig(filepath.Join(dir, "chart.png")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Timeline) < 4 {
		t.Fatalf("need at least 4 entries, got %d", len(result.Timeline))
	}

	first := result.Timeline[0].Scores
	last := result.Timeline[len(result.Timeline)-1].Scores
	for _, kind := range []ports.MetricKind{ports.MetricSharpness, ports.MetricContrast} {
		if last[kind] >= first[kind] {
			t.Errorf("%s: expected decay, first=%v last=%v", kind, first[kind], last[kind])
		}
	}

	// Timeline entries stay in capture order.
	for i := 1; i < len(result.Timeline); i++ {
		if !result.Timeline[i].ObservedAt.After(result.Timeline[i-1].ObservedAt) {
			t.Fatal("timeline out of capture order")
		}
	}
}
