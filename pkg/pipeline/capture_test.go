package pipeline

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/user/framescore/pkg/adapters/logger"
	"github.com/user/framescore/pkg/mocks"
	"github.com/user/framescore/pkg/ports"
)

// drainFrames collects every envelope from the channel.
func drainFrames(ch <-chan Envelope[Frame]) []Envelope[Frame] {
	var envs []Envelope[Frame]
	for env := range ch {
		envs = append(envs, env)
	}
	return envs
}

func TestCaptureStage_PacedRun(t *testing.T) {
	clock := newFakeClock()
	source := &mocks.FrameSource{}
	stage := NewCaptureStage(source, clock, mocks.NewDebugSink(false), logger.NewNoop())

	out := make(chan Envelope[Frame], 64)
	stats, err := stage.Run(context.Background(), CaptureConfig{
		Handle:    "test",
		FrameRate: 2,
		Duration:  3 * time.Second,
	}, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	envs := drainFrames(out)

	// 2 fps over 3s with an instant source ticks at 0.0s through 3.0s
	// inclusive: 7 frames plus the end-of-stream marker.
	if len(envs) != 8 {
		t.Fatalf("expected 8 envelopes, got %d", len(envs))
	}
	if stats.FramesPushed != 7 {
		t.Errorf("expected 7 frames pushed, got %d", stats.FramesPushed)
	}
	if stats.FailedTicks != 0 {
		t.Errorf("expected no failed ticks, got %d", stats.FailedTicks)
	}

	// Marker appears exactly once, last.
	for i, env := range envs {
		if env.EOS != (i == len(envs)-1) {
			t.Fatalf("envelope %d: EOS=%v", i, env.EOS)
		}
	}

	// Timestamps are spaced exactly one interval apart and monotonic.
	interval := 500 * time.Millisecond
	for i := 1; i < len(envs)-1; i++ {
		gap := envs[i].Payload.CapturedAt.Sub(envs[i-1].Payload.CapturedAt)
		if gap != interval {
			t.Errorf("frame %d: gap %s, want %s", i, gap, interval)
		}
	}
}

func TestCaptureStage_PacingNeverSpeedsUp(t *testing.T) {
	clock := newFakeClock()
	source := &mocks.FrameSource{}
	stage := NewCaptureStage(source, clock, mocks.NewDebugSink(false), logger.NewNoop())

	out := make(chan Envelope[Frame], 64)
	if _, err := stage.Run(context.Background(), CaptureConfig{
		Handle:    "test",
		FrameRate: 4,
		Duration:  2 * time.Second,
	}, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	drainFrames(out)

	for i, d := range clock.Slept() {
		if d > 250*time.Millisecond {
			t.Errorf("sleep %d: %s exceeds the tick interval", i, d)
		}
	}
}

func TestCaptureStage_SlowTickSkipsSleep(t *testing.T) {
	clock := newFakeClock()
	source := &mocks.FrameSource{
		CaptureFunc: func(ctx context.Context, handle ports.TargetHandle) (image.Image, error) {
			// Acquisition slower than the 500ms interval.
			clock.Advance(600 * time.Millisecond)
			return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
		},
	}
	stage := NewCaptureStage(source, clock, mocks.NewDebugSink(false), logger.NewNoop())

	out := make(chan Envelope[Frame], 64)
	stats, err := stage.Run(context.Background(), CaptureConfig{
		Handle:    "test",
		FrameRate: 2,
		Duration:  3 * time.Second,
	}, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	drainFrames(out)

	// Slow ticks proceed immediately: the stage never sleeps, and the
	// effective rate degrades instead of doubling up ticks.
	if len(clock.Slept()) != 0 {
		t.Errorf("expected no sleeps, got %d", len(clock.Slept()))
	}
	if stats.FramesPushed >= 7 {
		t.Errorf("expected a degraded rate below 7 frames, got %d", stats.FramesPushed)
	}
}

func TestCaptureStage_AcquisitionErrorSkipsTick(t *testing.T) {
	clock := newFakeClock()
	tick := 0
	source := &mocks.FrameSource{
		CaptureFunc: func(ctx context.Context, handle ports.TargetHandle) (image.Image, error) {
			tick++
			if tick == 2 {
				return nil, errors.New("transient grab failure")
			}
			return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
		},
	}
	stage := NewCaptureStage(source, clock, mocks.NewDebugSink(false), logger.NewNoop())

	out := make(chan Envelope[Frame], 64)
	stats, err := stage.Run(context.Background(), CaptureConfig{
		Handle:    "test",
		FrameRate: 2,
		Duration:  3 * time.Second,
	}, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	envs := drainFrames(out)

	if stats.FailedTicks != 1 {
		t.Errorf("expected 1 failed tick, got %d", stats.FailedTicks)
	}
	if stats.FramesPushed != 6 {
		t.Errorf("expected 6 frames pushed, got %d", stats.FramesPushed)
	}
	if !envs[len(envs)-1].EOS {
		t.Error("expected end-of-stream marker last")
	}
}

func TestCaptureStage_CancelStillEmitsMarker(t *testing.T) {
	clock := newFakeClock()
	ctx, cancel := context.WithCancel(context.Background())
	source := &mocks.FrameSource{
		CaptureFunc: func(ctx context.Context, handle ports.TargetHandle) (image.Image, error) {
			cancel() // Cancel mid-run; the next tick check observes it.
			return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
		},
	}
	stage := NewCaptureStage(source, clock, mocks.NewDebugSink(false), logger.NewNoop())

	out := make(chan Envelope[Frame], 64)
	_, err := stage.Run(ctx, CaptureConfig{
		Handle:    "test",
		FrameRate: 2,
		Duration:  time.Minute,
	}, out)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	envs := drainFrames(out)
	if len(envs) == 0 || !envs[len(envs)-1].EOS {
		t.Error("expected end-of-stream marker even after cancellation")
	}
}

func TestCaptureStage_SavesFramesToDebugSink(t *testing.T) {
	clock := newFakeClock()
	sink := mocks.NewDebugSink(true)
	stage := NewCaptureStage(&mocks.FrameSource{}, clock, sink, logger.NewNoop())

	out := make(chan Envelope[Frame], 64)
	stats, err := stage.Run(context.Background(), CaptureConfig{
		Handle:    "test",
		FrameRate: 1,
		Duration:  2 * time.Second,
	}, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	drainFrames(out)

	if len(sink.RawFrames) != stats.FramesPushed {
		t.Errorf("expected %d frames in sink, got %d", stats.FramesPushed, len(sink.RawFrames))
	}
}
