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

var testKinds = []ports.MetricKind{ports.MetricBrightness, ports.MetricContrast, ports.MetricSharpness}

// feedFrames pushes n frames followed by the end-of-stream marker.
func feedFrames(n int) chan Envelope[Frame] {
	in := make(chan Envelope[Frame], n+1)
	base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		in <- Next(Frame{
			CapturedAt: base.Add(time.Duration(i) * 500 * time.Millisecond),
			Image:      image.NewRGBA(image.Rect(0, 0, 4, 4)),
		})
	}
	in <- EndOfStream[Frame]()
	close(in)
	return in
}

func TestScoreStage_CompleteVectors(t *testing.T) {
	scorer := &mocks.Scorer{
		ScoreFunc: func(img image.Image, kind ports.MetricKind) (float64, error) {
			return float64(len(kind)), nil
		},
	}
	stage := NewScoreStage(scorer, testKinds, logger.NewNoop())

	out := make(chan Envelope[ScoreVector], 8)
	stats, err := stage.Run(context.Background(), feedFrames(5), out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.FramesScored != 5 {
		t.Errorf("expected 5 scored frames, got %d", stats.FramesScored)
	}

	count := 0
	for env := range out {
		if env.EOS {
			break
		}
		count++
		// Exactly one entry per configured kind, no extras.
		if len(env.Payload.Scores) != len(testKinds) {
			t.Fatalf("vector has %d entries, want %d", len(env.Payload.Scores), len(testKinds))
		}
		for _, kind := range testKinds {
			want := float64(len(kind))
			if got, ok := env.Payload.Scores[kind]; !ok || got != want {
				t.Errorf("kind %s: got %v (present=%v), want %v", kind, got, ok, want)
			}
		}
	}
	if count != 5 {
		t.Errorf("expected 5 vectors before the marker, got %d", count)
	}
}

func TestScoreStage_DropsFailedFrame(t *testing.T) {
	frameIndex := 0
	scorer := &mocks.Scorer{
		ScoreFunc: func(img image.Image, kind ports.MetricKind) (float64, error) {
			if kind == testKinds[0] {
				frameIndex++
			}
			if frameIndex == 3 {
				return 0, errors.New("kernel exploded")
			}
			return 1.0, nil
		},
	}
	stage := NewScoreStage(scorer, testKinds, logger.NewNoop())

	out := make(chan Envelope[ScoreVector], 8)
	stats, err := stage.Run(context.Background(), feedFrames(5), out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.FramesScored != 4 {
		t.Errorf("expected 4 scored frames, got %d", stats.FramesScored)
	}
	if stats.FramesDropped != 1 {
		t.Errorf("expected 1 dropped frame, got %d", stats.FramesDropped)
	}

	var envs []Envelope[ScoreVector]
	for env := range out {
		envs = append(envs, env)
	}
	if len(envs) != 5 {
		t.Fatalf("expected 4 vectors plus marker, got %d envelopes", len(envs))
	}
	if !envs[len(envs)-1].EOS {
		t.Error("expected end-of-stream marker last")
	}
}

func TestScoreStage_PreservesOrder(t *testing.T) {
	stage := NewScoreStage(&mocks.Scorer{}, testKinds, logger.NewNoop())

	out := make(chan Envelope[ScoreVector], 16)
	if _, err := stage.Run(context.Background(), feedFrames(10), out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var prev time.Time
	for env := range out {
		if env.EOS {
			break
		}
		if !prev.IsZero() && env.Payload.ObservedAt.Before(prev) {
			t.Fatal("vectors out of capture order")
		}
		prev = env.Payload.ObservedAt
	}
}

func TestScoreStage_TruncatedInputForwardsMarker(t *testing.T) {
	in := make(chan Envelope[Frame], 2)
	in <- Next(Frame{CapturedAt: time.Now(), Image: image.NewRGBA(image.Rect(0, 0, 4, 4))})
	close(in) // No marker: the upstream channel died.

	stage := NewScoreStage(&mocks.Scorer{}, testKinds, logger.NewNoop())
	out := make(chan Envelope[ScoreVector], 8)
	_, err := stage.Run(context.Background(), in, out)
	if !errors.Is(err, ErrStreamTruncated) {
		t.Fatalf("expected ErrStreamTruncated, got %v", err)
	}

	var envs []Envelope[ScoreVector]
	for env := range out {
		envs = append(envs, env)
	}
	if len(envs) != 2 || !envs[1].EOS {
		t.Fatalf("expected scored vector plus forwarded marker, got %d envelopes", len(envs))
	}
}

func TestScoreStage_ZeroFrames(t *testing.T) {
	stage := NewScoreStage(&mocks.Scorer{}, testKinds, logger.NewNoop())
	out := make(chan Envelope[ScoreVector], 2)
	stats, err := stage.Run(context.Background(), feedFrames(0), out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.FramesScored != 0 || stats.FramesDropped != 0 {
		t.Errorf("expected empty stats, got %+v", stats)
	}

	env, ok := <-out
	if !ok || !env.EOS {
		t.Fatal("expected the marker as the only envelope")
	}
	if _, ok := <-out; ok {
		t.Fatal("expected channel closed after the marker")
	}
}
