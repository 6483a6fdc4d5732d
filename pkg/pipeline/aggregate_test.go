package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/user/framescore/pkg/adapters/logger"
	"github.com/user/framescore/pkg/ports"
)

func feedVectors(n int) chan Envelope[ScoreVector] {
	in := make(chan Envelope[ScoreVector], n+1)
	base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		in <- Next(ScoreVector{
			ObservedAt: base.Add(time.Duration(i) * time.Second),
			Scores:     map[ports.MetricKind]float64{ports.MetricSharpness: float64(i)},
		})
	}
	in <- EndOfStream[ScoreVector]()
	close(in)
	return in
}

func TestAggregateStage_OrderedAccumulation(t *testing.T) {
	stage := NewAggregateStage(logger.NewNoop())

	timeline, err := stage.Run(context.Background(), feedVectors(6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(timeline) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(timeline))
	}
	for i := 1; i < len(timeline); i++ {
		if timeline[i].ObservedAt.Before(timeline[i-1].ObservedAt) {
			t.Fatal("timeline out of order")
		}
	}
	// Arrival order is preserved, not re-sorted.
	for i, v := range timeline {
		if v.Scores[ports.MetricSharpness] != float64(i) {
			t.Errorf("entry %d holds score %v", i, v.Scores[ports.MetricSharpness])
		}
	}
}

func TestAggregateStage_EmptyRun(t *testing.T) {
	stage := NewAggregateStage(logger.NewNoop())
	timeline, err := stage.Run(context.Background(), feedVectors(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(timeline) != 0 {
		t.Errorf("expected empty timeline, got %d entries", len(timeline))
	}
}

func TestAggregateStage_TruncatedInput(t *testing.T) {
	in := make(chan Envelope[ScoreVector], 1)
	in <- Next(ScoreVector{ObservedAt: time.Now()})
	close(in) // No marker.

	stage := NewAggregateStage(logger.NewNoop())
	timeline, err := stage.Run(context.Background(), in)
	if !errors.Is(err, ErrStreamTruncated) {
		t.Fatalf("expected ErrStreamTruncated, got %v", err)
	}
	if len(timeline) != 1 {
		t.Errorf("expected the partial timeline to survive, got %d entries", len(timeline))
	}
}
