package pipeline

import (
	"context"

	"github.com/user/framescore/pkg/ports"
)

// ScoreStats reports what the scoring stage did during a run.
type ScoreStats struct {
	FramesScored  int // Complete vectors handed downstream
	FramesDropped int // Frames discarded after a scoring error
}

// ScoreStage consumes frames, computes one score per configured metric
// kind, and pushes complete score vectors downstream. It is the only
// reader of its input channel and the only writer of its output channel.
type ScoreStage struct {
	scorer ports.Scorer
	kinds  []ports.MetricKind
	logger ports.Logger
}

// NewScoreStage creates a scoring stage over a fixed, closed metric set.
// Kinds must already be sorted; the stage iterates them in slice order so
// the same frame always yields the same vector.
func NewScoreStage(scorer ports.Scorer, kinds []ports.MetricKind, logger ports.Logger) *ScoreStage {
	return &ScoreStage{
		scorer: scorer,
		kinds:  kinds,
		logger: logger.WithComponent("score"),
	}
}

// Run scores frames until the end-of-stream marker arrives, forwards the
// marker, and stops. A frame whose scoring fails on any kind is dropped
// whole (no partial vectors) and counted; the run continues. If the input
// channel closes without a marker the stage still forwards one downstream
// and reports ErrStreamTruncated.
func (s *ScoreStage) Run(ctx context.Context, in <-chan Envelope[Frame], out chan<- Envelope[ScoreVector]) (ScoreStats, error) {
	stats := ScoreStats{}

	defer func() {
		out <- EndOfStream[ScoreVector]()
		close(out)
		s.logger.Debug("Scoring finished: %d scored, %d dropped", stats.FramesScored, stats.FramesDropped)
	}()

	for env := range in {
		if env.EOS {
			return stats, nil
		}

		frame := env.Payload
		scores := make(map[ports.MetricKind]float64, len(s.kinds))
		ok := true
		for _, kind := range s.kinds {
			value, err := s.scorer.Score(frame.Image, kind)
			if err != nil {
				s.logger.Warn("Scoring %s failed, dropping frame at %s: %s", string(kind), frame.CapturedAt.Format("15:04:05.000"), err)
				ok = false
				break
			}
			scores[kind] = value
		}
		if !ok {
			stats.FramesDropped++
			continue
		}

		out <- Next(ScoreVector{ObservedAt: frame.CapturedAt, Scores: scores})
		stats.FramesScored++
	}

	return stats, ErrStreamTruncated
}
