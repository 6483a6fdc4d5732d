package pipeline

import (
	"context"

	"github.com/user/framescore/pkg/ports"
)

// AggregateStage accumulates score vectors into the run timeline. It
// performs no scoring or capture work; its only responsibilities are
// ordered accumulation and end-of-stream detection.
type AggregateStage struct {
	logger ports.Logger
}

// NewAggregateStage creates an aggregation stage.
func NewAggregateStage(logger ports.Logger) *AggregateStage {
	return &AggregateStage{logger: logger.WithComponent("aggregate")}
}

// Run appends vectors in arrival order until the end-of-stream marker.
// The total count is not known in advance; the run is time-bounded, not
// count-bounded. If the input channel closes without a marker the partial
// timeline is returned together with ErrStreamTruncated.
func (s *AggregateStage) Run(ctx context.Context, in <-chan Envelope[ScoreVector]) (Timeline, error) {
	timeline := Timeline{}
	for env := range in {
		if env.EOS {
			s.logger.Debug("Timeline finalized with %d entries", len(timeline))
			return timeline, nil
		}
		timeline = append(timeline, env.Payload)
	}
	return timeline, ErrStreamTruncated
}
