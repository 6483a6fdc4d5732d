package pipeline

import (
	"context"
	"time"

	"github.com/user/framescore/pkg/ports"
)

// CaptureConfig contains parameters for the capture stage.
type CaptureConfig struct {
	Handle    ports.TargetHandle
	FrameRate float64       // Frames per second (> 0)
	Duration  time.Duration // Wall-clock run length (> 0)
}

// CaptureStats reports what the capture stage did during a run.
type CaptureStats struct {
	Ticks        int // Capture ticks attempted
	FramesPushed int // Frames handed to the scoring stage
	FailedTicks  int // Ticks skipped due to acquisition errors
}

// CaptureStage acquires frames from the frame source at a paced interval
// and pushes them downstream. It is the only writer on its output channel.
type CaptureStage struct {
	source ports.FrameSource
	clock  Clock
	sink   ports.DebugSink
	logger ports.Logger
}

// NewCaptureStage creates a capture stage. A nil clock selects the system
// clock.
func NewCaptureStage(source ports.FrameSource, clock Clock, sink ports.DebugSink, logger ports.Logger) *CaptureStage {
	if clock == nil {
		clock = SystemClock()
	}
	return &CaptureStage{
		source: source,
		clock:  clock,
		sink:   sink,
		logger: logger.WithComponent("capture"),
	}
}

// Run captures frames until the configured duration elapses, then emits
// the end-of-stream marker and closes the channel. Each tick records its
// start time, acquires one frame, and sleeps away any slack left of the
// 1/rate interval. A slow tick proceeds immediately; ticks are never
// skipped or doubled to catch up.
//
// Acquisition failures are counted and logged, and that tick produces no
// frame; capture continues. Context cancellation stops the loop early but
// still emits the marker so downstream stages quiesce.
func (s *CaptureStage) Run(ctx context.Context, cfg CaptureConfig, out chan<- Envelope[Frame]) (CaptureStats, error) {
	stats := CaptureStats{}
	interval := time.Duration(float64(time.Second) / cfg.FrameRate)
	started := s.clock.Now()

	defer func() {
		out <- EndOfStream[Frame]()
		close(out)
		s.logger.Debug("Capture finished: %d frames in %d ticks", stats.FramesPushed, stats.Ticks)
	}()

	for s.clock.Now().Sub(started) <= cfg.Duration {
		select {
		case <-ctx.Done():
			s.logger.Warn("Capture cancelled after %d ticks", stats.Ticks)
			return stats, ctx.Err()
		default:
		}

		tickStart := s.clock.Now()
		stats.Ticks++

		img, err := s.source.Capture(ctx, cfg.Handle)
		if err != nil {
			stats.FailedTicks++
			s.logger.Warn("Frame acquisition failed on tick %d: %s", stats.Ticks, err)
		} else {
			// Blocks when the channel is full; backpressure degrades the
			// effective rate instead of growing memory.
			out <- Next(Frame{CapturedAt: tickStart, Image: img})
			if s.sink.Enabled() {
				s.sink.SaveRawFrame(stats.FramesPushed, img)
			}
			stats.FramesPushed++
		}

		if slack := interval - s.clock.Now().Sub(tickStart); slack > 0 {
			s.clock.Sleep(slack)
		}
	}

	return stats, nil
}
