// Package pipeline implements the capture, scoring and aggregation stages
// and the channel plumbing that connects them.
package pipeline

import (
	"bytes"
	"errors"
	"image"
	"sort"
	"strconv"
	"time"

	"github.com/user/framescore/pkg/ports"
)

// Frame is one timestamped raw pixel buffer captured from the target.
// A frame is owned by exactly one stage at a time and is discarded after
// scoring; frames are memory-heavy and must not accumulate.
type Frame struct {
	CapturedAt time.Time
	Image      image.Image
}

// ScoreVector holds one score per configured metric kind for a single
// frame, keyed by kind. A vector is always complete: partially scored
// frames are dropped, never emitted.
type ScoreVector struct {
	ObservedAt time.Time                    `json:"observed_at"`
	Scores     map[ports.MetricKind]float64 `json:"scores"`
}

// Timeline is the capture-ordered sequence of all score vectors in a run.
type Timeline []ScoreVector

// Kinds returns the metric kinds present in the timeline, sorted by name.
// Every vector carries the same closed set, so the first entry suffices.
func (t Timeline) Kinds() []ports.MetricKind {
	if len(t) == 0 {
		return nil
	}
	kinds := make([]ports.MetricKind, 0, len(t[0].Scores))
	for k := range t[0].Scores {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ChartInput converts the timeline into renderer input, one series per
// metric kind in sorted order.
func (t Timeline) ChartInput(title string, panelWidth, panelHeight int) ports.ChartInput {
	input := ports.ChartInput{
		Title:       title,
		PanelWidth:  panelWidth,
		PanelHeight: panelHeight,
	}
	for _, kind := range t.Kinds() {
		series := ports.ChartSeries{Kind: kind, Points: make([]ports.SamplePoint, 0, len(t))}
		for _, v := range t {
			series.Points = append(series.Points, ports.SamplePoint{At: v.ObservedAt, Score: v.Scores[kind]})
		}
		input.Series = append(input.Series, series)
	}
	return input
}

// MarshalCSV renders the timeline as CSV with one row per vector and one
// column per metric kind.
func (t Timeline) MarshalCSV() []byte {
	var buf bytes.Buffer
	kinds := t.Kinds()
	buf.WriteString("observed_at")
	for _, k := range kinds {
		buf.WriteString("," + string(k))
	}
	buf.WriteByte('\n')
	for _, v := range t {
		buf.WriteString(v.ObservedAt.Format(time.RFC3339Nano))
		for _, k := range kinds {
			buf.WriteString("," + strconv.FormatFloat(v.Scores[k], 'g', -1, 64))
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Envelope carries either one payload item or the end-of-stream marker on
// a stage channel. The marker is checked by tag, never by payload value,
// so it can never collide with legitimate data. Exactly one end-of-stream
// envelope is sent per channel per run, always last.
type Envelope[T any] struct {
	Payload T
	EOS     bool
}

// Next wraps a payload item for channel hand-off.
func Next[T any](payload T) Envelope[T] {
	return Envelope[T]{Payload: payload}
}

// EndOfStream returns the terminal marker for a stage channel.
func EndOfStream[T any]() Envelope[T] {
	return Envelope[T]{EOS: true}
}

// ErrStreamTruncated reports that a stage input channel was closed before
// the end-of-stream marker arrived. The observing stage still forwards the
// marker downstream so later stages do not block forever.
var ErrStreamTruncated = errors.New("channel closed before end-of-stream")
