package mocks

import (
	"image"
	"sync"

	"github.com/user/framescore/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
// It records everything saved to it.
type DebugSink struct {
	enabled bool

	mu           sync.Mutex
	RawFrames    map[int]image.Image
	TimelineJSON []byte
	TimelineCSV  []byte
	Summary      []byte
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:   enabled,
		RawFrames: make(map[int]image.Image),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveRawFrame(index int, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RawFrames[index] = img
	return nil
}

func (m *DebugSink) SaveTimelineJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TimelineJSON = data
	return nil
}

func (m *DebugSink) SaveTimelineCSV(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TimelineCSV = data
	return nil
}

func (m *DebugSink) SaveSummary(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Summary = data
	return nil
}

// Ensure DebugSink implements ports.DebugSink
var _ ports.DebugSink = (*DebugSink)(nil)
