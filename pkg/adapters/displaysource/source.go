// Package displaysource captures frames from a physical display region.
// It serves native call applications that do not expose a DevTools
// endpoint: the operator places the call window inside the configured
// region and captures that.
package displaysource

import (
	"context"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"

	"github.com/user/framescore/pkg/ports"
)

// Options configures the display frame source.
type Options struct {
	// Display is the index of the display to capture (0-based).
	Display int

	// Region restricts capture to a rectangle in display coordinates.
	// Nil captures the whole display.
	Region *image.Rectangle
}

// Source implements ports.FrameSource over the screenshot library.
type Source struct {
	opts   Options
	bounds image.Rectangle
}

// New creates a new Source.
func New(opts Options) *Source {
	return &Source{opts: opts}
}

// ResolveTarget validates the display index and capture region.
func (s *Source) ResolveTarget(ctx context.Context) (ports.TargetHandle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return "", fmt.Errorf("no active displays: %w", ports.ErrTargetNotFound)
	}
	if s.opts.Display < 0 || s.opts.Display >= n {
		return "", fmt.Errorf("display %d of %d active: %w", s.opts.Display, n, ports.ErrTargetNotFound)
	}

	s.bounds = screenshot.GetDisplayBounds(s.opts.Display)
	if s.opts.Region != nil {
		clipped := s.opts.Region.Intersect(s.bounds)
		if clipped.Empty() {
			return "", fmt.Errorf("region %v outside display bounds %v: %w", *s.opts.Region, s.bounds, ports.ErrTargetNotFound)
		}
		s.bounds = clipped
	}

	return ports.TargetHandle(fmt.Sprintf("display-%d", s.opts.Display)), nil
}

// Capture grabs one frame of the resolved region.
func (s *Source) Capture(ctx context.Context, handle ports.TargetHandle) (image.Image, error) {
	if s.bounds.Empty() {
		return nil, fmt.Errorf("target %q not resolved", handle)
	}
	img, err := screenshot.CaptureRect(s.bounds)
	if err != nil {
		return nil, fmt.Errorf("capture display: %w", err)
	}
	return img, nil
}

// Close releases no resources; present for ports.FrameSource.
func (s *Source) Close() error {
	return nil
}

// Ensure Source implements ports.FrameSource
var _ ports.FrameSource = (*Source)(nil)
