// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"image"

	"github.com/user/framescore/pkg/ports"
)

// FrameSource is a mock implementation of ports.FrameSource.
type FrameSource struct {
	ResolveTargetFunc func(ctx context.Context) (ports.TargetHandle, error)
	CaptureFunc       func(ctx context.Context, handle ports.TargetHandle) (image.Image, error)
	CloseFunc         func() error
}

func (m *FrameSource) ResolveTarget(ctx context.Context) (ports.TargetHandle, error) {
	if m.ResolveTargetFunc != nil {
		return m.ResolveTargetFunc(ctx)
	}
	return ports.TargetHandle("mock-target"), nil
}

func (m *FrameSource) Capture(ctx context.Context, handle ports.TargetHandle) (image.Image, error) {
	if m.CaptureFunc != nil {
		return m.CaptureFunc(ctx, handle)
	}
	return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
}

func (m *FrameSource) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Ensure FrameSource implements ports.FrameSource
var _ ports.FrameSource = (*FrameSource)(nil)
