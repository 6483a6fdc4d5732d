// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
	"errors"
	"image"
)

// ErrTargetNotFound is returned by ResolveTarget when the capture target
// (window, tab or display) cannot be located. It is fatal: the pipeline
// must not start when the target is missing.
var ErrTargetNotFound = errors.New("capture target not found")

// TargetHandle identifies a resolved capture target. The value is opaque
// to the pipeline; only the frame source that issued it interprets it.
type TargetHandle string

// FrameSource abstracts window/screen capture for the pipeline.
type FrameSource interface {
	// ResolveTarget locates the capture target and returns a handle for it.
	// Returns ErrTargetNotFound (possibly wrapped) when no matching target
	// exists.
	ResolveTarget(ctx context.Context) (TargetHandle, error)

	// Capture acquires one frame from the resolved target.
	Capture(ctx context.Context, handle TargetHandle) (image.Image, error)

	// Close releases any resources held by the source.
	Close() error
}
