// Package render implements the graphview render pipeline: it owns the
// drawing resources bound to the window surface, recreates them after a
// loss, samples the curve model across the surface width, and issues the
// line-segment draws that make up a frame. The Ebiten-backed device lives
// in ebiten.go; the interfaces here also allow a fake device in tests.
package render

import (
	"errors"
	"image/color"

	"github.com/opd-ai/go-graphview/internal/curve"
)

// ErrTargetLost is the recreate-target condition. A DrawTarget returns it
// from Present when the underlying surface was invalidated (for example by
// a device reset) and the target and brush must be recreated before the
// next frame. It is a recoverable signal, not a user-visible error.
var ErrTargetLost = errors.New("draw target lost")

// Brush is a solid-color stroke resource with the same lifetime as the
// draw target it was created alongside.
type Brush interface {
	// Color returns the brush color.
	Color() color.RGBA
	// Release frees the resource. Releasing twice is a no-op.
	Release()
}

// DrawTarget is the drawable resource bound to the window surface.
type DrawTarget interface {
	// Clear fills the whole target with a color.
	Clear(c color.RGBA)
	// StrokeLine draws a straight segment between two surface points.
	StrokeLine(from, to curve.Point, b Brush, width float32)
	// Resize adjusts the target to a new surface size in place.
	Resize(size curve.Size)
	// Present finishes the frame. It returns ErrTargetLost when the
	// target must be recreated, or another error when the frame failed
	// but the target remains usable.
	Present() error
	// Release frees the resource. Releasing twice is a no-op.
	Release()
}

// Device allocates draw targets and brushes. The pipeline always creates
// and releases the two together.
type Device interface {
	// CreateTarget allocates a draw target for the given surface size.
	CreateTarget(size curve.Size) (DrawTarget, error)
	// CreateBrush allocates a solid-color brush.
	CreateBrush(c color.RGBA) (Brush, error)
}

// ResourceCreationError reports a failed target or brush allocation.
// The pipeline stays uninitialized and retries creation on the next
// paint request.
type ResourceCreationError struct {
	Err error
}

// Error implements the error interface.
func (e *ResourceCreationError) Error() string {
	return "create draw resources: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ResourceCreationError) Unwrap() error { return e.Err }

// RenderError reports a failed frame with the resources still usable.
// The frame is dropped; the next paint request retries without
// recreating anything.
type RenderError struct {
	Err error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return "render frame: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error { return e.Err }
