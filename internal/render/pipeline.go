package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/opd-ai/go-graphview/internal/curve"
)

// Style holds the fixed visual parameters of the plot.
type Style struct {
	// Background fills the surface before the curve is drawn.
	Background color.RGBA
	// Line is the curve stroke color.
	Line color.RGBA
	// StrokeWidth is the curve stroke width in pixels.
	StrokeWidth float32
}

// resources holds the draw target and the line brush as one unit.
// The pipeline stores them behind a single nil-able pointer so that
// "both present or both absent" holds by construction rather than by
// runtime bookkeeping.
type resources struct {
	target DrawTarget
	brush  Brush
}

func (r *resources) release() {
	r.target.Release()
	r.brush.Release()
}

// Pipeline drives one full redraw of the curve per paint request and owns
// the draw target and brush lifecycle: lazy creation on the first render,
// release and recreation after a target loss, unconditional release on
// disposal.
//
// A Pipeline is not safe for concurrent use. All methods must be called
// from the single goroutine that owns the window surface; the Ebiten game
// loop satisfies this.
type Pipeline struct {
	device Device
	curve  *curve.Curve
	style  Style

	size     curve.Size
	res      *resources // nil while uninitialized
	disposed bool
	lost     int64 // targets lost via Present, each rebuilt on the next render
}

// NewPipeline creates a pipeline for the given device, curve, and style.
// No graphics resources are allocated until the first Render call.
func NewPipeline(device Device, cv *curve.Curve, style Style) *Pipeline {
	return &Pipeline{
		device: device,
		curve:  cv,
		style:  style,
	}
}

// SetCurve swaps the plotted curve. Takes effect on the next render.
func (p *Pipeline) SetCurve(cv *curve.Curve) {
	p.curve = cv
}

// Curve returns the currently plotted curve.
func (p *Pipeline) Curve() *curve.Curve {
	return p.curve
}

// SetStyle swaps the visual style. The line brush carries the stroke
// color, so existing resources are released and recreated lazily with the
// new color on the next render.
func (p *Pipeline) SetStyle(style Style) {
	if style.Line != p.style.Line {
		p.releaseResources()
	}
	p.style = style
}

// Style returns the current visual style.
func (p *Pipeline) Style() Style {
	return p.style
}

// Resize records the new surface size. When resources exist the target is
// resized in place; when the pipeline is uninitialized only the size
// record changes and nothing is allocated.
func (p *Pipeline) Resize(size curve.Size) {
	p.size = size
	if p.res != nil {
		p.res.target.Resize(size)
	}
}

// Size returns the current surface size record.
func (p *Pipeline) Size() curve.Size {
	return p.size
}

// SurfaceLost handles an out-of-band surface-lost signal from the
// platform: the target and brush are released together and recreated on
// the next render.
func (p *Pipeline) SurfaceLost() {
	p.releaseResources()
}

// LostTargets returns how many targets Present has reported lost over the
// pipeline's lifetime.
func (p *Pipeline) LostTargets() int64 {
	return p.lost
}

// Ready reports whether the draw resources currently exist.
func (p *Pipeline) Ready() bool {
	return p.res != nil
}

// Target returns the current draw target, or nil while uninitialized.
// The window glue uses it to blit the finished frame to the screen.
func (p *Pipeline) Target() DrawTarget {
	if p.res == nil {
		return nil
	}
	return p.res.target
}

// Render draws one full frame: ensure resources, clear, stroke the curve
// as a polyline at one sample per pixel column, present.
//
// A ResourceCreationError aborts the frame with the pipeline still
// uninitialized; the next paint request retries creation. A lost target
// reported by Present counts as success for the caller, but the resources
// are released so the next render rebuilds them. Any other present
// failure returns a RenderError with the resources kept.
func (p *Pipeline) Render() error {
	if p.disposed {
		return fmt.Errorf("render on disposed pipeline")
	}

	if err := p.ensureResources(); err != nil {
		return err
	}
	target, brush := p.res.target, p.res.brush

	target.Clear(p.style.Background)

	size := p.size
	maxX := int(math.Ceil(size.Width))
	prev := p.curve.SamplePoint(size, 0)
	for x := 1; x <= maxX; x++ {
		pt := p.curve.SamplePoint(size, x)
		target.StrokeLine(prev, pt, brush, p.style.StrokeWidth)
		prev = pt
	}

	err := target.Present()
	if errors.Is(err, ErrTargetLost) {
		p.lost++
		p.releaseResources()
		return nil
	}
	if err != nil {
		return &RenderError{Err: err}
	}
	return nil
}

// Dispose releases any held resources and makes the pipeline terminal.
// Safe to call more than once.
func (p *Pipeline) Dispose() {
	p.releaseResources()
	p.disposed = true
}

// ensureResources lazily allocates the target and brush as a pair.
// A brush failure releases the already-created target so the pipeline is
// never left half-initialized.
func (p *Pipeline) ensureResources() error {
	if p.res != nil {
		return nil
	}

	target, err := p.device.CreateTarget(p.size)
	if err != nil {
		return &ResourceCreationError{Err: err}
	}
	brush, err := p.device.CreateBrush(p.style.Line)
	if err != nil {
		target.Release()
		return &ResourceCreationError{Err: err}
	}

	p.res = &resources{target: target, brush: brush}
	return nil
}

func (p *Pipeline) releaseResources() {
	if p.res == nil {
		return
	}
	p.res.release()
	p.res = nil
}
