// Package curve implements the curve model for graphview: a plotted
// function together with the domain and range intervals that map its
// values onto a drawing surface. The model is pure and immutable; all
// rendering concerns live in internal/render.
package curve

import (
	"fmt"
	"math"
)

// Function is a pure mapping from one real number to another.
// Implementations must be deterministic and free of side effects so that
// sampling the same pixel twice yields the same point.
type Function interface {
	// Evaluate computes the function value at x.
	Evaluate(x float64) float64
}

// Func adapts an ordinary Go function to the Function interface.
type Func func(x float64) float64

// Evaluate implements Function.
func (f Func) Evaluate(x float64) float64 { return f(x) }

// Interval is a closed interval on the real line.
type Interval struct {
	Start float64
	End   float64
}

// Length returns End - Start. It may be negative for a descending interval.
func (iv Interval) Length() float64 {
	return iv.End - iv.Start
}

// Validate reports whether the interval is usable as a domain or range.
// Degenerate intervals (Start == End) would divide by zero during mapping,
// so they are rejected along with non-finite endpoints.
func (iv Interval) Validate() error {
	if math.IsNaN(iv.Start) || math.IsInf(iv.Start, 0) {
		return fmt.Errorf("interval start %v is not finite", iv.Start)
	}
	if math.IsNaN(iv.End) || math.IsInf(iv.End, 0) {
		return fmt.Errorf("interval end %v is not finite", iv.End)
	}
	if iv.Start == iv.End {
		return fmt.Errorf("degenerate interval [%v, %v]", iv.Start, iv.End)
	}
	return nil
}

// Size is a surface size in device pixels.
type Size struct {
	Width  float64
	Height float64
}

// Point is a position in surface coordinates. Y grows downward.
type Point struct {
	X float64
	Y float64
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Curve is a plotted function with its domain and range mapping.
// It is constructed once and never mutated; a Curve may therefore be
// shared freely between goroutines.
type Curve struct {
	fn     Function
	domain Interval
	rng    Interval
}

// New creates a Curve for fn over the given domain and range.
// Both intervals must be non-degenerate with finite endpoints.
func New(fn Function, domain, rng Interval) (*Curve, error) {
	if fn == nil {
		return nil, fmt.Errorf("curve function must not be nil")
	}
	if err := domain.Validate(); err != nil {
		return nil, fmt.Errorf("invalid domain: %w", err)
	}
	if err := rng.Validate(); err != nil {
		return nil, fmt.Errorf("invalid range: %w", err)
	}
	return &Curve{fn: fn, domain: domain, rng: rng}, nil
}

// Default returns the curve plotted when no configuration is supplied:
// sin(x) over the domain [0, 6] scaled to the range [-1.5, 1.5].
func Default() *Curve {
	c, err := New(Func(math.Sin), Interval{Start: 0, End: 6}, Interval{Start: -1.5, End: 1.5})
	if err != nil {
		// The default intervals are compile-time constants and always valid.
		panic(err)
	}
	return c
}

// Domain returns the horizontal input interval of the curve.
func (c *Curve) Domain() Interval { return c.domain }

// Range returns the vertical interval used to scale function output.
func (c *Curve) Range() Interval { return c.rng }

// Evaluate computes the plotted function at x.
func (c *Curve) Evaluate(x float64) float64 {
	return c.fn.Evaluate(x)
}

// SamplePoint maps the pixel column pixelX onto the surface coordinates of
// the curve. The domain is spread across the surface width left to right;
// the range is spread across the height with the Y axis inverted so that
// larger function values appear higher on screen.
//
// A non-finite function value produces a non-finite point. No clamping is
// applied; the drawing backend decides what to do with such segments.
func (c *Curve) SamplePoint(size Size, pixelX int) Point {
	argX := float64(pixelX)/size.Width*c.domain.Length() + c.domain.Start
	value := c.fn.Evaluate(argX)
	screenY := size.Height - size.Height*((value-c.rng.Start)/c.rng.Length())
	return Point{X: float64(pixelX), Y: screenY}
}
