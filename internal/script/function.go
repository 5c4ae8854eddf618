package script

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-graphview/internal/curve"
)

// PlotFunction adapts a Lua function value to curve.Function so that a
// user-scripted function can be plotted like a builtin one.
//
// Evaluate has no error path, matching the curve model: a Lua error, an
// exceeded resource limit, or a non-numeric result all surface as NaN,
// which the renderer treats like any other non-finite sample. The most
// recent failure is retained for diagnostics.
type PlotFunction struct {
	runtime *Runtime
	fn      rt.Value

	calls atomic.Int64
	errs  atomic.Int64

	mu      sync.Mutex
	lastErr error
}

// NewPlotFunction wraps a Lua function value from the given runtime.
// The runtime must stay open for as long as the PlotFunction is in use.
func NewPlotFunction(runtime *Runtime, fn rt.Value) *PlotFunction {
	return &PlotFunction{runtime: runtime, fn: fn}
}

// Evaluate implements curve.Function by calling the Lua function.
func (p *PlotFunction) Evaluate(x float64) float64 {
	p.calls.Add(1)

	result, err := p.runtime.CallValue(p.fn, rt.FloatValue(x))
	if err != nil {
		p.errs.Add(1)
		p.setErr(err)
		return math.NaN()
	}

	switch result.Type() {
	case rt.FloatType:
		f, _ := result.TryFloat()
		return f
	case rt.IntType:
		n, _ := result.TryInt()
		return float64(n)
	default:
		p.errs.Add(1)
		p.setErr(fmt.Errorf("plot function returned %s, want number", result.TypeName()))
		return math.NaN()
	}
}

// Stats returns the lifetime number of evaluations and how many of
// them failed.
func (p *PlotFunction) Stats() (calls, errors int64) {
	return p.calls.Load(), p.errs.Load()
}

// LastError returns the most recent evaluation failure, or nil.
func (p *PlotFunction) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *PlotFunction) setErr(err error) {
	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()
}

var _ curve.Function = (*PlotFunction)(nil)
