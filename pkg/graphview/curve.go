package graphview

import "github.com/opd-ai/go-graphview/internal/curve"

// Re-exported curve types so embedding applications can build curves
// without reaching into internal packages.
type (
	// Curve is a plottable function with its domain and range mapping.
	Curve = curve.Curve
	// Function produces a y value for an x value.
	Function = curve.Function
	// Func adapts an ordinary Go function to the Function interface.
	Func = curve.Func
	// Interval is a closed interval on the real line.
	Interval = curve.Interval
)

// NewCurve builds a curve from a function and its domain/range mapping.
// The domain maps to the window's horizontal extent left to right and
// the range to its vertical extent bottom to top.
func NewCurve(fn Function, domain, rng Interval) (*Curve, error) {
	return curve.New(fn, domain, rng)
}

// DefaultCurve returns the built-in default: sin over [0, 6] with
// range [-1.5, 1.5].
func DefaultCurve() *Curve {
	return curve.Default()
}

// BuiltinFunction looks up one of the named builtin functions
// (sin, cos, gauss, ...). Names are case-insensitive.
func BuiltinFunction(name string) (Function, error) {
	return curve.LookupFunction(name)
}

// BuiltinFunctionNames returns the sorted names of all builtin functions.
func BuiltinFunctionNames() []string {
	return curve.FunctionNames()
}
