// Package curve implements the curve model for graphview.
// This file provides the registry of builtin named functions that a
// configuration can select without scripting.
package curve

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// builtins maps configuration names to plottable functions.
// Functions with poles return NaN there; the renderer draws nothing for
// segments with non-finite endpoints.
var builtins = map[string]Func{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"sqrt": func(x float64) float64 {
		if x < 0 {
			return math.NaN()
		}
		return math.Sqrt(x)
	},
	"log": func(x float64) float64 {
		if x <= 0 {
			return math.NaN()
		}
		return math.Log(x)
	},
	"exp": math.Exp,
	"abs": math.Abs,
	"x":   func(x float64) float64 { return x },
	"x^2": func(x float64) float64 { return x * x },
	"x^3": func(x float64) float64 { return x * x * x },
	"1/x": func(x float64) float64 {
		if x == 0 {
			return math.NaN()
		}
		return 1 / x
	},
	"sin(x)/x": func(x float64) float64 {
		if x == 0 {
			return 1 // removable singularity
		}
		return math.Sin(x) / x
	},
	"gauss": func(x float64) float64 { return math.Exp(-x * x) },
}

// LookupFunction resolves a builtin function by its configuration name.
// Names are case-insensitive and surrounding whitespace is ignored.
func LookupFunction(name string) (Function, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	fn, ok := builtins[key]
	if !ok {
		return nil, fmt.Errorf("unknown function %q (known: %s)", name, strings.Join(FunctionNames(), ", "))
	}
	return fn, nil
}

// FunctionNames returns the sorted list of builtin function names.
func FunctionNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
