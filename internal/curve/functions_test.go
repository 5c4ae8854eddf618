package curve

import (
	"math"
	"testing"
)

func TestLookupFunction(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{"sin", math.Pi / 2, 1},
		{"cos", 0, 1},
		{"exp", 0, 1},
		{"x", 3.5, 3.5},
		{"x^2", -3, 9},
		{"x^3", 2, 8},
		{"abs", -7, 7},
		{"gauss", 0, 1},
		{"sin(x)/x", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := LookupFunction(tt.name)
			if err != nil {
				t.Fatalf("LookupFunction(%q) error = %v", tt.name, err)
			}
			if got := fn.Evaluate(tt.x); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("%s(%v) = %v, want %v", tt.name, tt.x, got, tt.want)
			}
		})
	}
}

func TestLookupFunctionNormalizesName(t *testing.T) {
	if _, err := LookupFunction("  SIN "); err != nil {
		t.Errorf("LookupFunction with padding/case error = %v", err)
	}
}

func TestLookupFunctionUnknown(t *testing.T) {
	if _, err := LookupFunction("polylogarithm"); err == nil {
		t.Error("LookupFunction for unknown name: want error, got nil")
	}
}

func TestPolesReturnNaN(t *testing.T) {
	tests := []struct {
		name string
		x    float64
	}{
		{"1/x", 0},
		{"log", 0},
		{"log", -1},
		{"sqrt", -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := LookupFunction(tt.name)
			if err != nil {
				t.Fatalf("LookupFunction(%q) error = %v", tt.name, err)
			}
			if got := fn.Evaluate(tt.x); !math.IsNaN(got) {
				t.Errorf("%s(%v) = %v, want NaN", tt.name, tt.x, got)
			}
		})
	}
}

func TestFunctionNamesSorted(t *testing.T) {
	names := FunctionNames()
	if len(names) == 0 {
		t.Fatal("FunctionNames() is empty")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %q before %q", names[i-1], names[i])
		}
	}
}
