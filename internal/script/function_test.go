package script

import (
	"math"
	"testing"
)

func TestPlotFunctionEvaluate(t *testing.T) {
	r := New(DefaultLimits(), nil)
	defer r.Close()

	if _, err := r.ExecuteString("def", "function plot(x) return x * x + 1 end"); err != nil {
		t.Fatalf("ExecuteString() error = %v", err)
	}

	fn := NewPlotFunction(r, r.GetGlobal("plot"))

	tests := []struct {
		x, want float64
	}{
		{0, 1},
		{2, 5},
		{-3, 10},
	}
	for _, tt := range tests {
		if got := fn.Evaluate(tt.x); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Evaluate(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
	if err := fn.LastError(); err != nil {
		t.Errorf("LastError() = %v, want nil", err)
	}
}

func TestPlotFunctionIntegerResult(t *testing.T) {
	r := New(DefaultLimits(), nil)
	defer r.Close()

	if _, err := r.ExecuteString("def", "function plot(x) return 7 end"); err != nil {
		t.Fatalf("ExecuteString() error = %v", err)
	}

	fn := NewPlotFunction(r, r.GetGlobal("plot"))
	if got := fn.Evaluate(0); got != 7 {
		t.Errorf("Evaluate(0) = %v, want 7", got)
	}
}

func TestPlotFunctionErrorYieldsNaN(t *testing.T) {
	r := New(DefaultLimits(), nil)
	defer r.Close()

	if _, err := r.ExecuteString("def", `function plot(x) error("boom") end`); err != nil {
		t.Fatalf("ExecuteString() error = %v", err)
	}

	fn := NewPlotFunction(r, r.GetGlobal("plot"))
	if got := fn.Evaluate(1); !math.IsNaN(got) {
		t.Errorf("Evaluate(1) = %v, want NaN", got)
	}
	if err := fn.LastError(); err == nil {
		t.Error("LastError() = nil, want the Lua error")
	}
}

func TestPlotFunctionStats(t *testing.T) {
	r := New(DefaultLimits(), nil)
	defer r.Close()

	if _, err := r.ExecuteString("def", `
function plot(x)
	if x < 0 then error("negative") end
	return x
end`); err != nil {
		t.Fatalf("ExecuteString() error = %v", err)
	}

	fn := NewPlotFunction(r, r.GetGlobal("plot"))
	fn.Evaluate(1)
	fn.Evaluate(2)
	fn.Evaluate(-1)

	calls, errs := fn.Stats()
	if calls != 3 {
		t.Errorf("Stats() calls = %d, want 3", calls)
	}
	if errs != 1 {
		t.Errorf("Stats() errors = %d, want 1", errs)
	}
}

func TestPlotFunctionCPUBudgetYieldsNaN(t *testing.T) {
	r := New(Limits{CPU: 10000, Memory: 0}, nil)
	defer r.Close()

	if _, err := r.ExecuteString("def", "function plot(x) while true do end end"); err != nil {
		t.Fatalf("ExecuteString() error = %v", err)
	}

	fn := NewPlotFunction(r, r.GetGlobal("plot"))
	if got := fn.Evaluate(1); !math.IsNaN(got) {
		t.Errorf("Evaluate(1) = %v, want NaN", got)
	}
	if err := fn.LastError(); err == nil {
		t.Error("LastError() = nil, want a limits error")
	}
}

func TestPlotFunctionNonNumericResultYieldsNaN(t *testing.T) {
	r := New(DefaultLimits(), nil)
	defer r.Close()

	if _, err := r.ExecuteString("def", `function plot(x) return "not a number" end`); err != nil {
		t.Fatalf("ExecuteString() error = %v", err)
	}

	fn := NewPlotFunction(r, r.GetGlobal("plot"))
	if got := fn.Evaluate(1); !math.IsNaN(got) {
		t.Errorf("Evaluate(1) = %v, want NaN", got)
	}
	if err := fn.LastError(); err == nil {
		t.Error("LastError() = nil, want a type error")
	}
}
