package script

import (
	"strings"
	"testing"

	rt "github.com/arnodel/golua/runtime"
)

func TestExecuteString(t *testing.T) {
	r := New(DefaultLimits(), nil)
	defer r.Close()

	result, err := r.ExecuteString("test", "return 1 + 2")
	if err != nil {
		t.Fatalf("ExecuteString() error = %v", err)
	}

	n, ok := result.TryInt()
	if !ok || n != 3 {
		t.Errorf("result = %v, want 3", result)
	}
}

func TestExecuteStringCompileError(t *testing.T) {
	r := New(DefaultLimits(), nil)
	defer r.Close()

	if _, err := r.ExecuteString("bad", "return ((("); err == nil {
		t.Error("ExecuteString with invalid Lua: want error, got nil")
	}
}

func TestGlobals(t *testing.T) {
	r := New(DefaultLimits(), nil)
	defer r.Close()

	r.SetGlobal("answer", rt.IntValue(42))

	result, err := r.ExecuteString("test", "return answer * 2")
	if err != nil {
		t.Fatalf("ExecuteString() error = %v", err)
	}
	if n, _ := result.TryInt(); n != 84 {
		t.Errorf("result = %v, want 84", result)
	}

	if got := r.GetGlobal("answer"); got != rt.IntValue(42) {
		t.Errorf("GetGlobal(answer) = %v, want 42", got)
	}
}

func TestCallValue(t *testing.T) {
	r := New(DefaultLimits(), nil)
	defer r.Close()

	if _, err := r.ExecuteString("def", "function double(x) return x * 2 end"); err != nil {
		t.Fatalf("ExecuteString() error = %v", err)
	}

	fn := r.GetGlobal("double")
	result, err := r.CallValue(fn, rt.FloatValue(2.5))
	if err != nil {
		t.Fatalf("CallValue() error = %v", err)
	}
	if f, _ := result.TryFloat(); f != 5.0 {
		t.Errorf("double(2.5) = %v, want 5", result)
	}
}

func TestCPULimitEnforced(t *testing.T) {
	r := New(Limits{CPU: 1000, Memory: 0}, nil)
	defer r.Close()

	_, err := r.ExecuteString("loop", "while true do end")
	if err == nil {
		t.Error("unbounded loop under CPU limit: want error, got nil")
	}
}

func TestOutputCaptured(t *testing.T) {
	r := New(DefaultLimits(), nil)
	defer r.Close()

	if _, err := r.ExecuteString("print", `print("hello from lua")`); err != nil {
		t.Fatalf("ExecuteString() error = %v", err)
	}
	if !strings.Contains(r.Output(), "hello from lua") {
		t.Errorf("Output() = %q, want it to contain the printed line", r.Output())
	}
}

func TestCloseIdempotent(t *testing.T) {
	r := New(DefaultLimits(), nil)
	if err := r.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
