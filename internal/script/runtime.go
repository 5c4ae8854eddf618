// Package script embeds a Golua runtime for graphview. It executes user
// Lua code under hard CPU and memory limits, both for parsing Lua-format
// configuration files and for evaluating Lua-defined plot functions.
package script

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"
)

// Limits bounds the resources a Lua chunk may consume. Zero means
// unlimited, which is only appropriate in tests.
type Limits struct {
	// CPU is the Lua instruction budget per execution.
	CPU uint64
	// Memory is the maximum bytes the Lua runtime may allocate.
	Memory uint64
}

// DefaultLimits returns the limits applied to user configuration and plot
// functions: 10 million instructions and 50 MB.
func DefaultLimits() Limits {
	return Limits{
		CPU:    10_000_000,
		Memory: 50 * 1024 * 1024,
	}
}

// Runtime wraps a Golua runtime with resource limits and captured output.
// It is safe for concurrent use.
type Runtime struct {
	limits  Limits
	runtime *rt.Runtime
	output  *bytes.Buffer
	cleanup func()
	mu      sync.Mutex
}

// New creates a Runtime with the Lua standard libraries loaded.
// Lua print output is captured and additionally copied to stdout when
// stdout is non-nil.
func New(limits Limits, stdout io.Writer) *Runtime {
	output := &bytes.Buffer{}
	var w io.Writer = output
	if stdout != nil {
		w = io.MultiWriter(stdout, output)
	}

	runtime := rt.New(w)
	cleanup := lib.LoadAll(runtime)

	return &Runtime{
		limits:  limits,
		runtime: runtime,
		output:  output,
		cleanup: cleanup,
	}
}

// Load compiles a Lua chunk without executing it.
func (r *Runtime) Load(name string, code []byte) (*rt.Closure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	closure, err := r.runtime.CompileAndLoadLuaChunk(
		name,
		code,
		rt.TableValue(r.runtime.GlobalEnv()),
	)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return closure, nil
}

// Execute runs a compiled chunk within the configured resource limits.
func (r *Runtime) Execute(closure *rt.Closure) (rt.Value, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.call(rt.FunctionValue(closure))
}

// ExecuteString compiles and runs a chunk of Lua source.
func (r *Runtime) ExecuteString(name, code string) (rt.Value, error) {
	closure, err := r.Load(name, []byte(code))
	if err != nil {
		return rt.NilValue, err
	}
	return r.Execute(closure)
}

// GetGlobal reads a global variable from the Lua environment.
func (r *Runtime) GetGlobal(name string) rt.Value {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runtime.GlobalEnv().Get(rt.StringValue(name))
}

// SetGlobal writes a global variable into the Lua environment.
func (r *Runtime) SetGlobal(name string, value rt.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runtime.GlobalEnv().Set(rt.StringValue(name), value)
}

// CallValue calls a Lua function value with the given arguments, within
// the configured resource limits.
func (r *Runtime) CallValue(fn rt.Value, args ...rt.Value) (rt.Value, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.call(fn, args...)
}

// call invokes fn under a fresh limits context. Callers hold r.mu.
//
// Golua enforces HardLimits by terminating the context with a panic, not
// an error return, so an over-budget chunk unwinds through Call1. The
// recover below converts that termination into an ordinary error; any
// other panic is re-raised.
func (r *Runtime) call(fn rt.Value, args ...rt.Value) (result rt.Value, err error) {
	ctx := rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    r.limits.CPU,
			Memory: r.limits.Memory,
		},
	}
	r.runtime.PushContext(ctx)
	defer r.runtime.PopContext()
	defer func() {
		if rec := recover(); rec != nil {
			termErr, ok := rec.(rt.ContextTerminationError)
			if !ok {
				panic(rec)
			}
			result = rt.NilValue
			err = fmt.Errorf("lua limits exceeded: %w", termErr)
		}
	}()

	thread := r.runtime.MainThread()
	result, err = rt.Call1(thread, fn, args...)
	if err != nil {
		return rt.NilValue, fmt.Errorf("lua execution: %w", err)
	}
	return result, nil
}

// Output returns everything Lua print has written so far.
func (r *Runtime) Output() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.output.String()
}

// Close releases the runtime's standard library resources. The Runtime
// must not be used after Close. Safe to call more than once.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cleanup != nil {
		r.cleanup()
		r.cleanup = nil
	}
	return nil
}
