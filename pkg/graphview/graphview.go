package graphview

import (
	"fmt"
	"io"

	"github.com/opd-ai/go-graphview/internal/config"
	"github.com/opd-ai/go-graphview/internal/script"
)

// Viewer represents an embedded graphview instance with full lifecycle control.
// It is safe for concurrent use from multiple goroutines.
type Viewer interface {
	// Start opens the window and begins the rendering loop.
	// It returns immediately after starting; rendering runs in background goroutines.
	// Returns an error if already running or if initialization fails.
	Start() error

	// Stop gracefully shuts down the viewer.
	// It waits for all goroutines to complete before returning.
	// Safe to call multiple times; subsequent calls are no-ops.
	Stop() error

	// Restart performs a stop followed by a start.
	// Configuration is reloaded from the original source.
	// Returns an error if restart fails; the instance will be in a stopped state.
	Restart() error

	// ReloadConfig reloads the configuration in-place without stopping.
	// The window stays open while the plotted function, domain, range and
	// style change to the new values.
	// Returns an error if reload fails; the previous config remains active.
	ReloadConfig() error

	// IsRunning returns true if the viewer is currently running.
	IsRunning() bool

	// Status returns detailed status information about the instance.
	Status() Status

	// SetErrorHandler registers a callback for runtime errors.
	// The handler is invoked asynchronously; do not block in the handler.
	// Implementations MUST recover from panics in the handler so that a
	// buggy handler cannot crash the embedding application.
	SetErrorHandler(handler ErrorHandler)

	// SetEventHandler registers a callback for lifecycle events.
	SetEventHandler(handler EventHandler)

	// Health returns a health check result for the viewer.
	// This can be used for monitoring, alerting, and debugging.
	Health() HealthCheck

	// Metrics returns the metrics collector for this instance.
	// Use Metrics().Snapshot() for a point-in-time copy of all metrics.
	// Use Metrics().RegisterExpvar() to expose metrics via /debug/vars.
	Metrics() *Metrics
}

// New creates a new Viewer from a Lua configuration file on disk.
// The instance is created but not started; call Start() to begin operation.
//
// Example:
//
//	v, err := graphview.New("examples/sine.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer v.Stop()
//	if err := v.Start(); err != nil {
//		log.Fatal(err)
//	}
func New(configPath string, opts *Options) (Viewer, error) {
	if opts == nil {
		defaultOpts := DefaultOptions()
		opts = &defaultOpts
	}

	limits := luaLimits(opts)
	loader := func() (*config.Config, *config.Parser, error) {
		return loadConfigFile(configPath, limits)
	}

	cfg, parser, err := loader()
	if err != nil {
		return nil, err
	}

	return newViewer(cfg, parser, *opts, configPath, loader), nil
}

// NewFromReader creates a new Viewer from Lua configuration content
// provided as an io.Reader. This is useful for dynamically generated
// configurations or configs embedded in the application binary.
//
// Example:
//
//	cfg := strings.NewReader(`
//		graphview.config = { function_name = "cos" }
//	`)
//	v, err := graphview.NewFromReader(cfg, nil)
func NewFromReader(r io.Reader, opts *Options) (Viewer, error) {
	if opts == nil {
		defaultOpts := DefaultOptions()
		opts = &defaultOpts
	}

	// Read content once (can't re-read a Reader)
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	limits := luaLimits(opts)
	loader := func() (*config.Config, *config.Parser, error) {
		return loadConfigBytes(content, limits)
	}

	cfg, parser, err := loader()
	if err != nil {
		return nil, err
	}

	return newViewer(cfg, parser, *opts, "reader", loader), nil
}

// NewWithCurve creates a new Viewer that plots the given curve with
// default window and style settings. No configuration file is involved;
// ReloadConfig and Restart keep plotting the same curve.
//
// Example:
//
//	cv, _ := graphview.NewCurve(graphview.Func(math.Sin),
//		graphview.Interval{Start: 0, End: 6},
//		graphview.Interval{Start: -1.5, End: 1.5})
//	v, err := graphview.NewWithCurve(cv, nil)
func NewWithCurve(cv *Curve, opts *Options) (Viewer, error) {
	if cv == nil {
		return nil, fmt.Errorf("curve is nil")
	}
	if opts == nil {
		defaultOpts := DefaultOptions()
		opts = &defaultOpts
	}

	cfg := config.DefaultConfig()
	v := newViewer(&cfg, nil, *opts, "curve", nil)
	v.curveOverride = cv
	return v, nil
}

// luaLimits builds the script limits from viewer options, falling back
// to the defaults for unset values.
func luaLimits(opts *Options) script.Limits {
	limits := script.DefaultLimits()
	if opts.LuaCPULimit > 0 {
		limits.CPU = opts.LuaCPULimit
	}
	if opts.LuaMemoryLimit > 0 {
		limits.Memory = opts.LuaMemoryLimit
	}
	return limits
}

// loadConfigFile parses and validates a configuration file. The returned
// parser is non-nil only when the configuration carries a scripted plot
// function, which stays bound to the parser's Lua runtime.
func loadConfigFile(path string, limits script.Limits) (*config.Config, *config.Parser, error) {
	parser := config.NewParser(limits)
	cfg, err := parser.ParseFile(path)
	if err != nil {
		parser.Close()
		return nil, nil, fmt.Errorf("parse config: %w", err)
	}
	return finishLoad(cfg, parser)
}

// loadConfigBytes parses and validates configuration content.
func loadConfigBytes(content []byte, limits script.Limits) (*config.Config, *config.Parser, error) {
	parser := config.NewParser(limits)
	cfg, err := parser.Parse(content)
	if err != nil {
		parser.Close()
		return nil, nil, fmt.Errorf("parse config: %w", err)
	}
	return finishLoad(cfg, parser)
}

func finishLoad(cfg *config.Config, parser *config.Parser) (*config.Config, *config.Parser, error) {
	if err := config.ApplyEnvOverrides(cfg); err != nil {
		parser.Close()
		return nil, nil, fmt.Errorf("environment overrides: %w", err)
	}
	if err := config.Validate(cfg).Error(); err != nil {
		parser.Close()
		return nil, nil, fmt.Errorf("validate config: %w", err)
	}

	// The parser only needs to stay open when a scripted plot function is
	// bound to its runtime.
	if cfg.Graph.Plot == nil {
		parser.Close()
		return cfg, nil, nil
	}
	return cfg, parser, nil
}
