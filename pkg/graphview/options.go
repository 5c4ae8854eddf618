package graphview

import "time"

// DefaultShutdownTimeout is the default timeout for graceful shutdown.
// This can be overridden via Options.ShutdownTimeout.
const DefaultShutdownTimeout = 5 * time.Second

// Options configures the Viewer behavior.
type Options struct {
	// WindowTitle overrides the window title from the configuration.
	// Empty string means use the configuration's value.
	WindowTitle string

	// Headless runs without creating a visible window. The viewer
	// lifecycle (start, stop, reload, metrics) works normally; no frames
	// are produced. Useful for tests and CI.
	Headless bool

	// LuaCPULimit overrides the Lua CPU instruction limit for
	// configuration and plot-function execution.
	// Zero means use the default (10 million instructions).
	LuaCPULimit uint64

	// LuaMemoryLimit overrides the Lua memory limit in bytes.
	// Zero means use the default (50 MB).
	LuaMemoryLimit uint64

	// ShutdownTimeout sets the maximum time to wait for graceful
	// shutdown. Zero means use DefaultShutdownTimeout.
	ShutdownTimeout time.Duration

	// Logger sets a custom logger for debug/info messages.
	// If nil, no logging is performed.
	Logger Logger

	// Metrics sets a custom metrics collector.
	// If nil, NewMetrics() is used.
	Metrics *Metrics

	// ErrorTracker sets a custom error tracker for aggregation and
	// alerting. If nil, NewErrorTracker() is used.
	ErrorTracker *ErrorTracker

	// WatchConfig enables automatic hot-reloading when the configuration
	// file changes on disk.
	WatchConfig bool

	// WatchDebounce sets the debounce interval for file change events.
	// Zero means use the default (500ms).
	WatchDebounce time.Duration
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{}
}

// Logger interface for custom logging.
// It follows the slog-style signature for compatibility with Go's
// structured logging.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, args ...any)
	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, args ...any)
	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, args ...any)
	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, args ...any)
}
