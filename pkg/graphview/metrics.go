package graphview

import (
	"expvar"
	"sync/atomic"
	"time"
)

// Metrics provides application-level metrics collection for go-graphview.
// It uses Go's expvar package for exposition, which can be accessed via the
// /debug/vars HTTP endpoint when an HTTP server is running.
//
// Thread-safe for concurrent use.
//
// Example usage:
//
//	metrics := graphview.NewMetrics()
//	metrics.IncrementFramesRendered()
//	metrics.RecordRenderLatency(4 * time.Millisecond)
//
//	// For HTTP exposition, import expvar's HTTP handler:
//	// import _ "expvar"
//	// This registers /debug/vars automatically.
type Metrics struct {
	// Counters
	starts          atomic.Int64
	stops           atomic.Int64
	restarts        atomic.Int64
	configReloads   atomic.Int64
	framesRendered  atomic.Int64
	renderErrors    atomic.Int64
	targetRecreates atomic.Int64
	scriptCalls     atomic.Int64
	scriptErrors    atomic.Int64
	eventsEmitted   atomic.Int64

	// Latency tracking (stored as nanoseconds)
	renderLatencyNs    atomic.Int64
	renderLatencyCount atomic.Int64
	reloadLatencyNs    atomic.Int64
	reloadLatencyCount atomic.Int64

	// Current state gauges
	currentlyRunning atomic.Int32

	// Registration tracking to prevent duplicate expvar registration
	registered atomic.Bool
}

// NewMetrics creates a new Metrics instance.
// Call RegisterExpvar() to expose metrics via the /debug/vars endpoint.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RegisterExpvar registers all metrics with Go's expvar package.
// This makes metrics available at /debug/vars when an HTTP server is running.
// Safe to call multiple times; subsequent calls are no-ops.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) {
		return // Already registered
	}

	// Counters
	expvar.Publish("graphview_starts_total", expvar.Func(func() any { return m.starts.Load() }))
	expvar.Publish("graphview_stops_total", expvar.Func(func() any { return m.stops.Load() }))
	expvar.Publish("graphview_restarts_total", expvar.Func(func() any { return m.restarts.Load() }))
	expvar.Publish("graphview_config_reloads_total", expvar.Func(func() any { return m.configReloads.Load() }))
	expvar.Publish("graphview_frames_rendered_total", expvar.Func(func() any { return m.framesRendered.Load() }))
	expvar.Publish("graphview_render_errors_total", expvar.Func(func() any { return m.renderErrors.Load() }))
	expvar.Publish("graphview_target_recreates_total", expvar.Func(func() any { return m.targetRecreates.Load() }))
	expvar.Publish("graphview_script_calls_total", expvar.Func(func() any { return m.scriptCalls.Load() }))
	expvar.Publish("graphview_script_errors_total", expvar.Func(func() any { return m.scriptErrors.Load() }))
	expvar.Publish("graphview_events_emitted_total", expvar.Func(func() any { return m.eventsEmitted.Load() }))

	// Gauges
	expvar.Publish("graphview_running", expvar.Func(func() any { return m.currentlyRunning.Load() }))

	// Latency averages (milliseconds)
	expvar.Publish("graphview_render_latency_avg_ms", expvar.Func(func() any {
		count := m.renderLatencyCount.Load()
		if count == 0 {
			return float64(0)
		}
		return float64(m.renderLatencyNs.Load()) / float64(count) / 1e6
	}))
	expvar.Publish("graphview_reload_latency_avg_ms", expvar.Func(func() any {
		count := m.reloadLatencyCount.Load()
		if count == 0 {
			return float64(0)
		}
		return float64(m.reloadLatencyNs.Load()) / float64(count) / 1e6
	}))
}

// Snapshot returns a point-in-time copy of all metrics.
// Useful for testing or custom metric exposition.
func (m *Metrics) Snapshot() MetricsSnapshot {
	renderCount := m.renderLatencyCount.Load()
	reloadCount := m.reloadLatencyCount.Load()

	return MetricsSnapshot{
		Starts:          m.starts.Load(),
		Stops:           m.stops.Load(),
		Restarts:        m.restarts.Load(),
		ConfigReloads:   m.configReloads.Load(),
		FramesRendered:  m.framesRendered.Load(),
		RenderErrors:    m.renderErrors.Load(),
		TargetRecreates: m.targetRecreates.Load(),
		ScriptCalls:     m.scriptCalls.Load(),
		ScriptErrors:    m.scriptErrors.Load(),
		EventsEmitted:   m.eventsEmitted.Load(),

		Running: m.currentlyRunning.Load() > 0,

		RenderLatencyAvg: safeDivide(m.renderLatencyNs.Load(), renderCount),
		ReloadLatencyAvg: safeDivide(m.reloadLatencyNs.Load(), reloadCount),
	}
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	// Counters
	Starts          int64
	Stops           int64
	Restarts        int64
	ConfigReloads   int64
	FramesRendered  int64
	RenderErrors    int64
	TargetRecreates int64
	ScriptCalls     int64
	ScriptErrors    int64
	EventsEmitted   int64

	// Gauges
	Running bool

	// Latency averages
	RenderLatencyAvg time.Duration
	ReloadLatencyAvg time.Duration
}

// Counter increment methods

// IncrementStarts records a start operation.
func (m *Metrics) IncrementStarts() {
	m.starts.Add(1)
}

// IncrementStops records a stop operation.
func (m *Metrics) IncrementStops() {
	m.stops.Add(1)
}

// IncrementRestarts records a restart operation.
func (m *Metrics) IncrementRestarts() {
	m.restarts.Add(1)
}

// IncrementConfigReloads records a configuration reload.
func (m *Metrics) IncrementConfigReloads() {
	m.configReloads.Add(1)
}

// IncrementFramesRendered records a completed frame.
func (m *Metrics) IncrementFramesRendered() {
	m.framesRendered.Add(1)
}

// IncrementRenderErrors records a render failure.
func (m *Metrics) IncrementRenderErrors() {
	m.renderErrors.Add(1)
}

// IncrementTargetRecreates records a draw-target recreation after surface loss.
func (m *Metrics) IncrementTargetRecreates() {
	m.targetRecreates.Add(1)
}

// IncrementScriptCalls records a Lua plot-function invocation.
func (m *Metrics) IncrementScriptCalls() {
	m.scriptCalls.Add(1)
}

// IncrementScriptErrors records a Lua plot-function error.
func (m *Metrics) IncrementScriptErrors() {
	m.scriptErrors.Add(1)
}

// IncrementEventsEmitted records an event emission.
func (m *Metrics) IncrementEventsEmitted() {
	m.eventsEmitted.Add(1)
}

// Gauge methods

// SetRunning updates the running state gauge.
func (m *Metrics) SetRunning(running bool) {
	if running {
		m.currentlyRunning.Store(1)
	} else {
		m.currentlyRunning.Store(0)
	}
}

// Latency recording methods

// RecordRenderLatency records the duration of a frame render.
func (m *Metrics) RecordRenderLatency(d time.Duration) {
	m.renderLatencyNs.Add(d.Nanoseconds())
	m.renderLatencyCount.Add(1)
}

// RecordReloadLatency records the duration of a configuration reload.
func (m *Metrics) RecordReloadLatency(d time.Duration) {
	m.reloadLatencyNs.Add(d.Nanoseconds())
	m.reloadLatencyCount.Add(1)
}

// Reset clears all metrics. Useful for testing.
func (m *Metrics) Reset() {
	m.starts.Store(0)
	m.stops.Store(0)
	m.restarts.Store(0)
	m.configReloads.Store(0)
	m.framesRendered.Store(0)
	m.renderErrors.Store(0)
	m.targetRecreates.Store(0)
	m.scriptCalls.Store(0)
	m.scriptErrors.Store(0)
	m.eventsEmitted.Store(0)

	m.renderLatencyNs.Store(0)
	m.renderLatencyCount.Store(0)
	m.reloadLatencyNs.Store(0)
	m.reloadLatencyCount.Store(0)

	m.currentlyRunning.Store(0)
}

// safeDivide performs safe division, returning 0 for divide by zero.
func safeDivide(total, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(total / count)
}

// defaultMetrics is a global metrics instance for convenience.
var defaultMetrics = NewMetrics()

// DefaultMetrics returns the global default Metrics instance.
// This can be used when a single application-wide metrics collector is sufficient.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}
