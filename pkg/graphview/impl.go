package graphview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-graphview/internal/config"
	"github.com/opd-ai/go-graphview/internal/curve"
	"github.com/opd-ai/go-graphview/internal/render"
	"github.com/opd-ai/go-graphview/internal/script"
)

// configLoader re-reads the original configuration source. The returned
// parser is non-nil only when the config carries a scripted plot function.
type configLoader func() (*config.Config, *config.Parser, error)

// viewerImpl is the private implementation of the Viewer interface.
type viewerImpl struct {
	// Configuration
	cfg          *config.Config
	parser       *config.Parser // Lua runtime backing cfg's plot function (may be nil)
	opts         Options
	configSource string
	loader       configLoader

	// curveOverride is set for viewers built with NewWithCurve; it wins
	// over the configuration's function selection.
	curveOverride *curve.Curve

	// Components
	gameRunner *gameRunner
	metrics    *Metrics
	tracker    *ErrorTracker
	watcher    *configWatcher

	// retiredParsers holds Lua runtimes replaced by hot reloads. A frame
	// in flight may still be evaluating the old plot function, so they
	// are closed only after the render loop exits.
	retiredParsers []*config.Parser

	// State
	running       atomic.Bool
	startTime     time.Time
	frameCount    atomic.Uint64
	seenRecreates atomic.Int64 // lost-target count already folded into metrics
	lastError     atomic.Value // stores error

	// plotFn is the active scripted plot function, nil for builtin
	// curves. Its evaluation counters are folded into metrics once per
	// frame; the seen counters reset whenever the function is swapped.
	plotFn          atomic.Pointer[script.PlotFunction]
	seenScriptCalls atomic.Int64
	seenScriptErrs  atomic.Int64

	// Handlers
	errorHandler ErrorHandler
	eventHandler EventHandler

	// Synchronization
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Verify interface implementation at compile time.
var _ Viewer = (*viewerImpl)(nil)

// newViewer assembles a viewerImpl with its metrics and error tracker.
func newViewer(cfg *config.Config, parser *config.Parser, opts Options, source string, loader configLoader) *viewerImpl {
	v := &viewerImpl{
		cfg:          cfg,
		parser:       parser,
		opts:         opts,
		configSource: source,
		loader:       loader,
	}
	if opts.Metrics != nil {
		v.metrics = opts.Metrics
	} else {
		v.metrics = DefaultMetrics()
	}
	if opts.ErrorTracker != nil {
		v.tracker = opts.ErrorTracker
	} else {
		v.tracker = NewErrorTracker(DefaultErrorTrackerConfig())
	}
	v.trackScriptedPlot(cfg)
	return v
}

// trackScriptedPlot points metric folding at cfg's plot function, or at
// nothing when the configuration selects a builtin.
func (v *viewerImpl) trackScriptedPlot(cfg *config.Config) {
	fn, _ := cfg.Graph.Plot.(*script.PlotFunction)
	v.plotFn.Store(fn)
	v.seenScriptCalls.Store(0)
	v.seenScriptErrs.Store(0)
}

// Start opens the window and begins the rendering loop.
func (v *viewerImpl) Start() error {
	v.mu.Lock()

	if v.running.Load() {
		v.mu.Unlock()
		return fmt.Errorf("viewer already running")
	}

	v.ctx, v.cancel = context.WithCancel(context.Background())

	if v.opts.WatchConfig && v.loader != nil && v.configSource != "reader" {
		watcher, err := newConfigWatcher(v.configSource, v.opts.WatchDebounce, v.ReloadConfig, v.notifyError)
		if err != nil {
			v.cancel()
			v.mu.Unlock()
			return fmt.Errorf("config watcher: %w", err)
		}
		v.watcher = watcher
		watcher.Start()
	}

	// Set running state BEFORE starting the goroutine to avoid a race.
	v.running.Store(true)
	v.startTime = time.Now()
	v.frameCount.Store(0)
	v.seenRecreates.Store(0)

	v.metrics.IncrementStarts()
	v.metrics.SetRunning(true)

	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		defer v.cleanup()
		defer v.running.Store(false)
		defer v.metrics.SetRunning(false)

		if v.opts.Headless {
			// Headless mode: just wait for context cancellation.
			<-v.ctx.Done()
		} else {
			// GUI mode: run the Ebiten rendering loop.
			v.runRenderLoop()

			// Ensure the context is cancelled when the render loop exits
			// on its own (e.g. when the user closes the window), so that
			// watchers and Stop() observe the shutdown.
			if v.cancel != nil {
				v.cancel()
			}
		}

		v.emitEvent(EventStopped, "Viewer stopped")
	}()

	// Release lock before emitting event to avoid deadlock.
	v.mu.Unlock()

	v.emitEvent(EventStarted, "Viewer started")

	return nil
}

// Stop gracefully shuts down the viewer.
func (v *viewerImpl) Stop() error {
	if !v.running.Load() {
		return nil // Already stopped
	}

	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	watcher := v.watcher
	v.watcher = nil
	v.mu.Unlock()

	if watcher != nil {
		watcher.Stop()
	}

	// Wait for goroutines with timeout
	done := make(chan struct{})
	go func() {
		v.wg.Wait()
		close(done)
	}()

	timeout := v.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	select {
	case <-done:
		v.metrics.IncrementStops()
		return nil
	case <-time.After(timeout):
		err := fmt.Errorf("shutdown timeout after %v: some goroutines did not stop", timeout)
		v.notifyError(err)
		return err
	}
}

// Restart performs a stop followed by a start.
func (v *viewerImpl) Restart() error {
	if err := v.Stop(); err != nil {
		wrappedErr := fmt.Errorf("stop failed: %w", err)
		v.notifyError(wrappedErr)
		return wrappedErr
	}

	if v.loader != nil {
		cfg, parser, err := v.loader()
		if err != nil {
			wrappedErr := NewCategorizedError(err, ErrorCategoryConfig, SeverityError)
			v.notifyError(wrappedErr)
			return wrappedErr
		}
		v.mu.Lock()
		if v.parser != nil {
			v.parser.Close()
		}
		v.cfg = cfg
		v.parser = parser
		v.mu.Unlock()
		v.trackScriptedPlot(cfg)
		v.emitEvent(EventConfigReloaded, "Configuration reloaded")
	}

	if err := v.Start(); err != nil {
		wrappedErr := fmt.Errorf("start failed: %w", err)
		v.notifyError(wrappedErr)
		return wrappedErr
	}

	v.metrics.IncrementRestarts()
	v.emitEvent(EventRestarted, "Viewer restarted")
	return nil
}

// ReloadConfig reloads the configuration in-place without stopping.
// The window stays open while the plotted function, domain, range and
// style switch to the new values.
func (v *viewerImpl) ReloadConfig() error {
	if !v.running.Load() {
		return fmt.Errorf("viewer not running")
	}

	if v.loader == nil {
		return fmt.Errorf("no config loader available")
	}

	reloadStart := time.Now()

	newCfg, newParser, err := v.loader()
	if err != nil {
		wrappedErr := NewCategorizedError(err, ErrorCategoryConfig, SeverityError)
		v.notifyError(wrappedErr)
		return wrappedErr
	}

	newCurve, err := newCfg.Curve()
	if err != nil {
		if newParser != nil {
			newParser.Close()
		}
		wrappedErr := NewCategorizedError(err, ErrorCategoryConfig, SeverityError)
		v.notifyError(wrappedErr)
		return wrappedErr
	}

	v.mu.Lock()
	if v.parser != nil {
		// The render loop may still be evaluating the old plot function;
		// defer closing its runtime until the loop exits.
		v.retiredParsers = append(v.retiredParsers, v.parser)
	}
	v.cfg = newCfg
	v.parser = newParser
	runner := v.gameRunner
	v.mu.Unlock()

	v.trackScriptedPlot(newCfg)

	if runner != nil && runner.game != nil {
		runner.game.SetCurve(newCurve)
		runner.game.SetStyle(renderStyle(newCfg))
		runner.game.SetShowHUD(newCfg.Style.ShowHUD)
	}

	v.metrics.IncrementConfigReloads()
	v.metrics.RecordReloadLatency(time.Since(reloadStart))
	v.emitEvent(EventConfigReloaded, "Configuration reloaded in-place")
	return nil
}

// IsRunning returns true if the viewer is currently running.
func (v *viewerImpl) IsRunning() bool {
	return v.running.Load()
}

// Status returns detailed status information about the instance.
func (v *viewerImpl) Status() Status {
	v.mu.RLock()
	startTime := v.startTime
	configSource := v.configSource
	v.mu.RUnlock()

	return Status{
		Running:      v.running.Load(),
		StartTime:    startTime,
		FrameCount:   v.frameCount.Load(),
		LastError:    v.getError(),
		ConfigSource: configSource,
	}
}

// SetErrorHandler registers a callback for runtime errors.
func (v *viewerImpl) SetErrorHandler(handler ErrorHandler) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errorHandler = handler
}

// SetEventHandler registers a callback for lifecycle events.
func (v *viewerImpl) SetEventHandler(handler EventHandler) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.eventHandler = handler
}

// currentCurve resolves the curve to plot: the override for curve-based
// viewers, otherwise the configuration's function selection.
func (v *viewerImpl) currentCurve() (*curve.Curve, error) {
	v.mu.RLock()
	override := v.curveOverride
	cfg := v.cfg
	v.mu.RUnlock()

	if override != nil {
		return override, nil
	}
	return cfg.Curve()
}

// onFrame is installed as the render loop's frame hook.
func (v *viewerImpl) onFrame(d time.Duration, lost int64, err error) {
	v.frameCount.Add(1)
	v.metrics.IncrementFramesRendered()
	v.metrics.RecordRenderLatency(d)
	if err != nil {
		v.metrics.IncrementRenderErrors()
	}
	// Each lost target is rebuilt on the following frame.
	for prev := v.seenRecreates.Swap(lost); prev < lost; prev++ {
		v.metrics.IncrementTargetRecreates()
	}

	if fn := v.plotFn.Load(); fn != nil {
		calls, errs := fn.Stats()
		for prev := v.seenScriptCalls.Swap(calls); prev < calls; prev++ {
			v.metrics.IncrementScriptCalls()
		}
		for prev := v.seenScriptErrs.Swap(errs); prev < errs; prev++ {
			v.metrics.IncrementScriptErrors()
		}
	}
}

// cleanup releases all resources after the run goroutine exits.
func (v *viewerImpl) cleanup() {
	v.mu.Lock()
	retired := v.retiredParsers
	v.retiredParsers = nil
	watcher := v.watcher
	v.watcher = nil
	v.mu.Unlock()

	for _, p := range retired {
		p.Close()
	}
	if watcher != nil {
		watcher.Stop()
	}
}

// getError retrieves the last error.
func (v *viewerImpl) getError() error {
	if val := v.lastError.Load(); val != nil {
		if err, ok := val.(error); ok {
			return err
		}
	}
	return nil
}

// notifyError stores an error, records it with the tracker, and invokes
// the error handler if registered.
func (v *viewerImpl) notifyError(err error) {
	v.lastError.Store(err)
	v.tracker.Record(categorize(err))

	v.mu.RLock()
	handler := v.errorHandler
	logger := v.opts.Logger
	v.mu.RUnlock()

	if logger != nil {
		logger.Error("viewer error", "error", err)
	}

	if handler != nil {
		go func() {
			defer func() {
				// Recover from panics in the handler to prevent crashing
				// the embedding application.
				if r := recover(); r != nil {
					if logger != nil {
						logger.Error("error handler panicked", "panic", r, "original_error", err)
					}
				}
			}()
			handler(err)
		}()
	}

	v.emitEvent(EventError, err.Error())
}

// categorize maps an error to a CategorizedError for the tracker,
// preserving an existing categorization when present.
func categorize(err error) *CategorizedError {
	var catErr *CategorizedError
	if errors.As(err, &catErr) {
		return catErr
	}

	category := ErrorCategoryUnknown
	var resErr *render.ResourceCreationError
	var rendErr *render.RenderError
	switch {
	case errors.As(err, &resErr):
		category = ErrorCategoryResource
	case errors.As(err, &rendErr):
		category = ErrorCategoryRender
	}
	return NewCategorizedError(err, category, SeverityError)
}

// emitEvent sends an event to the event handler if configured.
func (v *viewerImpl) emitEvent(eventType EventType, message string) {
	v.metrics.IncrementEventsEmitted()

	v.mu.RLock()
	handler := v.eventHandler
	v.mu.RUnlock()

	if handler != nil {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					// Recover from panics in the handler to avoid crashing
					// the embedding application.
					v.mu.RLock()
					errHandler := v.errorHandler
					v.mu.RUnlock()
					if errHandler != nil {
						if err, ok := r.(error); ok {
							errHandler(fmt.Errorf("panic in event handler: %w", err))
						} else {
							errHandler(fmt.Errorf("panic in event handler: %v", r))
						}
					}
				}
			}()

			handler(Event{
				Type:      eventType,
				Timestamp: time.Now(),
				Message:   message,
			})
		}()
	}
}

// Health returns a health check result for the viewer.
func (v *viewerImpl) Health() HealthCheck {
	now := time.Now()
	components := make(map[string]ComponentHealth)

	running := v.running.Load()

	var uptime time.Duration
	v.mu.RLock()
	if running && !v.startTime.IsZero() {
		uptime = now.Sub(v.startTime)
	}
	configSource := v.configSource
	v.mu.RUnlock()

	if running {
		components["viewer"] = ComponentHealth{
			Status:      HealthOK,
			Message:     fmt.Sprintf("Viewer running, %d frames rendered", v.frameCount.Load()),
			LastUpdated: now,
		}
	} else {
		components["viewer"] = ComponentHealth{
			Status:      HealthUnhealthy,
			Message:     "Viewer is not running",
			LastUpdated: now,
		}
	}

	components["config"] = ComponentHealth{
		Status:      HealthOK,
		Message:     fmt.Sprintf("Configuration source: %s", configSource),
		LastUpdated: now,
	}

	lastErr := v.getError()
	if lastErr != nil {
		components["errors"] = ComponentHealth{
			Status:      HealthDegraded,
			Message:     lastErr.Error(),
			LastUpdated: now,
		}
	} else {
		components["errors"] = ComponentHealth{
			Status:      HealthOK,
			Message:     "No recent errors",
			LastUpdated: now,
		}
	}

	overallStatus := HealthOK
	var message string

	switch {
	case !running:
		overallStatus = HealthUnhealthy
		message = "Viewer is not running"
	case lastErr != nil:
		overallStatus = HealthDegraded
		message = "Running with recent errors"
	default:
		message = "All components healthy"
	}

	return HealthCheck{
		Status:     overallStatus,
		Timestamp:  now,
		Uptime:     uptime,
		Components: components,
		Message:    message,
	}
}

// Metrics returns the metrics collector for this instance.
func (v *viewerImpl) Metrics() *Metrics {
	return v.metrics
}
