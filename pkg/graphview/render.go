package graphview

import (
	"errors"
	"time"

	"github.com/opd-ai/go-graphview/internal/config"
	"github.com/opd-ai/go-graphview/internal/render"
)

// windowHintDelay gives the window manager time to map the window before
// the EWMH state hints are applied.
const windowHintDelay = 500 * time.Millisecond

// gameRunner provides the Ebiten game integration for rendering.
type gameRunner struct {
	game *render.Game
}

// newGameRunner creates a new game runner for the Ebiten rendering loop.
func newGameRunner() *gameRunner {
	return &gameRunner{}
}

// run creates and runs the Ebiten rendering loop.
// This method blocks until the window is closed or the context is cancelled.
func (gr *gameRunner) run(v *viewerImpl) {
	v.mu.RLock()
	cfg := v.cfg
	title := v.opts.WindowTitle
	logger := v.opts.Logger
	ctx := v.ctx
	v.mu.RUnlock()

	cv, err := v.currentCurve()
	if err != nil {
		v.notifyError(NewCategorizedError(err, ErrorCategoryConfig, SeverityCritical))
		return
	}

	if title == "" {
		title = cfg.Window.Title
	}
	if title == "" {
		title = config.DefaultTitle
	}

	renderConfig := render.Config{
		Width:   cfg.Window.Width,
		Height:  cfg.Window.Height,
		Title:   title,
		Style:   renderStyle(cfg),
		ShowHUD: cfg.Style.ShowHUD,
	}
	if renderConfig.Width <= 0 {
		renderConfig.Width = config.DefaultWidth
	}
	if renderConfig.Height <= 0 {
		renderConfig.Height = config.DefaultHeight
	}

	gr.game = render.NewGame(render.EbitenDevice{}, cv, renderConfig)
	gr.game.SetContext(ctx)
	gr.game.SetErrorHandler(v.notifyError)
	gr.game.SetFrameHook(v.onFrame)

	if cfg.Window.SkipTaskbar || cfg.Window.SkipPager {
		go func() {
			time.Sleep(windowHintDelay)
			if err := render.ApplyWindowHints(cfg.Window.SkipTaskbar, cfg.Window.SkipPager); err != nil {
				if logger != nil {
					logger.Warn("window hints not applied", "error", err)
				}
			}
		}()
	}

	// Run the Ebiten game loop (blocks until window close or context cancel)
	if err := gr.game.Run(); err != nil {
		// ErrGameTerminated is expected when the context is cancelled
		if !errors.Is(err, render.ErrGameTerminated) {
			v.notifyError(err)
		}
	}
}

// renderStyle converts the configured style to the render package's form.
func renderStyle(cfg *config.Config) render.Style {
	return render.Style{
		Background:  cfg.Style.BackgroundColor,
		Line:        cfg.Style.LineColor,
		StrokeWidth: cfg.Style.StrokeWidth,
	}
}

// runRenderLoop creates and runs the Ebiten rendering loop.
func (v *viewerImpl) runRenderLoop() {
	gr := newGameRunner()
	v.mu.Lock()
	v.gameRunner = gr
	v.mu.Unlock()
	gr.run(v)
}
