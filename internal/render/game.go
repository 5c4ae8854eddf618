package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-graphview/internal/curve"
)

// ErrGameTerminated is returned when the window loop is terminated via
// context cancellation rather than by the user closing the window.
var ErrGameTerminated = errors.New("game terminated")

// ErrorHandler receives render errors that do not stop the loop.
type ErrorHandler func(err error)

// DefaultErrorHandler writes errors to stderr.
func DefaultErrorHandler(err error) {
	fmt.Fprintf(os.Stderr, "render error: %v\n", err)
}

// Game implements ebiten.Game and bridges the window's resize and paint
// events into pipeline calls. Ebiten invokes Update, Draw, and Layout on
// the one goroutine that owns the surface, which is the threading model
// the pipeline requires; the mutex only guards against concurrent
// configuration swaps from the embedding API.
type Game struct {
	pipeline     *Pipeline
	config       Config
	overlay      *Overlay
	errorHandler ErrorHandler
	ctx          context.Context
	lastFrame    time.Duration
	frameHook    func(d time.Duration, lost int64, err error)
	mu           sync.Mutex
	running      bool
}

// NewGame creates the window glue around a pipeline rendering cv with the
// given device.
func NewGame(device Device, cv *curve.Curve, cfg Config) *Game {
	return &Game{
		pipeline:     NewPipeline(device, cv, cfg.Style),
		config:       cfg,
		errorHandler: DefaultErrorHandler,
	}
}

// SetErrorHandler replaces the handler for per-frame render errors.
// A nil handler silently drops them.
func (g *Game) SetErrorHandler(handler ErrorHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errorHandler = handler
}

// SetContext attaches a context; when it is cancelled the window loop
// terminates with ErrGameTerminated.
func (g *Game) SetContext(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctx = ctx
}

// SetFrameHook registers a callback invoked after every frame with its
// duration, the pipeline's lifetime lost-target count, and the render
// outcome. Used by the embedding API for metrics.
func (g *Game) SetFrameHook(hook func(d time.Duration, lost int64, err error)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.frameHook = hook
}

// SetCurve hot-swaps the plotted curve; the next frame draws it.
func (g *Game) SetCurve(cv *curve.Curve) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pipeline.SetCurve(cv)
}

// SetStyle hot-swaps the visual style.
func (g *Game) SetStyle(style Style) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pipeline.SetStyle(style)
	g.config.Style = style
}

// SetShowHUD toggles the status overlay.
func (g *Game) SetShowHUD(show bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.config.ShowHUD = show
}

// InvalidateSurface injects a surface-lost condition. An Ebiten-backed
// target is marked lost, so the next Present reports ErrTargetLost and
// the full lost-target recovery runs: resources are released and rebuilt
// on the frame after. Other targets fall back to an immediate release
// through the pipeline.
func (g *Game) InvalidateSurface() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if t, ok := g.pipeline.Target().(*ebitenTarget); ok {
		t.MarkLost()
		return
	}
	g.pipeline.SurfaceLost()
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ctx != nil {
		select {
		case <-g.ctx.Done():
			return ErrGameTerminated
		default:
		}
	}
	return nil
}

// Draw implements ebiten.Game. One call is one paint request: the
// pipeline renders a full frame into its target, which is then blitted to
// the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	defer g.mu.Unlock()

	start := time.Now()
	err := g.pipeline.Render()
	g.lastFrame = time.Since(start)

	if err != nil && g.errorHandler != nil {
		g.errorHandler(err)
	}
	if g.frameHook != nil {
		g.frameHook(g.lastFrame, g.pipeline.LostTargets(), err)
	}
	if err != nil {
		return
	}

	if t, ok := g.pipeline.Target().(*ebitenTarget); ok && t.Image() != nil {
		screen.DrawImage(t.Image(), nil)
	}

	if g.config.ShowHUD {
		if g.overlay == nil {
			overlay, err := NewOverlay()
			if err != nil {
				g.config.ShowHUD = false
				if g.errorHandler != nil {
					g.errorHandler(fmt.Errorf("init overlay: %w", err))
				}
				return
			}
			g.overlay = overlay
		}
		g.overlay.Draw(screen, g.hudLine())
	}
}

// Layout implements ebiten.Game. The window is resizable; the logical
// size follows the window client area, and size changes are forwarded to
// the pipeline as resize events.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	size := curve.Size{Width: float64(outsideWidth), Height: float64(outsideHeight)}
	if g.pipeline.Size() != size {
		g.pipeline.Resize(size)
	}
	return outsideWidth, outsideHeight
}

// hudLine formats the one-line status overlay. Callers hold g.mu.
func (g *Game) hudLine() string {
	cv := g.pipeline.Curve()
	d, r := cv.Domain(), cv.Range()
	return fmt.Sprintf("x:[%g, %g]  y:[%g, %g]  frame:%.2fms",
		d.Start, d.End, r.Start, r.End,
		float64(g.lastFrame.Microseconds())/1000)
}

// Run opens the window and blocks in the Ebiten game loop until the
// window is closed or the attached context is cancelled. The pipeline is
// disposed before Run returns.
func (g *Game) Run() error {
	ebiten.SetWindowSize(g.config.Width, g.config.Height)
	ebiten.SetWindowTitle(g.config.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	err := ebiten.RunGame(g)

	g.mu.Lock()
	g.running = false
	g.pipeline.Dispose()
	g.mu.Unlock()

	return err
}

// IsRunning reports whether the window loop is active.
func (g *Game) IsRunning() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}
