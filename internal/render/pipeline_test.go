package render

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/opd-ai/go-graphview/internal/curve"
)

// fakeDevice records allocations and lets tests inject failures and
// lost-target conditions without a real graphics backend.
type fakeDevice struct {
	targetCreations int
	brushCreations  int
	targetErr       error
	brushErr        error
	lastTarget      *fakeTarget
	lastBrush       *fakeBrush
}

func (d *fakeDevice) CreateTarget(size curve.Size) (DrawTarget, error) {
	if d.targetErr != nil {
		return nil, d.targetErr
	}
	d.targetCreations++
	d.lastTarget = &fakeTarget{size: size}
	return d.lastTarget, nil
}

func (d *fakeDevice) CreateBrush(c color.RGBA) (Brush, error) {
	if d.brushErr != nil {
		return nil, d.brushErr
	}
	d.brushCreations++
	d.lastBrush = &fakeBrush{color: c}
	return d.lastBrush, nil
}

type fakeTarget struct {
	size       curve.Size
	clears     int
	lines      []fakeLine
	presents   int
	presentErr error
	released   int
	resizes    []curve.Size
}

type fakeLine struct {
	from, to curve.Point
	width    float32
}

func (t *fakeTarget) Clear(color.RGBA) { t.clears++ }

func (t *fakeTarget) StrokeLine(from, to curve.Point, _ Brush, width float32) {
	t.lines = append(t.lines, fakeLine{from: from, to: to, width: width})
}

func (t *fakeTarget) Resize(size curve.Size) {
	t.size = size
	t.resizes = append(t.resizes, size)
}

func (t *fakeTarget) Present() error {
	t.presents++
	err := t.presentErr
	t.presentErr = nil
	return err
}

func (t *fakeTarget) Release() { t.released++ }

type fakeBrush struct {
	color    color.RGBA
	released int
}

func (b *fakeBrush) Color() color.RGBA { return b.color }
func (b *fakeBrush) Release()          { b.released++ }

func testStyle() Style {
	return Style{
		Background:  color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Line:        color.RGBA{R: 255, A: 255},
		StrokeWidth: 2.0,
	}
}

func newTestPipeline(t *testing.T) (*Pipeline, *fakeDevice) {
	t.Helper()
	device := &fakeDevice{}
	p := NewPipeline(device, curve.Default(), testStyle())
	p.Resize(curve.Size{Width: 100, Height: 50})
	return p, device
}

func TestRenderCreatesResourcesLazily(t *testing.T) {
	p, device := newTestPipeline(t)

	if p.Ready() {
		t.Fatal("pipeline ready before first render")
	}
	if device.targetCreations != 0 || device.brushCreations != 0 {
		t.Fatal("resources allocated before first render")
	}

	if err := p.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !p.Ready() {
		t.Fatal("pipeline not ready after render")
	}
	if device.targetCreations != 1 || device.brushCreations != 1 {
		t.Errorf("creations = %d/%d, want 1/1", device.targetCreations, device.brushCreations)
	}

	// A second render reuses the same resources.
	if err := p.Render(); err != nil {
		t.Fatalf("second Render() error = %v", err)
	}
	if device.targetCreations != 1 || device.brushCreations != 1 {
		t.Errorf("creations after reuse = %d/%d, want 1/1", device.targetCreations, device.brushCreations)
	}
}

func TestRenderDrawsOneSegmentPerPixelColumn(t *testing.T) {
	p, device := newTestPipeline(t)

	if err := p.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	target := device.lastTarget
	if target.clears != 1 {
		t.Errorf("clears = %d, want 1", target.clears)
	}
	// Width 100: segments from pixel 0..1 through 99..100.
	if len(target.lines) != 100 {
		t.Fatalf("len(lines) = %d, want 100", len(target.lines))
	}

	// The polyline is connected: each segment starts where the previous
	// one ended, and X advances one pixel at a time.
	for i, line := range target.lines {
		if line.from.X != float64(i) || line.to.X != float64(i+1) {
			t.Fatalf("segment %d spans X %v..%v, want %d..%d", i, line.from.X, line.to.X, i, i+1)
		}
		if i > 0 && line.from != target.lines[i-1].to {
			t.Fatalf("segment %d does not start at previous endpoint", i)
		}
		if line.width != 2.0 {
			t.Fatalf("segment %d width = %v, want 2", i, line.width)
		}
	}

	// Scenario check: sin starts at the range midpoint on a 100x50 surface.
	if got := target.lines[0].from; got.Y != 25 {
		t.Errorf("first point Y = %v, want 25", got.Y)
	}
}

func TestRenderFractionalWidthRoundsUp(t *testing.T) {
	device := &fakeDevice{}
	p := NewPipeline(device, curve.Default(), testStyle())
	p.Resize(curve.Size{Width: 99.5, Height: 50})

	if err := p.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	// maxX = ceil(99.5) = 100, so pixels 1..100 each contribute a segment.
	if got := len(device.lastTarget.lines); got != 100 {
		t.Errorf("len(lines) = %d, want 100", got)
	}
}

func TestResourceCreationFailure(t *testing.T) {
	p, device := newTestPipeline(t)
	device.targetErr = errors.New("out of video memory")

	err := p.Render()
	var creationErr *ResourceCreationError
	if !errors.As(err, &creationErr) {
		t.Fatalf("Render() error = %v, want ResourceCreationError", err)
	}
	if p.Ready() {
		t.Error("pipeline ready after failed creation")
	}

	// The next paint retries creation from scratch.
	device.targetErr = nil
	if err := p.Render(); err != nil {
		t.Fatalf("retry Render() error = %v", err)
	}
	if !p.Ready() {
		t.Error("pipeline not ready after successful retry")
	}
}

func TestBrushFailureReleasesTarget(t *testing.T) {
	p, device := newTestPipeline(t)
	device.brushErr = errors.New("no brush for you")

	err := p.Render()
	var creationErr *ResourceCreationError
	if !errors.As(err, &creationErr) {
		t.Fatalf("Render() error = %v, want ResourceCreationError", err)
	}
	// The half-created target must not leak: pairing holds even on the
	// failure path.
	if device.lastTarget == nil || device.lastTarget.released != 1 {
		t.Error("target not released after brush creation failure")
	}
	if p.Ready() {
		t.Error("pipeline ready after partial creation")
	}
}

func TestLostTargetTriggersRecreation(t *testing.T) {
	p, device := newTestPipeline(t)

	if err := p.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	firstTarget, firstBrush := device.lastTarget, device.lastBrush

	// The present step reports the recreate-target condition: success for
	// the caller, but both resources are released immediately.
	firstTarget.presentErr = ErrTargetLost
	if err := p.Render(); err != nil {
		t.Fatalf("Render() with lost target error = %v, want nil", err)
	}
	if p.Ready() {
		t.Error("pipeline still ready after target loss")
	}
	if firstTarget.released != 1 || firstBrush.released != 1 {
		t.Errorf("released = %d/%d, want 1/1", firstTarget.released, firstBrush.released)
	}

	// The next render re-enters resource creation rather than reusing
	// the old pair.
	if err := p.Render(); err != nil {
		t.Fatalf("Render() after loss error = %v", err)
	}
	if device.targetCreations != 2 || device.brushCreations != 2 {
		t.Errorf("creations = %d/%d, want 2/2", device.targetCreations, device.brushCreations)
	}
	if p.LostTargets() != 1 {
		t.Errorf("LostTargets() = %d, want 1", p.LostTargets())
	}
}

func TestRenderErrorKeepsResources(t *testing.T) {
	p, device := newTestPipeline(t)

	if err := p.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	target, brush := device.lastTarget, device.lastBrush

	target.presentErr = errors.New("transient present failure")
	err := p.Render()
	var renderErr *RenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("Render() error = %v, want RenderError", err)
	}

	// Non-recreate failures drop the frame but preserve the resources.
	if !p.Ready() {
		t.Error("pipeline lost readiness after a non-recreate failure")
	}
	if target.released != 0 || brush.released != 0 {
		t.Errorf("released = %d/%d, want 0/0", target.released, brush.released)
	}
	if err := p.Render(); err != nil {
		t.Fatalf("Render() after transient failure error = %v", err)
	}
	if device.targetCreations != 1 {
		t.Errorf("creations = %d, want 1 (no recreation)", device.targetCreations)
	}
}

func TestResizeWhileUninitialized(t *testing.T) {
	device := &fakeDevice{}
	p := NewPipeline(device, curve.Default(), testStyle())

	p.Resize(curve.Size{Width: 320, Height: 240})

	if device.targetCreations != 0 || device.brushCreations != 0 {
		t.Error("resize while uninitialized allocated resources")
	}
	if p.Size() != (curve.Size{Width: 320, Height: 240}) {
		t.Errorf("Size() = %v, want 320x240", p.Size())
	}

	// The following paint creates the target at the recorded size.
	if err := p.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if device.lastTarget.size != (curve.Size{Width: 320, Height: 240}) {
		t.Errorf("target size = %v, want recorded size", device.lastTarget.size)
	}
}

func TestResizeWhileReadyResizesInPlace(t *testing.T) {
	p, device := newTestPipeline(t)

	if err := p.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	p.Resize(curve.Size{Width: 200, Height: 100})

	if device.targetCreations != 1 {
		t.Error("resize while ready recreated the target")
	}
	if len(device.lastTarget.resizes) != 1 || device.lastTarget.resizes[0] != (curve.Size{Width: 200, Height: 100}) {
		t.Errorf("target resizes = %v, want one resize to 200x100", device.lastTarget.resizes)
	}
}

func TestSurfaceLostSignal(t *testing.T) {
	p, device := newTestPipeline(t)

	if err := p.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	p.SurfaceLost()

	if p.Ready() {
		t.Error("pipeline ready after surface-lost signal")
	}
	if device.lastTarget.released != 1 || device.lastBrush.released != 1 {
		t.Error("resources not released on surface-lost signal")
	}
}

func TestResourcePairing(t *testing.T) {
	p, device := newTestPipeline(t)

	// At every observable step, target and brush counts move together.
	checkPaired := func(step string) {
		t.Helper()
		if device.targetCreations != device.brushCreations {
			t.Fatalf("%s: target/brush creations diverged: %d vs %d",
				step, device.targetCreations, device.brushCreations)
		}
	}

	checkPaired("initial")
	p.Render()
	checkPaired("after render")
	device.lastTarget.presentErr = ErrTargetLost
	p.Render()
	checkPaired("after loss")
	p.Render()
	checkPaired("after recreation")
	p.Dispose()
	checkPaired("after dispose")
}

func TestDisposeIdempotent(t *testing.T) {
	p, device := newTestPipeline(t)

	if err := p.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	target, brush := device.lastTarget, device.lastBrush

	p.Dispose()
	p.Dispose()

	if target.released != 1 || brush.released != 1 {
		t.Errorf("released = %d/%d after double dispose, want 1/1", target.released, brush.released)
	}
	if err := p.Render(); err == nil {
		t.Error("Render() on disposed pipeline: want error, got nil")
	}
}

func TestDisposeWithoutResources(t *testing.T) {
	device := &fakeDevice{}
	p := NewPipeline(device, curve.Default(), testStyle())

	// Disposing an uninitialized pipeline releases nothing and does not
	// fault.
	p.Dispose()
	p.Dispose()
}

func TestSetCurveTakesEffectNextRender(t *testing.T) {
	p, device := newTestPipeline(t)

	if err := p.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	flat, err := curve.New(curve.Func(func(float64) float64 { return 0 }),
		curve.Interval{Start: 0, End: 1}, curve.Interval{Start: -1, End: 1})
	if err != nil {
		t.Fatalf("curve.New() error = %v", err)
	}
	p.SetCurve(flat)

	device.lastTarget.lines = nil
	if err := p.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	// Constant zero at range midpoint: every Y is half the height.
	for i, line := range device.lastTarget.lines {
		if line.from.Y != 25 || line.to.Y != 25 {
			t.Fatalf("segment %d = %v, want flat line at Y=25", i, line)
		}
	}
}

func TestSetStyleWithNewLineColorRebuildsBrush(t *testing.T) {
	p, device := newTestPipeline(t)

	if err := p.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	style := testStyle()
	style.Line = color.RGBA{G: 255, A: 255}
	p.SetStyle(style)

	if p.Ready() {
		t.Error("resources kept across a line color change")
	}
	if err := p.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if device.lastBrush.color != style.Line {
		t.Errorf("brush color = %v, want %v", device.lastBrush.color, style.Line)
	}
}

func TestRenderPropagatesNonFinitePoints(t *testing.T) {
	device := &fakeDevice{}
	pole, err := curve.New(curve.Func(func(x float64) float64 {
		if x == 0 {
			return math.NaN()
		}
		return 1 / x
	}), curve.Interval{Start: 0, End: 1}, curve.Interval{Start: -1, End: 1})
	if err != nil {
		t.Fatalf("curve.New() error = %v", err)
	}

	p := NewPipeline(device, pole, testStyle())
	p.Resize(curve.Size{Width: 10, Height: 10})

	if err := p.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	// The pole at pixel 0 reaches the draw call as-is; no clamping.
	if first := device.lastTarget.lines[0].from; !math.IsNaN(first.Y) {
		t.Errorf("first point Y = %v, want NaN passed through to the draw call", first.Y)
	}
}
