package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/opd-ai/go-graphview/internal/curve"
)

// EbitenDevice allocates draw targets backed by offscreen Ebiten images.
// Ebiten recovers real GPU context loss internally, so a live target's
// Present only reports ErrTargetLost after an explicit MarkLost, which the
// window glue uses for display-change style invalidation.
type EbitenDevice struct{}

// CreateTarget implements Device.
func (EbitenDevice) CreateTarget(size curve.Size) (DrawTarget, error) {
	w := int(math.Ceil(size.Width))
	h := int(math.Ceil(size.Height))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("target size %dx%d must be positive", w, h)
	}
	return &ebitenTarget{img: ebiten.NewImage(w, h)}, nil
}

// CreateBrush implements Device.
func (EbitenDevice) CreateBrush(c color.RGBA) (Brush, error) {
	return &ebitenBrush{color: c}, nil
}

// ebitenTarget is a DrawTarget over an offscreen *ebiten.Image.
type ebitenTarget struct {
	img  *ebiten.Image
	lost bool
}

func (t *ebitenTarget) Clear(c color.RGBA) {
	if t.img != nil {
		t.img.Fill(c)
	}
}

func (t *ebitenTarget) StrokeLine(from, to curve.Point, b Brush, width float32) {
	if t.img == nil {
		return
	}
	// Non-finite coordinates pass straight through; the vector stroker
	// produces no visible geometry for them.
	vector.StrokeLine(
		t.img,
		float32(from.X), float32(from.Y),
		float32(to.X), float32(to.Y),
		width,
		b.Color(),
		false,
	)
}

// Resize swaps the backing image for one of the new size. The DrawTarget
// itself persists, so from the pipeline's point of view this is an
// in-place resize, not a recreation.
func (t *ebitenTarget) Resize(size curve.Size) {
	w := int(math.Ceil(size.Width))
	h := int(math.Ceil(size.Height))
	if w <= 0 || h <= 0 || t.img == nil {
		return
	}
	bounds := t.img.Bounds()
	if bounds.Dx() == w && bounds.Dy() == h {
		return
	}
	t.img.Deallocate()
	t.img = ebiten.NewImage(w, h)
}

func (t *ebitenTarget) Present() error {
	if t.lost {
		t.lost = false
		return ErrTargetLost
	}
	return nil
}

func (t *ebitenTarget) Release() {
	if t.img != nil {
		t.img.Deallocate()
		t.img = nil
	}
}

// MarkLost makes the next Present report ErrTargetLost.
func (t *ebitenTarget) MarkLost() {
	t.lost = true
}

// Image exposes the backing image for blitting to the screen.
func (t *ebitenTarget) Image() *ebiten.Image {
	return t.img
}

// ebitenBrush is a solid color; Ebiten needs no allocated brush object.
type ebitenBrush struct {
	color    color.RGBA
	released bool
}

func (b *ebitenBrush) Color() color.RGBA { return b.color }

func (b *ebitenBrush) Release() { b.released = true }
