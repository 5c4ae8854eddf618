package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"
)

// Overlay settings.
const (
	overlayFontSize = 12.0
	overlayMarginX  = 6.0
	overlayMarginY  = 4.0
)

// overlayTextColor is the fixed HUD text color, dark enough to read on
// the default white background.
var overlayTextColor = color.RGBA{R: 64, G: 64, B: 64, A: 255}

// Overlay draws the optional one-line status HUD in the top-left corner
// of the screen: domain, range, and last frame time.
type Overlay struct {
	fontSource *text.GoTextFaceSource
}

// NewOverlay creates an Overlay with the embedded monospace font.
func NewOverlay() (*Overlay, error) {
	fontSource, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, fmt.Errorf("load embedded font: %w", err)
	}
	return &Overlay{fontSource: fontSource}, nil
}

// Draw renders line at the top-left of screen.
func (o *Overlay) Draw(screen *ebiten.Image, line string) {
	face := &text.GoTextFace{
		Source: o.fontSource,
		Size:   overlayFontSize,
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(overlayMarginX, overlayMarginY)
	op.ColorScale.ScaleWithColor(overlayTextColor)

	text.Draw(screen, line, face, op)
}
