package render

import "image/color"

// Config holds the settings the window glue needs to run the render loop.
type Config struct {
	// Width is the initial window width in pixels.
	Width int
	// Height is the initial window height in pixels.
	Height int
	// Title is the window title.
	Title string
	// Style is the visual style of the plot.
	Style Style
	// ShowHUD enables the one-line status overlay.
	ShowHUD bool
}

// DefaultConfig returns a render Config with the built-in defaults:
// a 640x480 window drawing a red curve on white.
func DefaultConfig() Config {
	return Config{
		Width:  640,
		Height: 480,
		Title:  "graphview",
		Style: Style{
			Background:  color.RGBA{R: 255, G: 255, B: 255, A: 255},
			Line:        color.RGBA{R: 255, G: 0, B: 0, A: 255},
			StrokeWidth: 2.0,
		},
	}
}
