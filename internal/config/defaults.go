package config

import (
	"image/color"

	"github.com/opd-ai/go-graphview/internal/curve"
)

// Default values for configuration options.
const (
	// DefaultTitle is the default window title.
	DefaultTitle = "graphview"
	// DefaultWidth is the default window width in pixels.
	DefaultWidth = 640
	// DefaultHeight is the default window height in pixels.
	DefaultHeight = 480
	// DefaultStrokeWidth is the default curve stroke width in pixels.
	DefaultStrokeWidth = 2.0
	// DefaultFunctionName is the builtin function plotted by default.
	DefaultFunctionName = "sin"
)

// Default colors.
var (
	// DefaultLineColor is the default curve color (red).
	DefaultLineColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	// DefaultBackgroundColor is the default surface color (white).
	DefaultBackgroundColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Default mapping intervals for the default sin curve.
var (
	// DefaultDomain is the default horizontal interval.
	DefaultDomain = curve.Interval{Start: 0, End: 6}
	// DefaultRange is the default vertical interval.
	DefaultRange = curve.Interval{Start: -1.5, End: 1.5}
)

// DefaultConfig returns a Config with default values: the default sin
// curve in a 640x480 window, red on white.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title:  DefaultTitle,
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Graph: GraphConfig{
			FunctionName: DefaultFunctionName,
			Domain:       DefaultDomain,
			Range:        DefaultRange,
		},
		Style: StyleConfig{
			BackgroundColor: DefaultBackgroundColor,
			LineColor:       DefaultLineColor,
			StrokeWidth:     DefaultStrokeWidth,
		},
	}
}
