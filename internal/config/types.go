// Package config provides configuration loading for graphview.
// Configurations are Lua files executed under resource limits; they select
// the plotted function (builtin by name, or scripted), its domain and range
// mapping, and the window and style settings.
package config

import (
	"fmt"
	"image/color"

	"github.com/opd-ai/go-graphview/internal/curve"
)

// Config is the complete graphview configuration.
type Config struct {
	// Window holds window-related settings.
	Window WindowConfig
	// Graph selects the plotted function and its mapping.
	Graph GraphConfig
	// Style holds colors and stroke settings.
	Style StyleConfig
}

// WindowConfig holds window-related settings.
type WindowConfig struct {
	// Title is the window title.
	Title string
	// Width is the initial window width in pixels, before DPI scaling.
	Width int
	// Height is the initial window height in pixels, before DPI scaling.
	Height int
	// SkipTaskbar requests the _NET_WM_STATE_SKIP_TASKBAR hint on X11.
	SkipTaskbar bool
	// SkipPager requests the _NET_WM_STATE_SKIP_PAGER hint on X11.
	SkipPager bool
}

// GraphConfig selects the plotted function and its domain/range mapping.
type GraphConfig struct {
	// FunctionName names a builtin function (see curve.FunctionNames).
	FunctionName string
	// Domain is the horizontal input interval, mapped left to right.
	Domain curve.Interval
	// Range is the vertical interval used to scale function output.
	Range curve.Interval
	// Plot, when non-nil, is a scripted function that overrides
	// FunctionName. It is bound to the parser's Lua runtime.
	Plot curve.Function
}

// StyleConfig holds colors and stroke settings.
type StyleConfig struct {
	// BackgroundColor fills the surface before each frame.
	BackgroundColor color.RGBA
	// LineColor strokes the curve.
	LineColor color.RGBA
	// StrokeWidth is the curve stroke width in pixels.
	StrokeWidth float32
	// ShowHUD enables the one-line status overlay.
	ShowHUD bool
}

// Curve builds the curve model described by the configuration. The
// scripted plot function wins over the builtin name when both are set.
func (c *Config) Curve() (*curve.Curve, error) {
	fn := c.Graph.Plot
	if fn == nil {
		builtin, err := curve.LookupFunction(c.Graph.FunctionName)
		if err != nil {
			return nil, fmt.Errorf("resolve function: %w", err)
		}
		fn = builtin
	}
	cv, err := curve.New(fn, c.Graph.Domain, c.Graph.Range)
	if err != nil {
		return nil, fmt.Errorf("build curve: %w", err)
	}
	return cv, nil
}
