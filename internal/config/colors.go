package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// namedColors maps color names usable in configuration files to RGBA
// values. The set covers the colors a plotter configuration plausibly
// asks for; anything else can be given in hex.
var namedColors = map[string]color.RGBA{
	"black":   {R: 0, G: 0, B: 0, A: 255},
	"white":   {R: 255, G: 255, B: 255, A: 255},
	"red":     {R: 255, G: 0, B: 0, A: 255},
	"green":   {R: 0, G: 128, B: 0, A: 255},
	"blue":    {R: 0, G: 0, B: 255, A: 255},
	"yellow":  {R: 255, G: 255, B: 0, A: 255},
	"cyan":    {R: 0, G: 255, B: 255, A: 255},
	"magenta": {R: 255, G: 0, B: 255, A: 255},
	"gray":    {R: 128, G: 128, B: 128, A: 255},
	"grey":    {R: 128, G: 128, B: 128, A: 255},
	"orange":  {R: 255, G: 165, B: 0, A: 255},
	"purple":  {R: 128, G: 0, B: 128, A: 255},
	"lime":    {R: 0, G: 255, B: 0, A: 255},
	"navy":    {R: 0, G: 0, B: 128, A: 255},
	"teal":    {R: 0, G: 128, B: 128, A: 255},
	"maroon":  {R: 128, G: 0, B: 0, A: 255},
	"crimson": {R: 220, G: 20, B: 60, A: 255},

	"transparent": {R: 0, G: 0, B: 0, A: 0},
}

// ParseColor parses a color value from a configuration file.
// Supported formats:
//   - named colors: "red", "white", ...
//   - hex: "#RRGGBB", "#RRGGBBAA", with or without the leading #
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}

	if clr, ok := namedColors[strings.ToLower(s)]; ok {
		return clr, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("unrecognized color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("unrecognized color %q", s)
	}

	if len(hex) == 6 {
		return color.RGBA{
			R: uint8(v >> 16),
			G: uint8(v >> 8),
			B: uint8(v),
			A: 255,
		}, nil
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// MustParseColor parses a color string and panics on failure.
// Only for known-good values in initialization code.
func MustParseColor(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
