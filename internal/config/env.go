// Package config provides configuration loading for graphview.
// This file implements environment variable overrides for configuration
// values, applied after the configuration file is parsed.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names recognized by ApplyEnvOverrides.
const (
	// EnvTitle overrides the window title.
	EnvTitle = "GRAPHVIEW_TITLE"
	// EnvWidth overrides the window width.
	EnvWidth = "GRAPHVIEW_WIDTH"
	// EnvHeight overrides the window height.
	EnvHeight = "GRAPHVIEW_HEIGHT"
	// EnvFunction overrides the builtin function selection.
	EnvFunction = "GRAPHVIEW_FUNCTION"
)

// ApplyEnvOverrides applies environment variable overrides to cfg in
// place. Set variables win over the configuration file; unset or empty
// variables leave the file's values untouched. An unparsable numeric
// value is an error rather than a silent fallback.
func ApplyEnvOverrides(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	if v := os.Getenv(EnvTitle); v != "" {
		cfg.Window.Title = v
	}
	if v := os.Getenv(EnvFunction); v != "" {
		cfg.Graph.FunctionName = v
		// The env override selects a builtin, displacing any scripted plot.
		cfg.Graph.Plot = nil
	}

	if v := os.Getenv(EnvWidth); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWidth, err)
		}
		cfg.Window.Width = n
	}
	if v := os.Getenv(EnvHeight); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHeight, err)
		}
		cfg.Window.Height = n
	}

	return nil
}
