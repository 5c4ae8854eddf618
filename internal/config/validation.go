// Package config provides configuration loading for graphview.
// This file implements validation of parsed configuration values.
package config

import (
	"fmt"
	"strings"

	"github.com/opd-ai/go-graphview/internal/curve"
)

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the outcome of validating a configuration.
type ValidationResult struct {
	// Errors contains all validation errors found.
	Errors []ValidationError
	// Warnings contains non-fatal issues.
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (vr *ValidationResult) IsValid() bool {
	return len(vr.Errors) == 0
}

// Error returns a combined error if there are errors, nil otherwise.
func (vr *ValidationResult) Error() error {
	if len(vr.Errors) == 0 {
		return nil
	}
	messages := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		messages = append(messages, e.Error())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

// AddError records a validation error.
func (vr *ValidationResult) AddError(field, message string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message})
}

// AddWarning records a non-fatal issue.
func (vr *ValidationResult) AddWarning(field, message string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Message: message})
}

// Validate checks a configuration for consistency. Degenerate domain or
// range intervals are errors here because the sampling math divides by
// the interval length.
func Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		result.AddError("config", "configuration is nil")
		return result
	}

	if cfg.Window.Width <= 0 {
		result.AddError("width", fmt.Sprintf("must be positive, got %d", cfg.Window.Width))
	}
	if cfg.Window.Height <= 0 {
		result.AddError("height", fmt.Sprintf("must be positive, got %d", cfg.Window.Height))
	}
	if cfg.Window.Title == "" {
		result.AddWarning("title", "empty title, window will be unnamed")
	}

	if err := cfg.Graph.Domain.Validate(); err != nil {
		result.AddError("domain", err.Error())
	}
	if err := cfg.Graph.Range.Validate(); err != nil {
		result.AddError("range", err.Error())
	}

	if cfg.Graph.Plot == nil {
		if _, err := curve.LookupFunction(cfg.Graph.FunctionName); err != nil {
			result.AddError("function_name", err.Error())
		}
	}

	if cfg.Style.StrokeWidth <= 0 {
		result.AddError("stroke_width", fmt.Sprintf("must be positive, got %v", cfg.Style.StrokeWidth))
	}
	if cfg.Style.BackgroundColor == cfg.Style.LineColor {
		result.AddWarning("line_color", "line color equals background color, curve will be invisible")
	}

	return result
}
