// Package config provides configuration loading for graphview.
// This file implements the Lua configuration parser. A configuration file
// populates the graphview.config table and may define graphview.plot, a
// Lua function plotted in place of a builtin.
package config

import (
	"fmt"
	"image/color"
	"os"
	"sync"

	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-graphview/internal/curve"
	"github.com/opd-ai/go-graphview/internal/script"
)

// Parser parses Lua configuration files. The Lua code runs under hard
// CPU and memory limits.
//
// A Config returned by Parse may hold a scripted plot function bound to
// this parser's Lua runtime; keep the Parser open for as long as such a
// Config is in use, and Close it when the Config is replaced.
type Parser struct {
	runtime *script.Runtime
	mu      sync.Mutex
}

// NewParser creates a Parser with the given resource limits.
func NewParser(limits script.Limits) *Parser {
	return &Parser{
		runtime: script.New(limits, nil),
	}
}

// ParseFile reads and parses a Lua configuration file.
func (p *Parser) ParseFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return p.Parse(content)
}

// Parse executes the configuration chunk and extracts a Config from the
// graphview global table. Missing settings keep their defaults.
func (p *Parser) Parse(content []byte) (*Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.initGlobal()

	closure, err := p.runtime.Load("config", content)
	if err != nil {
		return nil, fmt.Errorf("compile configuration: %w", err)
	}
	if _, err := p.runtime.Execute(closure); err != nil {
		return nil, fmt.Errorf("execute configuration: %w", err)
	}

	return p.extractConfig()
}

// Close releases the parser's Lua runtime. Configs holding a scripted
// plot function stop evaluating (their samples become NaN) once the
// runtime is closed.
func (p *Parser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.runtime.Close()
}

// initGlobal seeds the graphview global table the chunk populates.
func (p *Parser) initGlobal() {
	gvTable := rt.NewTable()
	gvTable.Set(rt.StringValue("config"), rt.TableValue(rt.NewTable()))
	p.runtime.SetGlobal("graphview", rt.TableValue(gvTable))
}

// extractConfig reads the graphview table back into a typed Config.
func (p *Parser) extractConfig() (*Config, error) {
	cfg := DefaultConfig()

	gvVal := p.runtime.GetGlobal("graphview")
	gvTable, ok := gvVal.TryTable()
	if !ok {
		return nil, fmt.Errorf("graphview global is not a table")
	}

	if configVal := gvTable.Get(rt.StringValue("config")); configVal != rt.NilValue {
		configTable, ok := configVal.TryTable()
		if !ok {
			return nil, fmt.Errorf("graphview.config is not a table")
		}
		if err := extractConfigTable(&cfg, configTable); err != nil {
			return nil, err
		}
	}

	// graphview.plot overrides the builtin function selection.
	if plotVal := gvTable.Get(rt.StringValue("plot")); plotVal != rt.NilValue {
		if plotVal.Type() != rt.FunctionType {
			return nil, fmt.Errorf("graphview.plot is not a function (type: %v)", plotVal.Type())
		}
		cfg.Graph.Plot = script.NewPlotFunction(p.runtime, plotVal)
	}

	return &cfg, nil
}

// extractConfigTable extracts settings from the graphview.config table.
func extractConfigTable(cfg *Config, table *rt.Table) error {
	// Window settings
	if val := getTableString(table, "title"); val != nil {
		cfg.Window.Title = *val
	}
	if val := getTableInt(table, "width"); val != nil {
		cfg.Window.Width = *val
	}
	if val := getTableInt(table, "height"); val != nil {
		cfg.Window.Height = *val
	}
	if val := getTableBool(table, "skip_taskbar"); val != nil {
		cfg.Window.SkipTaskbar = *val
	}
	if val := getTableBool(table, "skip_pager"); val != nil {
		cfg.Window.SkipPager = *val
	}

	// Graph settings
	if val := getTableString(table, "function_name"); val != nil {
		cfg.Graph.FunctionName = *val
	}
	if iv, ok, err := getTableInterval(table, "domain"); err != nil {
		return err
	} else if ok {
		cfg.Graph.Domain = iv
	}
	if iv, ok, err := getTableInterval(table, "range"); err != nil {
		return err
	} else if ok {
		cfg.Graph.Range = iv
	}

	// Style settings
	if val := getTableFloat(table, "stroke_width"); val != nil {
		cfg.Style.StrokeWidth = float32(*val)
	}
	if val := getTableBool(table, "show_hud"); val != nil {
		cfg.Style.ShowHUD = *val
	}
	if err := extractColor(table, "background_color", &cfg.Style.BackgroundColor); err != nil {
		return err
	}
	if err := extractColor(table, "line_color", &cfg.Style.LineColor); err != nil {
		return err
	}

	return nil
}

// extractColor parses a color-valued setting into target if present.
func extractColor(table *rt.Table, key string, target *color.RGBA) error {
	val := getTableString(table, key)
	if val == nil {
		return nil
	}
	c, err := ParseColor(*val)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*target = c
	return nil
}

// getTableBool retrieves a boolean value from a Lua table.
// Returns nil if the key doesn't exist or is not a boolean.
func getTableBool(table *rt.Table, key string) *bool {
	val := table.Get(rt.StringValue(key))
	if b, ok := val.TryBool(); ok {
		return &b
	}
	return nil
}

// getTableInt retrieves an integer value from a Lua table.
// Returns nil if the key doesn't exist or is not a number.
func getTableInt(table *rt.Table, key string) *int {
	val := table.Get(rt.StringValue(key))
	if n, ok := val.TryInt(); ok {
		i := int(n)
		return &i
	}
	if f, ok := val.TryFloat(); ok {
		i := int(f)
		return &i
	}
	return nil
}

// getTableFloat retrieves a float value from a Lua table.
// Returns nil if the key doesn't exist or is not a number.
func getTableFloat(table *rt.Table, key string) *float64 {
	val := table.Get(rt.StringValue(key))
	if f, ok := val.TryFloat(); ok {
		return &f
	}
	if n, ok := val.TryInt(); ok {
		f := float64(n)
		return &f
	}
	return nil
}

// getTableString retrieves a string value from a Lua table.
// Returns nil if the key doesn't exist or is not a string.
func getTableString(table *rt.Table, key string) *string {
	val := table.Get(rt.StringValue(key))
	if s, ok := val.TryString(); ok {
		return &s
	}
	return nil
}

// getTableInterval retrieves a two-element numeric array value, e.g.
// domain = { 0.0, 6.0 }. The second return reports presence.
func getTableInterval(table *rt.Table, key string) (curve.Interval, bool, error) {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return curve.Interval{}, false, nil
	}

	pair, ok := val.TryTable()
	if !ok {
		return curve.Interval{}, false, fmt.Errorf("%s must be a {start, end} table", key)
	}

	start, ok := tryNumber(pair.Get(rt.IntValue(1)))
	if !ok {
		return curve.Interval{}, false, fmt.Errorf("%s[1] must be a number", key)
	}
	end, ok := tryNumber(pair.Get(rt.IntValue(2)))
	if !ok {
		return curve.Interval{}, false, fmt.Errorf("%s[2] must be a number", key)
	}

	return curve.Interval{Start: start, End: end}, true, nil
}

// tryNumber converts a Lua value to float64 when it is numeric.
func tryNumber(val rt.Value) (float64, bool) {
	if f, ok := val.TryFloat(); ok {
		return f, true
	}
	if n, ok := val.TryInt(); ok {
		return float64(n), true
	}
	return 0, false
}
