// Package main provides the entry point for the graphview function plotter.
// It opens a window and draws a single mathematical function, configured
// through a Lua file or falling back to the built-in sine curve.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/opd-ai/go-graphview/internal/profiling"
	"github.com/opd-ai/go-graphview/pkg/graphview"
)

// Version is the current version of graphview.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("c", "", "Path to Lua configuration file")
	version := flag.Bool("v", false, "Print version and exit")
	cpuProfile := flag.String("cpuprofile", "", "Write CPU profile to file")
	memProfile := flag.String("memprofile", "", "Write memory profile to file")
	headless := flag.Bool("headless", false, "Run without opening a window")
	watch := flag.Bool("watch", false, "Reload the configuration when the file changes")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	if *version {
		fmt.Printf("graphview version %s\n", Version)
		return 0
	}

	// Initialize profiling if requested
	profConfig := profiling.Config{
		CPUProfilePath: *cpuProfile,
		MemProfilePath: *memProfile,
	}
	profiler := profiling.New(profConfig)

	if profConfig.ProfilingEnabled() {
		if err := profiler.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start profiling: %v\n", err)
			return 1
		}
		defer func() {
			if err := profiler.Stop(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to stop profiling: %v\n", err)
			}
		}()
	}

	opts := graphview.DefaultOptions()
	opts.Headless = *headless
	opts.WatchConfig = *watch
	if *verbose {
		opts.Logger = graphview.DebugLogger()
	} else {
		opts.Logger = graphview.DefaultLogger()
	}

	var (
		viewer graphview.Viewer
		err    error
	)
	if *configPath != "" {
		if _, statErr := os.Stat(*configPath); statErr != nil {
			if os.IsNotExist(statErr) {
				fmt.Fprintf(os.Stderr, "Configuration file not found: %s\n", *configPath)
			} else {
				fmt.Fprintf(os.Stderr, "Error accessing configuration file %s: %v\n", *configPath, statErr)
			}
			return 1
		}
		fmt.Printf("graphview %s starting with config: %s\n", Version, *configPath)
		viewer, err = graphview.New(*configPath, &opts)
	} else {
		fmt.Printf("graphview %s starting with default sine curve\n", Version)
		viewer, err = graphview.NewWithCurve(graphview.DefaultCurve(), &opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating viewer: %v\n", err)
		return 1
	}

	viewer.SetErrorHandler(func(err error) {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	})

	viewer.SetEventHandler(func(e graphview.Event) {
		fmt.Printf("[%s] %s: %s\n", e.Timestamp.Format("15:04:05"), e.Type, e.Message)
	})

	if err := viewer.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		return 1
	}

	// Wait for termination signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for sig := range sigCh {
		switch sig {
		case syscall.SIGHUP:
			fmt.Println("Received SIGHUP, reloading configuration...")
			if err := viewer.Restart(); err != nil {
				fmt.Fprintf(os.Stderr, "Restart failed: %v\n", err)
			}
		default:
			fmt.Println("Shutting down...")
			if err := viewer.Stop(); err != nil {
				fmt.Fprintf(os.Stderr, "Stop error: %v\n", err)
			}
			return 0
		}
	}

	return 0
}
