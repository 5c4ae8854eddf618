// Package graphview provides an embeddable API for plotting a single
// mathematical function in a desktop window.
//
// A Viewer owns the window lifecycle and the render pipeline. The plotted
// function, its domain/range mapping, and the window style come from a
// Lua configuration file, or directly from a curve built in Go:
//
//	v, err := graphview.New("plot.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := v.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer v.Stop()
//
// Embedding without a configuration file:
//
//	c, _ := graphview.NewCurve(graphview.Func(math.Sin),
//		graphview.Interval{Start: 0, End: 6},
//		graphview.Interval{Start: -1.5, End: 1.5})
//	v, err := graphview.NewWithCurve(c, nil)
//
// Start returns immediately; the window loop runs in a background
// goroutine until the user closes the window or Stop is called. Runtime
// render errors are delivered to the handler registered with
// SetErrorHandler and tracked by the configured ErrorTracker; they never
// stop the loop. Configuration hot-reload is available both explicitly
// (ReloadConfig) and automatically (Options.WatchConfig).
package graphview
