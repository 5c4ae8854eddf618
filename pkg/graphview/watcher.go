package graphview

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is how long the watcher waits after the last
// filesystem event before reparsing the Lua script. Editors often emit
// several events per save.
const DefaultWatchDebounce = 500 * time.Millisecond

// configWatcher keeps a running viewer in sync with its Lua script on
// disk. Events are collapsed through a quiet-period timer so a single
// save triggers exactly one reload.
type configWatcher struct {
	fsw        *fsnotify.Watcher
	scriptPath string
	quiet      time.Duration
	reload     func() error
	reportErr  func(error)

	stop    chan struct{}
	stopped chan struct{}

	mu     sync.Mutex
	active bool
}

// newConfigWatcher prepares a watcher for the Lua script at scriptPath.
// reload runs once per settled change; reportErr receives reload and
// filesystem errors. The watcher is idle until Start is called.
func newConfigWatcher(scriptPath string, quiet time.Duration, reload func() error, reportErr func(error)) (*configWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if quiet <= 0 {
		quiet = DefaultWatchDebounce
	}

	// The parent directory is watched rather than the script itself:
	// atomic saves replace the inode, and a watch on the old inode would
	// go quiet after the first save.
	if err := fsw.Add(filepath.Dir(scriptPath)); err != nil {
		fsw.Close()
		return nil, err
	}

	return &configWatcher{
		fsw:        fsw,
		scriptPath: scriptPath,
		quiet:      quiet,
		reload:     reload,
		reportErr:  reportErr,
		stop:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}, nil
}

// Start launches the watch goroutine. Calling Start on an active
// watcher is a no-op.
func (cw *configWatcher) Start() {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.active {
		return
	}
	cw.active = true
	go cw.watch()
}

// Stop shuts the watcher down and blocks until its goroutine has
// exited. Safe to call on a watcher that was never started.
func (cw *configWatcher) Stop() {
	cw.mu.Lock()
	if !cw.active {
		cw.mu.Unlock()
		return
	}
	cw.mu.Unlock()

	close(cw.stop)
	<-cw.stopped
}

// concernsScript reports whether a directory event refers to the
// watched Lua script. Both the base name and the absolute path are
// compared, since editors may report either form.
func (cw *configWatcher) concernsScript(name string) bool {
	if filepath.Base(name) == filepath.Base(cw.scriptPath) {
		return true
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	scriptAbs, err := filepath.Abs(cw.scriptPath)
	return err == nil && abs == scriptAbs
}

func (cw *configWatcher) watch() {
	defer close(cw.stopped)
	defer cw.fsw.Close()

	var settle *time.Timer
	var settled <-chan time.Time

	for {
		select {
		case <-cw.stop:
			if settle != nil {
				settle.Stop()
			}
			cw.mu.Lock()
			cw.active = false
			cw.mu.Unlock()
			return

		case ev, ok := <-cw.fsw.Events:
			if !ok {
				return
			}
			if !cw.concernsScript(ev.Name) {
				continue
			}
			// Write covers in-place edits; Create and Rename cover the
			// write-then-rename dance of atomic saves.
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if settle != nil {
				settle.Stop()
			}
			settle = time.NewTimer(cw.quiet)
			settled = settle.C

		case <-settled:
			settle = nil
			settled = nil
			if cw.reload == nil {
				continue
			}
			if err := cw.reload(); err != nil && cw.reportErr != nil {
				cw.reportErr(err)
			}

		case err, ok := <-cw.fsw.Errors:
			if !ok {
				return
			}
			if cw.reportErr != nil {
				cw.reportErr(err)
			}
		}
	}
}
