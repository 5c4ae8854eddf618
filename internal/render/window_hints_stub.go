//go:build !linux

package render

// ApplyWindowHints is a no-op outside Linux; the skip-taskbar and
// skip-pager hints are X11 EWMH features.
func ApplyWindowHints(skipTaskbar, skipPager bool) error {
	return nil
}
