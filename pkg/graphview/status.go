package graphview

import "time"

// Status represents the current state of a Viewer.
type Status struct {
	// Running indicates if the window loop is currently active.
	Running bool
	// StartTime is when the viewer was last started (zero if never).
	StartTime time.Time
	// FrameCount is the number of frames rendered since last start.
	FrameCount uint64
	// LastError is the most recent error encountered (nil if none).
	LastError error
	// ConfigSource describes the configuration source: a file path,
	// "reader", or "curve" for viewers built with NewWithCurve.
	ConfigSource string
}

// ErrorHandler is a callback for runtime errors.
// It is called asynchronously; do not block in the handler.
type ErrorHandler func(err error)

// EventHandler is a callback for lifecycle events.
// It is called asynchronously; do not block in the handler.
type EventHandler func(event Event)

// Event represents a lifecycle event.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Message   string
}

// EventType enumerates lifecycle event types. The underlying integer
// values are implementation details; compare against the constants.
type EventType int

const (
	// EventStarted is emitted when the viewer starts successfully.
	EventStarted EventType = iota
	// EventStopped is emitted when the viewer stops.
	EventStopped
	// EventRestarted is emitted after a successful restart.
	EventRestarted
	// EventConfigReloaded is emitted when configuration is reloaded.
	EventConfigReloaded
	// EventError is emitted when a recoverable error occurs.
	EventError
)

// String returns a human-readable representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventStarted:
		return "started"
	case EventStopped:
		return "stopped"
	case EventRestarted:
		return "restarted"
	case EventConfigReloaded:
		return "config_reloaded"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}
