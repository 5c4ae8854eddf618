package graphview

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestErrorCategory_String(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		want     string
	}{
		{ErrorCategoryUnknown, "unknown"},
		{ErrorCategoryConfig, "config"},
		{ErrorCategoryScript, "script"},
		{ErrorCategoryRender, "render"},
		{ErrorCategoryResource, "resource"},
		{ErrorCategoryIO, "io"},
		{ErrorCategory(99), "unknown"}, // Invalid category
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.category.String(); got != tt.want {
				t.Errorf("ErrorCategory.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorSeverity_String(t *testing.T) {
	tests := []struct {
		severity ErrorSeverity
		want     string
	}{
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{ErrorSeverity(99), "unknown"}, // Invalid severity
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("ErrorSeverity.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCategorizedError(t *testing.T) {
	t.Run("Error method", func(t *testing.T) {
		err := NewCategorizedError(
			errors.New("test error"),
			ErrorCategoryConfig,
			SeverityError,
		)

		got := err.Error()
		if got != "[error/config] test error" {
			t.Errorf("CategorizedError.Error() = %v, want [error/config] test error", got)
		}
	})

	t.Run("Error method with nil error", func(t *testing.T) {
		err := &CategorizedError{
			Category: ErrorCategoryScript,
			Severity: SeverityWarning,
		}

		got := err.Error()
		if got != "[warning/script] (no error)" {
			t.Errorf("CategorizedError.Error() = %v, want [warning/script] (no error)", got)
		}
	})

	t.Run("Unwrap", func(t *testing.T) {
		inner := errors.New("inner")
		err := NewCategorizedError(inner, ErrorCategoryIO, SeverityError)

		if !errors.Is(err, inner) {
			t.Error("errors.Is should find the wrapped error")
		}
	})

	t.Run("WithContext", func(t *testing.T) {
		err := NewCategorizedError(errors.New("ctx"), ErrorCategoryRender, SeverityError)
		err.WithContext("frame", "42").WithContext("size", "640x480")

		if err.Context["frame"] != "42" {
			t.Errorf("Context[frame] = %v, want 42", err.Context["frame"])
		}
		if err.Context["size"] != "640x480" {
			t.Errorf("Context[size] = %v, want 640x480", err.Context["size"])
		}
	})

	t.Run("WithContext on nil map", func(t *testing.T) {
		err := &CategorizedError{Err: errors.New("x")}
		err.WithContext("key", "value")

		if err.Context["key"] != "value" {
			t.Error("WithContext should initialize a nil context map")
		}
	})
}

func TestErrorTracker_Record(t *testing.T) {
	tracker := NewErrorTracker(DefaultErrorTrackerConfig())

	tracker.Record(NewCategorizedError(errors.New("a"), ErrorCategoryConfig, SeverityError))
	tracker.Record(NewCategorizedError(errors.New("b"), ErrorCategoryRender, SeverityWarning))
	tracker.Record(NewCategorizedError(errors.New("c"), ErrorCategoryRender, SeverityError))
	tracker.Record(nil) // Should be ignored

	stats := tracker.Stats()
	if stats.TotalErrors != 3 {
		t.Errorf("TotalErrors = %d, want 3", stats.TotalErrors)
	}
	if stats.ErrorsByCategory[ErrorCategoryRender] != 2 {
		t.Errorf("render errors = %d, want 2", stats.ErrorsByCategory[ErrorCategoryRender])
	}
	if stats.ErrorsBySeverity[SeverityError] != 2 {
		t.Errorf("error severity count = %d, want 2", stats.ErrorsBySeverity[SeverityError])
	}
}

func TestErrorTracker_MaxErrors(t *testing.T) {
	tracker := NewErrorTracker(ErrorTrackerConfig{MaxErrors: 5})

	for i := 0; i < 10; i++ {
		tracker.Record(NewCategorizedError(errors.New("overflow"), ErrorCategoryUnknown, SeverityInfo))
	}

	stats := tracker.Stats()
	if stats.TotalErrors != 5 {
		t.Errorf("TotalErrors = %d, want 5 (capped)", stats.TotalErrors)
	}
}

func TestErrorTracker_RecentErrors(t *testing.T) {
	tracker := NewErrorTracker(DefaultErrorTrackerConfig())

	for i := 0; i < 5; i++ {
		tracker.Record(NewCategorizedError(errors.New("e"), ErrorCategoryScript, SeverityError))
	}

	recent := tracker.RecentErrors(3)
	if len(recent) != 3 {
		t.Errorf("RecentErrors(3) returned %d errors, want 3", len(recent))
	}

	if tracker.RecentErrors(0) != nil {
		t.Error("RecentErrors(0) should return nil")
	}

	empty := NewErrorTracker(DefaultErrorTrackerConfig())
	if empty.RecentErrors(5) != nil {
		t.Error("RecentErrors on empty tracker should return nil")
	}
}

func TestErrorTracker_Clear(t *testing.T) {
	tracker := NewErrorTracker(DefaultErrorTrackerConfig())
	tracker.Record(NewCategorizedError(errors.New("x"), ErrorCategoryIO, SeverityError))

	tracker.Clear()

	if stats := tracker.Stats(); stats.TotalErrors != 0 {
		t.Errorf("TotalErrors after Clear = %d, want 0", stats.TotalErrors)
	}
}

func TestErrorTracker_ErrorRate(t *testing.T) {
	tracker := NewErrorTracker(DefaultErrorTrackerConfig())

	for i := 0; i < 10; i++ {
		tracker.Record(NewCategorizedError(errors.New("rate"), ErrorCategoryRender, SeverityError))
	}

	rate := tracker.ErrorRate(10 * time.Second)
	if rate != 1.0 {
		t.Errorf("ErrorRate = %v, want 1.0", rate)
	}

	if tracker.ErrorRate(0) != 0 {
		t.Error("ErrorRate with zero window should be 0")
	}
}

func TestErrorTracker_AlertCondition(t *testing.T) {
	tracker := NewErrorTracker(ErrorTrackerConfig{
		MaxErrors:     100,
		RetentionTime: time.Hour,
		AlertCooldown: time.Hour, // Alert at most once during the test
	})

	var fired atomic.Int32
	alertCh := make(chan int, 1)

	tracker.AddCondition(AlertCondition{
		Category:    ErrorCategoryRender,
		MinSeverity: SeverityError,
		Threshold:   3,
		Window:      time.Minute,
	})
	tracker.SetAlertHandler(func(cond AlertCondition, count int, recent []CategorizedError) {
		if fired.Add(1) == 1 {
			alertCh <- count
		}
	})

	// Below threshold: no alert
	tracker.Record(NewCategorizedError(errors.New("r1"), ErrorCategoryRender, SeverityError))
	tracker.Record(NewCategorizedError(errors.New("r2"), ErrorCategoryRender, SeverityError))

	// Warnings below MinSeverity must not count
	tracker.Record(NewCategorizedError(errors.New("w"), ErrorCategoryRender, SeverityWarning))

	select {
	case <-alertCh:
		t.Fatal("alert fired below threshold")
	case <-time.After(50 * time.Millisecond):
	}

	// Third matching error crosses the threshold
	tracker.Record(NewCategorizedError(errors.New("r3"), ErrorCategoryRender, SeverityError))

	select {
	case count := <-alertCh:
		if count < 3 {
			t.Errorf("alert count = %d, want >= 3", count)
		}
	case <-time.After(time.Second):
		t.Fatal("alert did not fire after crossing threshold")
	}
}

func TestErrorTracker_ConfigDefaults(t *testing.T) {
	// Zero-valued config must fall back to defaults instead of a
	// zero-capacity tracker.
	tracker := NewErrorTracker(ErrorTrackerConfig{})

	if tracker.maxErrors != 1000 {
		t.Errorf("maxErrors = %d, want 1000", tracker.maxErrors)
	}
	if tracker.retentionTime != time.Hour {
		t.Errorf("retentionTime = %v, want 1h", tracker.retentionTime)
	}
	if tracker.alertCooldown != 5*time.Minute {
		t.Errorf("alertCooldown = %v, want 5m", tracker.alertCooldown)
	}
}
