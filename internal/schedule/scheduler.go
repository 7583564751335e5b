// Package schedule provides cancellable deferred tasks. Listeners use it for
// confirmation windows, so callbacks always run on the goroutine that owns the
// listener state.
package schedule

import "time"

// Task is a pending callback.
type Task interface {
	// Cancel stops the task. It reports whether the task was still pending.
	Cancel() bool
}

// Scheduler runs fn once after d has elapsed.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Task
}

// Clock is a Scheduler that also tells time.
type Clock interface {
	Scheduler
	Now() time.Time
}
