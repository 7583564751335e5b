package schedule

import (
	"sync"
	"time"
)

// TimerScheduler schedules tasks on real timers but never runs them on the
// timer goroutine. Due callbacks are handed to C, and the owning loop runs
// them by calling the received func.
type TimerScheduler struct {
	c    chan func()
	done chan struct{}
	once sync.Once
}

// NewTimerScheduler creates a TimerScheduler whose channel buffers up to
// buffer due callbacks.
func NewTimerScheduler(buffer int) *TimerScheduler {
	if buffer < 1 {
		buffer = 1
	}
	return &TimerScheduler{c: make(chan func(), buffer), done: make(chan struct{})}
}

// C delivers due callbacks.
func (s *TimerScheduler) C() <-chan func() {
	return s.c
}

// Close releases timers blocked on delivery once the owning loop has stopped
// draining C.
func (s *TimerScheduler) Close() {
	s.once.Do(func() { close(s.done) })
}

// Now returns the wall clock time.
func (s *TimerScheduler) Now() time.Time {
	return time.Now()
}

type timerTask struct {
	mu       sync.Mutex
	t        *time.Timer
	canceled bool
	fired    bool
}

// Schedule implements Scheduler.
func (s *TimerScheduler) Schedule(d time.Duration, fn func()) Task {
	task := &timerTask{}
	task.mu.Lock()
	defer task.mu.Unlock()

	task.t = time.AfterFunc(d, func() {
		run := func() {
			task.mu.Lock()
			if task.canceled {
				task.mu.Unlock()
				return
			}
			task.fired = true
			task.mu.Unlock()
			fn()
		}
		select {
		case s.c <- run:
		case <-s.done:
		}
	})
	return task
}

// Cancel implements Task. A task whose callback was already queued on C but
// not yet run is still cancelled.
func (t *timerTask) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.canceled || t.fired {
		return false
	}
	t.canceled = true
	t.t.Stop()
	return true
}
