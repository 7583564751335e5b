package schedule

import (
	"sort"
	"sync"
	"time"
)

// Manual is a deterministic Clock for tests and recorded-session replay.
// Time only moves on Advance, and due callbacks run inside Advance on the
// caller's goroutine.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	tasks []*manualTask
}

type manualTask struct {
	clock    *Manual
	due      time.Time
	seq      uint64
	fn       func()
	canceled bool
	fired    bool
}

// NewManual returns a Manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current simulated time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Schedule implements Scheduler.
func (m *Manual) Schedule(d time.Duration, fn func()) Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &manualTask{clock: m, due: m.now.Add(d), seq: m.seq, fn: fn}
	m.seq++
	m.tasks = append(m.tasks, t)
	return t
}

// Pending returns the number of tasks not yet fired or cancelled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.tasks {
		if !t.canceled && !t.fired {
			n++
		}
	}
	return n
}

// Advance moves time forward by d, running every task that falls due in
// deadline order. A task due exactly at the new time runs. Tasks scheduled by
// a callback run in the same Advance if they fall due within it.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		t.fn()
	}

	m.mu.Lock()
	m.now = target
	m.compact()
	m.mu.Unlock()
}

func (m *Manual) nextDue(target time.Time) *manualTask {
	m.mu.Lock()
	defer m.mu.Unlock()

	var due []*manualTask
	for _, t := range m.tasks {
		if !t.canceled && !t.fired && !t.due.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].seq < due[j].seq
		}
		return due[i].due.Before(due[j].due)
	})

	t := due[0]
	t.fired = true
	if t.due.After(m.now) {
		m.now = t.due
	}
	return t
}

func (m *Manual) compact() {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.canceled && !t.fired {
			live = append(live, t)
		}
	}
	m.tasks = live
}

// Cancel implements Task.
func (t *manualTask) Cancel() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.canceled || t.fired {
		return false
	}
	t.canceled = true
	return true
}
