package bus

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Event is a published value as seen by registry observers.
type Event struct {
	Subject string    `json:"subject"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

type closer interface {
	Close()
}

// Registry holds the named subjects of one view.
type Registry struct {
	mu        sync.Mutex
	subjects  map[string]any
	observers map[uint64]func(Event)
	nextID    uint64
	now       func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		subjects:  make(map[string]any),
		observers: make(map[uint64]func(Event)),
		now:       time.Now,
	}
}

// SetClock replaces the time source stamped on observed events.
func (r *Registry) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Open returns the subject named name, creating it on first use. It panics if
// name is already registered with a different payload type, which is a wiring
// bug rather than a runtime condition.
func Open[T any](r *Registry, name string, opts ...Option) *Subject[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.subjects[name]; ok {
		s, ok := existing.(*Subject[T])
		if !ok {
			panic(fmt.Sprintf("bus: subject %q registered as %T", name, existing))
		}
		return s
	}

	s := NewSubject[T](name, opts...)
	s.tap = func(v any) { r.emit(name, v) }
	r.subjects[name] = s
	return s
}

// Lookup returns the subject named name, or nil if it is absent or carries a
// different payload type.
func Lookup[T any](r *Registry, name string) *Subject[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, _ := r.subjects[name].(*Subject[T])
	return s
}

// Keys returns the registered subject names in sorted order.
func (r *Registry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.subjects))
	for k := range r.subjects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Observe registers fn to receive every value published on any subject of
// the registry, after the subject's own subscribers.
func (r *Registry) Observe(fn func(Event)) Disposer {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.observers[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.observers, id)
		r.mu.Unlock()
	}
}

func (r *Registry) emit(name string, v any) {
	r.mu.Lock()
	if len(r.observers) == 0 {
		r.mu.Unlock()
		return
	}
	ids := make([]uint64, 0, len(r.observers))
	for id := range r.observers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(Event), len(ids))
	for i, id := range ids {
		fns[i] = r.observers[id]
	}
	ev := Event{Subject: name, Payload: v, At: r.now()}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Close closes every subject and drops all observers.
func (r *Registry) Close() {
	r.mu.Lock()
	subjects := make([]closer, 0, len(r.subjects))
	for _, s := range r.subjects {
		if c, ok := s.(closer); ok {
			subjects = append(subjects, c)
		}
	}
	r.observers = make(map[uint64]func(Event))
	r.mu.Unlock()

	for _, s := range subjects {
		s.Close()
	}
}
