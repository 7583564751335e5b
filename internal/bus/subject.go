// Package bus provides named, typed publish/subscribe subjects that decouple
// gesture listeners from the widgets reacting to them.
package bus

import (
	"sync"
)

// Disposer removes a subscription. Calling it more than once is a no-op.
type Disposer func()

type options struct {
	replay bool
}

// Option configures a Subject.
type Option func(*options)

// WithReplay makes a subject deliver its last value to new subscribers.
func WithReplay() Option {
	return func(o *options) { o.replay = true }
}

type subscription[T any] struct {
	fn     func(T)
	active bool
}

// Subject is a named channel of T. Publish is synchronous: every current
// subscriber runs, in subscription order, before Publish returns. A publish
// issued while the subject is already delivering is queued and delivered
// after the current value, so no subscriber is ever re-entered.
type Subject[T any] struct {
	name string
	opts options

	mu         sync.Mutex
	subs       []*subscription[T]
	last       T
	hasLast    bool
	publishing bool
	queue      []T
	closed     bool
	tap        func(any)
}

// NewSubject returns a standalone subject.
func NewSubject[T any](name string, opts ...Option) *Subject[T] {
	s := &Subject[T]{name: name}
	for _, opt := range opts {
		opt(&s.opts)
	}
	return s
}

// Name returns the subject's key.
func (s *Subject[T]) Name() string {
	return s.name
}

// Subscribe registers fn. Subscribers added during a publish do not see the
// value in flight.
func (s *Subject[T]) Subscribe(fn func(T)) Disposer {
	sub := &subscription[T]{fn: fn, active: true}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return func() {}
	}
	s.subs = append(s.subs, sub)
	last, replay := s.last, s.opts.replay && s.hasLast
	s.mu.Unlock()

	if replay {
		fn(last)
	}

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(sub) })
	}
}

func (s *Subject[T]) remove(sub *subscription[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub.active = false
	for i, other := range s.subs {
		if other == sub {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers v to every subscriber.
func (s *Subject[T]) Publish(v T) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.last, s.hasLast = v, true
	if s.publishing {
		s.queue = append(s.queue, v)
		s.mu.Unlock()
		return
	}
	s.publishing = true
	s.mu.Unlock()

	s.drain(v)
}

func (s *Subject[T]) drain(v T) {
	done := false
	defer func() {
		if done {
			return
		}
		// A subscriber panicked; drop what was queued behind it.
		s.mu.Lock()
		s.publishing = false
		s.queue = nil
		s.mu.Unlock()
	}()

	for {
		s.deliver(v)

		s.mu.Lock()
		if len(s.queue) == 0 {
			s.publishing = false
			s.mu.Unlock()
			done = true
			return
		}
		v = s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
	}
}

func (s *Subject[T]) deliver(v T) {
	s.mu.Lock()
	snapshot := make([]*subscription[T], len(s.subs))
	copy(snapshot, s.subs)
	tap := s.tap
	s.mu.Unlock()

	for _, sub := range snapshot {
		if !s.isActive(sub) {
			continue
		}
		sub.fn(v)
	}
	if tap != nil {
		tap(v)
	}
}

func (s *Subject[T]) isActive(sub *subscription[T]) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sub.active
}

// Last returns the most recently published value.
func (s *Subject[T]) Last() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

// Subscribers returns the number of live subscriptions.
func (s *Subject[T]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close drops every subscriber. Later publishes are ignored.
func (s *Subject[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subs {
		sub.active = false
	}
	s.subs = nil
	s.queue = nil
	s.closed = true
}
