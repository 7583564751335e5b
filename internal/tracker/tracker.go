// Package tracker owns the frame loop. Frames, timer callbacks and control
// calls are all serialized onto one goroutine, so listener state is never
// touched concurrently.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/mudra/internal/bus"
	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/listener"
)

var (
	// ErrUnknownView is returned for a view name that was never added.
	ErrUnknownView = errors.New("unknown view")
	// ErrStopped is returned when the loop is not running.
	ErrStopped = errors.New("tracker stopped")
)

// Options configure a Tracker.
type Options struct {
	// Classifier labels hands the upstream feed left unlabeled.
	Classifier *gesture.PoseClassifier
	// Projection maps upstream coordinates onto the canvas. The zero value
	// passes coordinates through.
	Projection hand.Projection
	// Timers delivers scheduler callbacks to run on the loop.
	Timers <-chan func()
	Logger *slog.Logger
}

// Event is a payload published by a listener, tagged with its view.
type Event struct {
	View string `json:"view"`
	bus.Event
}

// Tracker routes frames to the active view.
type Tracker struct {
	opts Options
	log  *slog.Logger

	mu        sync.RWMutex
	views     map[string]*View
	order     []string
	active    string
	observers map[uint64]func(Event)
	taps      []bus.Disposer
	nextID    uint64

	enabled atomic.Bool
	frames  atomic.Uint64
	last    atomic.Int64

	calls   chan func()
	running atomic.Bool
}

// New creates a Tracker with detection enabled.
func New(opts Options) *Tracker {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	t := &Tracker{
		opts:      opts,
		log:       opts.Logger,
		views:     make(map[string]*View),
		observers: make(map[uint64]func(Event)),
		calls:     make(chan func(), 16),
	}
	t.enabled.Store(true)
	return t
}

// AddView registers v. The first view added becomes active.
func (t *Tracker) AddView(v *View) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.views[v.Name()]; !ok {
		t.order = append(t.order, v.Name())
	}
	t.views[v.Name()] = v
	if t.active == "" {
		t.active = v.Name()
	}

	name := v.Name()
	t.taps = append(t.taps, v.Subjects().Observe(func(e bus.Event) {
		t.notify(Event{View: name, Event: e})
	}))
}

// View returns the named view.
func (t *Tracker) View(name string) (*View, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.views[name]
	return v, ok
}

// Active returns the active view name.
func (t *Tracker) Active() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active
}

// Observe registers fn for every payload published in any view. fn runs on
// the loop goroutine and must not block.
func (t *Tracker) Observe(fn func(Event)) bus.Disposer {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	t.observers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.observers, id)
			t.mu.Unlock()
		})
	}
}

func (t *Tracker) notify(e Event) {
	t.mu.RLock()
	fns := make([]func(Event), 0, len(t.observers))
	for _, fn := range t.observers {
		fns = append(fns, fn)
	}
	t.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}

// SetEnabled pauses or resumes dispatch. Pausing abandons gestures in
// progress on the active view.
func (t *Tracker) SetEnabled(enabled bool) {
	if t.enabled.Swap(enabled) == enabled || enabled {
		return
	}
	t.Submit(func() {
		if v := t.activeView(); v != nil {
			v.Reset()
		}
	})
}

// Enabled reports whether frames are dispatched.
func (t *Tracker) Enabled() bool {
	return t.enabled.Load()
}

// Dispatch labels unlabeled hands, projects the frame and publishes it to
// the active view. It must run on the loop goroutine, or on the only
// goroutine using the tracker when Run is not used.
func (t *Tracker) Dispatch(f hand.Frame) {
	if !t.enabled.Load() {
		return
	}
	v := t.activeView()
	if v == nil {
		return
	}

	out := hand.Frame{Time: f.Time, Hands: make(map[hand.Side]*hand.Data, len(f.Hands))}
	for side, d := range f.Hands {
		if d == nil {
			continue
		}
		out.Hands[side] = t.prepare(side, d)
	}

	t.frames.Add(1)
	t.last.Store(f.Time.UnixMilli())
	v.Frames().Publish(out)
}

// prepare returns a labeled, projected copy of d.
func (t *Tracker) prepare(side hand.Side, d *hand.Data) *hand.Data {
	c := &hand.Data{
		FingersToTrack: d.FingersToTrack,
		Gesture:        d.Gesture,
		Positions:      make(map[hand.Landmark]geometry.Point, len(d.Positions)),
	}
	if c.Gesture == "" {
		c.Gesture = t.opts.Classifier.Classify(landmarksOf(side, d))
	}
	for id, p := range d.Positions {
		c.Positions[id] = t.opts.Projection.Apply(p)
	}
	return c
}

func landmarksOf(side hand.Side, d *hand.Data) *hand.Landmarks {
	l := &hand.Landmarks{Handedness: side}
	for id, p := range d.Positions {
		if id.Valid() {
			l.Points[id] = p
		}
	}
	return l
}

func (t *Tracker) activeView() *View {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.views[t.active]
}

// Run serializes frames, timer callbacks and submitted calls onto the
// calling goroutine until ctx is done or frames is closed.
func (t *Tracker) Run(ctx context.Context, frames <-chan hand.Frame) error {
	t.running.Store(true)
	defer t.running.Store(false)

	t.log.Info("frame loop started", "views", len(t.order), "active", t.Active())
	for {
		select {
		case <-ctx.Done():
			t.log.Info("frame loop stopped")
			return ctx.Err()
		case f, ok := <-frames:
			if !ok {
				t.log.Info("frame source closed")
				return nil
			}
			t.Dispatch(f)
		case fn := <-t.opts.Timers:
			fn()
		case fn := <-t.calls:
			fn()
		}
	}
}

// Submit queues fn to run on the loop. It reports false when the queue is
// full.
func (t *Tracker) Submit(fn func()) bool {
	select {
	case t.calls <- fn:
		return true
	default:
		t.log.Warn("control queue full, dropping call")
		return false
	}
}

// Do runs fn on the loop and waits for it. Without a running loop fn runs on
// the caller's goroutine.
func (t *Tracker) Do(ctx context.Context, fn func()) error {
	if !t.running.Load() {
		fn()
		return nil
	}
	done := make(chan struct{})
	select {
	case t.calls <- func() { fn(); close(done) }:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetActiveView switches dispatch to the named view. Gestures in progress on
// the previous view are abandoned.
func (t *Tracker) SetActiveView(ctx context.Context, name string) error {
	if _, ok := t.View(name); !ok {
		return fmt.Errorf("activate %q: %w", name, ErrUnknownView)
	}
	return t.Do(ctx, func() {
		if prev := t.activeView(); prev != nil && prev.Name() != name {
			prev.Reset()
		}
		t.mu.Lock()
		t.active = name
		t.mu.Unlock()
		t.log.Info("view activated", "view", name)
	})
}

// ResetView abandons every gesture in progress on the named view.
func (t *Tracker) ResetView(ctx context.Context, name string) error {
	v, ok := t.View(name)
	if !ok {
		return fmt.Errorf("reset %q: %w", name, ErrUnknownView)
	}
	return t.Do(ctx, v.Reset)
}

// ListenerInfo describes one listener in a Snapshot.
type ListenerInfo struct {
	Name   string          `json:"name"`
	State  string          `json:"state"`
	Region listener.Region `json:"region"`
}

// ViewInfo describes one view in a Snapshot.
type ViewInfo struct {
	Name      string         `json:"name"`
	Active    bool           `json:"active"`
	Listeners []ListenerInfo `json:"listeners"`
	Subjects  []string       `json:"subjects"`
}

// Snapshot is a point-in-time description of the tracker.
type Snapshot struct {
	Enabled   bool       `json:"enabled"`
	Active    string     `json:"active"`
	Frames    uint64     `json:"frames"`
	LastFrame *time.Time `json:"lastFrame,omitempty"`
	Views     []ViewInfo `json:"views"`
}

// Snapshot reads listener state on the loop.
func (t *Tracker) Snapshot(ctx context.Context) (Snapshot, error) {
	var s Snapshot
	err := t.Do(ctx, func() { s = t.snapshot() })
	return s, err
}

func (t *Tracker) snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := Snapshot{
		Enabled: t.enabled.Load(),
		Active:  t.active,
		Frames:  t.frames.Load(),
		Views:   make([]ViewInfo, 0, len(t.order)),
	}
	if s.Frames > 0 {
		at := time.UnixMilli(t.last.Load()).UTC()
		s.LastFrame = &at
	}
	for _, name := range t.order {
		v := t.views[name]
		info := ViewInfo{Name: name, Active: name == t.active, Subjects: v.Subjects().Keys()}
		for _, l := range v.Listeners() {
			info.Listeners = append(info.Listeners, ListenerInfo{
				Name:   l.Name(),
				State:  l.State().String(),
				Region: l.Region(),
			})
		}
		s.Views = append(s.Views, info)
	}
	return s
}

// Close disposes every view.
func (t *Tracker) Close() {
	t.mu.Lock()
	taps := t.taps
	views := make([]*View, 0, len(t.order))
	for _, name := range t.order {
		views = append(views, t.views[name])
	}
	t.taps = nil
	t.mu.Unlock()

	for _, d := range taps {
		d()
	}
	for _, v := range views {
		v.Close()
	}
}
