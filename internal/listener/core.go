package listener

import (
	"fmt"
	"log/slog"

	"github.com/ayusman/mudra/internal/bus"
	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/schedule"
)

// Capabilities is what a listener variant plugs into Core.
type Capabilities struct {
	Mode  Mode
	Pairs []gesture.Pair
	// RolePairs derives Pairs from the dominant hand assignment. It is
	// applied again whenever the roles change.
	RolePairs func(hand.Roles) []gesture.Pair
	// Landmarks lists, per pair tag, the landmarks sampled from each hand
	// the pair requires. A frame's FingersToTrack may substitute them.
	Landmarks map[string][]hand.Landmark

	// Accept filters samples. Nil accepts every in-bounds sample.
	Accept func(Sample) bool
	// Begin runs when a candidate opens.
	Begin func(Sample)
	// Track runs for every accepted sample in trace and continuous mode.
	Track func(Sample) error
	// Confirm renders and publishes a resolved gesture.
	Confirm func(Result) error
	// Cancelled runs when a candidate is abandoned.
	Cancelled func(reason string)
	// Reset runs on every ResetHandler call and must be idempotent.
	Reset func()
	// Dispose runs once when the listener is torn down.
	Dispose func()
}

// Core is the state machine shared by all listeners. It is not safe for
// concurrent use: frames, timer callbacks and control calls must arrive on a
// single goroutine.
type Core struct {
	opts Options
	caps Capabilities
	log  *slog.Logger

	unsubscribe bus.Disposer

	state   State
	pair    gesture.Pair
	initial *Sample
	recent  *Sample
	trace   []Sample

	timer    schedule.Task
	timerID  uint64
	disposed bool
}

// NewCore builds a Core and subscribes it to opts.Frames.
func NewCore(opts Options, caps Capabilities) *Core {
	opts = opts.withDefaults()
	switch {
	case len(opts.Pairs) > 0:
		caps.Pairs = opts.Pairs
	case caps.RolePairs != nil:
		caps.Pairs = caps.RolePairs(opts.Roles)
	}
	if caps.Mode == ModeHold && opts.Scheduler == nil {
		panic(fmt.Sprintf("listener %q: hold mode needs a Scheduler", opts.Name))
	}

	c := &Core{opts: opts, caps: caps, log: opts.Logger.With("listener", opts.Name)}
	if opts.Frames != nil {
		c.unsubscribe = opts.Frames.Subscribe(c.onFrame)
	}
	return c
}

func (c *Core) onFrame(f hand.Frame) {
	if err := c.HandleNewData(f); err != nil {
		if c.opts.OnError != nil {
			c.opts.OnError(err)
			return
		}
		c.log.Error("frame rejected", "error", err)
	}
}

// Name returns the listener name.
func (c *Core) Name() string { return c.opts.Name }

// State returns the current state.
func (c *Core) State() State { return c.state }

// Region returns the current region.
func (c *Core) Region() Region { return c.opts.Region }

// Roles returns the dominant hand assignment.
func (c *Core) Roles() hand.Roles { return c.opts.Roles }

// Options returns the listener's effective options.
func (c *Core) Options() Options { return c.opts }

// Pairs returns the accepted gesture pairs.
func (c *Core) Pairs() []gesture.Pair { return c.caps.Pairs }

// UpdateState rebinds region, roles, subjects or surface.
func (c *Core) UpdateState(u Update) {
	if u.Region != nil {
		c.opts.Region = *u.Region
	}
	if u.Roles != nil {
		c.opts.Roles = *u.Roles
		if c.caps.RolePairs != nil && len(c.opts.Pairs) == 0 {
			c.ResetHandler()
			c.caps.Pairs = c.caps.RolePairs(c.opts.Roles)
		}
	}
	if u.Subjects != nil {
		c.opts.Subjects = u.Subjects
	}
	if u.Surface != nil {
		c.opts.Surface = u.Surface
	}
}

// HandleNewData feeds one frame through the state machine. Frames missing a
// required hand are skipped. A tracked landmark without a coordinate aborts
// the current attempt and returns an error wrapping ErrUndefinedCoordinate.
func (c *Core) HandleNewData(f hand.Frame) error {
	if c.disposed {
		return nil
	}
	switch c.state {
	case Idle:
		return c.idle(f)
	case Candidate:
		switch c.caps.Mode {
		case ModeTrace:
			return c.tracing(f)
		case ModeContinuous:
			return c.continuing(f)
		default:
			return c.holding(f)
		}
	}
	return nil
}

func (c *Core) idle(f hand.Frame) error {
	pair, ok := gesture.MatchPair(c.caps.Pairs, f)
	if !ok {
		return nil
	}
	s, err := c.sample(f, pair, "start")
	if err != nil {
		return c.abort(err)
	}
	if !c.accepts(s) {
		return nil
	}

	c.pair = pair
	c.initial = &s
	c.recent = nil
	c.trace = nil
	c.setState(Candidate)
	if c.caps.Begin != nil {
		c.caps.Begin(s)
	}

	switch c.caps.Mode {
	case ModeHold:
		c.startTimer()
	case ModeTrace:
		c.trace = append(c.trace, s)
		return c.track(s)
	case ModeContinuous:
		c.recent = &s
		return c.track(s)
	}
	return nil
}

func (c *Core) holding(f hand.Frame) error {
	if !c.pair.Present(f) {
		c.cancel("hand lost")
		return nil
	}
	pair, ok := gesture.MatchPair(c.caps.Pairs, f)
	if !ok || pair.Tag != c.pair.Tag {
		return nil
	}
	s, err := c.sample(f, pair, "update")
	if err != nil {
		return c.abort(err)
	}
	if c.accepts(s) {
		c.recent = &s
	}
	return nil
}

func (c *Core) tracing(f hand.Frame) error {
	if !c.pair.Present(f) {
		c.cancel("hand lost")
		return nil
	}
	pair, ok := gesture.MatchPair(c.caps.Pairs, f)
	if !ok || pair.Tag != c.pair.Tag {
		c.commit()
		return nil
	}
	s, err := c.sample(f, pair, "trace")
	if err != nil {
		return c.abort(err)
	}
	if !c.accepts(s) {
		return nil
	}
	c.trace = append(c.trace, s)
	c.recent = &s
	return c.track(s)
}

func (c *Core) continuing(f hand.Frame) error {
	pair, ok := gesture.MatchPair(c.caps.Pairs, f)
	if !ok || pair.Tag != c.pair.Tag {
		c.cancel("released")
		return nil
	}
	s, err := c.sample(f, pair, "track")
	if err != nil {
		return c.abort(err)
	}
	if !c.accepts(s) {
		c.cancel("left region")
		return nil
	}
	c.recent = &s
	return c.track(s)
}

func (c *Core) accepts(s Sample) bool {
	if !c.opts.Region.Contains(s.Points()...) {
		return false
	}
	return c.caps.Accept == nil || c.caps.Accept(s)
}

func (c *Core) track(s Sample) error {
	if c.caps.Track == nil {
		return nil
	}
	if err := c.caps.Track(s); err != nil {
		return c.abort(fmt.Errorf("track: %w", err))
	}
	return nil
}

// sample reads the landmarks pair needs from f.
func (c *Core) sample(f hand.Frame, pair gesture.Pair, step string) (Sample, error) {
	defaults := c.caps.Landmarks[pair.Tag]
	s := Sample{Tag: pair.Tag, At: f.Time, Hands: make(map[hand.Side][]geometry.Point, 2)}

	for _, side := range hand.Sides {
		if !pair.Requires(side) {
			continue
		}
		d := f.Hand(side)
		ids := d.Tracked(defaults)
		if len(ids) < len(defaults) {
			return Sample{}, fmt.Errorf("%s: %s: %s hand tracks %d landmarks, need %d: %w",
				c.opts.Name, step, side, len(ids), len(defaults), ErrUndefinedCoordinate)
		}

		pts := make([]geometry.Point, len(defaults))
		for i := range defaults {
			p, ok := d.Position(ids[i])
			if !ok || !p.Defined() {
				return Sample{}, fmt.Errorf("%s: %s: %s %s: %w",
					c.opts.Name, step, side, ids[i], ErrUndefinedCoordinate)
			}
			pts[i] = p
		}
		s.Hands[side] = pts
	}
	return s, nil
}

func (c *Core) startTimer() {
	c.stopTimer()
	id := c.timerID
	c.timer = c.opts.Scheduler.Schedule(c.opts.Thresholds.Window, func() { c.onTimer(id) })
}

// stopTimer cancels the pending timer and invalidates any callback already
// queued for it.
func (c *Core) stopTimer() {
	if c.timer != nil {
		c.timer.Cancel()
		c.timer = nil
	}
	c.timerID++
}

func (c *Core) onTimer(id uint64) {
	if c.disposed || c.timer == nil || id != c.timerID {
		return
	}
	c.timer = nil
	if c.state != Candidate {
		return
	}

	if c.initial == nil || c.recent == nil {
		c.cancel("no recent sample")
		return
	}
	drift := geometry.DistancesBetween(c.initial.Points(), c.recent.Points())
	if geometry.MaxExceeded(drift, c.opts.Thresholds.Drift) {
		c.cancel("drift")
		return
	}
	c.confirm(Result{Initial: *c.initial, Recent: *c.recent})
}

func (c *Core) commit() {
	if len(c.trace) < c.opts.Thresholds.MinTrace {
		c.cancel("trace too short")
		return
	}
	c.confirm(Result{Initial: c.trace[0], Recent: c.trace[len(c.trace)-1], Trace: c.trace})
}

func (c *Core) confirm(res Result) {
	c.setState(Confirmed)
	var err error
	if c.caps.Confirm != nil {
		err = c.caps.Confirm(res)
	}
	c.clear()
	if err != nil {
		c.log.Error("confirm failed", "error", err)
	}
}

func (c *Core) cancel(reason string) {
	c.stopTimer()
	was := c.state
	c.setState(Cancelled)
	if was == Candidate && c.caps.Cancelled != nil {
		c.caps.Cancelled(reason)
	}
	c.clear()
}

func (c *Core) abort(err error) error {
	if c.state == Candidate {
		c.cancel("error")
	} else {
		c.stopTimer()
		c.clear()
	}
	return err
}

// clear drops the attempt and returns to Idle.
func (c *Core) clear() {
	c.initial, c.recent, c.trace = nil, nil, nil
	c.pair = gesture.Pair{}
	c.setState(Idle)
}

func (c *Core) setState(s State) {
	if c.state == s {
		return
	}
	c.log.Debug("transition", "from", c.state, "to", s, "tag", c.pair.Tag)
	c.state = s
}

// ResetHandler abandons any attempt in progress. A timer already scheduled
// becomes a no-op. Calling it repeatedly has the same effect as once.
func (c *Core) ResetHandler() {
	if c.disposed {
		return
	}
	if c.state == Candidate {
		c.cancel("reset")
	} else {
		c.stopTimer()
		c.clear()
	}
	if c.caps.Reset != nil {
		c.caps.Reset()
	}
}

// Dispose cancels the timer and unsubscribes from the frame subject.
func (c *Core) Dispose() {
	if c.disposed {
		return
	}
	c.stopTimer()
	c.clear()
	c.disposed = true
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	if c.caps.Dispose != nil {
		c.caps.Dispose()
	}
}

// Subject opens a payload subject on the listener's registry.
func Subject[T any](c *Core, key string) *bus.Subject[T] {
	return bus.Open[T](c.opts.Subjects, key)
}
