package listener

import (
	"log/slog"
	"time"

	"github.com/ayusman/mudra/internal/bus"
	"github.com/ayusman/mudra/internal/draw"
	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/schedule"
)

// Thresholds are the tunable limits of gesture confirmation.
type Thresholds struct {
	// Window is how long a pose must be held before it is resolved.
	Window time.Duration
	// Drift is the exclusive upper bound, in pixels, for per-point movement
	// between the first and last sample of a held pose.
	Drift float64
	// Pinch is the fingertip gap, in pixels, below which fingers touch.
	Pinch float64
	// SliderHeight is the height of the playback strip placed by a range
	// confirmation.
	SliderHeight float64
	// MinTrace is the fewest points a traced path needs to commit.
	MinTrace int
}

// DefaultThresholds returns the standard limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Window:       1000 * time.Millisecond,
		Drift:        30,
		Pinch:        gesture.DefaultPinchThreshold,
		SliderHeight: 50,
		MinTrace:     8,
	}
}

func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	if t.Window <= 0 {
		t.Window = d.Window
	}
	if t.Drift <= 0 {
		t.Drift = d.Drift
	}
	if t.Pinch <= 0 {
		t.Pinch = d.Pinch
	}
	if t.SliderHeight <= 0 {
		t.SliderHeight = d.SliderHeight
	}
	if t.MinTrace <= 0 {
		t.MinTrace = d.MinTrace
	}
	return t
}

// Options are the construction arguments shared by every listener.
type Options struct {
	Name   string
	Region Region
	Roles  hand.Roles
	// Pairs overrides the listener's accepted gesture pairs.
	Pairs []gesture.Pair

	// Frames is the view's frame subject. The listener subscribes on
	// construction and unsubscribes on Dispose.
	Frames    *bus.Subject[hand.Frame]
	Subjects  *bus.Registry
	Surface   draw.Surface
	Scheduler schedule.Scheduler
	Logger    *slog.Logger

	Thresholds Thresholds
	Recognizer *gesture.Recognizer
	// Data is the polyline a highlight selects from.
	Data []geometry.Point

	// OnError receives errors from frames delivered through Frames. It
	// defaults to logging them.
	OnError func(error)
}

func (o Options) withDefaults() Options {
	if o.Roles.Dominant == "" {
		o.Roles = hand.DefaultRoles()
	}
	if o.Subjects == nil {
		o.Subjects = bus.NewRegistry()
	}
	if o.Surface == nil {
		o.Surface = draw.Discard
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	o.Thresholds = o.Thresholds.withDefaults()
	return o
}

// Update rebinds a listener. Nil fields are left unchanged.
type Update struct {
	Region   *Region
	Roles    *hand.Roles
	Subjects *bus.Registry
	Surface  draw.Surface
}
