package hand

import (
	"time"

	"github.com/ayusman/mudra/internal/geometry"
)

// Data is one hand's contribution to a frame.
type Data struct {
	// FingersToTrack optionally overrides which landmarks a listener samples.
	FingersToTrack []Landmark                  `json:"fingersToTrack,omitempty"`
	Positions      map[Landmark]geometry.Point `json:"fingerPositions"`
	Gesture        Label                       `json:"detectedGesture"`
}

// Position returns the coordinate of a landmark.
func (d *Data) Position(id Landmark) (geometry.Point, bool) {
	if d == nil {
		return geometry.Point{}, false
	}
	p, ok := d.Positions[id]
	return p, ok
}

// Tracked returns FingersToTrack when set and defaults otherwise.
func (d *Data) Tracked(defaults []Landmark) []Landmark {
	if d != nil && len(d.FingersToTrack) > 0 {
		return d.FingersToTrack
	}
	return defaults
}

// Frame is the per-tick input: every hand currently in view. A hand out of
// view has no entry. Frames are never mutated once dispatched.
type Frame struct {
	Time  time.Time      `json:"time"`
	Hands map[Side]*Data `json:"hands"`
}

// Hand returns the data for side, or nil when the hand is out of view.
func (f Frame) Hand(s Side) *Data {
	if f.Hands == nil {
		return nil
	}
	return f.Hands[s]
}

// Len returns how many hands are in view.
func (f Frame) Len() int {
	return len(f.Hands)
}

// ScaleFn maps an upstream coordinate onto a canvas axis.
type ScaleFn func(float64) float64

// Linear returns a ScaleFn mapping [d0, d1] onto [r0, r1].
func Linear(d0, d1, r0, r1 float64) ScaleFn {
	span := d1 - d0
	return func(v float64) float64 {
		if span == 0 {
			return r0
		}
		return r0 + (v-d0)/span*(r1-r0)
	}
}

// Projection converts upstream landmark coordinates to canvas pixels.
type Projection struct {
	X ScaleFn
	Y ScaleFn
}

// CanvasProjection maps normalized [0,1] landmarks onto a canvas of the given
// size. Mirror flips the x axis, as for a selfie-view camera.
func CanvasProjection(width, height float64, mirror bool) Projection {
	x := Linear(0, 1, 0, width)
	if mirror {
		x = Linear(0, 1, width, 0)
	}
	return Projection{X: x, Y: Linear(0, 1, 0, height)}
}

// Apply projects a single point. A zero Projection is the identity.
func (p Projection) Apply(pt geometry.Point) geometry.Point {
	out := pt
	if p.X != nil {
		out.X = p.X(pt.X)
	}
	if p.Y != nil {
		out.Y = p.Y(pt.Y)
	}
	return out
}

// FromLandmarks builds the frame data for one detected hand.
func FromLandmarks(l Landmarks, label Label, proj Projection) *Data {
	d := &Data{
		Positions: make(map[Landmark]geometry.Point, NumLandmarks),
		Gesture:   label,
	}
	for i := 0; i < NumLandmarks; i++ {
		d.Positions[Landmark(i)] = proj.Apply(l.Points[i])
	}
	return d
}
