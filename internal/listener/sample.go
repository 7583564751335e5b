package listener

import (
	"time"

	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/hand"
)

// Sample is the set of tracked points read from one frame. Points are kept
// per hand in tracking order, so for a shape gesture index 0 is the index tip
// and index 1 the thumb tip.
type Sample struct {
	Tag   string
	At    time.Time
	Hands map[hand.Side][]geometry.Point
}

// Point returns the i-th tracked point of side.
func (s Sample) Point(side hand.Side, i int) geometry.Point {
	pts := s.Hands[side]
	if i < 0 || i >= len(pts) {
		return geometry.Point{}
	}
	return pts[i]
}

// Points returns every tracked point, left hand first.
func (s Sample) Points() []geometry.Point {
	var out []geometry.Point
	for _, side := range hand.Sides {
		out = append(out, s.Hands[side]...)
	}
	return out
}

// Result is what a listener resolves a gesture attempt from.
type Result struct {
	Initial Sample
	Recent  Sample
	// Trace is the accumulated path for trace mode listeners.
	Trace []Sample
}

// Path returns the trace as points of side's first tracked landmark.
func (r Result) Path(side hand.Side) []geometry.Point {
	out := make([]geometry.Point, 0, len(r.Trace))
	for _, s := range r.Trace {
		out = append(out, s.Point(side, 0))
	}
	return out
}
