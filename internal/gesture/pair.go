package gesture

import "github.com/ayusman/mudra/internal/hand"

// Pair is a two-hand label combination that opens a gesture attempt. Tag
// names the accumulation the pair starts, e.g. "shape" or "range".
type Pair struct {
	Left  hand.Label `json:"left" yaml:"left"`
	Right hand.Label `json:"right" yaml:"right"`
	Tag   string     `json:"tag" yaml:"tag"`
}

// Label returns the label the pair requires for side s.
func (p Pair) Label(s hand.Side) hand.Label {
	if s == hand.Left {
		return p.Left
	}
	return p.Right
}

// Requires reports whether side s must be present for the pair to hold.
func (p Pair) Requires(s hand.Side) bool {
	return p.Label(s) != hand.Any
}

// Present reports whether every hand the pair requires is in the frame.
func (p Pair) Present(f hand.Frame) bool {
	for _, s := range hand.Sides {
		if p.Requires(s) && f.Hand(s) == nil {
			return false
		}
	}
	return true
}

// Satisfied reports whether the frame's labels match the pair.
func (p Pair) Satisfied(f hand.Frame) bool {
	for _, s := range hand.Sides {
		want := p.Label(s)
		if want == hand.Any {
			continue
		}
		d := f.Hand(s)
		if d == nil || d.Gesture != want {
			return false
		}
	}
	return true
}

// MatchPair returns the first pair satisfied by the frame.
func MatchPair(pairs []Pair, f hand.Frame) (Pair, bool) {
	for _, p := range pairs {
		if p.Satisfied(f) {
			return p, true
		}
	}
	return Pair{}, false
}
