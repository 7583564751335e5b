package listener

import (
	"math"

	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/hand"
)

// TagScrub is the pair tag of LinearPlayback.
const TagScrub = "scrub"

// LinearPlayback is a horizontal slider. While the dominant hand points
// inside the strip, the fingertip x position is mapped onto the emit range
// and published as scrub progress.
type LinearPlayback struct {
	*Core

	start geometry.Point
	end   geometry.Point
}

// NewLinearPlayback creates a slider scrubbing from start to end.
func NewLinearPlayback(opts Options, start, end geometry.Point) *LinearPlayback {
	l := &LinearPlayback{start: start, end: end}
	l.Core = NewCore(opts, Capabilities{
		Mode:      ModeContinuous,
		RolePairs: dominantPair(hand.Pointing, TagScrub),
		Landmarks: map[string][]hand.Landmark{TagScrub: {hand.IndexTip}},
		Track:     l.track,
	})
	return l
}

// EmitRange returns the range the slider maps onto.
func (l *LinearPlayback) EmitRange() (start, end geometry.Point) {
	return l.start, l.end
}

// Rebind moves the slider and replaces its emit range.
func (l *LinearPlayback) Rebind(region Region, start, end geometry.Point) {
	l.UpdateState(Update{Region: &region})
	l.start, l.end = start, end
}

// Progress maps x onto the emit range, clamped to [0, 1].
func (l *LinearPlayback) Progress(x float64) float64 {
	span := l.end.X - l.start.X
	if span == 0 {
		return 0
	}
	return math.Max(0, math.Min(1, (x-l.start.X)/span))
}

func (l *LinearPlayback) track(s Sample) error {
	tip := s.Point(l.Roles().Dominant, 0)
	Subject[PlaybackEvent](l.Core, PlaybackSubject).Publish(PlaybackEvent{
		Kind:     PlaybackScrub,
		Start:    l.start,
		End:      l.end,
		Progress: l.Progress(tip.X),
	})
	return nil
}
