package listener

import (
	"image/color"

	"github.com/ayusman/mudra/internal/draw"
	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hand"
)

// Pair tags of the pose listeners.
const (
	TagRect     = "rect"
	TagSpan     = "span"
	TagPoint    = "point"
	TagOpenHand = "open"
)

var selectionStyle = draw.Style{Stroke: color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}, LineWidth: 3}

// dominantPair requires label on the dominant hand and nothing of the other.
func dominantPair(label hand.Label, tag string) func(hand.Roles) []gesture.Pair {
	return func(roles hand.Roles) []gesture.Pair {
		p := gesture.Pair{Left: hand.Any, Right: hand.Any, Tag: tag}
		if roles.Dominant == hand.Left {
			p.Left = label
		} else {
			p.Right = label
		}
		return []gesture.Pair{p}
	}
}

// RectPose selects the rectangle spanned by the index tips of two L-shaped
// hands.
type RectPose struct {
	*Core
}

// NewRectPose creates a RectPose listener.
func NewRectPose(opts Options) *RectPose {
	l := &RectPose{}
	l.Core = NewCore(opts, Capabilities{
		Mode: ModeHold,
		Pairs: []gesture.Pair{
			{Left: hand.ForeshadowingLeftL, Right: hand.ForeshadowingRightL, Tag: TagRect},
		},
		Landmarks: map[string][]hand.Landmark{TagRect: {hand.IndexTip}},
		Confirm:   l.confirm,
	})
	return l
}

func (l *RectPose) confirm(res Result) error {
	r := geometry.NewRect(res.Recent.Point(hand.Left, 0), res.Recent.Point(hand.Right, 0))
	l.opts.Surface.WithStyle(selectionStyle, func(s draw.Surface) { s.DrawRect(r, false) })
	Subject[SelectionEvent](l.Core, SelectionSubject).Publish(SelectionEvent{Kind: SelectRect, Rect: &r})
	return nil
}

// RangePose selects the x range between two pointing index fingers.
type RangePose struct {
	*Core
}

// NewRangePose creates a RangePose listener.
func NewRangePose(opts Options) *RangePose {
	l := &RangePose{}
	l.Core = NewCore(opts, Capabilities{
		Mode:      ModeHold,
		Pairs:     []gesture.Pair{{Left: hand.Pointing, Right: hand.Pointing, Tag: TagSpan}},
		Landmarks: map[string][]hand.Landmark{TagSpan: {hand.IndexTip}},
		Confirm:   l.confirm,
	})
	return l
}

func (l *RangePose) confirm(res Result) error {
	a, b := res.Recent.Point(hand.Left, 0), res.Recent.Point(hand.Right, 0)
	span := Span{Start: min(a.X, b.X), End: max(a.X, b.X)}

	y := (a.Y + b.Y) / 2
	l.opts.Surface.WithStyle(selectionStyle, func(s draw.Surface) {
		s.DrawLine(geometry.Point{X: span.Start, Y: y}, geometry.Point{X: span.End, Y: y})
	})
	Subject[SelectionEvent](l.Core, SelectionSubject).Publish(SelectionEvent{Kind: SelectRange, Range: &span})
	return nil
}

// PointPose selects the point under the dominant index finger.
type PointPose struct {
	*Core
}

// NewPointPose creates a PointPose listener.
func NewPointPose(opts Options) *PointPose {
	l := &PointPose{}
	l.Core = NewCore(opts, Capabilities{
		Mode:      ModeHold,
		RolePairs: dominantPair(hand.Pointing, TagPoint),
		Landmarks: map[string][]hand.Landmark{TagPoint: {hand.IndexTip}},
		Confirm:   l.confirm,
	})
	return l
}

func (l *PointPose) confirm(res Result) error {
	p := res.Recent.Point(l.Roles().Dominant, 0)
	l.opts.Surface.WithStyle(selectionStyle, func(s draw.Surface) {
		s.DrawCircle(geometry.Circle{Center: p, Radius: 6}, true)
	})
	Subject[SelectionEvent](l.Core, SelectionSubject).Publish(SelectionEvent{Kind: SelectPoint, Point: &p})
	return nil
}

// OpenHandPose detects a held open dominant hand and reports its palm centre.
type OpenHandPose struct {
	*Core
}

var palmLandmarks = []hand.Landmark{hand.Wrist, hand.IndexMCP, hand.MiddleMCP, hand.RingMCP, hand.PinkyMCP}

// NewOpenHandPose creates an OpenHandPose listener.
func NewOpenHandPose(opts Options) *OpenHandPose {
	l := &OpenHandPose{}
	l.Core = NewCore(opts, Capabilities{
		Mode:      ModeHold,
		RolePairs: dominantPair(hand.OpenHand, TagOpenHand),
		Landmarks: map[string][]hand.Landmark{TagOpenHand: palmLandmarks},
		Confirm:   l.confirm,
	})
	return l
}

func (l *OpenHandPose) confirm(res Result) error {
	side := l.Roles().Dominant
	palm := geometry.Centroid(res.Recent.Hands[side])
	Subject[OpenHandEvent](l.Core, OpenHandSubject).Publish(OpenHandEvent{Side: side, Position: palm})
	return nil
}
