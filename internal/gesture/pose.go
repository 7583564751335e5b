package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/hand"
)

// PoseClassifier labels a single hand. Trained static templates win; when
// none matches, a rule set over finger extension decides.
type PoseClassifier struct {
	Matcher *StaticMatcher
}

// NewPoseClassifier returns a classifier backed by m, which may be nil.
func NewPoseClassifier(m *StaticMatcher) *PoseClassifier {
	return &PoseClassifier{Matcher: m}
}

// Classify returns the pose label for l.
func (c *PoseClassifier) Classify(l *hand.Landmarks) hand.Label {
	if l == nil {
		return hand.None
	}
	if c != nil && c.Matcher != nil {
		for _, m := range c.Matcher.Match(l) {
			if m.Template.Label != "" {
				return m.Template.Label
			}
		}
	}
	return ClassifyRules(l)
}

// Thresholds for ClassifyRules, relative to the wrist to middle knuckle span.
const (
	extensionRatio = 1.2
	pinchGap       = 0.3
	thumbSpread    = 0.5
	cShapeGap      = 0.5
	thumbRise      = 0.5
	straightBend   = 30.0
	lShapeSpread   = 50.0
)

// ClassifyRules labels l from joint geometry alone. It only reads x and y,
// so it works on normalized or pixel coordinates.
func ClassifyRules(l *hand.Landmarks) hand.Label {
	p := &l.Points
	span := dist(p[hand.Wrist], p[hand.MiddleMCP])
	if span < 1e-9 {
		return hand.None
	}

	extended := func(pip, tip hand.Landmark) bool {
		return dist(p[hand.Wrist], p[tip]) > extensionRatio*dist(p[hand.Wrist], p[pip])
	}

	index := extended(hand.IndexPIP, hand.IndexTip)
	others := 0
	for _, f := range [][2]hand.Landmark{
		{hand.MiddlePIP, hand.MiddleTip},
		{hand.RingPIP, hand.RingTip},
		{hand.PinkyPIP, hand.PinkyTip},
	} {
		if extended(f[0], f[1]) {
			others++
		}
	}
	thumbOut := dist(p[hand.ThumbTip], p[hand.IndexMCP]) > thumbSpread*span
	gap := dist(p[hand.ThumbTip], p[hand.IndexTip])

	switch {
	case gap < pinchGap*span:
		return hand.Pinch
	case index && others == 3:
		return hand.OpenHand
	case others > 0:
		return hand.None
	case !index:
		if thumbOut && p[hand.ThumbTip].Y < p[hand.ThumbMCP].Y-thumbRise*span {
			return hand.ThumbsUp
		}
		return hand.Fist
	case !thumbOut:
		return hand.Pointing
	}

	bend := angle(p[hand.IndexPIP].Sub(p[hand.IndexMCP]), p[hand.IndexTip].Sub(p[hand.IndexPIP]))
	spread := angle(p[hand.ThumbTip].Sub(p[hand.ThumbMCP]), p[hand.IndexTip].Sub(p[hand.IndexMCP]))

	switch {
	case bend < straightBend && spread > lShapeSpread:
		return sided(l.Handedness, hand.ForeshadowingLeftL, hand.ForeshadowingRightL)
	case bend >= straightBend && gap > cShapeGap*span:
		return sided(l.Handedness, hand.ForeshadowingLeftC, hand.ForeshadowingRightC)
	}
	return hand.Pointing
}

func sided(s hand.Side, left, right hand.Label) hand.Label {
	if s == hand.Left {
		return left
	}
	return right
}

func dist(a, b geometry.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// angle returns the unsigned angle between a and b in degrees.
func angle(a, b geometry.Point) float64 {
	n := math.Hypot(a.X, a.Y) * math.Hypot(b.X, b.Y)
	if n == 0 {
		return 0
	}
	cos := (a.X*b.X + a.Y*b.Y) / n
	return math.Acos(math.Max(-1, math.Min(1, cos))) * 180 / math.Pi
}
