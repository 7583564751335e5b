package listener

import (
	"image/color"

	"github.com/ayusman/mudra/internal/draw"
	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hand"
)

// Pair tags used by Foreshadowing.
const (
	TagShape = "shape"
	TagRange = "range"
)

// ShapeKind is the shape a foreshadowing candidate was opened with.
type ShapeKind string

const (
	ShapeNone      ShapeKind = ""
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
	ShapeRange     ShapeKind = "range"
)

// ForeshadowingPairs are the default pairs: matching L or C shapes on both
// hands draw an area, two open hands mark a playback range.
func ForeshadowingPairs() []gesture.Pair {
	return []gesture.Pair{
		{Left: hand.ForeshadowingLeftL, Right: hand.ForeshadowingRightL, Tag: TagShape},
		{Left: hand.ForeshadowingLeftC, Right: hand.ForeshadowingRightC, Tag: TagShape},
		{Left: hand.OpenHand, Right: hand.OpenHand, Tag: TagRange},
	}
}

var foreshadowingStyle = draw.Style{Fill: color.Black, Stroke: color.Black, Opacity: 0.2}

const rangeLineWidth = 15

// Foreshadowing lets a presenter frame an upcoming area of a chart with both
// hands, or mark a span to play back. Both hands must perform the same
// shape, so hand roles do not apply.
type Foreshadowing struct {
	*Core

	shape         ShapeKind
	areaConfirmed bool
	slider        *LinearPlayback
}

// NewForeshadowing creates a Foreshadowing listener.
func NewForeshadowing(opts Options) *Foreshadowing {
	f := &Foreshadowing{}
	f.Core = NewCore(opts, Capabilities{
		Mode:  ModeHold,
		Pairs: ForeshadowingPairs(),
		Landmarks: map[string][]hand.Landmark{
			TagShape: {hand.IndexTip, hand.ThumbTip},
			TagRange: {hand.IndexTip},
		},
		Accept:    f.accept,
		Begin:     f.begin,
		Confirm:   f.confirm,
		Cancelled: func(string) { f.clearArea() },
		Reset:     f.reset,
		Dispose:   f.dispose,
	})
	return f
}

// Shape returns the shape of the candidate in progress.
func (f *Foreshadowing) Shape() ShapeKind {
	return f.shape
}

// Slider returns the playback slider placed by the last range confirmation.
func (f *Foreshadowing) Slider() *LinearPlayback {
	return f.slider
}

func fingertips(s Sample) gesture.Fingertips {
	return gesture.Fingertips{
		LeftIndex:  s.Point(hand.Left, 0),
		LeftThumb:  s.Point(hand.Left, 1),
		RightIndex: s.Point(hand.Right, 0),
		RightThumb: s.Point(hand.Right, 1),
	}
}

func (f *Foreshadowing) accept(s Sample) bool {
	if s.Tag != TagShape {
		return true
	}
	tips := fingertips(s)
	pinch := f.opts.Thresholds.Pinch
	return gesture.IsCircleShape(tips, pinch) || gesture.IsRectShape(tips, pinch)
}

func (f *Foreshadowing) begin(s Sample) {
	if s.Tag == TagRange {
		f.shape = ShapeRange
		return
	}
	if gesture.IsCircleShape(fingertips(s), f.opts.Thresholds.Pinch) {
		f.shape = ShapeCircle
	} else {
		f.shape = ShapeRectangle
	}
}

func (f *Foreshadowing) confirm(res Result) error {
	shape := f.shape
	f.shape = ShapeNone

	surface := f.opts.Surface
	surface.ClearArea(f.opts.Region.Rect())
	f.renderBorder()

	switch shape {
	case ShapeRectangle:
		r := gesture.RectFromFingertips(fingertips(res.Recent))
		surface.WithStyle(foreshadowingStyle, func(s draw.Surface) { s.DrawRect(r, true) })
		f.areaConfirmed = true
		Subject[AreaEvent](f.Core, AreaSubject).Publish(AreaEvent{Type: AreaRectangle, Value: RectArea(r)})

	case ShapeCircle:
		c := gesture.CircleFromFingertips(fingertips(res.Recent))
		surface.WithStyle(foreshadowingStyle, func(s draw.Surface) { s.DrawCircle(c, true) })
		f.areaConfirmed = true
		Subject[AreaEvent](f.Core, AreaSubject).Publish(AreaEvent{Type: AreaCircle, Value: CircleArea(c)})

	case ShapeRange:
		start, end := res.Recent.Point(hand.Left, 0), res.Recent.Point(hand.Right, 0)
		style := foreshadowingStyle
		style.LineWidth = rangeLineWidth
		surface.WithStyle(style, func(s draw.Surface) { s.DrawLine(start, end) })
		f.placeSlider(start, end)
		Subject[PlaybackEvent](f.Core, PlaybackSubject).Publish(PlaybackEvent{Kind: PlaybackRange, Start: start, End: end})
	}
	return nil
}

// placeSlider anchors the playback strip at the higher of the two fingers.
// The slider is created on the first range and rebound afterwards.
func (f *Foreshadowing) placeSlider(start, end geometry.Point) {
	region := Region{
		Position: geometry.Point{X: f.opts.Region.Position.X, Y: min(start.Y, end.Y)},
		Dimensions: geometry.Dimensions{
			Width:  f.opts.Region.Dimensions.Width,
			Height: f.opts.Thresholds.SliderHeight,
		},
	}

	if f.slider != nil {
		f.slider.Rebind(region, start, end)
		return
	}

	opts := f.opts
	opts.Name = f.opts.Name + "/slider"
	opts.Region = region
	opts.Pairs = nil
	f.slider = NewLinearPlayback(opts, start, end)
}

func (f *Foreshadowing) renderBorder() {
	f.opts.Surface.DrawRect(f.opts.Region.Rect(), false)
}

// clearArea withdraws a confirmed area. It publishes CLEAR at most once per
// confirmed area.
func (f *Foreshadowing) clearArea() {
	f.shape = ShapeNone
	if !f.areaConfirmed {
		return
	}
	f.areaConfirmed = false
	f.opts.Surface.ClearArea(f.opts.Region.Rect())
	f.renderBorder()
	Subject[AreaEvent](f.Core, AreaSubject).Publish(AreaEvent{Type: AreaClear})
}

func (f *Foreshadowing) reset() {
	f.clearArea()
	if f.slider != nil {
		f.slider.ResetHandler()
	}
}

func (f *Foreshadowing) dispose() {
	if f.slider != nil {
		f.slider.Dispose()
	}
}
