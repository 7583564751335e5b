package listener

import (
	"fmt"
	"image/color"

	"github.com/ayusman/mudra/internal/draw"
	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/hand"
)

// Pair tags of the trace listeners.
const (
	TagHighlight = "highlight"
	TagStroke    = "stroke"
)

var (
	strokeStyle    = draw.Style{Stroke: color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}, LineWidth: 4}
	highlightStyle = draw.Style{Stroke: color.RGBA{R: 0xff, G: 0xbf, B: 0x00, A: 0xff}, Fill: color.RGBA{R: 0xff, G: 0xbf, B: 0x00, A: 0xff}, Opacity: 0.3, LineWidth: 2}
)

// Highlight selects the data points enclosed by a circle traced with the
// dominant index finger.
type Highlight struct {
	*Core
}

// NewHighlight creates a Highlight listener over opts.Data.
func NewHighlight(opts Options) *Highlight {
	l := &Highlight{}
	l.Core = NewCore(opts, Capabilities{
		Mode:      ModeTrace,
		RolePairs: dominantPair(hand.Pointing, TagHighlight),
		Landmarks: map[string][]hand.Landmark{TagHighlight: {hand.IndexTip}},
		Confirm:   l.confirm,
	})
	return l
}

// SetData replaces the polyline highlights select from.
func (l *Highlight) SetData(points []geometry.Point) {
	l.opts.Data = points
}

func (l *Highlight) confirm(res Result) error {
	path := res.Path(l.Roles().Dominant)
	fit, err := geometry.FitCircle(path)
	if err != nil {
		return fmt.Errorf("highlight: %w", err)
	}

	ev := HighlightEvent{Circle: fit.Circle(), Residual: fit.Residual}
	if r := l.opts.Recognizer; r != nil {
		if m, ok := r.Recognize(path); ok {
			ev.Match = m.Name
		}
	}
	for i, p := range l.opts.Data {
		if ev.Circle.Contains(p) {
			ev.Points = append(ev.Points, p)
			ev.Indices = append(ev.Indices, i)
		}
	}

	l.opts.Surface.WithStyle(highlightStyle, func(s draw.Surface) { s.DrawCircle(ev.Circle, true) })
	Subject[HighlightEvent](l.Core, HighlightSubject).Publish(ev)
	return nil
}

// Stroke draws a freehand polyline following the dominant index finger and
// classifies it on release.
type Stroke struct {
	*Core

	last *geometry.Point
	// bounds covers every segment drawn since the stroke began; valid
	// while drawn is set.
	bounds geometry.Rect
	drawn  bool
}

// NewStroke creates a Stroke listener.
func NewStroke(opts Options) *Stroke {
	l := &Stroke{}
	l.Core = NewCore(opts, Capabilities{
		Mode:      ModeTrace,
		RolePairs: dominantPair(hand.Pointing, TagStroke),
		Landmarks: map[string][]hand.Landmark{TagStroke: {hand.IndexTip}},
		Begin:     func(Sample) { l.last = nil },
		Track:     l.track,
		Confirm:   l.confirm,
		Cancelled: func(string) { l.erase() },
		Reset:     l.erase,
	})
	return l
}

func (l *Stroke) track(s Sample) error {
	p := s.Point(l.Roles().Dominant, 0)
	if l.last != nil {
		prev := *l.last
		l.opts.Surface.WithStyle(strokeStyle, func(d draw.Surface) { d.DrawLine(prev, p) })
		seg := geometry.NewRect(prev, p)
		if l.drawn {
			seg = l.bounds.Union(seg)
		}
		l.bounds = seg
		l.drawn = true
	}
	l.last = &p
	return nil
}

func (l *Stroke) confirm(res Result) error {
	l.last = nil
	l.drawn = false

	ev := StrokeEvent{Points: res.Path(l.Roles().Dominant)}
	if r := l.opts.Recognizer; r != nil {
		if m, ok := r.Recognize(ev.Points); ok {
			ev.Match = &m
		}
	}
	Subject[StrokeEvent](l.Core, StrokeSubject).Publish(ev)
	return nil
}

// erase removes an unfinished stroke from the surface, clearing only the
// area its segments cover so other drawings in the region survive.
func (l *Stroke) erase() {
	l.last = nil
	if !l.drawn {
		return
	}
	l.drawn = false
	l.opts.Surface.ClearArea(l.bounds.Grow(strokeStyle.LineWidth))
}
