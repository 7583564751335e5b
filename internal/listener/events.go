package listener

import (
	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hand"
)

// Subject keys published by the listeners in this package.
const (
	AreaSubject      = "foreshadowingArea"
	PlaybackSubject  = "playback"
	SelectionSubject = "selection"
	OpenHandSubject  = "openHand"
	HighlightSubject = "highlight"
	StrokeSubject    = "stroke"
)

// AreaType tags an AreaEvent.
type AreaType string

const (
	AreaRectangle AreaType = "RECTANGLE"
	AreaCircle    AreaType = "CIRCLE"
	AreaClear     AreaType = "CLEAR"
)

// Area is a confirmed foreshadowing area: a rectangle when Dimensions is
// set, a circle otherwise.
type Area struct {
	Position   geometry.Point       `json:"position"`
	Dimensions *geometry.Dimensions `json:"dimensions,omitempty"`
	Radius     float64              `json:"radius,omitempty"`
}

// RectArea returns the area for r.
func RectArea(r geometry.Rect) *Area {
	d := r.Dimensions
	return &Area{Position: r.Position, Dimensions: &d}
}

// CircleArea returns the area for c.
func CircleArea(c geometry.Circle) *Area {
	return &Area{Position: c.Center, Radius: c.Radius}
}

// AreaEvent is published on AreaSubject. Value is nil for AreaClear.
type AreaEvent struct {
	Type  AreaType `json:"type"`
	Value *Area    `json:"value,omitempty"`
}

// PlaybackKind tags a PlaybackEvent.
type PlaybackKind string

const (
	// PlaybackRange fixes the range the slider scrubs over.
	PlaybackRange PlaybackKind = "range"
	// PlaybackScrub reports a slider position.
	PlaybackScrub PlaybackKind = "scrub"
)

// PlaybackEvent is published on PlaybackSubject.
type PlaybackEvent struct {
	Kind  PlaybackKind   `json:"kind"`
	Start geometry.Point `json:"start"`
	End   geometry.Point `json:"end"`
	// Progress is the scrub position in [0, 1] from Start to End.
	Progress float64 `json:"progress,omitempty"`
}

// SelectionKind tags a SelectionEvent.
type SelectionKind string

const (
	SelectRect  SelectionKind = "rect"
	SelectRange SelectionKind = "range"
	SelectPoint SelectionKind = "point"
)

// Span is a closed interval on the x axis.
type Span struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// SelectionEvent is published on SelectionSubject by the pose listeners.
type SelectionEvent struct {
	Kind  SelectionKind   `json:"kind"`
	Rect  *geometry.Rect  `json:"rect,omitempty"`
	Range *Span           `json:"range,omitempty"`
	Point *geometry.Point `json:"point,omitempty"`
}

// OpenHandEvent is published on OpenHandSubject.
type OpenHandEvent struct {
	Side     hand.Side      `json:"side"`
	Position geometry.Point `json:"position"`
}

// HighlightEvent is published on HighlightSubject. Points are the data
// points inside the traced circle and Indices their positions in the data.
type HighlightEvent struct {
	Circle   geometry.Circle  `json:"circle"`
	Residual float64          `json:"residual"`
	Match    string           `json:"match,omitempty"`
	Points   []geometry.Point `json:"points"`
	Indices  []int            `json:"indices"`
}

// StrokeEvent is published on StrokeSubject.
type StrokeEvent struct {
	Points []geometry.Point     `json:"points"`
	Match  *gesture.Recognition `json:"match,omitempty"`
}
