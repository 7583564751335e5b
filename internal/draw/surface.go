// Package draw is the drawing boundary of the engine. Listeners issue
// drawing intents against a Surface and never own pixels themselves.
package draw

import (
	"image/color"

	"github.com/ayusman/mudra/internal/geometry"
)

// Style controls how shapes are stroked and filled. Zero fields inherit the
// enclosing style when passed to WithStyle.
type Style struct {
	Stroke    color.Color
	Fill      color.Color
	Opacity   float64
	LineWidth float64
}

// DefaultStyle is a one pixel opaque black pen.
func DefaultStyle() Style {
	return Style{
		Stroke:    color.Black,
		Fill:      color.Black,
		Opacity:   1,
		LineWidth: 1,
	}
}

// Merge returns base overridden by the non-zero fields of s.
func (s Style) Merge(base Style) Style {
	out := base
	if s.Stroke != nil {
		out.Stroke = s.Stroke
	}
	if s.Fill != nil {
		out.Fill = s.Fill
	}
	if s.Opacity > 0 {
		out.Opacity = s.Opacity
	}
	if s.LineWidth > 0 {
		out.LineWidth = s.LineWidth
	}
	return out
}

// Surface receives drawing intents in canvas pixels.
type Surface interface {
	DrawRect(r geometry.Rect, fill bool)
	DrawCircle(c geometry.Circle, fill bool)
	// DrawLine strokes a polyline through points.
	DrawLine(points ...geometry.Point)
	ClearArea(r geometry.Rect)
	// WithStyle applies style for the duration of fn and restores the
	// previous style afterwards.
	WithStyle(style Style, fn func(Surface))
}

// Discard is a Surface that drops every intent.
var Discard Surface = discard{}

type discard struct{}

func (discard) DrawRect(geometry.Rect, bool) {}
func (discard) DrawCircle(geometry.Circle, bool) {}
func (discard) DrawLine(...geometry.Point) {}
func (discard) ClearArea(geometry.Rect) {}
func (d discard) WithStyle(_ Style, fn func(Surface)) { fn(d) }
