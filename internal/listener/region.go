package listener

import "github.com/ayusman/mudra/internal/geometry"

// Region is the canvas area a listener reacts to.
type Region struct {
	Position   geometry.Point      `json:"position" yaml:"position"`
	Dimensions geometry.Dimensions `json:"dimensions" yaml:"dimensions"`
}

// Rect returns the full region rectangle, margins included.
func (r Region) Rect() geometry.Rect {
	return geometry.Rect{Position: r.Position, Dimensions: geometry.Dimensions{
		Width:  r.Dimensions.Width,
		Height: r.Dimensions.Height,
	}}
}

// Bounds returns the interactive rectangle: the region inset by its margins.
func (r Region) Bounds() geometry.Rect {
	b := r.Rect()
	if m := r.Dimensions.Margin; m != nil {
		b.Position.X += m.Left
		b.Position.Y += m.Top
		b.Dimensions.Width -= m.Left + m.Right
		b.Dimensions.Height -= m.Top + m.Bottom
	}
	return b
}

// Contains reports whether every point lies within Bounds.
func (r Region) Contains(points ...geometry.Point) bool {
	return r.Bounds().ContainsAll(points...)
}
