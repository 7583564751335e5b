// Package geometry provides the canvas-space primitives used by gesture
// classification: distances, containment, path normalization and circle fitting.
package geometry

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/fxamacker/cbor/v2"
)

// Point is a coordinate in canvas pixels. Z is optional depth and is ignored
// by every 2-D operation in this package.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// Defined reports whether both planar axes carry a value.
func (p Point) Defined() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y)
}

// pointWire is the decoded form of a Point. A missing or null planar axis is
// undefined rather than zero.
type pointWire struct {
	X *float64 `json:"x" cbor:"x"`
	Y *float64 `json:"y" cbor:"y"`
	Z *float64 `json:"z" cbor:"z"`
}

func (w pointWire) point() Point {
	p := Point{X: math.NaN(), Y: math.NaN()}
	if w.X != nil {
		p.X = *w.X
	}
	if w.Y != nil {
		p.Y = *w.Y
	}
	if w.Z != nil {
		p.Z = *w.Z
	}
	return p
}

// UnmarshalJSON decodes a point, leaving a missing or null x or y as NaN so
// Defined reports false.
func (p *Point) UnmarshalJSON(data []byte) error {
	var w pointWire
	if !bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		if err := json.Unmarshal(data, &w); err != nil {
			return err
		}
	}
	*p = w.point()
	return nil
}

// UnmarshalCBOR is UnmarshalJSON for CBOR frames.
func (p *Point) UnmarshalCBOR(data []byte) error {
	var w pointWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = w.point()
	return nil
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p multiplied by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Margin is the optional padding around a region.
type Margin struct {
	Left   float64 `json:"left" yaml:"left"`
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
}

// Dimensions is a width/height pair with optional margins.
type Dimensions struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Margin *Margin `json:"margin,omitempty" yaml:"margin,omitempty"`
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	Position   Point      `json:"position"`
	Dimensions Dimensions `json:"dimensions"`
}

// NewRect builds a rectangle from two opposite corners in any order.
func NewRect(a, b Point) Rect {
	return Rect{
		Position: Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Dimensions: Dimensions{
			Width:  math.Abs(a.X - b.X),
			Height: math.Abs(a.Y - b.Y),
		},
	}
}

// Max returns the bottom-right corner.
func (r Rect) Max() Point {
	return Point{X: r.Position.X + r.Dimensions.Width, Y: r.Position.Y + r.Dimensions.Height}
}

// Contains reports whether p lies inside r. Edges are inclusive.
func (r Rect) Contains(p Point) bool {
	max := r.Max()
	return p.X >= r.Position.X && p.X <= max.X &&
		p.Y >= r.Position.Y && p.Y <= max.Y
}

// ContainsAll reports whether every point lies inside r.
func (r Rect) ContainsAll(points ...Point) bool {
	for _, p := range points {
		if !r.Contains(p) {
			return false
		}
	}
	return true
}

// Union returns the smallest rectangle covering r and o.
func (r Rect) Union(o Rect) Rect {
	rmax, omax := r.Max(), o.Max()
	return NewRect(
		Point{X: math.Min(r.Position.X, o.Position.X), Y: math.Min(r.Position.Y, o.Position.Y)},
		Point{X: math.Max(rmax.X, omax.X), Y: math.Max(rmax.Y, omax.Y)},
	)
}

// Grow returns r extended by d on every side.
func (r Rect) Grow(d float64) Rect {
	return Rect{
		Position:   Point{X: r.Position.X - d, Y: r.Position.Y - d},
		Dimensions: Dimensions{Width: r.Dimensions.Width + 2*d, Height: r.Dimensions.Height + 2*d},
	}
}

// Circle is a circle by centre and radius.
type Circle struct {
	Center Point   `json:"position"`
	Radius float64 `json:"radius"`
}

// Contains reports whether p lies inside or on c.
func (c Circle) Contains(p Point) bool {
	return Distance(c.Center, p).Euclidean <= c.Radius
}

// Delta is the result of Distance.
type Delta struct {
	Euclidean float64
	DX        float64
	DY        float64
}

// Distance returns the planar distance from a to b together with its components.
func Distance(a, b Point) Delta {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return Delta{
		Euclidean: math.Sqrt(dx*dx + dy*dy),
		DX:        dx,
		DY:        dy,
	}
}

// DistancesBetween returns the Euclidean distance between a[i] and b[i] for
// every index present in both slices.
func DistancesBetween(a, b []Point) []float64 {
	n := min(len(a), len(b))
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = Distance(a[i], b[i]).Euclidean
	}
	return out
}

// MaxExceeded reports whether any value reaches limit. A value equal to the
// limit counts as exceeding it, so acceptance is strictly below the limit.
func MaxExceeded(values []float64, limit float64) bool {
	for _, v := range values {
		if v >= limit {
			return true
		}
	}
	return false
}
