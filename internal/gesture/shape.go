package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/geometry"
)

// DefaultPinchThreshold is the fingertip gap, in pixels, under which two
// fingertips count as touching.
const DefaultPinchThreshold = 20.0

// Fingertips are the four points a two-hand shape gesture is read from.
type Fingertips struct {
	LeftIndex  geometry.Point `json:"leftIndex"`
	LeftThumb  geometry.Point `json:"leftThumb"`
	RightIndex geometry.Point `json:"rightIndex"`
	RightThumb geometry.Point `json:"rightThumb"`
}

// Points returns the fingertips in a fixed order, for drift comparison.
func (f Fingertips) Points() []geometry.Point {
	return []geometry.Point{f.LeftIndex, f.LeftThumb, f.RightIndex, f.RightThumb}
}

// IsCircleShape reports whether both parallel pairs touch: left index on
// right index and left thumb on right thumb.
func IsCircleShape(f Fingertips, threshold float64) bool {
	return geometry.Distance(f.LeftIndex, f.RightIndex).Euclidean < threshold &&
		geometry.Distance(f.LeftThumb, f.RightThumb).Euclidean < threshold
}

// IsRectShape reports whether both crossed pairs touch: left thumb on right
// index and right thumb on left index.
func IsRectShape(f Fingertips, threshold float64) bool {
	return geometry.Distance(f.LeftThumb, f.RightIndex).Euclidean < threshold &&
		geometry.Distance(f.RightThumb, f.LeftIndex).Euclidean < threshold
}

// RectFromFingertips returns the rectangle framed by the right hand, with the
// index tip on one corner and the thumb tip on the opposite one.
func RectFromFingertips(f Fingertips) geometry.Rect {
	return geometry.NewRect(
		geometry.Point{X: f.RightIndex.X, Y: f.RightThumb.Y},
		geometry.Point{X: f.RightThumb.X, Y: f.RightIndex.Y},
	)
}

// CircleFromFingertips returns the circle whose vertical diameter runs from
// the right index tip to the right thumb tip.
func CircleFromFingertips(f Fingertips) geometry.Circle {
	r := (f.RightThumb.Y - f.RightIndex.Y) / 2
	return geometry.Circle{
		Center: geometry.Point{X: f.RightIndex.X, Y: f.RightIndex.Y + r},
		Radius: math.Abs(r),
	}
}
