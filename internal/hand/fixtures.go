package hand

import "github.com/ayusman/mudra/internal/geometry"

// Preset poses in normalized image coordinates (0-1, y grows downward).
// They feed pose classifier tests.

// ThumbsUpLandmarks returns a preset Landmarks representing a thumbs up gesture.
// The thumb is extended upward while other fingers are curled.
func ThumbsUpLandmarks() Landmarks {
	landmarks := Landmarks{
		Handedness: Right,
		Score:      0.95,
	}

	// Wrist at origin
	landmarks.Points[Wrist] = geometry.Point{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended upward (pointing up, Y decreases going up)
	landmarks.Points[ThumbCMC] = geometry.Point{X: 0.55, Y: 0.75, Z: 0.0}
	landmarks.Points[ThumbMCP] = geometry.Point{X: 0.58, Y: 0.65, Z: 0.0}
	landmarks.Points[ThumbIP] = geometry.Point{X: 0.58, Y: 0.50, Z: 0.0}
	landmarks.Points[ThumbTip] = geometry.Point{X: 0.58, Y: 0.35, Z: 0.0}

	// Index finger curled (knuckles close together, tip near palm)
	landmarks.Points[IndexMCP] = geometry.Point{X: 0.55, Y: 0.70, Z: -0.02}
	landmarks.Points[IndexPIP] = geometry.Point{X: 0.55, Y: 0.68, Z: -0.05}
	landmarks.Points[IndexDIP] = geometry.Point{X: 0.52, Y: 0.70, Z: -0.04}
	landmarks.Points[IndexTip] = geometry.Point{X: 0.50, Y: 0.72, Z: -0.02}

	// Middle finger curled
	landmarks.Points[MiddleMCP] = geometry.Point{X: 0.50, Y: 0.68, Z: -0.02}
	landmarks.Points[MiddlePIP] = geometry.Point{X: 0.50, Y: 0.66, Z: -0.05}
	landmarks.Points[MiddleDIP] = geometry.Point{X: 0.47, Y: 0.68, Z: -0.04}
	landmarks.Points[MiddleTip] = geometry.Point{X: 0.45, Y: 0.70, Z: -0.02}

	// Ring finger curled
	landmarks.Points[RingMCP] = geometry.Point{X: 0.45, Y: 0.70, Z: -0.02}
	landmarks.Points[RingPIP] = geometry.Point{X: 0.45, Y: 0.68, Z: -0.05}
	landmarks.Points[RingDIP] = geometry.Point{X: 0.42, Y: 0.70, Z: -0.04}
	landmarks.Points[RingTip] = geometry.Point{X: 0.40, Y: 0.72, Z: -0.02}

	// Pinky finger curled
	landmarks.Points[PinkyMCP] = geometry.Point{X: 0.40, Y: 0.72, Z: -0.02}
	landmarks.Points[PinkyPIP] = geometry.Point{X: 0.40, Y: 0.70, Z: -0.05}
	landmarks.Points[PinkyDIP] = geometry.Point{X: 0.37, Y: 0.72, Z: -0.04}
	landmarks.Points[PinkyTip] = geometry.Point{X: 0.35, Y: 0.74, Z: -0.02}

	return landmarks
}

// OpenPalmLandmarks returns a preset Landmarks representing an open palm gesture.
// All fingers are extended outward.
func OpenPalmLandmarks() Landmarks {
	landmarks := Landmarks{
		Handedness: Right,
		Score:      0.95,
	}

	// Wrist at base
	landmarks.Points[Wrist] = geometry.Point{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	landmarks.Points[ThumbCMC] = geometry.Point{X: 0.55, Y: 0.75, Z: 0.02}
	landmarks.Points[ThumbMCP] = geometry.Point{X: 0.62, Y: 0.70, Z: 0.03}
	landmarks.Points[ThumbIP] = geometry.Point{X: 0.68, Y: 0.65, Z: 0.03}
	landmarks.Points[ThumbTip] = geometry.Point{X: 0.73, Y: 0.60, Z: 0.03}

	// Index finger extended upward
	landmarks.Points[IndexMCP] = geometry.Point{X: 0.55, Y: 0.68, Z: 0.0}
	landmarks.Points[IndexPIP] = geometry.Point{X: 0.57, Y: 0.55, Z: 0.0}
	landmarks.Points[IndexDIP] = geometry.Point{X: 0.58, Y: 0.45, Z: 0.0}
	landmarks.Points[IndexTip] = geometry.Point{X: 0.58, Y: 0.35, Z: 0.0}

	// Middle finger extended upward (slightly longer)
	landmarks.Points[MiddleMCP] = geometry.Point{X: 0.50, Y: 0.66, Z: 0.0}
	landmarks.Points[MiddlePIP] = geometry.Point{X: 0.50, Y: 0.52, Z: 0.0}
	landmarks.Points[MiddleDIP] = geometry.Point{X: 0.50, Y: 0.40, Z: 0.0}
	landmarks.Points[MiddleTip] = geometry.Point{X: 0.50, Y: 0.28, Z: 0.0}

	// Ring finger extended upward
	landmarks.Points[RingMCP] = geometry.Point{X: 0.45, Y: 0.68, Z: 0.0}
	landmarks.Points[RingPIP] = geometry.Point{X: 0.43, Y: 0.55, Z: 0.0}
	landmarks.Points[RingDIP] = geometry.Point{X: 0.42, Y: 0.45, Z: 0.0}
	landmarks.Points[RingTip] = geometry.Point{X: 0.42, Y: 0.35, Z: 0.0}

	// Pinky finger extended upward
	landmarks.Points[PinkyMCP] = geometry.Point{X: 0.40, Y: 0.70, Z: 0.0}
	landmarks.Points[PinkyPIP] = geometry.Point{X: 0.37, Y: 0.60, Z: 0.0}
	landmarks.Points[PinkyDIP] = geometry.Point{X: 0.35, Y: 0.50, Z: 0.0}
	landmarks.Points[PinkyTip] = geometry.Point{X: 0.34, Y: 0.42, Z: 0.0}

	return landmarks
}

// curlFingers folds middle, ring and pinky into the palm.
func curlFingers(l *Landmarks) {
	l.Points[MiddleMCP] = geometry.Point{X: 0.50, Y: 0.68, Z: -0.02}
	l.Points[MiddlePIP] = geometry.Point{X: 0.50, Y: 0.66, Z: -0.05}
	l.Points[MiddleDIP] = geometry.Point{X: 0.47, Y: 0.68, Z: -0.04}
	l.Points[MiddleTip] = geometry.Point{X: 0.45, Y: 0.70, Z: -0.02}

	l.Points[RingMCP] = geometry.Point{X: 0.45, Y: 0.70, Z: -0.02}
	l.Points[RingPIP] = geometry.Point{X: 0.45, Y: 0.68, Z: -0.05}
	l.Points[RingDIP] = geometry.Point{X: 0.42, Y: 0.70, Z: -0.04}
	l.Points[RingTip] = geometry.Point{X: 0.40, Y: 0.72, Z: -0.02}

	l.Points[PinkyMCP] = geometry.Point{X: 0.40, Y: 0.72, Z: -0.02}
	l.Points[PinkyPIP] = geometry.Point{X: 0.40, Y: 0.70, Z: -0.05}
	l.Points[PinkyDIP] = geometry.Point{X: 0.37, Y: 0.72, Z: -0.04}
	l.Points[PinkyTip] = geometry.Point{X: 0.35, Y: 0.74, Z: -0.02}
}

func tuckThumb(l *Landmarks) {
	l.Points[ThumbCMC] = geometry.Point{X: 0.54, Y: 0.76}
	l.Points[ThumbMCP] = geometry.Point{X: 0.57, Y: 0.71}
	l.Points[ThumbIP] = geometry.Point{X: 0.55, Y: 0.67}
	l.Points[ThumbTip] = geometry.Point{X: 0.52, Y: 0.66}
}

func extendIndex(l *Landmarks) {
	l.Points[IndexMCP] = geometry.Point{X: 0.55, Y: 0.68}
	l.Points[IndexPIP] = geometry.Point{X: 0.57, Y: 0.55}
	l.Points[IndexDIP] = geometry.Point{X: 0.58, Y: 0.45}
	l.Points[IndexTip] = geometry.Point{X: 0.58, Y: 0.35}
}

func curlIndex(l *Landmarks) {
	l.Points[IndexMCP] = geometry.Point{X: 0.55, Y: 0.70, Z: -0.02}
	l.Points[IndexPIP] = geometry.Point{X: 0.55, Y: 0.68, Z: -0.05}
	l.Points[IndexDIP] = geometry.Point{X: 0.52, Y: 0.70, Z: -0.04}
	l.Points[IndexTip] = geometry.Point{X: 0.50, Y: 0.72, Z: -0.02}
}

func newRightHand() Landmarks {
	l := Landmarks{Handedness: Right, Score: 0.95}
	l.Points[Wrist] = geometry.Point{X: 0.5, Y: 0.8}
	return l
}

// PointingLandmarks returns a right hand with only the index finger extended.
func PointingLandmarks() Landmarks {
	l := newRightHand()
	tuckThumb(&l)
	extendIndex(&l)
	curlFingers(&l)
	return l
}

// FistLandmarks returns a right hand with every finger curled.
func FistLandmarks() Landmarks {
	l := newRightHand()
	tuckThumb(&l)
	curlIndex(&l)
	curlFingers(&l)
	return l
}

// LShapeLandmarks returns a right hand with a straight index finger and the
// thumb extended at roughly a right angle.
func LShapeLandmarks() Landmarks {
	l := newRightHand()
	l.Points[ThumbCMC] = geometry.Point{X: 0.55, Y: 0.76}
	l.Points[ThumbMCP] = geometry.Point{X: 0.60, Y: 0.74}
	l.Points[ThumbIP] = geometry.Point{X: 0.66, Y: 0.73}
	l.Points[ThumbTip] = geometry.Point{X: 0.72, Y: 0.72}
	extendIndex(&l)
	curlFingers(&l)
	return l
}

// CShapeLandmarks returns a right hand with a bent index finger opposing an
// extended thumb.
func CShapeLandmarks() Landmarks {
	l := newRightHand()
	l.Points[ThumbCMC] = geometry.Point{X: 0.55, Y: 0.76}
	l.Points[ThumbMCP] = geometry.Point{X: 0.60, Y: 0.76}
	l.Points[ThumbIP] = geometry.Point{X: 0.65, Y: 0.76}
	l.Points[ThumbTip] = geometry.Point{X: 0.69, Y: 0.73}
	l.Points[IndexMCP] = geometry.Point{X: 0.55, Y: 0.68}
	l.Points[IndexPIP] = geometry.Point{X: 0.60, Y: 0.58}
	l.Points[IndexDIP] = geometry.Point{X: 0.65, Y: 0.55}
	l.Points[IndexTip] = geometry.Point{X: 0.69, Y: 0.56}
	curlFingers(&l)
	return l
}

// PinchLandmarks returns a right hand with thumb and index tips touching.
func PinchLandmarks() Landmarks {
	l := newRightHand()
	l.Points[ThumbCMC] = geometry.Point{X: 0.55, Y: 0.76}
	l.Points[ThumbMCP] = geometry.Point{X: 0.60, Y: 0.72}
	l.Points[ThumbIP] = geometry.Point{X: 0.63, Y: 0.66}
	l.Points[ThumbTip] = geometry.Point{X: 0.64, Y: 0.60}
	l.Points[IndexMCP] = geometry.Point{X: 0.55, Y: 0.68}
	l.Points[IndexPIP] = geometry.Point{X: 0.60, Y: 0.58}
	l.Points[IndexDIP] = geometry.Point{X: 0.63, Y: 0.57}
	l.Points[IndexTip] = geometry.Point{X: 0.645, Y: 0.595}
	curlFingers(&l)
	return l
}

// Mirror flips a hand horizontally in normalized coordinates and swaps its
// handedness, turning a right-hand preset into a left-hand one.
func Mirror(l Landmarks) Landmarks {
	out := l
	for i := range out.Points {
		out.Points[i].X = 1 - out.Points[i].X
	}
	out.Handedness = l.Handedness.Opposite()
	return out
}
