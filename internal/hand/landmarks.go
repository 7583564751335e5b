// Package hand defines tracked hands, their landmarks and the per-frame data
// pushed into gesture listeners.
package hand

import (
	"fmt"
	"math"

	"github.com/ayusman/mudra/internal/geometry"
)

// Landmark identifies one of the 21 hand landmarks, following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
type Landmark int

const (
	Wrist Landmark = iota
	ThumbCMC
	ThumbMCP
	ThumbIP
	ThumbTip
	IndexMCP
	IndexPIP
	IndexDIP
	IndexTip
	MiddleMCP
	MiddlePIP
	MiddleDIP
	MiddleTip
	RingMCP
	RingPIP
	RingDIP
	RingTip
	PinkyMCP
	PinkyPIP
	PinkyDIP
	PinkyTip
	NumLandmarks = 21
)

var landmarkNames = [NumLandmarks]string{
	"wrist",
	"thumb_cmc", "thumb_mcp", "thumb_ip", "thumb_tip",
	"index_finger_mcp", "index_finger_pip", "index_finger_dip", "index_finger_tip",
	"middle_finger_mcp", "middle_finger_pip", "middle_finger_dip", "middle_finger_tip",
	"ring_finger_mcp", "ring_finger_pip", "ring_finger_dip", "ring_finger_tip",
	"pinky_mcp", "pinky_pip", "pinky_dip", "pinky_tip",
}

// String returns the MediaPipe landmark name.
func (l Landmark) String() string {
	if l < 0 || int(l) >= NumLandmarks {
		return fmt.Sprintf("landmark(%d)", int(l))
	}
	return landmarkNames[l]
}

// Valid reports whether l is one of the 21 known landmarks.
func (l Landmark) Valid() bool {
	return l >= 0 && int(l) < NumLandmarks
}

// Landmarks holds all 21 landmarks of one detected hand.
type Landmarks struct {
	Points     [NumLandmarks]geometry.Point `json:"points"`
	Handedness Side                         `json:"handedness"`
	Score      float64                      `json:"score"`
}

// distance3D calculates the Euclidean distance between two 3D points.
func distance3D(a, b geometry.Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Normalize normalizes the hand landmarks relative to wrist position and hand size.
// The normalized landmarks have the wrist at origin (0,0,0) and are scaled
// so that the distance from wrist to middle finger MCP is 1.0.
// Returns a new Landmarks instance with normalized points.
func (h *Landmarks) Normalize() *Landmarks {
	if h == nil {
		return nil
	}

	normalized := &Landmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
	}

	wrist := h.Points[Wrist]
	for i := 0; i < NumLandmarks; i++ {
		normalized.Points[i] = geometry.Point{
			X: h.Points[i].X - wrist.X,
			Y: h.Points[i].Y - wrist.Y,
			Z: h.Points[i].Z - wrist.Z,
		}
	}

	scale := distance3D(geometry.Point{}, normalized.Points[MiddleMCP])

	// Avoid division by zero
	if scale < 1e-10 {
		return normalized
	}

	for i := 0; i < NumLandmarks; i++ {
		normalized.Points[i].X /= scale
		normalized.Points[i].Y /= scale
		normalized.Points[i].Z /= scale
	}

	return normalized
}
