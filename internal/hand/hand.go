package hand

import "fmt"

// Side names a physical hand as reported by the upstream tracker.
type Side string

const (
	Left  Side = "Left"
	Right Side = "Right"
)

// Sides lists both hands in a stable order.
var Sides = [2]Side{Left, Right}

// Opposite returns the other hand.
func (s Side) Opposite() Side {
	if s == Left {
		return Right
	}
	return Left
}

// ParseSide accepts "Left"/"Right" in any letter case.
func ParseSide(s string) (Side, error) {
	switch s {
	case "Left", "left", "LEFT":
		return Left, nil
	case "Right", "right", "RIGHT":
		return Right, nil
	}
	return "", fmt.Errorf("hand must be 'Left' or 'Right', got %q", s)
}

// Roles assigns which physical hand is dominant for a listener. It is a
// role label only.
type Roles struct {
	Dominant    Side `json:"dominant" yaml:"dominant"`
	NonDominant Side `json:"nonDominant" yaml:"non_dominant"`
}

// DefaultRoles is right-hand dominant.
func DefaultRoles() Roles {
	return Roles{Dominant: Right, NonDominant: Left}
}

// Label is a discrete static pose classification of one hand.
type Label string

const (
	// None means the upstream tracker recognized no pose.
	None Label = "none"
	// Any matches every label, including an absent hand.
	Any Label = "any"

	OpenHand Label = "open_hand"
	Pointing Label = "pointing"
	Pinch    Label = "pinch"
	Fist     Label = "fist"
	ThumbsUp Label = "thumbs_up"

	ForeshadowingLeftL  Label = "foreshadowing_left_l"
	ForeshadowingRightL Label = "foreshadowing_right_l"
	ForeshadowingLeftC  Label = "foreshadowing_left_c"
	ForeshadowingRightC Label = "foreshadowing_right_c"
)
