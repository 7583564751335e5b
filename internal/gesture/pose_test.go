package gesture

import (
	"testing"

	"github.com/ayusman/mudra/internal/hand"
)

func TestClassifyRules(t *testing.T) {
	tests := []struct {
		name      string
		landmarks hand.Landmarks
		want      hand.Label
	}{
		{"open palm", hand.OpenPalmLandmarks(), hand.OpenHand},
		{"thumbs up", hand.ThumbsUpLandmarks(), hand.ThumbsUp},
		{"pointing", hand.PointingLandmarks(), hand.Pointing},
		{"fist", hand.FistLandmarks(), hand.Fist},
		{"pinch", hand.PinchLandmarks(), hand.Pinch},
		{"right L", hand.LShapeLandmarks(), hand.ForeshadowingRightL},
		{"right C", hand.CShapeLandmarks(), hand.ForeshadowingRightC},
		{"left L", hand.Mirror(hand.LShapeLandmarks()), hand.ForeshadowingLeftL},
		{"left C", hand.Mirror(hand.CShapeLandmarks()), hand.ForeshadowingLeftC},
		{"left pointing", hand.Mirror(hand.PointingLandmarks()), hand.Pointing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tt.landmarks
			if got := ClassifyRules(&l); got != tt.want {
				t.Errorf("ClassifyRules() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassifyRules_Degenerate(t *testing.T) {
	var l hand.Landmarks
	if got := ClassifyRules(&l); got != hand.None {
		t.Errorf("expected none for collapsed hand, got %s", got)
	}
}

func TestPoseClassifier_TemplateWins(t *testing.T) {
	matcher := NewStaticMatcher()
	fist := hand.FistLandmarks()
	matcher.AddTemplate(&Template{
		ID:        "grab",
		Name:      "Grab",
		Type:      TypeStatic,
		Label:     hand.Pinch,
		Landmarks: fist.Normalize().Points[:],
		Tolerance: 0.5,
	})
	c := NewPoseClassifier(matcher)

	if got := c.Classify(&fist); got != hand.Pinch {
		t.Errorf("expected template label %s, got %s", hand.Pinch, got)
	}

	open := hand.OpenPalmLandmarks()
	if got := c.Classify(&open); got != hand.OpenHand {
		t.Errorf("expected rule fallback %s, got %s", hand.OpenHand, got)
	}
}

func TestPoseClassifier_NilSafe(t *testing.T) {
	var c *PoseClassifier
	l := hand.PointingLandmarks()

	if got := c.Classify(&l); got != hand.Pointing {
		t.Errorf("expected %s, got %s", hand.Pointing, got)
	}
	if got := c.Classify(nil); got != hand.None {
		t.Errorf("expected none for nil landmarks, got %s", got)
	}
}
