package gesture

import (
	"testing"

	"github.com/ayusman/mudra/internal/hand"
)

func frameWith(left, right hand.Label) hand.Frame {
	f := hand.Frame{Hands: map[hand.Side]*hand.Data{}}
	if left != "" {
		f.Hands[hand.Left] = &hand.Data{Gesture: left}
	}
	if right != "" {
		f.Hands[hand.Right] = &hand.Data{Gesture: right}
	}
	return f
}

func TestMatchPair(t *testing.T) {
	pairs := []Pair{
		{Left: hand.ForeshadowingLeftL, Right: hand.ForeshadowingRightL, Tag: "shape"},
		{Left: hand.ForeshadowingLeftC, Right: hand.ForeshadowingRightC, Tag: "shape"},
		{Left: hand.OpenHand, Right: hand.OpenHand, Tag: "range"},
		{Left: hand.Any, Right: hand.OpenHand, Tag: "fallback"},
	}

	tests := []struct {
		name    string
		frame   hand.Frame
		wantTag string
		wantOK  bool
	}{
		{"L shapes", frameWith(hand.ForeshadowingLeftL, hand.ForeshadowingRightL), "shape", true},
		{"C shapes", frameWith(hand.ForeshadowingLeftC, hand.ForeshadowingRightC), "shape", true},
		{"open hands prefer range", frameWith(hand.OpenHand, hand.OpenHand), "range", true},
		{"wildcard allows absent hand", frameWith("", hand.OpenHand), "fallback", true},
		{"mixed shapes", frameWith(hand.ForeshadowingLeftL, hand.ForeshadowingRightC), "", false},
		{"no hands", hand.Frame{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchPair(pairs, tt.frame)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if got.Tag != tt.wantTag {
				t.Errorf("expected tag %q, got %q", tt.wantTag, got.Tag)
			}
		})
	}
}

func TestPair_Present(t *testing.T) {
	p := Pair{Left: hand.Any, Right: hand.Pointing}

	if p.Requires(hand.Left) {
		t.Error("wildcard side should not be required")
	}
	if !p.Present(frameWith("", hand.Fist)) {
		t.Error("expected pair to be present with only the right hand")
	}
	if p.Present(frameWith(hand.Pointing, "")) {
		t.Error("expected pair to be absent without the right hand")
	}
}
