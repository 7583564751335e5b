package listener

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ayusman/mudra/internal/draw"
	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/hand"
)

func TestForeshadowing_RectangleConfirmed(t *testing.T) {
	h := newHarness()
	f := NewForeshadowing(h.options("chart"))
	areas := record[AreaEvent](h.subjects, AreaSubject)

	h.send(rectFrame(rectTips()))
	if f.State() != Candidate {
		t.Fatalf("expected candidate, got %s", f.State())
	}
	if f.Shape() != ShapeRectangle {
		t.Fatalf("expected rectangle shape, got %q", f.Shape())
	}

	final := shift(rectTips(), 10)
	h.clock.Advance(400 * time.Millisecond)
	h.send(rectFrame(final))
	h.clock.Advance(600 * time.Millisecond)

	want := []AreaEvent{{
		Type: AreaRectangle,
		Value: &Area{
			Position:   geometry.Point{X: 110, Y: 100},
			Dimensions: &geometry.Dimensions{Width: 200, Height: 200},
		},
	}}
	if diff := cmp.Diff(want, *areas); diff != "" {
		t.Errorf("area events mismatch (-want +got):\n%s", diff)
	}
	if f.State() != Idle {
		t.Errorf("expected idle after confirmation, got %s", f.State())
	}

	var filled []draw.Op
	for _, op := range h.surface.Ops() {
		if op.Kind == draw.OpRect && op.Fill {
			filled = append(filled, op)
		}
	}
	if len(filled) != 1 || filled[0].Style.Opacity != 0.2 {
		t.Errorf("expected one translucent filled rect, got %+v", filled)
	}
}

func TestForeshadowing_HandLostCancels(t *testing.T) {
	h := newHarness()
	f := NewForeshadowing(h.options("chart"))
	areas := record[AreaEvent](h.subjects, AreaSubject)

	h.send(rectFrame(rectTips()))
	h.clock.Advance(600 * time.Millisecond)

	onlyLeft := rectFrame(rectTips())
	delete(onlyLeft.Hands, hand.Right)
	h.send(onlyLeft)

	if f.State() != Idle {
		t.Errorf("expected idle after the right hand left, got %s", f.State())
	}
	h.clock.Advance(time.Second)
	if len(*areas) != 0 {
		t.Errorf("expected no area events, got %+v", *areas)
	}
	if n := h.clock.Pending(); n != 0 {
		t.Errorf("expected the timer to be cancelled, %d pending", n)
	}
}

func TestForeshadowing_RangeCreatesSlider(t *testing.T) {
	h := newHarness()
	f := NewForeshadowing(h.options("chart"))
	playback := record[PlaybackEvent](h.subjects, PlaybackSubject)

	left, right := geometry.Point{X: 100, Y: 220}, geometry.Point{X: 400, Y: 200}
	h.send(twoTips(hand.OpenHand, geometry.Point{X: 102, Y: 225}, geometry.Point{X: 398, Y: 204}))
	h.clock.Advance(500 * time.Millisecond)
	h.send(twoTips(hand.OpenHand, left, right))
	h.clock.Advance(500 * time.Millisecond)

	want := []PlaybackEvent{{Kind: PlaybackRange, Start: left, End: right}}
	if diff := cmp.Diff(want, *playback); diff != "" {
		t.Fatalf("playback events mismatch (-want +got):\n%s", diff)
	}

	slider := f.Slider()
	if slider == nil {
		t.Fatal("expected a slider after a range confirmation")
	}
	wantRegion := Region{
		Position:   geometry.Point{X: 0, Y: 200},
		Dimensions: geometry.Dimensions{Width: 640, Height: 50},
	}
	if diff := cmp.Diff(wantRegion, slider.Region()); diff != "" {
		t.Errorf("slider region mismatch (-want +got):\n%s", diff)
	}

	var thick int
	for _, op := range h.surface.Ops() {
		if op.Kind == draw.OpLine && op.Style.LineWidth == rangeLineWidth {
			thick++
		}
	}
	if thick != 1 {
		t.Errorf("expected one range line, got %d", thick)
	}
}

func TestForeshadowing_SecondRangeRebindsSlider(t *testing.T) {
	h := newHarness()
	f := NewForeshadowing(h.options("chart"))

	hold := func(left, right geometry.Point) {
		h.send(twoTips(hand.OpenHand, left, right))
		h.send(twoTips(hand.OpenHand, left, right))
		h.clock.Advance(time.Second)
	}
	hold(geometry.Point{X: 100, Y: 220}, geometry.Point{X: 400, Y: 200})
	first := f.Slider()

	hold(geometry.Point{X: 50, Y: 300}, geometry.Point{X: 500, Y: 320})

	if f.Slider() != first {
		t.Fatal("expected the slider to be reused")
	}
	if y := first.Region().Position.Y; y != 300 {
		t.Errorf("expected slider at y=300, got %f", y)
	}
	start, end := first.EmitRange()
	if start.X != 50 || end.X != 500 {
		t.Errorf("unexpected emit range %v..%v", start, end)
	}
	// The foreshadowing listener and one slider.
	if n := h.frames.Subscribers(); n != 2 {
		t.Errorf("expected 2 frame subscribers, got %d", n)
	}
}

func TestForeshadowing_CircleConfirmed(t *testing.T) {
	h := newHarness()
	f := NewForeshadowing(h.options("chart"))
	areas := record[AreaEvent](h.subjects, AreaSubject)

	frame := shapeFrame(hand.ForeshadowingLeftC, hand.ForeshadowingRightC, circleTips())
	h.send(frame)
	if f.Shape() != ShapeCircle {
		t.Fatalf("expected circle shape, got %q", f.Shape())
	}
	h.send(frame)
	h.clock.Advance(time.Second)

	want := []AreaEvent{{
		Type:  AreaCircle,
		Value: &Area{Position: geometry.Point{X: 322, Y: 200}, Radius: 50},
	}}
	if diff := cmp.Diff(want, *areas); diff != "" {
		t.Errorf("area events mismatch (-want +got):\n%s", diff)
	}
}

func TestForeshadowing_ShapeFixedAtStart(t *testing.T) {
	h := newHarness()
	f := NewForeshadowing(h.options("chart"))
	areas := record[AreaEvent](h.subjects, AreaSubject)

	h.send(rectFrame(rectTips()))

	// Same fingertips under C labels still resolve as the rectangle the
	// attempt opened with.
	h.send(shapeFrame(hand.ForeshadowingLeftC, hand.ForeshadowingRightC, rectTips()))
	if f.Shape() != ShapeRectangle {
		t.Errorf("expected shape to stay rectangle, got %q", f.Shape())
	}
	h.clock.Advance(time.Second)

	if len(*areas) != 1 || (*areas)[0].Type != AreaRectangle {
		t.Errorf("expected one rectangle, got %+v", *areas)
	}
}

func TestForeshadowing_LooseFingersIgnored(t *testing.T) {
	h := newHarness()
	f := NewForeshadowing(h.options("chart"))

	tips := rectTips()
	tips.LeftThumb = geometry.Point{X: 360, Y: 105}
	h.send(rectFrame(tips))

	if f.State() != Idle {
		t.Errorf("expected fingers 55 px apart not to open a candidate, got %s", f.State())
	}
}

func TestForeshadowing_OutOfRegionIgnored(t *testing.T) {
	h := newHarness()
	opts := h.options("chart")
	opts.Region = Region{
		Position:   geometry.Point{X: 200, Y: 0},
		Dimensions: geometry.Dimensions{Width: 300, Height: 480},
	}
	f := NewForeshadowing(opts)

	h.send(rectFrame(rectTips()))
	if f.State() != Idle {
		t.Errorf("expected out-of-region fingertips to be ignored, got %s", f.State())
	}
}

func TestForeshadowing_ResetIsIdempotent(t *testing.T) {
	h := newHarness()
	f := NewForeshadowing(h.options("chart"))
	areas := record[AreaEvent](h.subjects, AreaSubject)

	h.send(rectFrame(rectTips()))
	h.send(rectFrame(rectTips()))
	h.clock.Advance(time.Second)

	f.ResetHandler()
	f.ResetHandler()

	var clears int
	for _, ev := range *areas {
		if ev.Type == AreaClear {
			clears++
			if ev.Value != nil {
				t.Errorf("expected CLEAR without value, got %+v", ev.Value)
			}
		}
	}
	if clears != 1 {
		t.Errorf("expected exactly one CLEAR, got %d", clears)
	}
	if f.State() != Idle {
		t.Errorf("expected idle, got %s", f.State())
	}
}

func TestForeshadowing_CancelClearsConfirmedArea(t *testing.T) {
	h := newHarness()
	f := NewForeshadowing(h.options("chart"))
	areas := record[AreaEvent](h.subjects, AreaSubject)

	h.send(rectFrame(rectTips()))
	h.send(rectFrame(rectTips()))
	h.clock.Advance(time.Second)

	// A new attempt that drifts away withdraws the previous area.
	h.send(rectFrame(rectTips()))
	h.send(rectFrame(shift(rectTips(), 40)))
	h.clock.Advance(time.Second)

	if f.State() != Idle {
		t.Fatalf("expected idle, got %s", f.State())
	}
	types := make([]AreaType, 0, len(*areas))
	for _, ev := range *areas {
		types = append(types, ev.Type)
	}
	if diff := cmp.Diff([]AreaType{AreaRectangle, AreaClear}, types); diff != "" {
		t.Errorf("area sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestForeshadowing_DisposeUnsubscribes(t *testing.T) {
	h := newHarness()
	f := NewForeshadowing(h.options("chart"))

	open := twoTips(hand.OpenHand, geometry.Point{X: 100, Y: 220}, geometry.Point{X: 400, Y: 200})
	h.send(open)
	h.send(open)
	h.clock.Advance(time.Second)
	if n := h.frames.Subscribers(); n != 2 {
		t.Fatalf("expected listener and slider subscribed, got %d", n)
	}

	f.Dispose()
	f.Dispose()
	if n := h.frames.Subscribers(); n != 0 {
		t.Errorf("expected no subscribers after Dispose, got %d", n)
	}
}
