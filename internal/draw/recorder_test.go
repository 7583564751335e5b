package draw

import (
	"image/color"
	"testing"

	"github.com/ayusman/mudra/internal/geometry"
	"github.com/google/go-cmp/cmp"
)

func TestRecorder_WithStyle(t *testing.T) {
	r := NewRecorder()
	red := color.RGBA{R: 255, A: 255}
	box := geometry.Rect{Dimensions: geometry.Dimensions{Width: 10, Height: 10}}

	r.WithStyle(Style{Fill: red, Opacity: 0.2}, func(s Surface) {
		s.DrawRect(box, true)
		s.WithStyle(Style{LineWidth: 15}, func(s Surface) {
			s.DrawLine(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0})
		})
	})
	r.ClearArea(box)

	want := []Op{
		{Kind: OpRect, Rect: box, Fill: true, Style: Style{Stroke: color.Black, Fill: red, Opacity: 0.2, LineWidth: 1}},
		{Kind: OpLine, Points: []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}, Style: Style{Stroke: color.Black, Fill: red, Opacity: 0.2, LineWidth: 15}},
		{Kind: OpClear, Rect: box, Style: DefaultStyle()},
	}
	if diff := cmp.Diff(want, r.Ops()); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestRecorder_Reset(t *testing.T) {
	r := NewRecorder()
	r.DrawCircle(geometry.Circle{Radius: 3}, false)
	r.Reset()

	if len(r.Ops()) != 0 {
		t.Errorf("expected no ops after reset, got %d", len(r.Ops()))
	}
}

func TestStyle_Merge(t *testing.T) {
	base := DefaultStyle()
	got := Style{LineWidth: 4}.Merge(base)

	if got.LineWidth != 4 || got.Opacity != 1 || got.Stroke != color.Black {
		t.Errorf("unexpected merge result %+v", got)
	}
}
