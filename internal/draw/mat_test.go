package draw

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/ayusman/mudra/internal/geometry"
)

func TestMatSurface_PNG(t *testing.T) {
	s := NewMatSurface(64, 48)
	defer s.Close()

	s.WithStyle(Style{Fill: color.RGBA{A: 255}, Opacity: 0.2}, func(d Surface) {
		d.DrawRect(geometry.Rect{
			Position:   geometry.Point{X: 4, Y: 4},
			Dimensions: geometry.Dimensions{Width: 20, Height: 10},
		}, true)
	})
	s.DrawCircle(geometry.Circle{Center: geometry.Point{X: 32, Y: 24}, Radius: 8}, false)
	s.DrawLine(geometry.Point{X: 0, Y: 47}, geometry.Point{X: 63, Y: 47})
	s.ClearArea(geometry.Rect{Position: geometry.Point{X: 50, Y: 40}, Dimensions: geometry.Dimensions{Width: 100, Height: 100}})

	png, err := s.PNG()
	if err != nil {
		t.Fatalf("PNG() error = %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("expected PNG signature, got % x", png[:min(8, len(png))])
	}
}

func TestMatSurface_ClearOutsideBounds(t *testing.T) {
	s := NewMatSurface(16, 16)
	defer s.Close()

	// Entirely outside the overlay; must not panic.
	s.ClearArea(geometry.Rect{Position: geometry.Point{X: 100, Y: 100}, Dimensions: geometry.Dimensions{Width: 5, Height: 5}})
}
