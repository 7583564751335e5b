package draw

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/ayusman/mudra/internal/geometry"
	"gocv.io/x/gocv"
)

// MatSurface renders intents onto an RGBA gocv.Mat overlay. It is safe for
// concurrent use, so the HTTP server can encode it while the frame loop draws.
type MatSurface struct {
	mu     sync.Mutex
	mat    gocv.Mat
	styles []Style
}

// NewMatSurface allocates a transparent overlay of the given size.
func NewMatSurface(width, height int) *MatSurface {
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC4)
	mat.SetTo(gocv.NewScalar(0, 0, 0, 0))
	return &MatSurface{mat: mat, styles: []Style{DefaultStyle()}}
}

// Close releases the underlying Mat.
func (s *MatSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mat.Close()
}

func (s *MatSurface) current() Style {
	return s.styles[len(s.styles)-1]
}

// paint runs fn against a copy of the overlay and blends it back with the
// current opacity.
func (s *MatSurface) paint(fn func(dst *gocv.Mat, st Style)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.current()
	if st.Opacity >= 1 {
		fn(&s.mat, st)
		return
	}

	layer := s.mat.Clone()
	defer layer.Close()
	fn(&layer, st)
	gocv.AddWeighted(layer, st.Opacity, s.mat, 1-st.Opacity, 0, &s.mat)
}

// DrawRect implements Surface.
func (s *MatSurface) DrawRect(r geometry.Rect, fill bool) {
	s.paint(func(dst *gocv.Mat, st Style) {
		c, thickness := rgba(st.Stroke), lineWidth(st)
		if fill {
			c, thickness = rgba(st.Fill), -1
		}
		gocv.Rectangle(dst, rect(r), c, thickness)
	})
}

// DrawCircle implements Surface.
func (s *MatSurface) DrawCircle(c geometry.Circle, fill bool) {
	s.paint(func(dst *gocv.Mat, st Style) {
		col, thickness := rgba(st.Stroke), lineWidth(st)
		if fill {
			col, thickness = rgba(st.Fill), -1
		}
		gocv.Circle(dst, pt(c.Center), int(math.Round(c.Radius)), col, thickness)
	})
}

// DrawLine implements Surface.
func (s *MatSurface) DrawLine(points ...geometry.Point) {
	if len(points) < 2 {
		return
	}
	s.paint(func(dst *gocv.Mat, st Style) {
		col, thickness := rgba(st.Stroke), lineWidth(st)
		for i := 1; i < len(points); i++ {
			gocv.Line(dst, pt(points[i-1]), pt(points[i]), col, thickness)
		}
	})
}

// ClearArea implements Surface. The area is reset to fully transparent.
func (s *MatSurface) ClearArea(r geometry.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bounds := image.Rect(0, 0, s.mat.Cols(), s.mat.Rows())
	area := rect(r).Intersect(bounds)
	if area.Empty() {
		return
	}
	region := s.mat.Region(area)
	defer region.Close()
	region.SetTo(gocv.NewScalar(0, 0, 0, 0))
}

// WithStyle implements Surface.
func (s *MatSurface) WithStyle(style Style, fn func(Surface)) {
	s.mu.Lock()
	s.styles = append(s.styles, style.Merge(s.current()))
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.styles = s.styles[:len(s.styles)-1]
		s.mu.Unlock()
	}()
	fn(s)
}

// PNG encodes the overlay.
func (s *MatSurface) PNG() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, err := gocv.IMEncode(".png", s.mat)
	if err != nil {
		return nil, fmt.Errorf("encode overlay: %w", err)
	}
	defer buf.Close()
	return append([]byte(nil), buf.GetBytes()...), nil
}

func rect(r geometry.Rect) image.Rectangle {
	max := r.Max()
	return image.Rect(
		int(math.Round(r.Position.X)), int(math.Round(r.Position.Y)),
		int(math.Round(max.X)), int(math.Round(max.Y)),
	)
}

func pt(p geometry.Point) image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

func lineWidth(st Style) int {
	w := int(math.Round(st.LineWidth))
	if w < 1 {
		return 1
	}
	return w
}

// rgba converts c to an opaque color.RGBA. Translucency comes from the style
// opacity, not the color's alpha.
func rgba(c color.Color) color.RGBA {
	if c == nil {
		c = color.Black
	}
	r, g, b, _ := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
}
