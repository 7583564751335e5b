package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrTooFewPoints is returned when a fit needs more input points.
	ErrTooFewPoints = errors.New("too few points")
	// ErrCollinear is returned when the points do not determine a circle.
	ErrCollinear = errors.New("points are collinear")
)

// CircleFit is the result of FitCircle.
type CircleFit struct {
	Center Point
	Radius float64
	// Residual is the root-mean-square distance of the points from the
	// fitted circle. Lower is rounder.
	Residual float64
}

// Circle returns the fitted circle.
func (f CircleFit) Circle() Circle {
	return Circle{Center: f.Center, Radius: f.Radius}
}

// FitCircle fits a circle to points using the algebraic least-squares method:
// it solves x²+y² + D·x + E·y + F = 0 for D, E and F.
func FitCircle(points []Point) (CircleFit, error) {
	if len(points) < 3 {
		return CircleFit{}, fmt.Errorf("fit circle: need 3 points, got %d: %w", len(points), ErrTooFewPoints)
	}

	// Centre the data first to keep the system well conditioned for
	// pixel-sized coordinates.
	c := Centroid(points)

	n := len(points)
	a := mat.NewDense(n, 3, nil)
	b := mat.NewDense(n, 1, nil)
	for i, p := range points {
		x, y := p.X-c.X, p.Y-c.Y
		a.Set(i, 0, x)
		a.Set(i, 1, y)
		a.Set(i, 2, 1)
		b.Set(i, 0, -(x*x + y*y))
	}

	var sol mat.Dense
	if err := sol.Solve(a, b); err != nil {
		return CircleFit{}, fmt.Errorf("fit circle: %w", ErrCollinear)
	}

	d, e, f := sol.At(0, 0), sol.At(1, 0), sol.At(2, 0)
	cx, cy := -d/2, -e/2
	r2 := cx*cx + cy*cy - f
	if r2 <= 0 || math.IsNaN(r2) || math.IsInf(r2, 0) {
		return CircleFit{}, fmt.Errorf("fit circle: %w", ErrCollinear)
	}

	fit := CircleFit{
		Center: Point{X: cx + c.X, Y: cy + c.Y},
		Radius: math.Sqrt(r2),
	}

	var sq float64
	for _, p := range points {
		diff := Distance(fit.Center, p).Euclidean - fit.Radius
		sq += diff * diff
	}
	fit.Residual = math.Sqrt(sq / float64(n))

	return fit, nil
}
