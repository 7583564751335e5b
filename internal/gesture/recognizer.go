package gesture

import (
	"fmt"
	"math"

	"github.com/ayusman/mudra/internal/geometry"
)

const (
	// DefaultSamplePoints is the resampling size for path templates.
	DefaultSamplePoints = 64
	// DefaultMaxDistance is the largest normalized path distance accepted as a match.
	DefaultMaxDistance = 0.2

	angleRange     = 45 * math.Pi / 180
	anglePrecision = 2 * math.Pi / 180
)

var phi = 0.5 * (math.Sqrt(5) - 1)

// Scorer compares two normalized paths of equal length. Lower is closer.
type Scorer func(candidate, template []geometry.Point) float64

// PathTemplate is a named, normalized template path.
type PathTemplate struct {
	Name   string
	Points []geometry.Point
}

// Recognition is the best template for a traced path.
type Recognition struct {
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
	Score    float64 `json:"score"`
}

// Recognizer matches traced paths against a template library. Templates are
// normalized once on insert; Recognize normalizes its input the same way.
type Recognizer struct {
	points      int
	maxDistance float64
	scorer      Scorer
	rotate      bool
	templates   []PathTemplate
}

// RecognizerOption configures a Recognizer.
type RecognizerOption func(*Recognizer)

// WithSamplePoints sets the resampling size.
func WithSamplePoints(n int) RecognizerOption {
	return func(r *Recognizer) {
		if n > 1 {
			r.points = n
		}
	}
}

// WithMaxDistance sets the acceptance threshold.
func WithMaxDistance(d float64) RecognizerOption {
	return func(r *Recognizer) {
		if d > 0 {
			r.maxDistance = d
		}
	}
}

// WithScorer replaces the path distance scorer. Rotation search is only
// applied with the default scorer.
func WithScorer(s Scorer) RecognizerOption {
	return func(r *Recognizer) {
		if s != nil {
			r.scorer = s
			r.rotate = false
		}
	}
}

// NewRecognizer returns an empty Recognizer.
func NewRecognizer(opts ...RecognizerOption) *Recognizer {
	r := &Recognizer{
		points:      DefaultSamplePoints,
		maxDistance: DefaultMaxDistance,
		scorer:      geometry.PathDistance,
		rotate:      true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add normalizes path and stores it under name, replacing any template with
// the same name.
func (r *Recognizer) Add(name string, path []geometry.Point) error {
	if len(path) < 2 {
		return fmt.Errorf("add template %q: need at least 2 points, got %d", name, len(path))
	}
	t := PathTemplate{Name: name, Points: geometry.NormalizePath(path, r.points)}
	for i := range r.templates {
		if r.templates[i].Name == name {
			r.templates[i] = t
			return nil
		}
	}
	r.templates = append(r.templates, t)
	return nil
}

// Remove deletes the template with the given name.
func (r *Recognizer) Remove(name string) {
	for i, t := range r.templates {
		if t.Name == name {
			r.templates = append(r.templates[:i], r.templates[i+1:]...)
			return
		}
	}
}

// Names returns the template names in insertion order.
func (r *Recognizer) Names() []string {
	names := make([]string, len(r.templates))
	for i, t := range r.templates {
		names[i] = t.Name
	}
	return names
}

// Recognize returns the closest template when it is within the acceptance
// threshold. Ties go to the template added first.
func (r *Recognizer) Recognize(path []geometry.Point) (Recognition, bool) {
	if len(path) < 2 || len(r.templates) == 0 {
		return Recognition{}, false
	}
	candidate := geometry.NormalizePath(path, r.points)

	best := Recognition{Distance: math.Inf(1)}
	for _, t := range r.templates {
		var d float64
		if r.rotate {
			d = distanceAtBestAngle(candidate, t.Points, r.scorer)
		} else {
			d = r.scorer(candidate, t.Points)
		}
		if d < best.Distance {
			best = Recognition{Name: t.Name, Distance: d}
		}
	}

	if best.Distance > r.maxDistance {
		return Recognition{}, false
	}
	best.Score = 1 - best.Distance/(0.5*math.Sqrt2)
	return best, true
}

// distanceAtBestAngle runs a golden section search for the rotation of
// candidate that best fits template.
func distanceAtBestAngle(candidate, template []geometry.Point, score Scorer) float64 {
	at := func(theta float64) float64 {
		return score(geometry.RotateBy(candidate, theta), template)
	}

	a, b := -angleRange, angleRange
	x1 := phi*a + (1-phi)*b
	f1 := at(x1)
	x2 := (1-phi)*a + phi*b
	f2 := at(x2)
	for math.Abs(b-a) > anglePrecision {
		if f1 < f2 {
			b, x2, f2 = x2, x1, f1
			x1 = phi*a + (1-phi)*b
			f1 = at(x1)
		} else {
			a, x1, f1 = x1, x2, f2
			x2 = (1-phi)*a + phi*b
			f2 = at(x2)
		}
	}
	return math.Min(f1, f2)
}

// DefaultTemplates returns the built-in stroke library in canvas orientation
// (y grows downward).
func DefaultTemplates() map[string][]geometry.Point {
	circle := make([]geometry.Point, 0, 33)
	for i := 0; i <= 32; i++ {
		a := 2 * math.Pi * float64(i) / 32
		circle = append(circle, geometry.Point{X: 100 + 50*math.Cos(a), Y: 100 + 50*math.Sin(a)})
	}
	return map[string][]geometry.Point{
		"circle": circle,
		"line":   {{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 100, Y: 0}},
		"caret":  {{X: 0, Y: 100}, {X: 50, Y: 0}, {X: 100, Y: 100}},
		"rectangle": {
			{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 60}, {X: 0, Y: 60}, {X: 0, Y: 0},
		},
	}
}

// NewDefaultRecognizer returns a Recognizer loaded with DefaultTemplates.
func NewDefaultRecognizer(opts ...RecognizerOption) *Recognizer {
	r := NewRecognizer(opts...)
	defaults := DefaultTemplates()
	for _, name := range []string{"circle", "line", "caret", "rectangle"} {
		_ = r.Add(name, defaults[name])
	}
	return r
}
