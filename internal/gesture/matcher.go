// Package gesture classifies hand poses and traced paths, and combines the
// labels of two hands into gesture pairs.
package gesture

import (
	"math"
	"sort"

	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/hand"
)

// Type represents the type of template (static pose or dynamic path).
type Type string

const (
	// TypeStatic represents a static gesture (single hand pose).
	TypeStatic Type = "static"
	// TypeDynamic represents a dynamic gesture (path traced over time).
	TypeDynamic Type = "dynamic"
)

// Template represents a trained gesture template.
type Template struct {
	ID        string           // Unique identifier for the template
	Name      string           // Human-readable name
	Type      Type             // Static or dynamic gesture type
	Label     hand.Label       // Label assigned to a hand matching a static template
	Landmarks []geometry.Point // Normalized landmarks for static gestures
	Path      []geometry.Point // Raw path points for dynamic gestures
	Tolerance float64          // Maximum distance for a match
}

// Match represents a matching result between input and a template.
type Match struct {
	Template *Template // The matched template
	Score    float64   // Match score (0-1, higher is better)
	Distance float64   // Euclidean distance between input and template
}

// StaticMatcher matches static hand poses against registered templates.
type StaticMatcher struct {
	templates []*Template
}

// NewStaticMatcher creates a new StaticMatcher instance.
func NewStaticMatcher() *StaticMatcher {
	return &StaticMatcher{
		templates: make([]*Template, 0),
	}
}

// AddTemplate adds a static template to the matcher. Other types are ignored.
func (m *StaticMatcher) AddTemplate(t *Template) {
	if t == nil || t.Type != TypeStatic {
		return
	}
	m.templates = append(m.templates, t)
}

// RemoveTemplate removes a template by its ID.
func (m *StaticMatcher) RemoveTemplate(id string) {
	for i, t := range m.templates {
		if t.ID == id {
			m.templates = append(m.templates[:i], m.templates[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered templates.
func (m *StaticMatcher) Len() int {
	return len(m.templates)
}

// Match finds matching templates for the given hand landmarks.
// Returns matches sorted by score in descending order (best matches first).
func (m *StaticMatcher) Match(l *hand.Landmarks) []Match {
	normalized := l.Normalize()
	if normalized == nil {
		return nil
	}
	input := normalized.Points[:]

	var matches []Match
	for _, template := range m.templates {
		distance := landmarkDistance(input, template.Landmarks)
		if distance > template.Tolerance {
			continue
		}
		matches = append(matches, Match{
			Template: template,
			Score:    1.0 / (1.0 + distance),
			Distance: distance,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

// landmarkDistance sums the 3D distances between corresponding points.
func landmarkDistance(a, b []geometry.Point) float64 {
	if len(a) == 0 || len(b) == 0 {
		return math.Inf(1)
	}

	n := min(len(a), len(b))
	var total float64
	for i := 0; i < n; i++ {
		dx := a[i].X - b[i].X
		dy := a[i].Y - b[i].Y
		dz := a[i].Z - b[i].Z
		total += math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	return total
}
