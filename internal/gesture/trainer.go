package gesture

import (
	"encoding/json"
	"fmt"

	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/hand"
)

// Trainer processes recorded samples into gesture templates.
type Trainer struct{}

// NewTrainer creates a new Trainer instance.
func NewTrainer() *Trainer {
	return &Trainer{}
}

// StaticSample represents a recorded static gesture sample.
type StaticSample struct {
	Type      string           `json:"type"`
	Landmarks []geometry.Point `json:"landmarks"`
	Timestamp int64            `json:"timestamp"`
}

// DynamicSample represents a recorded dynamic gesture sample.
type DynamicSample struct {
	Type      string           `json:"type"`
	Path      []geometry.Point `json:"path"`
	Timestamp int64            `json:"timestamp"`
}

// TrainStatic averages static landmark samples into a single template.
// Samples are recorded in canvas pixels, so each one is normalized the way
// StaticMatcher normalizes live input before averaging. Every sample must
// carry all hand.NumLandmarks landmarks.
func (t *Trainer) TrainStatic(samples []json.RawMessage) ([]geometry.Point, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples provided")
	}

	normalized := make([]*hand.Landmarks, 0, len(samples))
	for i, raw := range samples {
		var sample StaticSample
		if err := json.Unmarshal(raw, &sample); err != nil {
			return nil, fmt.Errorf("failed to parse sample %d: %w", i, err)
		}

		switch n := len(sample.Landmarks); {
		case n == 0:
			return nil, fmt.Errorf("sample %d has no landmarks", i)
		case n != hand.NumLandmarks:
			return nil, fmt.Errorf("sample %d has %d landmarks, expected %d", i, n, hand.NumLandmarks)
		}
		for j, p := range sample.Landmarks {
			if !p.Defined() {
				return nil, fmt.Errorf("sample %d: landmark %d is undefined", i, j)
			}
		}

		var l hand.Landmarks
		copy(l.Points[:], sample.Landmarks)
		normalized = append(normalized, l.Normalize())
	}

	averaged := make([]geometry.Point, hand.NumLandmarks)
	n := float64(len(normalized))
	for i := range averaged {
		var sumX, sumY, sumZ float64
		for _, l := range normalized {
			sumX += l.Points[i].X
			sumY += l.Points[i].Y
			sumZ += l.Points[i].Z
		}
		averaged[i] = geometry.Point{X: sumX / n, Y: sumY / n, Z: sumZ / n}
	}

	return averaged, nil
}

// TrainDynamic averages multiple dynamic path samples into a single template path.
// Every path is resampled by arc length to the first sample's point count
// before averaging.
func (t *Trainer) TrainDynamic(samples []json.RawMessage) ([]geometry.Point, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples provided")
	}

	// Parse all samples
	var allPaths [][]geometry.Point
	for i, raw := range samples {
		var sample DynamicSample
		if err := json.Unmarshal(raw, &sample); err != nil {
			return nil, fmt.Errorf("failed to parse sample %d: %w", i, err)
		}

		if len(sample.Path) < 2 {
			return nil, fmt.Errorf("sample %d has insufficient path points", i)
		}
		for j, p := range sample.Path {
			if !p.Defined() {
				return nil, fmt.Errorf("sample %d: path point %d is undefined", i, j)
			}
		}

		allPaths = append(allPaths, sample.Path)
	}

	// Use the first path as reference length
	targetLength := len(allPaths[0])
	for i, path := range allPaths {
		allPaths[i] = geometry.ResamplePath(path, targetLength)
	}

	averaged := make([]geometry.Point, targetLength)
	n := float64(len(allPaths))

	for i := 0; i < targetLength; i++ {
		var sumX, sumY float64
		for _, path := range allPaths {
			sumX += path[i].X
			sumY += path[i].Y
		}
		averaged[i] = geometry.Point{X: sumX / n, Y: sumY / n}
	}

	return averaged, nil
}
