package listener

import (
	"fmt"
	"sort"

	"github.com/ayusman/mudra/internal/geometry"
)

// Kind names a listener variant in configuration.
type Kind string

const (
	KindForeshadowing Kind = "foreshadowing"
	KindPlayback      Kind = "playback"
	KindRectPose      Kind = "rect"
	KindRangePose     Kind = "range"
	KindPointPose     Kind = "point"
	KindOpenHand      Kind = "open_hand"
	KindHighlight     Kind = "highlight"
	KindStroke        Kind = "stroke"
)

// Listener is the control surface shared by every variant.
type Listener interface {
	Name() string
	State() State
	Region() Region
	UpdateState(Update)
	ResetHandler()
	Dispose()
}

var builders = map[Kind]func(Options) Listener{
	KindForeshadowing: func(o Options) Listener { return NewForeshadowing(o) },
	KindPlayback: func(o Options) Listener {
		// A standalone slider spans its region.
		b := o.Region.Rect()
		y := b.Position.Y + b.Dimensions.Height/2
		return NewLinearPlayback(o, geometry.Point{X: b.Position.X, Y: y}, geometry.Point{X: b.Max().X, Y: y})
	},
	KindRectPose:  func(o Options) Listener { return NewRectPose(o) },
	KindRangePose: func(o Options) Listener { return NewRangePose(o) },
	KindPointPose: func(o Options) Listener { return NewPointPose(o) },
	KindOpenHand:  func(o Options) Listener { return NewOpenHandPose(o) },
	KindHighlight: func(o Options) Listener { return NewHighlight(o) },
	KindStroke:    func(o Options) Listener { return NewStroke(o) },
}

// Kinds lists the known listener kinds.
func Kinds() []Kind {
	out := make([]Kind, 0, len(builders))
	for k := range builders {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Build constructs a listener of the given kind.
func Build(kind Kind, opts Options) (Listener, error) {
	b, ok := builders[kind]
	if !ok {
		return nil, fmt.Errorf("unknown listener kind %q", kind)
	}
	return b(opts), nil
}
