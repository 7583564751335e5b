package listener

import (
	"log/slog"
	"time"

	"github.com/ayusman/mudra/internal/bus"
	"github.com/ayusman/mudra/internal/draw"
	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/schedule"
)

var (
	t0     = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	canvas = Region{Dimensions: geometry.Dimensions{Width: 640, Height: 480}}
)

type harness struct {
	clock    *schedule.Manual
	frames   *bus.Subject[hand.Frame]
	subjects *bus.Registry
	surface  *draw.Recorder
}

func newHarness() *harness {
	return &harness{
		clock:    schedule.NewManual(t0),
		frames:   bus.NewSubject[hand.Frame]("frames"),
		subjects: bus.NewRegistry(),
		surface:  draw.NewRecorder(),
	}
}

func (h *harness) options(name string) Options {
	return Options{
		Name:      name,
		Region:    canvas,
		Frames:    h.frames,
		Subjects:  h.subjects,
		Surface:   h.surface,
		Scheduler: h.clock,
		Logger:    slog.New(slog.DiscardHandler),
	}
}

// send publishes f stamped with the current clock time.
func (h *harness) send(f hand.Frame) {
	f.Time = h.clock.Now()
	h.frames.Publish(f)
}

func (h *harness) count(kind draw.OpKind) int {
	n := 0
	for _, op := range h.surface.Ops() {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// record collects every payload published on key.
func record[T any](r *bus.Registry, key string) *[]T {
	var got []T
	bus.Open[T](r, key).Subscribe(func(v T) { got = append(got, v) })
	return &got
}

func handWith(label hand.Label, pts map[hand.Landmark]geometry.Point) *hand.Data {
	return &hand.Data{Gesture: label, Positions: pts}
}

func frameOf(hands map[hand.Side]*hand.Data) hand.Frame {
	return hand.Frame{Hands: hands}
}

// shapeFrame builds a two-hand frame carrying the given fingertips.
func shapeFrame(left, right hand.Label, tips gesture.Fingertips) hand.Frame {
	return frameOf(map[hand.Side]*hand.Data{
		hand.Left: handWith(left, map[hand.Landmark]geometry.Point{
			hand.IndexTip: tips.LeftIndex,
			hand.ThumbTip: tips.LeftThumb,
		}),
		hand.Right: handWith(right, map[hand.Landmark]geometry.Point{
			hand.IndexTip: tips.RightIndex,
			hand.ThumbTip: tips.RightThumb,
		}),
	})
}

// pointing builds a frame with one hand showing label at index tip p.
func pointing(side hand.Side, label hand.Label, p geometry.Point) hand.Frame {
	return frameOf(map[hand.Side]*hand.Data{
		side: handWith(label, map[hand.Landmark]geometry.Point{hand.IndexTip: p}),
	})
}

// twoTips builds a frame with both hands showing label at the given index tips.
func twoTips(label hand.Label, left, right geometry.Point) hand.Frame {
	return frameOf(map[hand.Side]*hand.Data{
		hand.Left:  handWith(label, map[hand.Landmark]geometry.Point{hand.IndexTip: left}),
		hand.Right: handWith(label, map[hand.Landmark]geometry.Point{hand.IndexTip: right}),
	})
}

// rectTips frames the square (100,100)-(300,300) with crossed fingertips.
func rectTips() gesture.Fingertips {
	return gesture.Fingertips{
		LeftIndex:  geometry.Point{X: 105, Y: 295},
		LeftThumb:  geometry.Point{X: 305, Y: 105},
		RightIndex: geometry.Point{X: 300, Y: 100},
		RightThumb: geometry.Point{X: 100, Y: 300},
	}
}

// circleTips touches index to index and thumb to thumb.
func circleTips() gesture.Fingertips {
	return gesture.Fingertips{
		LeftIndex:  geometry.Point{X: 318, Y: 150},
		LeftThumb:  geometry.Point{X: 318, Y: 250},
		RightIndex: geometry.Point{X: 322, Y: 150},
		RightThumb: geometry.Point{X: 322, Y: 250},
	}
}

func shift(tips gesture.Fingertips, dx float64) gesture.Fingertips {
	d := geometry.Point{X: dx}
	return gesture.Fingertips{
		LeftIndex:  tips.LeftIndex.Add(d),
		LeftThumb:  tips.LeftThumb.Add(d),
		RightIndex: tips.RightIndex.Add(d),
		RightThumb: tips.RightThumb.Add(d),
	}
}

func rectFrame(tips gesture.Fingertips) hand.Frame {
	return shapeFrame(hand.ForeshadowingLeftL, hand.ForeshadowingRightL, tips)
}

// captureScheduler hands out tasks whose Cancel does nothing, so tests can
// fire callbacks the listener already abandoned.
type captureScheduler struct {
	fns []func()
}

type inertTask struct{}

func (inertTask) Cancel() bool { return false }

func (s *captureScheduler) Schedule(_ time.Duration, fn func()) schedule.Task {
	s.fns = append(s.fns, fn)
	return inertTask{}
}
