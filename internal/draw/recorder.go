package draw

import (
	"sync"

	"github.com/ayusman/mudra/internal/geometry"
)

// OpKind names a recorded drawing operation.
type OpKind string

const (
	OpRect   OpKind = "rect"
	OpCircle OpKind = "circle"
	OpLine   OpKind = "line"
	OpClear  OpKind = "clear"
)

// Op is one recorded drawing intent with the style in effect.
type Op struct {
	Kind   OpKind
	Rect   geometry.Rect
	Circle geometry.Circle
	Points []geometry.Point
	Fill   bool
	Style  Style
}

// Recorder is a Surface that records what it is asked to draw.
type Recorder struct {
	mu     sync.Mutex
	styles []Style
	ops    []Op
}

// NewRecorder returns an empty Recorder using DefaultStyle.
func NewRecorder() *Recorder {
	return &Recorder{styles: []Style{DefaultStyle()}}
}

func (r *Recorder) record(op Op) {
	r.mu.Lock()
	defer r.mu.Unlock()
	op.Style = r.styles[len(r.styles)-1]
	r.ops = append(r.ops, op)
}

// DrawRect implements Surface.
func (r *Recorder) DrawRect(rect geometry.Rect, fill bool) {
	r.record(Op{Kind: OpRect, Rect: rect, Fill: fill})
}

// DrawCircle implements Surface.
func (r *Recorder) DrawCircle(c geometry.Circle, fill bool) {
	r.record(Op{Kind: OpCircle, Circle: c, Fill: fill})
}

// DrawLine implements Surface.
func (r *Recorder) DrawLine(points ...geometry.Point) {
	r.record(Op{Kind: OpLine, Points: append([]geometry.Point(nil), points...)})
}

// ClearArea implements Surface.
func (r *Recorder) ClearArea(rect geometry.Rect) {
	r.record(Op{Kind: OpClear, Rect: rect})
}

// WithStyle implements Surface.
func (r *Recorder) WithStyle(style Style, fn func(Surface)) {
	r.mu.Lock()
	r.styles = append(r.styles, style.Merge(r.styles[len(r.styles)-1]))
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.styles = r.styles[:len(r.styles)-1]
		r.mu.Unlock()
	}()
	fn(r)
}

// Ops returns a copy of the recorded operations.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Op(nil), r.ops...)
}

// Reset forgets recorded operations.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = nil
}
