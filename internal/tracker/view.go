package tracker

import (
	"github.com/ayusman/mudra/internal/bus"
	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/listener"
)

// View is one screen of the authoring tool: the listeners laid over it, the
// frame subject they subscribe to and the registry they publish on.
type View struct {
	name      string
	frames    *bus.Subject[hand.Frame]
	subjects  *bus.Registry
	listeners []listener.Listener
}

// NewView creates an empty view.
func NewView(name string) *View {
	return &View{
		name:     name,
		frames:   bus.NewSubject[hand.Frame](name + "/frames"),
		subjects: bus.NewRegistry(),
	}
}

// Name returns the view name.
func (v *View) Name() string { return v.name }

// Frames returns the subject frames are dispatched on.
func (v *View) Frames() *bus.Subject[hand.Frame] { return v.frames }

// Subjects returns the registry listeners publish on.
func (v *View) Subjects() *bus.Registry { return v.subjects }

// Add attaches a listener built against this view's subjects.
func (v *View) Add(l listener.Listener) {
	v.listeners = append(v.listeners, l)
}

// Listeners returns the attached listeners in insertion order.
func (v *View) Listeners() []listener.Listener {
	return append([]listener.Listener(nil), v.listeners...)
}

// Reset abandons every gesture in progress.
func (v *View) Reset() {
	for _, l := range v.listeners {
		l.ResetHandler()
	}
}

// Close disposes the listeners and closes the view's subjects.
func (v *View) Close() {
	for _, l := range v.listeners {
		l.Dispose()
	}
	v.listeners = nil
	v.frames.Close()
	v.subjects.Close()
}
