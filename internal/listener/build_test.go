package listener

import (
	"testing"

	"github.com/ayusman/mudra/internal/geometry"
)

func TestBuild(t *testing.T) {
	h := newHarness()

	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			l, err := Build(kind, h.options(string(kind)))
			if err != nil {
				t.Fatalf("build %s: %v", kind, err)
			}
			if l.Name() != string(kind) {
				t.Errorf("expected name %q, got %q", kind, l.Name())
			}
			if l.State() != Idle {
				t.Errorf("expected idle, got %s", l.State())
			}
			l.Dispose()
		})
	}

	if n := h.frames.Subscribers(); n != 0 {
		t.Errorf("expected every listener unsubscribed, got %d", n)
	}
}

func TestBuild_Unknown(t *testing.T) {
	if _, err := Build("wave", Options{}); err == nil {
		t.Error("expected an error for an unknown kind")
	}
}

func TestBuild_PlaybackSpansRegion(t *testing.T) {
	h := newHarness()
	l, err := Build(KindPlayback, h.options("slider"))
	if err != nil {
		t.Fatal(err)
	}
	start, end := l.(*LinearPlayback).EmitRange()
	if start != (geometry.Point{X: 0, Y: 240}) || end != (geometry.Point{X: 640, Y: 240}) {
		t.Errorf("unexpected emit range %v..%v", start, end)
	}
}
