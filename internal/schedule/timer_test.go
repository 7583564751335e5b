package schedule

import (
	"testing"
	"time"
)

func TestTimerScheduler_DeliversOnChannel(t *testing.T) {
	s := NewTimerScheduler(1)
	defer s.Close()

	ran := false
	s.Schedule(10*time.Millisecond, func() { ran = true })

	select {
	case fn := <-s.C():
		if ran {
			t.Fatal("callback ran before the loop invoked it")
		}
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	if !ran {
		t.Error("expected callback to run")
	}
}

func TestTimerScheduler_CancelAfterQueued(t *testing.T) {
	s := NewTimerScheduler(1)
	defer s.Close()

	ran := false
	task := s.Schedule(time.Millisecond, func() { ran = true })

	var fn func()
	select {
	case fn = <-s.C():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	if !task.Cancel() {
		t.Error("expected cancel of a queued task to succeed")
	}
	fn()
	if ran {
		t.Error("cancelled callback ran")
	}
}

func TestTimerScheduler_CancelBeforeDue(t *testing.T) {
	s := NewTimerScheduler(1)
	defer s.Close()

	task := s.Schedule(time.Hour, func() {})
	if !task.Cancel() {
		t.Error("expected cancel to succeed")
	}
	if task.Cancel() {
		t.Error("expected second cancel to fail")
	}
}
