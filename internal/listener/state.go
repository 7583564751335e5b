package listener

import "fmt"

// State is a listener's position in the gesture cycle.
type State int

const (
	Idle State = iota
	Candidate
	Confirmed
	Cancelled
)

var stateNames = [...]string{"idle", "candidate", "confirmed", "cancelled"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Mode selects how a candidate gesture is resolved.
type Mode int

const (
	// ModeHold confirms a pose held still for the confirmation window.
	ModeHold Mode = iota
	// ModeTrace records a path while the pose holds and commits it when the
	// pose is released.
	ModeTrace
	// ModeContinuous reports every frame while the pose holds in bounds.
	ModeContinuous
)

func (m Mode) String() string {
	switch m {
	case ModeHold:
		return "hold"
	case ModeTrace:
		return "trace"
	case ModeContinuous:
		return "continuous"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}
