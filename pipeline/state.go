package pipeline

// State is the lifecycle state of a pipeline instance
type State string

// Lifecycle states
const (
	StateBuilt     State = "built"
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateStopped   State = "stopped"
	StateError     State = "error"
	StateCompleted State = "completed"
)

// legal run/pause/resume transitions; stop has its own rule (any
// non-terminal state may be stopped)
var transitions = map[State]map[State]bool{
	StateBuilt: {
		StateRunning: true,
	},
	StateRunning: {
		StatePaused:    true,
		StateStopped:   true,
		StateError:     true,
		StateCompleted: true,
	},
	StatePaused: {
		StateRunning: true,
		StateStopped: true,
		StateError:   true,
	},
}

// Terminal reports whether no further transitions are possible
func (s State) Terminal() bool {
	switch s {
	case StateStopped, StateError, StateCompleted:
		return true
	default:
		return false
	}
}

// CanTransition reports whether moving to the target state is legal
func (s State) CanTransition(to State) bool {
	return transitions[s][to]
}
