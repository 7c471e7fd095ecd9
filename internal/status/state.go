package status

import "fmt"

// State is the lifecycle stage of a save attempt
type State int

const (
	StateIdle State = iota
	StateSaving
	StateSuccess
	StateError
)

const (
	// MessageSaved is shown after the robot accepted new credentials.
	// The robot drops its hotspot right after, hence "switching modes".
	MessageSaved = "Saved. Switching modes..."

	// MessageCleared is shown after the robot forgot its network
	MessageCleared = "Cleared. Switching modes..."
)

// String returns the lowercase state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSaving:
		return "saving"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// SaveStatus is the state of the most recent save attempt and the message
// shown to the operator.
type SaveStatus struct {
	State   State
	Message string
}

// IsSaving reports whether a request is in flight
func (s SaveStatus) IsSaving() bool {
	return s.State == StateSaving
}

// IsError reports whether the last attempt failed
func (s SaveStatus) IsError() bool {
	return s.State == StateError
}

func (s SaveStatus) String() string {
	if s.Message == "" {
		return s.State.String()
	}
	return fmt.Sprintf("%s: %s", s.State, s.Message)
}
