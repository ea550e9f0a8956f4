package chat

import "github.com/0STG0T/t1-solution-2/internal/util"

// State is the lifecycle state of a session connection
type State string

const (
	StateConnecting State = "connecting"
	StateOpen       State = "open"
	StateClosed     State = "closed"
	StateErrored    State = "errored"
)

// Closed and Errored are terminal. A session never reconnects; a new mount
// is needed
var transitions = util.StateTransitions[State]{
	StateConnecting: util.SetOf(StateOpen, StateClosed, StateErrored),
	StateOpen:       util.SetOf(StateClosed, StateErrored),
	StateClosed:     {},
	StateErrored:    {},
}

// CanTransition reports whether a session may move from one state to another
func CanTransition(from, to State) bool {
	return transitions.CanTransition(from, to)
}

// IsTerminal reports whether no further transitions are possible
func (s State) IsTerminal() bool {
	return transitions.IsTerminal(s)
}
