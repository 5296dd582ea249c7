package state

// Machine holds the reveal state of one surface. Forward transitions are
// Hidden -> Revealing -> Revealed; Reset is the only way back to Hidden.
//
// Every Reset bumps the generation so callbacks scheduled before it can
// tell they are stale. Machine is not safe for concurrent use.
type Machine struct {
	current    RevealState
	generation uint64

	// OnTransition, if set, is called after every state change.
	OnTransition func(from, to RevealState)
}

func (m *Machine) State() RevealState { return m.current }

func (m *Machine) Generation() uint64 { return m.generation }

// Transition moves the machine one step forward. It reports false and
// leaves the state untouched when to is not the successor of the current
// state.
func (m *Machine) Transition(to RevealState) bool {
	if to != m.current+1 || to > Revealed {
		return false
	}
	from := m.current
	m.current = to
	if m.OnTransition != nil {
		m.OnTransition(from, to)
	}
	return true
}

// Reset returns the machine to Hidden and starts a new generation.
func (m *Machine) Reset() {
	from := m.current
	m.current = Hidden
	m.generation++
	if from != Hidden && m.OnTransition != nil {
		m.OnTransition(from, Hidden)
	}
}
