package state

import (
	"fmt"
)

// Point is a position in surface-local logical units.
type Point struct{ X, Y float32 }

// RevealState is the lifecycle of a scratch surface.
type RevealState int

const (
	// Hidden means the image is obscured and erasure is permitted.
	Hidden RevealState = iota
	// Revealing means the threshold was crossed and the fade is running.
	Revealing
	// Revealed is terminal until the mask is reset.
	Revealed
)

func (s RevealState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Revealing:
		return "revealing"
	case Revealed:
		return "revealed"
	}
	return fmt.Sprintf("RevealState(%d)", int(s))
}

func (s RevealState) MarshalText() ([]byte, error) {
	switch s {
	case Hidden, Revealing, Revealed:
		return []byte(s.String()), nil
	}
	return nil, fmt.Errorf("unknown reveal state %d", int(s))
}

func (s *RevealState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "hidden":
		*s = Hidden
	case "revealing":
		*s = Revealing
	case "revealed":
		*s = Revealed
	default:
		return fmt.Errorf("unknown reveal state %q", text)
	}
	return nil
}

type EventKind string

const (
	EventRepainted EventKind = "repainted"
	EventErased    EventKind = "erased"
	EventState     EventKind = "state"
	EventOpacity   EventKind = "opacity"
)

// Event is a change notification emitted by a reveal surface. Hosts redraw
// in response; the control channel forwards it to remote observers.
type Event struct {
	Kind     EventKind   `json:"kind"`
	State    RevealState `json:"state"`
	Opacity  float64     `json:"opacity"`
	Fraction float64     `json:"fraction"`
	StrokeID string      `json:"stroke_id,omitempty"`
	Session  string      `json:"session"`
	Lamport  uint64      `json:"lamport"`
}
