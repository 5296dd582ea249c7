package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

var (
	sessionID = uuid.NewString()
	lamport   uint64
)

func nextLamport() uint64 {
	return atomic.AddUint64(&lamport, 1)
}

// SessionID identifies this process in emitted events.
func SessionID() string { return sessionID }

// NewStrokeID returns a fresh identifier for a pointer stroke.
func NewStrokeID() string { return uuid.NewString() }

// Stamp assigns the next sequence number and the session to ev.
func Stamp(ev *Event) {
	ev.Lamport = nextLamport()
	ev.Session = sessionID
}
