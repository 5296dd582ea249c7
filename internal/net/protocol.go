package net

import (
	"ScratchReveal/internal/state"
)

// Message types on the control channel.
const (
	// MsgReset asks the surface to reset its mask. Client to server.
	MsgReset = "reset"
	// MsgState asks for, or answers with, the current state.
	MsgState = "state"
	// MsgEvent carries a surface change notification. Server to client.
	MsgEvent = "event"
)

// Message is one JSON frame on the control websocket.
type Message struct {
	Type  string       `json:"type"`
	Event *state.Event `json:"event,omitempty"`
}
