package net

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"ScratchReveal/internal/state"

	"github.com/gorilla/websocket"
)

// Client is a remote controller connected to a surface's control channel.
type Client struct {
	conn *websocket.Conn
}

// Dial connects to the control channel at addr, given as host:port, a
// share link or a ws:// URL.
func Dial(ctx context.Context, addr string) (*Client, error) {
	u := wsURL(addr)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u, err)
	}
	return &Client{conn: conn}, nil
}

func wsURL(addr string) string {
	addr = strings.TrimPrefix(addr, LinkScheme)
	addr = strings.TrimSuffix(addr, "/")
	if strings.HasPrefix(addr, "ws://") || strings.HasPrefix(addr, "wss://") {
		return addr
	}
	return (&url.URL{Scheme: "ws", Host: addr, Path: "/ws"}).String()
}

// Reset asks the surface to reset its mask.
func (c *Client) Reset() error {
	return c.conn.WriteJSON(Message{Type: MsgReset})
}

// RequestState asks for a state message.
func (c *Client) RequestState() error {
	return c.conn.WriteJSON(Message{Type: MsgState})
}

// Next blocks for the next message from the surface.
func (c *Client) Next() (Message, error) {
	var msg Message
	err := c.conn.ReadJSON(&msg)
	return msg, err
}

// WaitFor reads messages until an event of the given kind arrives or
// timeout passes, and returns that event.
func (c *Client) WaitFor(kind state.EventKind, timeout time.Duration) (state.Event, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return state.Event{}, err
	}
	defer c.conn.SetReadDeadline(time.Time{})
	for {
		msg, err := c.Next()
		if err != nil {
			return state.Event{}, fmt.Errorf("waiting for %s: %w", kind, err)
		}
		if msg.Type == MsgEvent && msg.Event != nil && msg.Event.Kind == kind {
			return *msg.Event, nil
		}
	}
}

func (c *Client) Close() error {
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}
