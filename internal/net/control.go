package net

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"ScratchReveal/internal/state"

	"github.com/gorilla/websocket"
)

const sendBuffer = 64

// Controller is the host control surface exposed to remote callers.
type Controller interface {
	ResetMask()
}

type peer struct {
	conn *websocket.Conn
	send chan []byte
}

// ControlServer lets remote clients reset a reveal surface and watch its
// change notifications over a websocket.
//
// Commands are handed to dispatch so they run on the surface's goroutine.
// Publish may be called from any goroutine.
type ControlServer struct {
	ctl      Controller
	dispatch func(func())
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	peers map[*peer]bool
	last  state.Event
}

func NewControlServer(ctl Controller, dispatch func(func())) *ControlServer {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &ControlServer{
		ctl:      ctl,
		dispatch: dispatch,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		peers: make(map[*peer]bool),
	}
}

// Handler serves /ws (websocket), GET /state and POST /reset.
func (s *ControlServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/state", s.handleState)
	mux.HandleFunc("/reset", s.handleReset)
	return mux
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *ControlServer) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[CONTROL] Shutdown: %v", err)
		}
		s.closePeers()
	}()

	log.Printf("[CONTROL] Listening on %s", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Publish records ev as the latest state and forwards it to every peer.
func (s *ControlServer) Publish(ev state.Event) {
	data, err := json.Marshal(Message{Type: MsgEvent, Event: &ev})
	if err != nil {
		log.Printf("[CONTROL] Encode event: %v", err)
		return
	}

	s.mu.Lock()
	s.last = ev
	s.mu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for p := range s.peers {
		select {
		case p.send <- data:
		default:
			log.Printf("[CONTROL] Dropping event for slow peer %s", p.conn.RemoteAddr())
		}
	}
}

// Peers is the number of connected websocket clients.
func (s *ControlServer) Peers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.peers)
}

func (s *ControlServer) latest() state.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

func (s *ControlServer) add(p *peer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.peers[p] = true
	log.Printf("[CONTROL] Added peer: %s", p.conn.RemoteAddr())
}

func (s *ControlServer) remove(p *peer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.peers[p] {
		return
	}
	delete(s.peers, p)
	close(p.send)
	log.Printf("[CONTROL] Removed peer: %s", p.conn.RemoteAddr())
}

func (s *ControlServer) closePeers() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for p := range s.peers {
		_ = p.conn.Close()
	}
}

func (s *ControlServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[CONTROL] Upgrade failed: %v", err)
		return
	}
	p := &peer{conn: conn, send: make(chan []byte, sendBuffer)}
	s.add(p)
	go s.writeLoop(p)

	s.sendState(p)
	s.readLoop(p)
}

func (s *ControlServer) writeLoop(p *peer) {
	defer p.conn.Close()
	for data := range p.send {
		if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("[CONTROL] Write to %s: %v", p.conn.RemoteAddr(), err)
			return
		}
	}
	_ = p.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *ControlServer) readLoop(p *peer) {
	defer s.remove(p)
	for {
		var msg Message
		if err := p.conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[CONTROL] Peer %s disconnected: %v", p.conn.RemoteAddr(), err)
			}
			return
		}
		switch msg.Type {
		case MsgReset:
			log.Printf("[CONTROL] Reset requested by %s", p.conn.RemoteAddr())
			s.dispatch(s.ctl.ResetMask)
		case MsgState:
			s.sendState(p)
		default:
			log.Printf("[CONTROL] Ignoring %q from %s", msg.Type, p.conn.RemoteAddr())
		}
	}
}

func (s *ControlServer) sendState(p *peer) {
	ev := s.latest()
	data, err := json.Marshal(Message{Type: MsgState, Event: &ev})
	if err != nil {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.peers[p] {
		select {
		case p.send <- data:
		default:
		}
	}
}

func (s *ControlServer) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.latest())
}

func (s *ControlServer) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	log.Printf("[CONTROL] Reset requested over HTTP by %s", r.RemoteAddr)
	s.dispatch(s.ctl.ResetMask)
	w.WriteHeader(http.StatusAccepted)
}
