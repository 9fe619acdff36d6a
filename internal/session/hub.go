package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/schedit/schedit/backend-go/internal/engine"
)

const flushTimeout = 10 * time.Second

// Hub keeps one Session per slot and at most one client attached to each.
// A client connecting to a slot that already has one replaces it.
type Hub struct {
	opts Options

	mu       sync.Mutex
	sessions map[string]*Session // slot -> session
	clients  map[string]*Client  // slot -> attached client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub(opts Options) *Hub {
	return &Hub{
		opts:       opts,
		sessions:   make(map[string]*Session),
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			return
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Stop ends Run, detaches every client and flushes every session to the
// store.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		defer h.mu.Unlock()
		for slot, c := range h.clients {
			c.close()
			delete(h.clients, slot)
		}
		for slot, s := range h.sessions {
			ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			if err := s.Flush(ctx); err != nil {
				slog.Error("flush session", "slot", slot, "error", err)
			}
			cancel()
		}
	})
}

// Session returns the session for slot, creating it on first use.
func (h *Hub) Session(ctx context.Context, slot string) *Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sessionLocked(ctx, slot)
}

func (h *Hub) sessionLocked(ctx context.Context, slot string) *Session {
	s, ok := h.sessions[slot]
	if !ok {
		s = New(ctx, slot, h.opts)
		h.sessions[slot] = s
		slog.Info("session created", "slot", slot, "restored", s.Restored())
	}
	return s
}

func (h *Hub) addClient(client *Client) {
	sess := client.session
	h.mu.Lock()
	prev := h.clients[client.Slot]
	h.clients[client.Slot] = client
	h.mu.Unlock()

	if prev != nil {
		prev.Send(errorMessage(&Message{}, errReplaced))
		prev.close()
		slog.Info("client replaced", "slot", client.Slot, "client", prev.ClientID)
	}

	welcome, _ := json.Marshal(WelcomePayload{
		ClientID: client.ClientID,
		Slot:     client.Slot,
		Restored: sess.Restored(),
		Symbols:  sess.Symbols(),
	})
	client.Send(&Message{Type: TypeWelcome, Slot: client.Slot, ClientID: client.ClientID, Payload: welcome})
	client.Send(sess.Frame())

	slog.Info("client joined", "slot", client.Slot, "client", client.ClientID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if h.clients[client.Slot] == client {
		delete(h.clients, client.Slot)
	}
	h.mu.Unlock()
	client.close()

	slog.Info("client left", "slot", client.Slot, "client", client.ClientID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	if sender.session == nil {
		return
	}
	for _, reply := range sender.session.Handle(msg) {
		sender.Send(reply)
	}
}

// Replace opens data into the live session for slot, if there is one, and
// pushes a frame to its client. It reports whether a session was live.
func (h *Hub) Replace(ctx context.Context, slot string, data []byte) (bool, error) {
	h.mu.Lock()
	sess, ok := h.sessions[slot]
	client := h.clients[slot]
	h.mu.Unlock()
	if !ok {
		return false, nil
	}

	var err error
	sess.Do(func(e *engine.Engine) { err = e.Open(data) })
	if err != nil {
		return true, err
	}
	if client != nil {
		client.Send(sess.Frame())
	}
	return true, nil
}
