package client

import (
	"sync"
	"time"
)

// HubEventType identifies the type of hub event.
type HubEventType int

const (
	// HubShutdown asks the client to show the shutdown notice and disconnect.
	HubShutdown HubEventType = iota
	// HubRecord announces a new best score among connected players.
	HubRecord
)

// HubEvent is sent from the hub to every registered client.
type HubEvent struct {
	Type     HubEventType
	Username string
	Score    int
}

// Handle represents a client's registration with the hub.
type Handle struct {
	ID       int
	Username string
	Events   chan HubEvent
}

// Record is the best score reported to a hub.
type Record struct {
	Username string
	Score    int
}

// Hub tracks connected clients so the server can announce records and shut
// down gracefully. Every client runs its own engine; the hub never touches
// game state.
type Hub struct {
	mu      sync.RWMutex
	clients map[int]*Handle
	nextID  int
	best    Record
	closing bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[int]*Handle),
		nextID:  1,
	}
}

// Register adds a client and returns its handle. Registering after Shutdown
// yields a handle that already carries the shutdown event.
func (h *Hub) Register(username string) *Handle {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle := &Handle{
		ID:       h.nextID,
		Username: username,
		Events:   make(chan HubEvent, 16),
	}
	h.nextID++
	if h.closing {
		handle.Events <- HubEvent{Type: HubShutdown}
	}
	h.clients[handle.ID] = handle
	return handle
}

// Unregister removes a client and closes its event channel.
func (h *Hub) Unregister(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if handle, ok := h.clients[id]; ok {
		close(handle.Events)
		delete(h.clients, id)
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Best returns the best score reported so far.
func (h *Hub) Best() Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.best
}

// Report records a completed session's score and announces it to every
// client when it beats the current best.
func (h *Hub) Report(username string, score int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if score <= h.best.Score {
		return false
	}
	h.best = Record{Username: username, Score: score}
	h.broadcastLocked(HubEvent{Type: HubRecord, Username: username, Score: score})
	return true
}

func (h *Hub) broadcastLocked(ev HubEvent) {
	for _, handle := range h.clients {
		select {
		case handle.Events <- ev:
		default:
		}
	}
}

// Shutdown notifies all connected clients and waits for them to disconnect,
// up to the given timeout.
func (h *Hub) Shutdown(timeout time.Duration) {
	h.mu.Lock()
	h.closing = true
	h.broadcastLocked(HubEvent{Type: HubShutdown})
	h.mu.Unlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if h.Count() == 0 {
			return
		}
		select {
		case <-deadline:
			return
		case <-ticker.C:
		}
	}
}
