package ws

import (
	"log"
	"sync"

	"chat-relay/internal/observability"
)

// Hub is the registry of live relay connections. It owns the client set;
// registration, unregistration, and set enumeration are mutually
// exclusive with each other, while actual socket I/O happens in the
// per-client write pumps and never serializes broadcasts on each other.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]bool)}
}

// Register adds a connection to the live set. Always succeeds.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
}

// Unregister removes a connection and closes its send channel.
// Idempotent: unregistering an unknown or already-removed client is a no-op.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.closed = true
	close(c.send)
}

// Len reports the number of live connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastExcept delivers payload to every live connection other than
// sender. Delivery is fire-and-forget: a peer whose send buffer is full
// or whose channel is gone is dropped and counted, never surfaced as an
// error to the caller. A nil sender delivers to everyone.
func (h *Hub) BroadcastExcept(sender *Client, payload []byte) {
	clients := h.snapshot()

	var failed []*Client
	for _, c := range clients {
		if c == sender {
			continue
		}
		if !h.trySend(c, payload) {
			failed = append(failed, c)
		}
	}

	for _, c := range failed {
		observability.IncDeliveryFailure()
		log.Printf("ws delivery failed conn=%s: send buffer full or closed", c.info.ConnID)
		h.Unregister(c)
		c.closeConn()
	}
}

// CloseAll tears down every live connection. Used on shutdown.
func (h *Hub) CloseAll() {
	for _, c := range h.snapshot() {
		h.Unregister(c)
		c.closeConn()
	}
}

func (h *Hub) snapshot() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	return clients
}

// trySend holds the read lock for the duration of the channel send so an
// unregistration (which closes the channel under the write lock) cannot
// interleave with it.
func (h *Hub) trySend(c *Client, payload []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[c]; !ok || c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}
