// Package hub fans events out to connected websocket clients.
package hub

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/Skotchmaster/shop_admin/pkg/events"
)

const DefaultBuffer = 16

// Client is one subscriber. Send is closed when the hub drops the client.
type Client struct {
	Send chan []byte
}

type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	buffer  int
	log     *slog.Logger
}

func New(buffer int, log *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if log == nil {
		log = slog.Default()
	}
	return &Hub{clients: make(map[*Client]struct{}), buffer: buffer, log: log}
}

func (h *Hub) Register() *Client {
	c := &Client{Send: make(chan []byte, h.buffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// Unregister is safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(c)
}

func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.Send)
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast never blocks. Clients whose buffer is full are dropped.
func (h *Hub) Broadcast(ev events.Event) int {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("event_encode_failed", "type", ev.Type, "error", err)
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for c := range h.clients {
		select {
		case c.Send <- msg:
			delivered++
		default:
			h.log.Warn("slow_client_dropped", "type", ev.Type)
			h.drop(c)
		}
	}
	return delivered
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.drop(c)
	}
}
