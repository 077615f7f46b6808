package sse

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sellerhq/seller_api/internal/sku"
)

// ValidationEvent is the payload pushed to a dashboard client whenever one of
// its SKU inputs changes validation state.
type ValidationEvent struct {
	FieldID   string      `json:"fieldId"`
	State     sku.State   `json:"state"`
	Message   string      `json:"message,omitempty"`
	Result    *sku.Result `json:"result,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Client represents a connected dashboard SSE client.
type Client struct {
	ID     string
	Events chan []byte
}

// Hub manages SSE client connections. Validation state is private to the
// vendor typing it, so events are addressed to a single client rather than
// broadcast.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a new SSE hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a new client and returns it for streaming.
func (h *Hub) Register(clientID string) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := &Client{
		ID:     clientID,
		Events: make(chan []byte, 64),
	}
	h.clients[clientID] = c
	log.Info().Str("client_id", clientID).Int("total_clients", len(h.clients)).Msg("SSE client connected")
	return c
}

// Unregister removes a client and closes its channel.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		close(c.Events)
		delete(h.clients, clientID)
		log.Info().Str("client_id", clientID).Int("total_clients", len(h.clients)).Msg("SSE client disconnected")
	}
}

// Send delivers an event to one client.
// Non-blocking: drops message if the client buffer is full.
func (h *Hub) Send(clientID string, event *ValidationEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal SSE event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[clientID]
	if !ok {
		return
	}
	select {
	case c.Events <- data:
	default:
		log.Warn().Str("client_id", c.ID).Msg("SSE client buffer full, dropping event")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
