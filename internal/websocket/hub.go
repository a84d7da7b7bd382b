package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Message is a sync notification pushed to a household's connected devices.
type Message struct {
	Type          string         `json:"type"`
	Entity        string         `json:"entity"`
	Action        string         `json:"action"`
	SessionNumber int64          `json:"session_number,omitempty"`
	Extra         map[string]any `json:"extra,omitempty"`
}

// NewMessage creates a Message with the Type field derived from entity and action.
func NewMessage(entity, action string, sessionNumber int64, extra map[string]any) Message {
	return Message{
		Type:          fmt.Sprintf("%s_%s", entity, action),
		Entity:        entity,
		Action:        action,
		SessionNumber: sessionNumber,
		Extra:         extra,
	}
}

// Hub maintains the active connections grouped by household and delivers
// broadcasts only to the household they belong to. Delivery is best-effort:
// a client whose buffer is full misses the message rather than blocking the
// writer, and a client that disconnected mid-broadcast is simply gone.
type Hub struct {
	mu         sync.RWMutex
	households map[string]map[*Client]struct{}
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		households: make(map[string]map[*Client]struct{}),
		logger:     logger,
	}
}

// Register adds a client under its household code.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.households[c.householdCode]
	if !ok {
		clients = make(map[*Client]struct{})
		h.households[c.householdCode] = clients
	}
	clients[c] = struct{}{}
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.households[c.householdCode]
	if !ok {
		return
	}
	if _, ok := clients[c]; ok {
		delete(clients, c)
		close(c.send)
	}
	if len(clients) == 0 {
		delete(h.households, c.householdCode)
	}
}

// Broadcast sends a message to every device connected for the household.
func (h *Hub) Broadcast(householdCode string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.households[householdCode] {
		select {
		case c.send <- data:
		default:
			// Client buffer full — drop message to avoid blocking
		}
	}
}

// ClientCount returns the number of connections for the household.
func (h *Hub) ClientCount(householdCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.households[householdCode])
}
