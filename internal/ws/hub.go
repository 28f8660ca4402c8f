// Package ws pushes loyalty notifications to connected players.
package ws

import (
	"encoding/json"
	"sync"

	"casino_loyalty/internal/events"
	"casino_loyalty/internal/logger"
)

// Hub tracks live connections per player. A player may hold several.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
	logger.Debug("ws client registered", "user_id", c.UserID, "connections", len(set))
}

// Unregister removes c and closes its send queue. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unregisterLocked(c)
}

func (h *Hub) unregisterLocked(c *Client) {
	set, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
	close(c.Send)
}

// Connections returns the number of live connections of a player
func (h *Hub) Connections(playerID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[playerID])
}

// Notify queues msg on every connection of playerID and returns how many accepted it.
// A connection whose queue is full is dropped.
func (h *Hub) Notify(playerID int64, msg []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for c := range h.clients[playerID] {
		select {
		case c.Send <- msg:
			delivered++
		default:
			logger.Warn("ws send queue full, dropping client", "user_id", c.UserID)
			h.unregisterLocked(c)
		}
	}
	return delivered
}

// sendTo queues msg on a single connection if it is still registered
func (h *Hub) sendTo(c *Client, msg []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.UserID][c]; !ok {
		return false
	}
	select {
	case c.Send <- msg:
		return true
	default:
		h.unregisterLocked(c)
		return false
	}
}

// Broadcast queues msg on every connection
func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, set := range h.clients {
		for c := range set {
			select {
			case c.Send <- msg:
			default:
				h.unregisterLocked(c)
			}
		}
	}
}

// HandleEvent forwards a loyalty event: player events to that player, the rest to everyone
func (h *Hub) HandleEvent(evt events.Event) {
	msg, err := json.Marshal(Message{Type: evt.Type, Payload: evt.Payload, At: evt.At})
	if err != nil {
		logger.Error("ws marshal event", "type", evt.Type, "error", err)
		return
	}
	if evt.PlayerID == 0 {
		h.Broadcast(msg)
		return
	}
	h.Notify(evt.PlayerID, msg)
}
