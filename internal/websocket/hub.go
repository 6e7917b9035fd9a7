package websocket

import (
	"encoding/json"
	"sync"
)

type BalanceUpdate struct {
	ProfileID int64       `json:"profile_id"`
	Balance   json.Number `json:"balance"`
	Reason    string      `json:"reason"`
}

// Hub fans balance updates out to every open connection of a profile.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]map[*Client]struct{}),
	}
}

func (h *Hub) Register(profileID int64, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[profileID] == nil {
		h.clients[profileID] = make(map[*Client]struct{})
	}
	h.clients[profileID][client] = struct{}{}
}

func (h *Hub) Unregister(profileID int64, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[profileID] == nil {
		return
	}
	delete(h.clients[profileID], client)
	if len(h.clients[profileID]) == 0 {
		delete(h.clients, profileID)
	}
}

// BroadcastBalance never blocks: a client with a full buffer misses the update.
func (h *Hub) BroadcastBalance(update BalanceUpdate) {
	payload, _ := json.Marshal(update)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[update.ProfileID] {
		select {
		case client.send <- payload:
		default:
		}
	}
}

func (h *Hub) connections(profileID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[profileID])
}
