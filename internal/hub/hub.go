package hub

import (
	"encoding/json"
	"sync"
)

// Event is one message pushed to stream subscribers.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client is a subscriber's buffered channel. The stream handler drains it.
type Client chan []byte

// Hub fans tally updates out to the subscribers of each game.
type Hub struct {
	games  map[int64]map[Client]bool
	closed bool
	mu     sync.RWMutex
}

func New() *Hub {
	return &Hub{
		games: make(map[int64]map[Client]bool),
	}
}

// Subscribe registers a new client for gameID and returns it.
func (h *Hub) Subscribe(gameID int64, buffer int) Client {
	client := make(Client, buffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(client)
		return client
	}

	if _, ok := h.games[gameID]; !ok {
		h.games[gameID] = make(map[Client]bool)
	}
	h.games[gameID][client] = true
	return client
}

// Unsubscribe removes a client and closes its channel.
func (h *Hub) Unsubscribe(gameID int64, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.games[gameID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(h.games, gameID)
			}
		}
	}
}

// Close ends every subscription. Later subscribers get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for gameID, clients := range h.games {
		for client := range clients {
			close(client)
		}
		delete(h.games, gameID)
	}
}

// Subscribers reports how many clients listen on gameID.
func (h *Hub) Subscribers(gameID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}

// Broadcast sends event to every subscriber of gameID. Full clients miss the event.
func (h *Hub) Broadcast(gameID int64, event Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.games[gameID]
	if !ok {
		return nil
	}
	messageBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	for client := range clients {
		select {
		case client <- messageBytes:
		default:
		}
	}
	return nil
}
