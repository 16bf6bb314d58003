package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

const sendBuffer = 32

type client struct {
	playerID string
	send     chan []byte
}

func newClient(playerID string) *client {
	return &client{
		playerID: playerID,
		send:     make(chan []byte, sendBuffer),
	}
}

// Hub routes room notifications to the live connection of each player.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]*client
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[string]*client),
	}
}

// register binds the player to c, replacing an older connection.
func (that *Hub) register(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if old, ok := that.clients[c.playerID]; ok && old != c {
		close(old.send)
	}

	that.clients[c.playerID] = c
}

// unregister drops c unless the player already reconnected elsewhere.
// It reports whether c was the live connection.
func (that *Hub) unregister(c *client) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if current, ok := that.clients[c.playerID]; !ok || current != c {
		return false
	}

	delete(that.clients, c.playerID)
	close(c.send)

	return true
}

func (that *Hub) Broadcast(ctx context.Context, playerIDs []string, event string, payload any) {
	message, err := encode(event, "", payload)
	if err != nil {
		that.logger.Error("failed to encode event", "event", event, "error", err)
		return
	}

	for _, id := range playerIDs {
		that.deliver(ctx, id, message)
	}
}

func (that *Hub) Send(ctx context.Context, playerID, event string, payload any) {
	message, err := encode(event, "", payload)
	if err != nil {
		that.logger.Error("failed to encode event", "event", event, "error", err)
		return
	}

	that.deliver(ctx, playerID, message)
}

func (that *Hub) deliver(_ context.Context, playerID string, message []byte) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	c, ok := that.clients[playerID]
	if !ok {
		return
	}

	select {
	case c.send <- message:
	default:
		that.logger.Warn("send buffer full, dropping message", "playerID", playerID)
	}
}

func encode(action, id string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Message{ID: id, Action: action, Payload: body})
}
