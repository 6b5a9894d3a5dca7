package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	EventFileCreated    = "file_created"
	EventFileUpdated    = "file_updated"
	EventFileDeleted    = "file_deleted"
	EventShareUpdated   = "share_updated"
	EventAccountUpdated = "account_updated"
)

// Event is pushed to every open connection of one user.
type Event struct {
	Type   string `json:"type"`
	FileID int64  `json:"file_id,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Hub struct {
	clients    map[int64]map[*Client]bool
	mu         sync.RWMutex
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
	logger     logrus.FieldLogger
}

func NewHub(logger logrus.FieldLogger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)
		case client := <-h.Unregister:
			h.unregisterClient(client)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Attach hands a new connection to the hub. It reports false once the hub
// has stopped.
func (h *Hub) Attach(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) detach(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.UserID]; !ok {
		h.clients[client.UserID] = make(map[*Client]bool)
	}
	h.clients[client.UserID][client] = true
	h.logger.WithField("user_id", client.UserID).Debug("websocket client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if userClients, ok := h.clients[client.UserID]; ok {
		if _, ok := userClients[client]; ok {
			delete(userClients, client)
			close(client.send)
			if len(userClients) == 0 {
				delete(h.clients, client.UserID)
			}
			h.logger.WithField("user_id", client.UserID).Debug("websocket client unregistered")
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, userClients := range h.clients {
		for client := range userClients {
			close(client.send)
		}
		delete(h.clients, userID)
	}
}

// ClientCount returns the number of open connections for userID.
func (h *Hub) ClientCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) PublishEvent(userID int64, eventData []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if userClients, ok := h.clients[userID]; ok {
		for client := range userClients {
			select {
			case client.send <- eventData:
			default:
				h.logger.WithField("user_id", userID).Warn("websocket send buffer is full, dropping message")
			}
		}
	}
}

func (h *Hub) Publish(userID int64, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.WithError(err).WithField("type", event.Type).Error("failed to encode websocket event")
		return
	}
	h.PublishEvent(userID, data)
}
