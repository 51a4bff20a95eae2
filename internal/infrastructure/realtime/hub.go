// Package realtime keeps the live connection registry. At most one connection is
// held per user; events are pushed best-effort with no acknowledgment or replay.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event types pushed to clients.
const (
	EventNewCase         = "NEW_CASE"
	EventCaseAccepted    = "CASE_ACCEPTED"
	EventReportCompleted = "REPORT_COMPLETED"
)

// Event is the wire format of every server push.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Client is one live connection. Send is drained by the connection's writer and
// closed by the hub when the client is unregistered or replaced.
type Client struct {
	UserID uuid.UUID
	Role   string
	Send   chan []byte
}

// NewClient creates a client with a buffered send queue.
func NewClient(userID uuid.UUID, role string, buffer int) *Client {
	if buffer <= 0 {
		buffer = 1
	}
	return &Client{
		UserID: userID,
		Role:   role,
		Send:   make(chan []byte, buffer),
	}
}

// Hub is the registry of live connections keyed by user id.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
	log     *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*Client),
		log:     log,
	}
}

// Register makes client the user's current connection. A previous connection for the
// same user is dropped and its send queue closed.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if prev, ok := h.clients[client.UserID]; ok && prev != client {
		close(prev.Send)
		h.log.Infof("Live connection replaced: user=%s", client.UserID)
	}
	h.clients[client.UserID] = client
}

// Unregister removes client if it is still the user's current connection and reports
// whether it did. A client that was already replaced is left alone.
func (h *Hub) Unregister(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	current, ok := h.clients[client.UserID]
	if !ok || current != client {
		return false
	}
	delete(h.clients, client.UserID)
	close(client.Send)
	return true
}

// Send pushes event to the user's live connection. It never blocks: when the user is
// not connected or the queue is full the event is dropped and false is returned.
func (h *Hub) Send(userID uuid.UUID, event Event) bool {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Warnf("Failed to marshal %s event: %+v", event.Type, err)
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[userID]
	if !ok {
		return false
	}

	select {
	case client.Send <- data:
		return true
	default:
		h.log.Warnf("Dropped %s event for user %s: send queue full", event.Type, userID)
		return false
	}
}

// IsConnected reports whether the user currently holds a live connection.
func (h *Hub) IsConnected(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// ClientCount returns the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close drops every connection. Used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		close(client.Send)
		delete(h.clients, id)
	}
}
