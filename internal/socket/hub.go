// internal/socket/hub.go
package socket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks the websocket connections of logged-in users (POS terminals and
// certifier desks), keyed by user email.
type Hub struct {
	clients map[string]*websocket.Conn
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*websocket.Conn),
	}
}

// Register adds a client connection to the hub.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[userID] = conn
	log.Printf("WebSocket client registered: %s", userID)
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID]; ok {
		delete(h.clients, userID)
		log.Printf("WebSocket client unregistered: %s", userID)
	}
}

// Send delivers a message to one client. A missing client is not an error;
// the terminal may simply be offline. The full lock is held across the write:
// a websocket connection supports at most one concurrent writer.
func (h *Hub) Send(userID string, message []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.clients[userID]
	if !ok {
		log.Printf("WebSocket client not found, could not send message: %s", userID)
		return nil
	}

	return conn.WriteMessage(websocket.TextMessage, message)
}

// StatusEvent is pushed to the originating terminal when a document changes
// state.
type StatusEvent struct {
	Event          string `json:"event"` // always "document_status"
	DocumentNumber string `json:"documentNumber"`
	Status         string `json:"status"`
}

// NotifyStatus pushes a document status change to the given client, best
// effort.
func (h *Hub) NotifyStatus(userID, documentNumber, status string) {
	if userID == "" {
		return
	}
	msg, err := json.Marshal(StatusEvent{Event: "document_status", DocumentNumber: documentNumber, Status: status})
	if err != nil {
		return
	}
	if err := h.Send(userID, msg); err != nil {
		log.Printf("WebSocket send failed for %s: %v", userID, err)
	}
}
