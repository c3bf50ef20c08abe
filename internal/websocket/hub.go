// Package websocket pushes live run progress events to connected
// browser clients while the cleaning pipeline executes.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"surveyclean/internal/infrastructure"
)

// Message type constants for client dispatch
const (
	TypeConnection = "connection"

	// Levels attached to informational messages
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelError   = "error"
)

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Inbound messages to fan out to every client
	broadcast chan []byte

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	mu     sync.RWMutex
	logger *slog.Logger

	// Metrics
	totalConnections  int64
	activeConnections int64
	messagesSent      int64

	quit    chan struct{}
	running bool
}

// NewHub creates a new Hub instance with dependency injection
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	logger = logger.With(slog.String("component", "websocket.hub"))

	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logger,
		quit:       make(chan struct{}),
	}
}

// Start starts the hub's main loop in its own goroutine
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.Run()
}

// Run processes register, unregister and broadcast events until Shutdown
func (h *Hub) Run() {
	for {
		select {
		case <-h.quit:
			h.logger.Info("Hub shutting down")
			h.closeClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.totalConnections++
			h.activeConnections = int64(len(h.clients))
			count := len(h.clients)
			h.mu.Unlock()

			h.logger.Info("Client connected",
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr),
				slog.Int("active_clients", count))

			client.sendConnectionAck()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.activeConnections = int64(len(h.clients))
			count := len(h.clients)
			h.mu.Unlock()

			h.logger.Info("Client disconnected",
				slog.String("client_id", client.id),
				slog.Int("active_clients", count))

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
					h.messagesSent++
				default:
					// Slow client, drop the message rather than
					// block the whole broadcast
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Shutdown stops the hub loop and disconnects every client
func (h *Hub) Shutdown() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
}

func (h *Hub) closeClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.activeConnections = 0
}

// BroadcastUpdate sends a run progress event to all connected clients.
// It satisfies the operations progress sink interface.
func (h *Hub) BroadcastUpdate(eventType, step, status string, metadata interface{}) {
	message := map[string]interface{}{
		"type":      eventType,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if step != "" {
		message["step"] = step
	}
	if status != "" {
		message["status"] = status
	}
	if metadata != nil {
		message["data"] = metadata
	}

	h.BroadcastJSON(message)
}

// BroadcastJSON marshals and fans out a message to all connected clients
func (h *Hub) BroadcastJSON(message map[string]interface{}) {
	jsonData, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Error marshaling message",
			slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	running := h.running
	h.mu.RUnlock()
	if !running {
		return
	}

	select {
	case h.broadcast <- jsonData:
	case <-h.quit:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats reports connection counters for the health endpoint
func (h *Hub) Stats() map[string]int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return map[string]int64{
		"total_connections":  h.totalConnections,
		"active_connections": h.activeConnections,
		"messages_sent":      h.messagesSent,
	}
}
