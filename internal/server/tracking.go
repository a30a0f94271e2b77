package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/interaction"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// TrackingSource supplies the current tracking state for broadcast.
type TrackingSource interface {
	TrackingState() interaction.TrackingState
}

// TrackingHandler broadcasts real-time tracking state via WebSocket.
type TrackingHandler struct {
	source  TrackingSource
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewTrackingHandler creates a new TrackingHandler with the given source.
func NewTrackingHandler(source TrackingSource) *TrackingHandler {
	h := &TrackingHandler{
		source:  source,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *TrackingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast sends tracking state to all connected clients.
func (h *TrackingHandler) broadcast() {
	ticker := time.NewTicker(66 * time.Millisecond) // ~15 FPS
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}
		h.mu.RUnlock()

		state := h.source.TrackingState()

		msg, _ := json.Marshal(map[string]any{
			"observation": state.Observation,
			"pinching":    state.Pinching,
			"selection":   state.Selection,
			"timestamp":   time.Now().UnixMilli(),
		})

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
