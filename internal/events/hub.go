// Package events fans committed domain events out to websocket
// subscribers. It is a thin adapter: the engines and the controller
// only ever return events, they never dispatch notifications.
package events

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"wealth-arena/internal/domain"
)

const (
	writeTimeout  = 10 * time.Second
	sendQueueSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The engine trusts its presentation layer; origin policy belongs
	// to the deployment in front of it.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Hub broadcasts domain events to all connected subscribers.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	logger  *log.Logger
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(log.Writer(), "events: ", log.LstdFlags)
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  logger,
	}
}

// Publish broadcasts events to every subscriber. Slow subscribers are
// dropped rather than allowed to stall the broadcast.
func (h *Hub) Publish(events ...domain.Event) {
	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			h.logger.Printf("marshal event %s: %v", e.Type, err)
			continue
		}

		h.mu.RLock()
		for c := range h.clients {
			select {
			case c.send <- payload:
			default:
				go h.drop(c)
			}
		}
		h.mu.RUnlock()
	}
}

// ServeWS upgrades an HTTP request into an event-feed subscription.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("websocket upgrade: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendQueueSize)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)
	go h.readLoop(c)
}

// SubscriberCount returns the number of connected clients.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects all subscribers.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, c)
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	_ = c.conn.Close()
}

func (h *Hub) writeLoop(c *client) {
	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.drop(c)
			return
		}
	}
}

// readLoop drains (and discards) inbound frames so pings and close
// frames are processed.
func (h *Hub) readLoop(c *client) {
	defer h.drop(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
