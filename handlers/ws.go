// handlers/ws.go - WebSocket notification hub
package handlers

import (
	"log"
	"sync"

	"arise/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Send channel buffer size per connection
const sendBufferSize = 32

type wsClient struct {
	userID uint
	conn   *websocket.Conn
	send   chan services.Event
}

// Hub fans progression events out to a user's open connections. It is
// the services.Notifier used by the whole handler package.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*wsClient]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[*wsClient]bool)}
}

// Publish delivers an event to every connection of one user. Slow
// consumers get dropped messages, not a blocked progression pipeline.
func (h *Hub) Publish(userID uint, event services.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.send <- event:
		default:
		}
	}
}

func (h *Hub) register(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.userID] == nil {
		h.clients[client.userID] = make(map[*wsClient]bool)
	}
	h.clients[client.userID][client] = true
}

func (h *Hub) unregister(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.clients[client.userID]; ok {
		delete(conns, client)
		if len(conns) == 0 {
			delete(h.clients, client.userID)
		}
	}
}

// WebSocketUpgrade rejects plain HTTP requests on the ws route.
func WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// WebSocketHandler streams progression events to the authenticated user.
// Locals are populated by the auth middleware before the upgrade.
func WebSocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		var userID uint
		switch id := conn.Locals("userId").(type) {
		case float64:
			userID = uint(id)
		case uint:
			userID = id
		default:
			conn.Close()
			return
		}

		client := &wsClient{
			userID: userID,
			conn:   conn,
			send:   make(chan services.Event, sendBufferSize),
		}
		hub.register(client)
		defer hub.unregister(client)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				// Clients only listen; reads just detect disconnects.
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case event := <-client.send:
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("ws write to user %d failed: %v", userID, err)
					return
				}
			case <-done:
				return
			}
		}
	})
}
