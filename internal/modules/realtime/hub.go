package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"educenter/internal/logger"
)

const writeWait = 10 * time.Second

type client struct {
	userID   int64
	centerID int64
	conn     *websocket.Conn
	writeMu  sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *client) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Hub tracks one connection per user, grouped by center.
type Hub struct {
	connections map[int64]*client
	centers     map[int64]map[int64]*client
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[int64]*client),
		centers:     make(map[int64]map[int64]*client),
	}
}

// Register replaces any previous connection of the same user.
func (h *Hub) Register(userID, centerID int64, conn *websocket.Conn) *client {
	c := &client{userID: userID, centerID: centerID, conn: conn}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.connections[userID]; exists {
		_ = old.conn.Close()
		delete(h.centers[old.centerID], userID)
	}
	h.connections[userID] = c
	if h.centers[centerID] == nil {
		h.centers[centerID] = make(map[int64]*client)
	}
	h.centers[centerID][userID] = c
	return c
}

// Unregister drops c if it is still the user's current connection.
func (h *Hub) Unregister(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if cur, exists := h.connections[c.userID]; exists && cur == c {
		delete(h.connections, c.userID)
		delete(h.centers[c.centerID], c.userID)
		if len(h.centers[c.centerID]) == 0 {
			delete(h.centers, c.centerID)
		}
	}
	_ = c.conn.Close()
}

func (h *Hub) SendToUser(userID int64, message any) bool {
	h.mutex.RLock()
	c, exists := h.connections[userID]
	h.mutex.RUnlock()

	if !exists {
		return false
	}
	if err := c.writeJSON(message); err != nil {
		h.Unregister(c)
		return false
	}
	return true
}

// Publish sends an event to every connection in the center.
func (h *Hub) Publish(centerID int64, eventType string, payload any) {
	evt := Event{Type: eventType, CenterID: centerID, Payload: payload, SentAt: time.Now().UTC()}

	h.mutex.RLock()
	targets := make([]*client, 0, len(h.centers[centerID]))
	for _, c := range h.centers[centerID] {
		targets = append(targets, c)
	}
	h.mutex.RUnlock()

	for _, c := range targets {
		if err := c.writeJSON(evt); err != nil {
			logger.Get().Debug("dropping websocket client", "user_id", c.userID, "error", err)
			h.Unregister(c)
		}
	}
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.connections[userID]
	return exists
}

func (h *Hub) OnlineCount(centerID int64) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.centers[centerID])
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, c := range h.connections {
		_ = c.conn.Close()
		delete(h.connections, userID)
	}
	h.centers = make(map[int64]map[int64]*client)
}
