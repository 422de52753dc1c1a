package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"educenter/internal/logger"
	"educenter/internal/middleware"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
)

type clientMessage struct {
	Type string `json:"type"`
}

// Handler upgrades authenticated requests to websocket connections. Clients
// only receive events; the one inbound message understood is "ping".
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler builds the websocket handler. An empty allowedOrigins accepts any
// origin.
func NewHandler(hub *Hub, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

// ServeWS handles GET /ws?token=JWT. JWTAuth must run first.
func (h *Handler) ServeWS(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	log := logger.WithContext(c.Request.Context())

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "error", err)
		return
	}

	cl := h.hub.Register(actor.UserID, actor.CenterID, conn)
	log.Info("websocket connected")
	defer func() {
		h.hub.Unregister(cl)
		log.Info("websocket disconnected")
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go pingLoop(cl, done)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read error", "error", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if msg.Type == "ping" {
			_ = cl.writeJSON(NewPongEvent())
		}
	}
}

func pingLoop(c *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}
