package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"educenter/internal/middleware"
	"educenter/internal/pkg/jwt"
)

func setupServer(t *testing.T) (*httptest.Server, *Hub, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	tokens := jwt.New("ws-secret", time.Hour)

	router := gin.New()
	router.GET("/ws", middleware.JWTAuth(tokens), NewHandler(hub, nil).ServeWS)

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return srv, hub, tokens
}

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitOnline(t *testing.T, hub *Hub, userID int64) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.IsOnline(userID) }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_PublishReachesOnlyTheCenter(t *testing.T) {
	srv, hub, tokens := setupServer(t)

	tokA, err := tokens.GenerateToken(1, 10, "staff")
	require.NoError(t, err)
	tokB, err := tokens.GenerateToken(2, 20, "staff")
	require.NoError(t, err)

	connA := dial(t, srv, tokA)
	connB := dial(t, srv, tokB)
	waitOnline(t, hub, 1)
	waitOnline(t, hub, 2)
	assert.Equal(t, 1, hub.OnlineCount(10))

	hub.Publish(10, "session.created", map[string]int64{"id": 5})

	_ = connA.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt Event
	require.NoError(t, connA.ReadJSON(&evt))
	assert.Equal(t, "session.created", evt.Type)
	assert.Equal(t, int64(10), evt.CenterID)

	_ = connB.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = connB.ReadMessage()
	assert.Error(t, err)
}

func TestHub_PingPong(t *testing.T) {
	srv, hub, tokens := setupServer(t)
	tok, err := tokens.GenerateToken(1, 10, "teacher")
	require.NoError(t, err)

	conn := dial(t, srv, tok)
	waitOnline(t, hub, 1)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt Event
	require.NoError(t, conn.ReadJSON(&evt))
	assert.Equal(t, "pong", evt.Type)
}

func TestHub_RejectsMissingToken(t *testing.T) {
	srv, _, _ := setupServer(t)

	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_ReconnectReplacesConnection(t *testing.T) {
	srv, hub, tokens := setupServer(t)
	tok, err := tokens.GenerateToken(1, 10, "staff")
	require.NoError(t, err)

	_ = dial(t, srv, tok)
	waitOnline(t, hub, 1)
	first := current(hub, 1)

	second := dial(t, srv, tok)
	require.Eventually(t, func() bool {
		c := current(hub, 1)
		return c != nil && c != first
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, hub.OnlineCount(10))

	require.True(t, hub.SendToUser(1, NewPongEvent()))
	_ = second.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt Event
	require.NoError(t, second.ReadJSON(&evt))
	assert.Equal(t, "pong", evt.Type)
}

func current(h *Hub, userID int64) *client {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.connections[userID]
}
