package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camino_routes/internal/trail"
)

var upgrader = websocket.Upgrader{}

func serve(t *testing.T, h *Hub, routeID string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.Register(routeID, conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.Clients() == n }, time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastsToSubscribers(t *testing.T) {
	t.Parallel()

	h := NewHub()
	defer h.Close()

	all := serve(t, h, "")
	one := serve(t, h, "camino-ingles")
	other := serve(t, h, "via-francigena")
	waitClients(t, h, 3)

	route := trail.Route{RouteID: "camino-ingles", RouteName: "Camino Inglés"}
	h.Publish(NewEvent(RouteUpdated, route))

	for _, conn := range []*websocket.Conn{all, one} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var ev Event
		require.NoError(t, conn.ReadJSON(&ev))
		assert.Equal(t, RouteUpdated, ev.Type)
		assert.Equal(t, "camino-ingles", ev.RouteID)
		assert.Equal(t, "Camino Inglés", ev.Route["route_name"])
	}

	require.NoError(t, other.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var ev Event
	assert.Error(t, other.ReadJSON(&ev))
}

func TestHub_Unregister(t *testing.T) {
	t.Parallel()

	h := NewHub()
	defer h.Close()

	serve(t, h, "r")
	waitClients(t, h, 1)

	h.mu.Lock()
	var conn *websocket.Conn
	for c := range h.clients["r"] {
		conn = c
	}
	h.mu.Unlock()

	h.Unregister("r", conn)
	assert.Equal(t, 0, h.Clients())
}
