package telemetry

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame struct {
	Time      float64 `json:"time"`
	Animation string  `json:"animation"`
}

func dial(t *testing.T, s *httptest.Server) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(s.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	hub := NewHub(nil)
	s := httptest.NewServer(hub.Handler())
	defer s.Close()

	a, b := dial(t, s), dial(t, s)
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.Broadcast(frame{Time: 1.5, Animation: "walk"}))

	for _, conn := range []*websocket.Conn{a, b} {
		var got frame
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, frame{Time: 1.5, Animation: "walk"}, got)
	}
}

func TestDisconnectedClientIsRemoved(t *testing.T) {
	hub := NewHub(nil)
	s := httptest.NewServer(hub.Handler())
	defer s.Close()

	conn := dial(t, s)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 5*time.Millisecond)
	assert.NoError(t, hub.Broadcast(frame{}))
}

func TestCloseDisconnectsClients(t *testing.T) {
	hub := NewHub(nil)
	s := httptest.NewServer(hub.Handler())
	defer s.Close()

	conn := dial(t, s)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	hub.Close()
	assert.Zero(t, hub.Clients())
	assert.ErrorIs(t, hub.Broadcast(frame{}), ErrHubClosed)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)

	u := "ws" + strings.TrimPrefix(s.URL, "http") + "/ws"
	_, _, err = websocket.DefaultDialer.Dial(u, nil)
	assert.Error(t, err)
}

func TestBroadcastRejectsUnencodable(t *testing.T) {
	hub := NewHub(nil)
	assert.Error(t, hub.Broadcast(func() {}))
}
