package feed

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(func(*http.Request) bool { return true })
	r := gin.New()
	r.GET("/ws", hub.ServeWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForSubscribers(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Count() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHubBroadcast(t *testing.T) {
	hub, srv := newFeedServer(t)

	all := dial(t, srv, "")
	groupTwo := dial(t, srv, "?chit_group_id=2")
	waitForSubscribers(t, hub, 2)

	hub.Broadcast(1, "auction.recorded", map[string]int{"month_number": 3})

	all.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := all.ReadMessage()
	require.NoError(t, err)

	var event Event
	require.NoError(t, json.Unmarshal(msg, &event))
	assert.Equal(t, "auction.recorded", event.Type)
	assert.Equal(t, uint(1), event.GroupID)

	// the group 2 subscriber must not see group 1 events
	groupTwo.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = groupTwo.ReadMessage()
	assert.Error(t, err)
}

func TestHubRemovesClosedSubscriber(t *testing.T) {
	hub, srv := newFeedServer(t)

	conn := dial(t, srv, "")
	waitForSubscribers(t, hub, 1)

	conn.Close()
	waitForSubscribers(t, hub, 0)
}

func TestHubRejectsBadGroupID(t *testing.T) {
	_, srv := newFeedServer(t)

	resp, err := http.Get(srv.URL + "/ws?chit_group_id=abc")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
