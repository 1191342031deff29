package realtime

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lusionbeatz-backend/events"
)

func TestHubBroadcastsEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	r := gin.New()
	r.GET("/live", hub.ServeWS)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/live", nil)
	require.NoError(t, err)
	defer conn.Close()

	// Registration happens asynchronously; keep publishing until the client sees one
	deadline := time.Now().Add(2 * time.Second)
	_ = conn.SetReadDeadline(deadline)
	go func() {
		for time.Now().Before(deadline) {
			_ = hub.Publish(events.Event{Kind: events.SampleUploaded, Data: "s1"})
			time.Sleep(50 * time.Millisecond)
		}
	}()

	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev events.Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, events.SampleUploaded, ev.Kind)
	assert.Equal(t, "s1", ev.Data)
}

func TestPublishReportsFullQueue(t *testing.T) {
	hub := NewHub() // not running, nothing drains the queue
	for i := 0; i < cap(hub.broadcast); i++ {
		require.NoError(t, hub.Publish(events.Event{Kind: events.OrderCreated}))
	}
	assert.ErrorIs(t, hub.Publish(events.Event{Kind: events.OrderCreated}), ErrHubBusy)
}
