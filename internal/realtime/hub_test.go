package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bedflow/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dial(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_PushesEvents(t *testing.T) {
	hub := NewHub(8, zap.NewNop())
	conn := dial(t, hub)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	bed := models.Bed{ID: 3, Ward: models.WardICU, Status: models.BedAvailable, Type: models.BedCritical}
	require.NoError(t, hub.Notify(models.Event{Topic: models.TopicBedUpserted, Payload: bed}))
	require.NoError(t, hub.Notify(models.Event{Topic: models.TopicBedRemoved, Payload: uint(3)}))

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var first struct {
		Type models.Topic `json:"type"`
		Data models.Bed   `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, models.TopicBedUpserted, first.Type)
	assert.Equal(t, uint(3), first.Data.ID)
	assert.Equal(t, models.BedAvailable, first.Data.Status)

	var second map[string]json.RawMessage
	require.NoError(t, conn.ReadJSON(&second))
	assert.JSONEq(t, `"bed-removed"`, string(second["type"]))
	assert.JSONEq(t, `3`, string(second["data"]))
}

func TestHub_ClientDisconnectUnregisters(t *testing.T) {
	hub := NewHub(8, zap.NewNop())
	conn := dial(t, hub)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	conn.Close()

	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := NewHub(1, zap.NewNop())
	slow := &Client{ID: uuid.New(), send: make(chan []byte, 1), done: make(chan struct{})}
	hub.register(slow)

	event := models.Event{Topic: models.TopicQueueSnapshotChanged, Payload: []models.QueueEntry{}}
	require.NoError(t, hub.Notify(event))
	assert.Equal(t, 1, hub.Clients())

	require.NoError(t, hub.Notify(event))

	assert.Equal(t, 0, hub.Clients())
	select {
	case <-slow.done:
	default:
		t.Fatal("slow client was not closed")
	}
}

func TestHub_RunClosesClients(t *testing.T) {
	hub := NewHub(0, zap.NewNop())
	conn := dial(t, hub)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, hub.Run(ctx))

	assert.Equal(t, 0, hub.Clients())
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
