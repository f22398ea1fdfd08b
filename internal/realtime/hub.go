package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"bedflow/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// DefaultSendBuffer is the number of frames queued per client before it is dropped
	DefaultSendBuffer = 64
)

// Message is the frame pushed to websocket clients
type Message struct {
	Type models.Topic `json:"type"`
	Data any          `json:"data"`
}

// Client is one connected websocket subscriber
type Client struct {
	ID   uuid.UUID
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *Client) close() {
	c.once.Do(func() { close(c.done) })
}

// Hub fans broadcaster events out to websocket clients. It never blocks the
// publisher: a client whose queue is full is disconnected.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]*Client
	upgrader   websocket.Upgrader
	sendBuffer int
	logger     *zap.Logger
}

func NewHub(sendBuffer int, logger *zap.Logger) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = DefaultSendBuffer
	}
	return &Hub{
		clients: make(map[uuid.UUID]*Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		sendBuffer: sendBuffer,
		logger:     logger,
	}
}

// Notify implements events.Observer
func (h *Hub) Notify(event models.Event) error {
	frame, err := json.Marshal(Message{Type: event.Topic, Data: event.Payload})
	if err != nil {
		return err
	}

	var slow []*Client
	h.mu.RLock()
	for _, client := range h.clients {
		select {
		case client.send <- frame:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Dropping slow websocket client", zap.String("client_id", client.ID.String()))
		h.unregister(client)
	}
	return nil
}

// ServeWS upgrades the request and starts the client's pumps
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("Websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		ID:   uuid.New(),
		conn: conn,
		send: make(chan []byte, h.sendBuffer),
		done: make(chan struct{}),
	}
	h.register(client)

	h.logger.Info("Websocket client connected",
		zap.String("client_id", client.ID.String()),
		zap.String("remote_addr", r.RemoteAddr))

	go h.writePump(client)
	go h.readPump(client)
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run blocks until ctx is cancelled, then disconnects every client
func (h *Hub) Run(ctx context.Context) error {
	<-ctx.Done()

	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[uuid.UUID]*Client)
	h.mu.Unlock()

	for _, client := range clients {
		client.close()
	}
	h.logger.Info("Websocket hub stopped", zap.Int("clients", len(clients)))
	return nil
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	delete(h.clients, client.ID)
	h.mu.Unlock()
	client.close()
}

// readPump only watches for the peer going away; inbound frames are ignored
func (h *Hub) readPump(client *Client) {
	defer h.unregister(client)

	client.conn.SetReadLimit(512)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
		h.logger.Info("Websocket client disconnected", zap.String("client_id", client.ID.String()))
	}()

	for {
		select {
		case frame := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-client.done:
			_ = client.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}
