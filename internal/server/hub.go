package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait = 2 * time.Second
	hubQueueLen = 64
)

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub fans connection events out to every WebSocket subscriber
type Hub struct {
	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	queue   chan any
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*wsClient]struct{}),
		queue:   make(chan any, hubQueueLen),
		log:     log,
	}
}

// Publish queues v for Run to broadcast. It never blocks; when the queue is
// full the event is dropped.
func (h *Hub) Publish(v any) {
	select {
	case h.queue <- v:
	default:
		h.log.Warn("event queue full, dropping event")
	}
}

// Run broadcasts queued events until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case v := <-h.queue:
			h.Broadcast(v)
		}
	}
}

func (h *Hub) add(conn *websocket.Conn) *wsClient {
	c := &wsClient{conn: conn}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.conn.Close()
}

// Len returns the number of connected subscribers
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends v as JSON to every subscriber. Clients that fail the write
// are dropped.
func (h *Hub) Broadcast(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.log.Error("encoding event", zap.Error(err))
		return
	}

	h.mu.RLock()
	var failed []*wsClient
	for c := range h.clients {
		if err := c.write(b); err != nil {
			failed = append(failed, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range failed {
		h.log.Debug("dropping event subscriber", zap.String("remote", c.conn.RemoteAddr().String()))
		h.remove(c)
	}
}
