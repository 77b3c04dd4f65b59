package notifyhub

import (
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/moyoez/trng-go/tool"
	"github.com/moyoez/trng-go/types"
)

// WriteTimeout bounds one write to a client. A client that stops reading is dropped
// instead of stalling generate and command calls.
var WriteTimeout = 2 * time.Second

// Hub holds WebSocket connections and broadcasts notifications to all clients.
// Implements types.NotifyHub.
type Hub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]struct{}
	// a websocket conn allows one writer at a time, generations may finish concurrently
	writeMu sync.Mutex
}

var _ types.NotifyHub = (*Hub)(nil)

// New creates a new notify hub.
func New() *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Register adds a WebSocket connection to the hub.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

// Unregister removes a WebSocket connection from the hub.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

// Len returns the number of live connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast sends the notification as JSON to all registered connections.
func (h *Hub) Broadcast(notification *types.Notification) {
	if notification == nil {
		return
	}
	payload, err := sonic.Marshal(notification)
	if err != nil {
		tool.DefaultLogger.Debugf("Failed to marshal notification: %v", err)
		return
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	for _, conn := range conns {
		if err := conn.SetWriteDeadline(time.Now().Add(WriteTimeout)); err == nil {
			err = conn.WriteMessage(websocket.TextMessage, payload)
			if err == nil {
				continue
			}
		}
		tool.DefaultLogger.Debugf("Dropping notify websocket client %s", conn.RemoteAddr())
		h.Unregister(conn)
		_ = conn.Close()
	}
}
