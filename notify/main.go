package notify

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/moyoez/trng-go/tool"
	"github.com/moyoez/trng-go/types"
)

// NotifyWriteChunkSize is the chunk size when writing payload to Unix socket (avoid large single write).
const NotifyWriteChunkSize = 32 * 1024 // 32KB

var (
	// UnixSocketTimeout is the timeout for Unix socket operations
	UnixSocketTimeout = 3 * time.Second

	mu         sync.RWMutex
	socketPath string          // empty disables unix socket delivery
	hub        types.NotifyHub // nil disables websocket delivery

	pending sync.WaitGroup // unix socket sends still in flight
)

// SetSocketPath sets the unix socket of the presentation process, empty disables it.
func SetSocketPath(path string) {
	mu.Lock()
	defer mu.Unlock()
	socketPath = path
}

// SetHub sets the websocket hub status events are broadcast to.
func SetHub(h types.NotifyHub) {
	mu.Lock()
	defer mu.Unlock()
	hub = h
}

// NotifyWSEnabled reports whether a websocket hub is attached.
func NotifyWSEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return hub != nil
}

// Publish delivers a status event to every attached sink. It never blocks on the unix socket
// and never fails: a presentation layer that is not listening must not break generation.
func Publish(notification *types.Notification) {
	if notification == nil {
		return
	}
	mu.RLock()
	h, path := hub, socketPath
	mu.RUnlock()

	if h != nil {
		h.Broadcast(notification)
	}
	if path != "" {
		pending.Add(1)
		go func() {
			defer pending.Done()
			if err := SendNotification(notification, path); err != nil {
				tool.DefaultLogger.Debugf("Failed to send notification: %v", err)
			}
		}()
	}
}

// Flush waits until queued unix socket sends finish or timeout passes.
// One-shot commands call it before exiting. It reports whether everything was delivered or failed in time.
func Flush(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// SendNotification sends notification via Unix Domain Socket.
// Frame: 4 byte little-endian length, then the JSON payload. The peer may answer with a JSON object.
func SendNotification(notification *types.Notification, path string) error {
	if path == "" {
		return fmt.Errorf("unix socket path is empty")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("unix socket not found: %s (is the presentation process running?)", path)
	}

	var payload []byte
	var err error
	if notification != nil {
		payload, err = sonic.Marshal(notification)
		if err != nil {
			return fmt.Errorf("failed to serialize notification data: %v", err)
		}
	} else {
		payload = []byte("{}")
	}
	if len(payload) > NotifyWriteChunkSize {
		return fmt.Errorf("notification payload too large: %d bytes (max %d)", len(payload), NotifyWriteChunkSize)
	}

	conn, err := net.DialTimeout("unix", path, UnixSocketTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to Unix socket %s: %v", path, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close Unix socket connection: %v", err)
		}
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(UnixSocketTimeout)); err != nil {
		tool.DefaultLogger.Errorf("Failed to set write deadline: %v", err)
	}

	lengthBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lengthBuf, uint32(len(payload)))
	if _, err := conn.Write(lengthBuf); err != nil {
		return fmt.Errorf("failed to write length to Unix socket: %v", err)
	}
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("failed to write payload to Unix socket: %v", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(UnixSocketTimeout)); err != nil {
		tool.DefaultLogger.Errorf("Failed to set read deadline: %v", err)
	}
	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read response from Unix socket: %v", err)
	}
	if n > 0 {
		var response map[string]any
		if err := sonic.Unmarshal(buf[:n], &response); err != nil {
			tool.DefaultLogger.Debugf("Unix socket response (raw): %s", string(buf[:n]))
		} else if errMsg, ok := response["error"].(string); ok && errMsg != "" {
			return fmt.Errorf("server returned error: %s", errMsg)
		}
	}

	if notification != nil {
		tool.DefaultLogger.Debugf("[UnixSocket] Notification sent: %s - %s", notification.Type, notification.Title)
	}
	return nil
}
