package notify

import (
	"encoding/binary"
	"errors"
	"io"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/trng-go/types"
)

type recordingHub struct {
	mu  sync.Mutex
	got []*types.Notification
}

func (h *recordingHub) Broadcast(n *types.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.got = append(h.got, n)
}

// listenNotify serves one framed notification and answers with reply.
func listenNotify(t *testing.T, reply string) (string, <-chan types.Notification) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notify.sock")
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	out := make(chan types.Notification, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		lengthBuf := make([]byte, 4)
		if _, err := io.ReadFull(conn, lengthBuf); err != nil {
			return
		}
		payload := make([]byte, binary.LittleEndian.Uint32(lengthBuf))
		if _, err := io.ReadFull(conn, payload); err != nil {
			return
		}
		var n types.Notification
		if err := sonic.Unmarshal(payload, &n); err == nil {
			out <- n
		}
		_, _ = conn.Write([]byte(reply))
	}()
	return path, out
}

func TestSendNotification(t *testing.T) {
	path, got := listenNotify(t, `{"status":"ok"}`)

	err := SendNotification(&types.Notification{Type: types.NotifyTypeGenerateStart, Title: "Connecting"}, path)
	require.NoError(t, err)

	select {
	case n := <-got:
		assert.Equal(t, types.NotifyTypeGenerateStart, n.Type)
		assert.Equal(t, "Connecting", n.Title)
	case <-time.After(time.Second):
		t.Fatal("notification not received")
	}
}

func TestSendNotificationServerError(t *testing.T) {
	path, _ := listenNotify(t, `{"error":"busy"}`)

	err := SendNotification(&types.Notification{Type: types.NotifyTypeCommandSent}, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "busy")
}

func TestSendNotificationMissingSocket(t *testing.T) {
	err := SendNotification(&types.Notification{}, filepath.Join(t.TempDir(), "absent.sock"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPublishBroadcastsToHub(t *testing.T) {
	h := &recordingHub{}
	SetHub(h)
	SetSocketPath("")
	t.Cleanup(func() { SetHub(nil) })

	assert.True(t, NotifyWSEnabled())
	GenerateStarted("192.168.4.1:80")
	GenerateSucceeded(12, 4)
	GenerateFailed(errors.New("boom"))
	CommandSent(types.CommandSelect, types.SendStatusSent)

	h.mu.Lock()
	defer h.mu.Unlock()
	require.Len(t, h.got, 4)
	assert.Equal(t, types.NotifyTypeGenerateStart, h.got[0].Type)
	assert.Equal(t, 12, h.got[1].Data["length"])
	assert.Equal(t, "boom", h.got[2].Message)
	assert.Equal(t, "select", h.got[3].Data["command"])
	assert.Equal(t, "sent", h.got[3].Data["status"])
}

func TestPublishWithoutSinks(t *testing.T) {
	SetHub(nil)
	SetSocketPath("")
	assert.False(t, NotifyWSEnabled())
	Publish(&types.Notification{Type: types.NotifyTypeGenerateStart})
	Publish(nil)
}

func TestPublishFlushDeliversToSocket(t *testing.T) {
	path, got := listenNotify(t, `{"status":"ok"}`)
	SetHub(nil)
	SetSocketPath(path)
	t.Cleanup(func() { SetSocketPath("") })

	CommandSent(types.CommandUp, types.SendStatusSent)
	require.True(t, Flush(2*UnixSocketTimeout))

	select {
	case n := <-got:
		assert.Equal(t, types.NotifyTypeCommandSent, n.Type)
	default:
		t.Fatal("notification not delivered before Flush returned")
	}
}

func TestFlushWithNothingPending(t *testing.T) {
	assert.True(t, Flush(10*time.Millisecond))
}
