package socket

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialTestClient upgrades one connection against the hub and returns the
// client side.
func dialTestClient(t *testing.T, hub *Hub, userID string) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	registered := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(userID, conn)
		close(registered)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("client was never registered in the hub")
	}
	return client
}

// Two lifecycle transitions can push to the same terminal at the same time;
// every event must still arrive intact.
func TestNotifyStatusConcurrent(t *testing.T) {
	hub := NewHub()
	client := dialTestClient(t, hub, "POS-SCL-001")

	const events = 20
	var wg sync.WaitGroup
	for i := 0; i < events; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			hub.NotifyStatus("POS-SCL-001", fmt.Sprintf("DOC-2026-%06d", i+1), "signed")
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i := 0; i < events; i++ {
		require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
		var ev StatusEvent
		require.NoError(t, client.ReadJSON(&ev))
		assert.Equal(t, "document_status", ev.Event)
		assert.Equal(t, "signed", ev.Status)
		seen[ev.DocumentNumber] = true
	}
	assert.Len(t, seen, events)
}

func TestNotifyStatusOfflineClient(t *testing.T) {
	hub := NewHub()
	// No panic and no error path for a terminal that never connected.
	hub.NotifyStatus("POS-SCL-099", "DOC-2026-000001", "rejected")
	assert.NoError(t, hub.Send("POS-SCL-099", []byte("x")))
}

func TestUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	client := dialTestClient(t, hub, "POS-SCL-001")

	hub.NotifyStatus("POS-SCL-001", "DOC-2026-000001", "completed")
	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev StatusEvent
	require.NoError(t, client.ReadJSON(&ev))
	assert.Equal(t, "DOC-2026-000001", ev.DocumentNumber)

	hub.Unregister("POS-SCL-001")
	assert.NoError(t, hub.Send("POS-SCL-001", []byte("x")))
}
