package realtime

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHub_BroadcastToRoom(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()
	defer hub.Stop()

	watcher := &Client{Hub: hub, Send: make(chan []byte, 4), Room: EventRoom(1)}
	other := &Client{Hub: hub, Send: make(chan []byte, 4), Room: EventRoom(2)}
	hub.Register <- watcher
	hub.Register <- other
	require.Eventually(t, func() bool {
		return hub.RoomSize(EventRoom(1)) == 1 && hub.RoomSize(EventRoom(2)) == 1
	}, time.Second, 5*time.Millisecond)

	hub.BroadcastToRoom(EventRoom(1), NewMessage(MessageSeedingUpdated, 1, map[string]int{"seeded": 3}))

	select {
	case raw := <-watcher.Send:
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, MessageSeedingUpdated, msg.Type)
		assert.Equal(t, "event:1", msg.RoomID)
	case <-time.After(time.Second):
		t.Fatal("watcher did not receive the message")
	}
	assert.Empty(t, other.Send)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()
	defer hub.Stop()

	c := &Client{Hub: hub, Send: make(chan []byte, 1), Room: "r"}
	hub.Register <- c
	hub.Unregister <- c

	require.Eventually(t, func() bool { return hub.RoomSize("r") == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-c.Send
	assert.False(t, open)

	assert.NotPanics(t, func() { hub.BroadcastToRoom("r", "ignored") })
}

func TestClientPumps(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()
	defer hub.Stop()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, EventRoom(9))
		hub.Register <- client
		go client.WritePump()
		go client.ReadPump()
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.RoomSize(EventRoom(9)) == 1 }, time.Second, 5*time.Millisecond)
	hub.BroadcastToRoom(EventRoom(9), NewMessage(MessageMatchUpdated, 9, nil))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), MessageMatchUpdated)
}
