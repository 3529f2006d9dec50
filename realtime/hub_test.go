package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastReachesRegisteredClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{send: make(chan []byte, 4)}
	hub.register <- client

	hub.Broadcast(Event{Type: "asset", ImageID: 7, Task: "thumbnail", Status: "done", Timestamp: 1})

	select {
	case raw := <-client.send:
		var event Event
		require.NoError(t, json.Unmarshal(raw, &event))
		assert.Equal(t, "asset", event.Type)
		assert.Equal(t, uint(7), event.ImageID)
		assert.Equal(t, "done", event.Status)
	case <-time.After(5 * time.Second):
		t.Fatal("no event delivered to registered client")
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{send: make(chan []byte, 1)}
	hub.register <- client
	hub.unregister <- client

	select {
	case _, open := <-client.send:
		assert.False(t, open)
	case <-time.After(5 * time.Second):
		t.Fatal("send channel was not closed on unregister")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	healthy := &Client{send: make(chan []byte, 4)}
	hub.register <- healthy

	slow := &Client{send: make(chan []byte, 1)}
	slow.send <- []byte("backlog") // full buffer, every delivery fails
	hub.register <- slow

	hub.Broadcast(Event{Type: "zip", ProjectID: 3, Status: "processing", Timestamp: 1})
	hub.Broadcast(Event{Type: "zip", ProjectID: 3, Status: "done", Timestamp: 2})

	// once the healthy client has seen both events the first broadcast has
	// fully run, so the slow client must already be dropped
	for i := 0; i < 2; i++ {
		select {
		case <-healthy.send:
		case <-time.After(5 * time.Second):
			t.Fatal("healthy client did not receive broadcast")
		}
	}

	raw, open := <-slow.send
	require.True(t, open)
	assert.Equal(t, "backlog", string(raw))
	_, open = <-slow.send
	assert.False(t, open)
}
