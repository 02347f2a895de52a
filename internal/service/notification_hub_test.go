package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubRegisterAndSend(t *testing.T) {
	hub := NewHub(nil)
	stream := hub.Register("u1", 2)

	require.NoError(t, hub.Send("u1", Event{Type: "daily_report", Payload: "r1"}))
	event := <-stream
	assert.Equal(t, "daily_report", event.Type)
	assert.Equal(t, "r1", event.Payload)
	assert.Equal(t, 1, hub.Connected())
}

func TestHubRegisterReplacesPreviousStream(t *testing.T) {
	hub := NewHub(nil)
	first := hub.Register("u1", 1)
	second := hub.Register("u1", 1)

	// The first stream is closed so a stale consumer unblocks.
	_, open := <-first
	assert.False(t, open)

	require.NoError(t, hub.Send("u1", Event{Type: "ping"}))
	event := <-second
	assert.Equal(t, "ping", event.Type)
	assert.Equal(t, 1, hub.Connected())
}

func TestHubSendToMissingUser(t *testing.T) {
	hub := NewHub(nil)

	err := hub.Send("nobody", Event{Type: "ping"})
	require.Error(t, err)
}

func TestHubSendDropsStalledConsumer(t *testing.T) {
	hub := NewHub(nil)
	stream := hub.Register("u1", 1)

	require.NoError(t, hub.Send("u1", Event{Type: "ping"}))
	// Second send finds the buffer full and evicts the stream.
	err := hub.Send("u1", Event{Type: "ping"})
	require.Error(t, err)
	assert.Equal(t, 0, hub.Connected())

	// The buffered event is still readable, then the channel closes.
	_, open := <-stream
	assert.True(t, open)
	_, open = <-stream
	assert.False(t, open)
}

func TestHubUnregisterOnlyRemovesOwnStream(t *testing.T) {
	hub := NewHub(nil)
	stale := hub.Register("u1", 1)
	current := hub.Register("u1", 1)

	// Unregistering with the superseded channel must not evict the
	// replacement registered afterwards.
	hub.Unregister("u1", stale)
	assert.Equal(t, 1, hub.Connected())

	hub.Unregister("u1", current)
	assert.Equal(t, 0, hub.Connected())
	_, open := <-current
	assert.False(t, open)
}

func TestHubBroadcastCountsDeliveries(t *testing.T) {
	hub := NewHub(nil)
	a := hub.Register("a", 1)
	b := hub.Register("b", 1)

	delivered := hub.Broadcast([]string{"a", "b", "offline"}, Event{Type: "announcement"})
	assert.Equal(t, 2, delivered)
	assert.Equal(t, "announcement", (<-a).Type)
	assert.Equal(t, "announcement", (<-b).Type)
}
