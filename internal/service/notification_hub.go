package service

import (
	"sync"

	"go.uber.org/zap"

	appErrors "github.com/edulink-id/tutor-api/pkg/errors"
)

// Event is a single push notification delivered over a user's stream.
type Event struct {
	Type    string `json:"type"`
	Payload string `json:"payload"`
}

// Hub fans notifications out to connected users. Each user holds at most
// one stream; registering again replaces and closes the previous one.
type Hub struct {
	mu      sync.Mutex
	streams map[string]chan Event
	logger  *zap.Logger
}

// NewHub constructs an empty Hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{streams: make(map[string]chan Event), logger: logger}
}

// Register opens a stream for the user. An existing stream for the same
// user is closed and replaced.
func (h *Hub) Register(userID string, buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 8
	}
	ch := make(chan Event, buffer)
	h.mu.Lock()
	if prev, ok := h.streams[userID]; ok {
		close(prev)
	}
	h.streams[userID] = ch
	h.mu.Unlock()
	return ch
}

// Unregister drops the user's stream if it is still the registered one.
// The caller's channel must match, so a reconnect that already replaced
// the stream is left untouched.
func (h *Hub) Unregister(userID string, ch <-chan Event) {
	h.mu.Lock()
	if current, ok := h.streams[userID]; ok && current == ch {
		close(current)
		delete(h.streams, userID)
	}
	h.mu.Unlock()
}

// Send delivers one event to the user. A full or missing stream counts
// as not connected; a full stream is dropped so a stalled consumer does
// not hold the slot.
func (h *Hub) Send(userID string, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.streams[userID]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "user not connected")
	}
	select {
	case ch <- event:
		return nil
	default:
		close(ch)
		delete(h.streams, userID)
		h.logger.Sugar().Debugw("dropped stalled notification stream", "user_id", userID)
		return appErrors.Clone(appErrors.ErrNotFound, "user stream stalled")
	}
}

// Broadcast delivers the event to every recipient it can reach and
// returns how many deliveries succeeded. One unreachable recipient does
// not stop the rest.
func (h *Hub) Broadcast(userIDs []string, event Event) int {
	delivered := 0
	for _, id := range userIDs {
		if err := h.Send(id, event); err == nil {
			delivered++
		}
	}
	return delivered
}

// Connected reports how many users currently hold a stream.
func (h *Hub) Connected() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.streams)
}
