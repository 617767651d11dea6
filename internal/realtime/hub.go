// Package realtime fans notification events out to connected clients.
// The LISTEN/NOTIFY consumer publishes into the hub; the API's SSE stream
// endpoint subscribes per agent, so the notification center updates without
// polling.
package realtime

import (
	"encoding/json"
	"sync"
	"time"
)

// Event is a notification creation event as published by the database
// trigger.
type Event struct {
	ID        int             `json:"id"`
	AgentID   int             `json:"agent_id"`
	Category  string          `json:"category"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// subscriber channels are buffered; a client that cannot keep up drops
// events instead of blocking the publisher.
const subscriberBuffer = 16

// Hub is a thread-safe publish/subscribe fan-out keyed by agent.
type Hub struct {
	mu   sync.Mutex
	subs map[int]map[chan Event]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]map[chan Event]struct{})}
}

// Subscribe registers a client for one agent's events. The returned cancel
// function must be called when the client disconnects.
func (h *Hub) Subscribe(agentID int) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.subs[agentID] == nil {
		h.subs[agentID] = make(map[chan Event]struct{})
	}
	h.subs[agentID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if set, ok := h.subs[agentID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, agentID)
			}
		}
	}
	return ch, cancel
}

// Publish delivers an event to the agent's subscribers. Non-blocking: slow
// subscribers miss the event and catch up from the notifications list.
func (h *Hub) Publish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[e.AgentID] {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribers returns the number of connected clients, for health reporting.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, set := range h.subs {
		n += len(set)
	}
	return n
}
