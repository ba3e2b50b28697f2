package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types published by the services layer.
const (
	EventOrderCreated       = "order.created"
	EventOrderPaid          = "order.paid"
	EventTicketCreated      = "kitchen.ticket.created"
	EventTicketStatusChange = "kitchen.ticket.status_changed"
)

// DefaultBufferSize is the per-establishment replay buffer capacity.
const DefaultBufferSize = 100

// Event is a notification delivered to streaming clients of one
// establishment.
type Event struct {
	ID              string      `json:"id"`
	Type            string      `json:"type"`
	EstablishmentID uint        `json:"establishment_id"`
	Payload         interface{} `json:"payload"`
	CreatedAt       time.Time   `json:"created_at"`
}

type subscriber chan Event

// Hub fans events out to streaming connections, keyed by establishment.
// It also keeps a bounded ring buffer of recent events per establishment so
// reconnecting kitchen displays can catch up without polling.
//
// The hub is owned by main: constructed at startup, passed to the services
// that publish, and closed on shutdown.
type Hub struct {
	mu      sync.Mutex
	bufSize int
	buffers map[uint][]Event
	subs    map[uint]map[subscriber]bool
	closed  bool
}

// NewHub creates a hub with the given replay buffer capacity per
// establishment. A size of zero or less falls back to DefaultBufferSize.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	return &Hub{
		bufSize: bufSize,
		buffers: make(map[uint][]Event),
		subs:    make(map[uint]map[subscriber]bool),
	}
}

// Publish records the event in the establishment's ring buffer and delivers
// it to every live subscriber. Slow subscribers are skipped rather than
// blocking the publishing request.
func (h *Hub) Publish(establishmentID uint, eventType string, payload interface{}) Event {
	ev := Event{
		ID:              uuid.NewString(),
		Type:            eventType,
		EstablishmentID: establishmentID,
		Payload:         payload,
		CreatedAt:       time.Now(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ev
	}

	buf := append(h.buffers[establishmentID], ev)
	if len(buf) > h.bufSize {
		buf = buf[len(buf)-h.bufSize:]
	}
	h.buffers[establishmentID] = buf

	for sub := range h.subs[establishmentID] {
		select {
		case sub <- ev:
		default:
		}
	}
	return ev
}

// Subscribe registers a new listener for one establishment and returns the
// event channel plus a cancel function. The cancel function is safe to call
// more than once. Subscribing to a closed hub returns an already-closed
// channel, so a streaming handler racing shutdown exits immediately instead
// of blocking on a channel nothing will ever close.
func (h *Hub) Subscribe(establishmentID uint) (<-chan Event, func()) {
	sub := make(subscriber, 16)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub)
		return sub, func() {}
	}
	if h.subs[establishmentID] == nil {
		h.subs[establishmentID] = make(map[subscriber]bool)
	}
	h.subs[establishmentID][sub] = true
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			// Close only removes subscriptions still registered, so a cancel
			// racing hub shutdown cannot close the channel twice.
			if set, ok := h.subs[establishmentID]; ok && set[sub] {
				delete(set, sub)
				close(sub)
			}
		})
	}
	return sub, cancel
}

// Recent returns a copy of the establishment's buffered events, oldest first.
func (h *Hub) Recent(establishmentID uint) []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	buf := h.buffers[establishmentID]
	out := make([]Event, len(buf))
	copy(out, buf)
	return out
}

// Close tears the hub down. Subsequent publishes are dropped and all
// subscriber channels are closed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, set := range h.subs {
		for sub := range set {
			close(sub)
		}
	}
	h.subs = make(map[uint]map[subscriber]bool)
}
