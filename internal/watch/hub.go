// Package watch provides the in-process change-notification side of the
// document store: writers publish a change per mutation and read-side
// consumers re-derive their views from the latest snapshot when notified,
// instead of patching state incrementally.
package watch

import (
	"sync"
)

// Change operation constants
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Collection name constants
const (
	CollectionVehicles    = "vehicles"
	CollectionObligations = "obligations"
	CollectionEntries     = "entries"
	CollectionLoans       = "loans"
)

// Event describes one record mutation
type Event struct {
	Collection string
	Op         string
	RecordID   uint
	VehicleID  uint
}

// Handler receives change events for a subscribed collection
type Handler func(Event)

// Hub fans record mutations out to subscribers. Delivery is asynchronous so
// a slow subscriber never blocks the write path.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]Handler
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]Handler)}
}

// Subscribe registers a handler for a collection's changes and returns the
// unsubscribe function. Subscriptions must be torn down when the owning
// session context ends.
func (h *Hub) Subscribe(collection string, fn Handler) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[collection] == nil {
		h.subs[collection] = make(map[int]Handler)
	}
	id := h.nextID
	h.nextID++
	h.subs[collection][id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[collection], id)
	}
}

// Publish delivers the event to every subscriber of its collection
func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	handlers := make([]Handler, 0, len(h.subs[e.Collection]))
	for _, fn := range h.subs[e.Collection] {
		handlers = append(handlers, fn)
	}
	h.mu.RUnlock()

	for _, fn := range handlers {
		go fn(e)
	}
}
