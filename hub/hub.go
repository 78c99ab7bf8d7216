// Package hub implements the messaging hub between components: a
// single-mutex, single-condvar event box. Producers post events keyed by
// kind; only the most recent value per kind is retained between pickups,
// and the consumer atomically takes and clears the whole pending map.
package hub

import (
	"sync"
)

// EventKind identifies the kind of an event posted to the Hub.
type EventKind int

const (
	// EvtReadNew is posted by the reader when new lines arrived
	EvtReadNew EventKind = iota
	// EvtReadFin is posted by the reader when the source hit EOF.
	// It is delivered at most once.
	EvtReadFin
	// EvtSearchNew is posted by the input loop when the query or the
	// caret changed. Its payload is a QuerySnapshot.
	EvtSearchNew
	// EvtQuit asks the searcher to wind down
	EvtQuit
)

// QuerySnapshot is the payload of an EvtSearchNew event: the query text
// and the caret position (in characters) at the time the event fired.
type QuerySnapshot struct {
	Text    string
	CursorX int
}

// Events is the map of pending events handed to the Wait callback.
type Events map[EventKind]interface{}

// Clear removes all pending events
func (e Events) Clear() {
	for k := range e {
		delete(e, k)
	}
}

// Hub acts as the messaging hub between the reader, the searcher and the
// input loop. Events are idempotent: emitting the same kind twice before
// the consumer picks them up coalesces into the latest value.
type Hub struct {
	mutex   sync.Mutex
	cond    *sync.Cond
	pending Events
}

// New creates a new Hub
func New() *Hub {
	h := &Hub{
		pending: Events{},
	}
	h.cond = sync.NewCond(&h.mutex)
	return h
}

// Emit posts an event of the given kind, replacing any pending value of
// the same kind, and wakes up the consumer.
func (h *Hub) Emit(kind EventKind, value interface{}) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.pending[kind] = value
	h.cond.Broadcast()
}

// Wait blocks until at least one event is pending, then invokes fn with
// the pending map. fn runs under the hub mutex; it must clear the events
// it consumed (usually all of them, via Events.Clear).
func (h *Hub) Wait(fn func(Events)) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for len(h.pending) == 0 {
		h.cond.Wait()
	}
	fn(h.pending)
}

// Take atomically snapshots and clears the pending map. It does not
// block: an empty map is returned when nothing is pending.
func (h *Hub) Take() Events {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	snapshot := h.pending
	h.pending = Events{}
	return snapshot
}

// Peek reports whether an event of the given kind is pending without
// consuming it. The searcher polls this between batches so that fresh
// keystrokes can abort an in-flight match pass.
func (h *Hub) Peek(kind EventKind) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	_, ok := h.pending[kind]
	return ok
}
