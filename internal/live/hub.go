// Package live pushes full collection snapshots to subscribers.
//
// The contract mirrors the store it fronts: subscribers get the complete
// current document set of a collection on every change, never a diff. Each
// consumer replaces its whole local cache per push, so a dropped
// intermediate snapshot is harmless as long as the latest one arrives.
package live

import (
	"sync"

	"checkinboard/internal/storage"
)

// Snapshot is the complete current state of one collection.
type Snapshot struct {
	Collection storage.Collection
	Docs       []storage.Document
}

// Hub fans snapshots out to per-collection subscribers.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[storage.Collection]map[int]chan Snapshot
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[storage.Collection]map[int]chan Snapshot)}
}

// Subscribe registers for snapshots of one collection. The returned channel
// has a one-slot buffer with latest-wins semantics: a slow consumer sees the
// newest snapshot, not a backlog. The unsubscribe func tears the channel
// down and is safe to call more than once.
func (h *Hub) Subscribe(c storage.Collection) (<-chan Snapshot, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[c] == nil {
		h.subs[c] = make(map[int]chan Snapshot)
	}
	id := h.nextID
	h.nextID++

	ch := make(chan Snapshot, 1)
	h.subs[c][id] = ch

	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[c][id]; ok {
			delete(h.subs[c], id)
			close(sub)
		}
	}
	return ch, unsubscribe
}

// Publish delivers a snapshot to every subscriber of its collection.
// Never blocks: if a subscriber has not consumed the previous snapshot,
// it is replaced by this one.
func (h *Hub) Publish(snap Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[snap.Collection] {
		select {
		case ch <- snap:
		default:
			// Drop the stale snapshot, then queue the fresh one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// Subscribers reports the current subscriber count for a collection.
func (h *Hub) Subscribers(c storage.Collection) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[c])
}
