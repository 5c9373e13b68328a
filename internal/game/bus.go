// Package game adapts the page-embedded game engine to the server: a named
// event bus, the engine handle, and the mount that ties one engine instance
// to a page's lifetime.
package game

import "sync"

// Event names
const (
	EventSceneReady = "current-scene-ready"
	EventUserReady  = "user-ready"
)

// Listener receives an event payload
type Listener func(payload any)

// Subscription identifies one registered listener
type Subscription uint64

// Bus is a named-event pub/sub
type Bus struct {
	mu        sync.RWMutex
	next      Subscription
	listeners map[string]map[Subscription]Listener
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{listeners: make(map[string]map[Subscription]Listener)}
}

// On registers a listener for event
func (b *Bus) On(event string, l Listener) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	if b.listeners[event] == nil {
		b.listeners[event] = make(map[Subscription]Listener)
	}
	b.listeners[event][b.next] = l
	return b.next
}

// Off removes a listener. Removing twice is a no-op.
func (b *Bus) Off(event string, sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.listeners[event], sub)
	if len(b.listeners[event]) == 0 {
		delete(b.listeners, event)
	}
}

// Emit calls every listener of event and reports how many there were.
// Listeners run outside the bus lock and may call On or Off.
func (b *Bus) Emit(event string, payload any) int {
	b.mu.RLock()
	ls := make([]Listener, 0, len(b.listeners[event]))
	for _, l := range b.listeners[event] {
		ls = append(ls, l)
	}
	b.mu.RUnlock()

	for _, l := range ls {
		l(payload)
	}
	return len(ls)
}

// Listeners returns the number of listeners for event
func (b *Bus) Listeners(event string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[event])
}
