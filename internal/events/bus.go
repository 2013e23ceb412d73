// Package events is a small synchronous publish/subscribe bus that lets
// kitchen parts react to each other without holding direct references.
package events

import (
	"sync"

	"github.com/hammamikhairi/ottokitchen/internal/logger"
)

// AddDirtyPlate is emitted when a delivered plate should come back dirty.
// The payload is unused.
const AddDirtyPlate = "add-dirty-plate"

// Handler receives an event payload.
type Handler func(payload any)

type subscription struct {
	id uint64
	fn Handler
}

// Bus dispatches named events to subscribers in subscription order.
type Bus struct {
	mu     sync.Mutex
	subs   map[string][]subscription
	nextID uint64
	log    *logger.Logger
}

// NewBus creates an empty bus.
func NewBus(log *logger.Logger) *Bus {
	return &Bus{
		subs: make(map[string][]subscription),
		log:  log,
	}
}

// Subscribe registers fn for name and returns a func that removes it.
func (b *Bus) Subscribe(name string, fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[name] = append(b.subs[name], subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[name]
		for i, s := range list {
			if s.id == id {
				b.subs[name] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Emit calls every subscriber of name synchronously and returns how many
// were called. Subscribers added during Emit are not called for this event.
func (b *Bus) Emit(name string, payload any) int {
	b.mu.Lock()
	list := append([]subscription(nil), b.subs[name]...)
	b.mu.Unlock()

	b.log.Debug("event %s -> %d subscriber(s)", name, len(list))
	for _, s := range list {
		s.fn(payload)
	}
	return len(list)
}
