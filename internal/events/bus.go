// Package events is the same-process notification channel: components publish
// small change notifications and any open view subscribes to refresh itself.
package events

import "sync"

// Topics published by the storefront.
const (
	CartChanged   = "cart.changed"
	OrdersChanged = "orders.changed"
)

// Event is one notification. Scope identifies whose state changed (the
// device id for cart and order events).
type Event struct {
	Topic string
	Scope string
}

const subscriberBuffer = 16

// Bus fans events out to subscribers. Publish never blocks; a subscriber
// whose buffer is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]chan Event
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[int]chan Event)}
}

// Subscribe registers for a topic. The returned func unsubscribes and closes
// the channel; it is safe to call more than once.
func (b *Bus) Subscribe(topic string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]chan Event)
	}
	b.subs[topic][id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[topic], id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers the event to current subscribers of its topic.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[ev.Topic] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribers returns how many subscribers a topic has.
func (b *Bus) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
