// Package bus implements the process-wide typed publish/subscribe registry for
// realtime events. It does no I/O and holds no queue: publishing with no
// subscribers drops the event silently.
package bus

import (
	"sync"

	"github.com/hoster-project/portal-sync/internal/core/domain"
)

// Handler consumes a single realtime event. Handlers run synchronously on the
// publishing goroutine, in subscription order; a slow handler blocks the rest.
type Handler func(domain.Event)

type subscription struct {
	handler Handler
}

// Bus is an explicit listener registry, constructed once at startup and passed
// to consumers through dependency injection rather than ambient global state.
type Bus struct {
	mu   sync.Mutex
	subs []*subscription
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{}
}

// Subscribe registers a handler and returns its unsubscribe function.
// Subscribing during a publish does not affect the broadcast in flight; the
// new handler only sees subsequent events. Unsubscribe is idempotent.
func (b *Bus) Subscribe(h Handler) func() {
	sub := &subscription{handler: h}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(sub) })
	}
}

// Publish invokes every currently subscribed handler with the event, in
// subscription order. The subscriber list is snapshotted up front, so handlers
// unsubscribed mid-broadcast still receive this event but none after it.
func (b *Bus) Publish(ev domain.Event) {
	b.mu.Lock()
	snapshot := make([]*subscription, len(b.subs))
	copy(snapshot, b.subs)
	b.mu.Unlock()

	for _, sub := range snapshot {
		sub.handler(ev)
	}
}

// SubscriberCount returns the number of live subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Bus) remove(sub *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}
