package store

import (
	"sync"

	"pathportal/internal/domain"
)

// Observer receives change events for the stores it subscribed to.
type Observer func(domain.ChangeEvent)

type subscription struct {
	id uint64
	fn Observer
}

type observers struct {
	mu   sync.Mutex
	next uint64
	subs []subscription
}

func (o *observers) subscribe(fn Observer) func() {
	if fn == nil {
		return func() {}
	}
	o.mu.Lock()
	o.next++
	id := o.next
	o.subs = append(o.subs, subscription{id: id, fn: fn})
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { o.unsubscribe(id) })
	}
}

func (o *observers) unsubscribe(id uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, sub := range o.subs {
		if sub.id == id {
			o.subs = append(o.subs[:i:i], o.subs[i+1:]...)
			return
		}
	}
}

func (o *observers) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.subs)
}

// notify calls observers in registration order. The list is copied first so
// an observer may unsubscribe itself.
func (o *observers) notify(ev domain.ChangeEvent) {
	o.mu.Lock()
	subs := make([]subscription, len(o.subs))
	copy(subs, o.subs)
	o.mu.Unlock()

	for _, sub := range subs {
		sub.fn(ev)
	}
}
