package store

import (
	"sync"

	"pathportal/internal/domain"
	"pathportal/internal/metrics"
	"pathportal/internal/persist"
)

// container is the lazily loaded, write-through state cell shared by the
// three stores.
type container[T any] struct {
	name      domain.StoreName
	key       string
	adapter   *persist.Adapter
	initial   func() T
	normalize func(T) T

	once    sync.Once
	writeMu sync.Mutex
	mu      sync.RWMutex
	value   T
	version uint64
	obs     observers
}

func newContainer[T any](name domain.StoreName, key string, adapter *persist.Adapter, initial func() T, normalize func(T) T) *container[T] {
	return &container[T]{
		name:      name,
		key:       key,
		adapter:   adapter,
		initial:   initial,
		normalize: normalize,
	}
}

func (c *container[T]) load() {
	c.once.Do(func() {
		v := persist.Load(c.adapter, c.key, c.initial())
		if c.normalize != nil {
			v = c.normalize(v)
		}
		c.mu.Lock()
		c.value = v
		c.mu.Unlock()
	})
}

func (c *container[T]) read(fn func(v T, version uint64)) {
	c.load()
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.value, c.version)
}

// mutate applies fn, persists the result and notifies observers, in that
// order, while holding the store's write lock.
func (c *container[T]) mutate(topicID domain.TopicID, fn func(T) T) {
	c.load()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	c.value = fn(c.value)
	c.version++
	ev := domain.ChangeEvent{Store: c.name, TopicID: topicID, Version: c.version}
	c.mu.Unlock()

	// Only writers replace c.value and writeMu is held, so reading it here
	// without mu cannot race with another mutation.
	persist.Save(c.adapter, c.key, c.value)
	metrics.StoreMutationsTotal.WithLabelValues(string(c.name)).Inc()

	c.obs.notify(ev)
}

func (c *container[T]) Version() uint64 {
	var out uint64
	c.read(func(_ T, version uint64) { out = version })
	return out
}

func (c *container[T]) Subscribe(fn Observer) func() {
	return c.obs.subscribe(fn)
}
