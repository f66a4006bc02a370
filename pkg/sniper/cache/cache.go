// Package cache provides the TTL+LRU memo shared by the price and fundamentals decorators.
package cache

import (
	"sync"
	"time"
)

// TTL is a size-bounded cache whose entries expire after a fixed time-to-live.
type TTL[V any] struct {
	ttl  time.Duration
	size int
	now  func() time.Time

	mu    sync.Mutex
	items map[string]entry[V]
	order []string // simple LRU order, oldest at index 0
}

type entry[V any] struct {
	at  time.Time
	val V
}

// New creates a cache. A non-positive size keeps a single entry.
func New[V any](ttl time.Duration, size int) *TTL[V] {
	if size <= 0 {
		size = 1
	}
	return &TTL[V]{ttl: ttl, size: size, now: time.Now, items: make(map[string]entry[V])}
}

// WithClock replaces the time source; used by tests.
func (c *TTL[V]) WithClock(now func() time.Time) *TTL[V] {
	c.now = now
	return c
}

// Get returns a live entry and refreshes its LRU position.
func (c *TTL[V]) Get(k string) (V, bool) {
	var zero V
	c.mu.Lock()
	defer c.mu.Unlock()
	ent, ok := c.items[k]
	if !ok {
		return zero, false
	}
	if c.now().Sub(ent.at) > c.ttl {
		// expired; drop
		delete(c.items, k)
		c.removeFromOrderLocked(k)
		return zero, false
	}
	c.touchLocked(k)
	return ent.val, true
}

// Put stores v and evicts the least recently used entries beyond size.
func (c *TTL[V]) Put(k string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[k]; ok {
		c.removeFromOrderLocked(k)
	}
	c.items[k] = entry[V]{at: c.now(), val: v}
	c.order = append(c.order, k)
	for len(c.items) > c.size && len(c.order) > 0 {
		old := c.order[0]
		c.order = c.order[1:]
		delete(c.items, old)
	}
}

// Len is the number of stored entries, expired or not.
func (c *TTL[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *TTL[V]) touchLocked(k string) {
	// move key to end
	for i, v := range c.order {
		if v == k {
			c.order = append(append(c.order[:i], c.order[i+1:]...), k)
			return
		}
	}
	c.order = append(c.order, k)
}

func (c *TTL[V]) removeFromOrderLocked(k string) {
	for i, v := range c.order {
		if v == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
