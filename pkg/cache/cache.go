// Package cache provides a generic, thread-safe LRU cache with optional
// per-entry TTL. Statistics are always collected for observability.
package cache

import (
	"container/list"
	"errors"
	"sync"
	"time"
)

// Statistics tracks cache effectiveness
type Statistics struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time // zero means no expiration
}

// LRU is a fixed-capacity least-recently-used cache. The zero value is not
// usable; construct with NewLRU.
type LRU[V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List // front = most recently used
	items    map[string]*list.Element
	stats    Statistics
}

// NewLRU creates an LRU cache holding at most capacity entries. A non-zero ttl
// expires entries that many durations after insertion.
func NewLRU[V any](capacity int, ttl time.Duration) (*LRU[V], error) {
	if capacity <= 0 {
		return nil, errors.New("cache: capacity must be positive")
	}
	return &LRU[V]{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}, nil
}

// Get retrieves a value by key, promoting it to most recently used.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return zero, false
	}

	ent := el.Value.(*entry[V])
	if !ent.expiresAt.IsZero() && time.Now().After(ent.expiresAt) {
		c.removeElement(el)
		c.stats.Misses++
		return zero, false
	}

	c.order.MoveToFront(el)
	c.stats.Hits++
	return ent.value, true
}

// Set stores a value, evicting the least recently used entry when full.
// Returns true when a new entry was created, false when an existing one was updated.
func (c *LRU[V]) Set(key string, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expires time.Time
	if c.ttl > 0 {
		expires = time.Now().Add(c.ttl)
	}

	if el, ok := c.items[key]; ok {
		ent := el.Value.(*entry[V])
		ent.value = value
		ent.expiresAt = expires
		c.order.MoveToFront(el)
		return false
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.removeElement(oldest)
			c.stats.Evictions++
		}
	}

	el := c.order.PushFront(&entry[V]{key: key, value: value, expiresAt: expires})
	c.items[key] = el
	return true
}

// Delete removes an entry by key, reporting whether it existed.
func (c *LRU[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeElement(el)
	return true
}

// Clear removes all entries
func (c *LRU[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}

// Size returns the current number of entries
func (c *LRU[V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns a snapshot of cache statistics
func (c *LRU[V]) Stats() Statistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// removeElement must be called with the lock held
func (c *LRU[V]) removeElement(el *list.Element) {
	ent := el.Value.(*entry[V])
	delete(c.items, ent.key)
	c.order.Remove(el)
}
