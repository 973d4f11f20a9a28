// Package cache provides a thread-safe value holder with time-based expiration.
package cache

import (
	"sync"
	"time"
)

// TTL holds a single value that goes stale after a fixed duration or when
// invalidated. The zero TTL duration never expires.
type TTL[V any] struct {
	mu        sync.RWMutex
	value     V
	timestamp time.Time
	ttl       time.Duration
	gen       uint64
	now       func() time.Time
}

// New creates an empty, expired TTL holder.
func New[V any](ttl time.Duration) *TTL[V] {
	return &TTL[V]{ttl: ttl, now: time.Now}
}

// Get returns the value and true while it is fresh.
func (c *TTL[V]) Get() (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.expiredLocked() {
		var zero V
		return zero, false
	}
	return c.value, true
}

// Set stores v and restarts the TTL timer.
func (c *TTL[V]) Set(v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = v
	c.timestamp = c.now()
}

// Load returns the fresh value or calls load to replace it. A value loaded
// while Invalidate ran is returned but not stored. Errors are not cached.
func (c *TTL[V]) Load(load func() (V, error)) (V, error) {
	if v, ok := c.Get(); ok {
		return v, nil
	}

	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	v, err := load()
	if err != nil {
		return v, err
	}

	c.mu.Lock()
	if c.gen == gen {
		c.value = v
		c.timestamp = c.now()
	}
	c.mu.Unlock()
	return v, nil
}

// IsExpired reports whether the held value is stale.
func (c *TTL[V]) IsExpired() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.expiredLocked()
}

// expiredLocked MUST be called with at least a read lock held.
func (c *TTL[V]) expiredLocked() bool {
	if c.timestamp.IsZero() {
		return true
	}
	return c.ttl > 0 && c.now().Sub(c.timestamp) >= c.ttl
}

// Invalidate drops the held value.
func (c *TTL[V]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	c.value = zero
	c.timestamp = time.Time{}
	c.gen++
}

// Age returns how long ago the value was stored, or zero when empty.
func (c *TTL[V]) Age() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.timestamp.IsZero() {
		return 0
	}
	return c.now().Sub(c.timestamp)
}
