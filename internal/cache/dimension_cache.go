// Package cache provides a lock-free, fixed-capacity memoization table for
// computed dimensions.
//
// The table is an array of atomic slots indexed by hash & (capacity-1).
// A lookup is one atomic load and a hash compare; a store is one atomic
// store of a freshly allocated, immutable entry. There is no chaining and
// no retry loop: a colliding key simply replaces the previous occupant,
// and the last writer for a slot wins. Because every cached value is a
// pure function of its key, racing writers can only ever store equally
// valid values, so collisions cost recomputation and never correctness.
package cache

import (
	"sync/atomic"
	"time"
)

// Capacity bounds and default.
const (
	DefaultCapacity = 1024
	MinCapacity     = 256
	MaxCapacity     = 4096

	// DefaultTTL is the age after which Prune removes an entry.
	DefaultTTL = 30 * time.Minute
)

// entry is immutable once stored.
type entry struct {
	hash       uint32
	value      float32
	insertedAt int64 // monotonic nanoseconds, see DimensionCache.now
}

// DimensionCache memoizes float32 results by a 32-bit key hash.
type DimensionCache struct {
	slots []atomic.Pointer[entry]
	mask  uint32

	// Statistics (atomic, eventually consistent)
	hits   atomic.Uint64
	misses atomic.Uint64

	epoch time.Time
	now   func() int64
}

// Option configures a DimensionCache.
type Option func(*DimensionCache)

// WithClock replaces the monotonic clock used for entry ages. The function
// returns nanoseconds since an arbitrary fixed point.
func WithClock(now func() int64) Option {
	return func(c *DimensionCache) { c.now = now }
}

// New creates a cache with room for capacity entries, rounded up to a
// power of two. A capacity below 1 uses DefaultCapacity. The range
// MinCapacity..MaxCapacity is enforced by the settings layer, not here,
// so tests can force collisions with tiny tables.
func New(capacity int, opts ...Option) *DimensionCache {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	size := nextPowerOf2(capacity)

	c := &DimensionCache{
		slots: make([]atomic.Pointer[entry], size),
		mask:  uint32(size - 1),
		epoch: time.Now(),
	}
	c.now = c.monotonic
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *DimensionCache) monotonic() int64 {
	return int64(time.Since(c.epoch))
}

// Capacity returns the number of slots.
func (c *DimensionCache) Capacity() int {
	return len(c.slots)
}

// Get returns the cached value for hash, if the slot holds it.
func (c *DimensionCache) Get(hash uint32) (float32, bool) {
	e := c.slots[hash&c.mask].Load()
	if e != nil && e.hash == hash {
		c.hits.Add(1)
		return e.value, true
	}
	c.misses.Add(1)
	return 0, false
}

// Put stores value for hash, replacing whatever the slot held.
func (c *DimensionCache) Put(hash uint32, value float32) {
	c.slots[hash&c.mask].Store(&entry{
		hash:       hash,
		value:      value,
		insertedAt: c.now(),
	})
}

// GetOrCompute returns the cached value for hash or stores and returns
// compute(). Concurrent misses on the same key may each run compute; the
// last store wins.
func (c *DimensionCache) GetOrCompute(hash uint32, compute func() float32) float32 {
	if v, ok := c.Get(hash); ok {
		return v
	}
	v := compute()
	c.Put(hash, v)
	return v
}

// Clear empties every slot. Counters are kept.
func (c *DimensionCache) Clear() {
	for i := range c.slots {
		c.slots[i].Store(nil)
	}
}

// ResetStats zeroes the hit and miss counters.
func (c *DimensionCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
}

// Prune removes entries older than ttl and returns how many it removed.
// An entry replaced concurrently with the sweep is left alone.
func (c *DimensionCache) Prune(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	cutoff := c.now() - int64(ttl)
	removed := 0
	for i := range c.slots {
		slot := &c.slots[i]
		e := slot.Load()
		if e == nil || e.insertedAt > cutoff {
			continue
		}
		if slot.CompareAndSwap(e, nil) {
			removed++
		}
	}
	return removed
}

// nextPowerOf2 returns the smallest power of 2 greater than or equal to n
func nextPowerOf2(n int) int {
	power := 1
	for power < n {
		power <<= 1
	}
	return power
}
