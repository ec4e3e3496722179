package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced monotonic clock.
type fakeClock struct{ ns atomic.Int64 }

func (f *fakeClock) now() int64              { return f.ns.Load() }
func (f *fakeClock) advance(d time.Duration) { f.ns.Add(int64(d)) }

func valueFor(hash uint32) float32 {
	return float32(hash%10007) * 0.5
}

func TestNewRoundsCapacity(t *testing.T) {
	tests := []struct {
		requested int
		want      int
	}{
		{0, DefaultCapacity},
		{-5, DefaultCapacity},
		{1, 1},
		{3, 4},
		{256, 256},
		{1000, 1024},
		{4096, 4096},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, New(tt.requested).Capacity(), "requested %d", tt.requested)
	}
}

func TestGetOrCompute(t *testing.T) {
	c := New(256)
	calls := 0
	compute := func() float32 { calls++; return 42 }

	assert.Equal(t, float32(42), c.GetOrCompute(7, compute))
	assert.Equal(t, float32(42), c.GetOrCompute(7, compute))
	assert.Equal(t, 1, calls, "second lookup must hit")

	s := c.Stats()
	assert.Equal(t, uint64(1), s.Hits)
	assert.Equal(t, uint64(1), s.Misses)
	assert.Equal(t, 1, s.Entries)
	assert.InDelta(t, 0.5, s.HitRate, 1e-9)
}

func TestGetAndPut(t *testing.T) {
	c := New(16)
	_, ok := c.Get(3)
	assert.False(t, ok)

	c.Put(3, 1.5)
	v, ok := c.Get(3)
	require.True(t, ok)
	assert.Equal(t, float32(1.5), v)

	// 19 & 15 == 3: same slot, different key.
	_, ok = c.Get(19)
	assert.False(t, ok, "a slot only answers for the hash it stores")

	// GetOrCompute shares the same slots.
	assert.Equal(t, float32(1.5), c.GetOrCompute(3, func() float32 {
		t.Fatal("stored value must be served without recomputing")
		return 0
	}))
	c.GetOrCompute(20, func() float32 { return 2.5 })
	v, ok = c.Get(20)
	require.True(t, ok)
	assert.Equal(t, float32(2.5), v)
}

func TestCollisionEvictsInsteadOfCorrupting(t *testing.T) {
	c := New(1)
	for i := uint32(0); i < 1000; i++ {
		h := i * 2654435761
		got := c.GetOrCompute(h, func() float32 { return valueFor(h) })
		require.Equal(t, valueFor(h), got)

		// The previous key was evicted and must be recomputed correctly.
		prev := h - 2654435761
		got = c.GetOrCompute(prev, func() float32 { return valueFor(prev) })
		require.Equal(t, valueFor(prev), got)
	}
	assert.Equal(t, 1, c.Stats().Entries)
}

func TestConcurrentAccessReturnsValidValues(t *testing.T) {
	for _, capacity := range []int{1, 4, 1024} {
		c := New(capacity)

		const numGoroutines = 16
		const operationsPerGoroutine = 2000

		var wg sync.WaitGroup
		var bad atomic.Int64
		start := make(chan struct{})

		for g := 0; g < numGoroutines; g++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				<-start
				for j := 0; j < operationsPerGoroutine; j++ {
					h := uint32((id*7919 + j*31) % 5000)
					if c.GetOrCompute(h, func() float32 { return valueFor(h) }) != valueFor(h) {
						bad.Add(1)
					}
				}
			}(g)
		}

		close(start)
		wg.Wait()

		assert.Zero(t, bad.Load(), "capacity %d", capacity)
		s := c.Stats()
		assert.Equal(t, uint64(numGoroutines*operationsPerGoroutine), s.Hits+s.Misses)
	}
}

func TestClear(t *testing.T) {
	c := New(256)
	for i := uint32(0); i < 100; i++ {
		c.Put(i, float32(i))
	}
	assert.Equal(t, 100, c.Stats().Entries)

	c.Clear()
	assert.Equal(t, 0, c.Stats().Entries)
	_, ok := c.Get(5)
	assert.False(t, ok)
}

func TestPrune(t *testing.T) {
	clock := &fakeClock{}
	c := New(256, WithClock(clock.now))

	c.Put(1, 1)
	clock.advance(20 * time.Minute)
	c.Put(2, 2)
	clock.advance(15 * time.Minute)

	s := c.Stats()
	assert.Equal(t, 35*time.Minute, s.OldestAge)

	assert.Equal(t, 1, c.Prune(DefaultTTL))
	_, ok := c.Get(1)
	assert.False(t, ok)
	v, ok := c.Get(2)
	require.True(t, ok)
	assert.Equal(t, float32(2), v)

	assert.Equal(t, 0, c.Prune(0), "non-positive ttl disables pruning")
}

func TestResetStats(t *testing.T) {
	c := New(8)
	c.GetOrCompute(1, func() float32 { return 1 })
	c.GetOrCompute(1, func() float32 { return 1 })
	c.ResetStats()
	s := c.Stats()
	assert.Zero(t, s.Hits)
	assert.Zero(t, s.Misses)
	assert.Zero(t, s.HitRate)
	assert.Equal(t, 1, s.Entries)
}

func TestUtilization(t *testing.T) {
	c := New(4)
	c.Put(0, 1)
	c.Put(1, 1)
	assert.InDelta(t, 50.0, c.Stats().Utilization(), 1e-9)
	assert.Zero(t, Stats{}.Utilization())
}

func TestHitDoesNotAllocate(t *testing.T) {
	c := New(1024)
	c.Put(99, 3)
	compute := func() float32 { return 3 }
	allocs := testing.AllocsPerRun(1000, func() {
		_ = c.GetOrCompute(99, compute)
	})
	assert.Zero(t, allocs)
}

func BenchmarkGetOrComputeHit(b *testing.B) {
	c := New(DefaultCapacity)
	for i := uint32(0); i < DefaultCapacity; i++ {
		c.Put(i, float32(i))
	}
	compute := func() float32 { return 0 }
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := uint32(0)
		for pb.Next() {
			_ = c.GetOrCompute(i&(DefaultCapacity-1), compute)
			i++
		}
	})
}

func BenchmarkGetOrComputeMiss(b *testing.B) {
	c := New(MinCapacity)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		h := uint32(i)
		_ = c.GetOrCompute(h, func() float32 { return float32(h) })
	}
}
