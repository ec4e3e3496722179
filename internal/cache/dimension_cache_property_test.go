//go:build property

package cache

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestCacheProperties validates that collisions only ever evict.
func TestCacheProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(9001)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("every returned value equals a direct computation", prop.ForAll(
		func(keys []uint32, capacity int) bool {
			c := New(capacity)
			for _, k := range keys {
				k := k
				if c.GetOrCompute(k, func() float32 { return valueFor(k) }) != valueFor(k) {
					return false
				}
			}
			return c.Stats().Entries <= c.Capacity()
		},
		gen.SliceOf(gen.UInt32Range(0, 64)),
		gen.IntRange(1, 16),
	))

	properties.Property("hits plus misses equals lookups", prop.ForAll(
		func(keys []uint32) bool {
			c := New(8)
			for _, k := range keys {
				c.GetOrCompute(k, func() float32 { return 1 })
			}
			s := c.Stats()
			return s.Hits+s.Misses == uint64(len(keys))
		},
		gen.SliceOf(gen.UInt32()),
	))

	properties.TestingRun(t)
}
