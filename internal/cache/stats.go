package cache

import "time"

// Stats is a point-in-time view of the cache. It is assembled from
// independent atomic loads while writers may be active, so its fields are
// not mutually consistent; they are accurate enough for monitoring.
//
// Hits and Misses count lookups, not keys. A collision that evicts a live
// entry turns its next lookup into a miss, so under heavy collision the
// hit rate understates how often a value had already been computed.
type Stats struct {
	Capacity  int           `json:"capacity" yaml:"capacity"`
	Entries   int           `json:"entries" yaml:"entries"`
	Hits      uint64        `json:"hits" yaml:"hits"`
	Misses    uint64        `json:"misses" yaml:"misses"`
	HitRate   float64       `json:"hit_rate" yaml:"hit_rate"`
	OldestAge time.Duration `json:"oldest_age" yaml:"oldest_age"`
}

// Stats returns a snapshot of the cache statistics.
func (c *DimensionCache) Stats() Stats {
	s := Stats{
		Capacity: len(c.slots),
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
	}

	now := c.now()
	var oldest int64 = -1
	for i := range c.slots {
		e := c.slots[i].Load()
		if e == nil {
			continue
		}
		s.Entries++
		if oldest < 0 || e.insertedAt < oldest {
			oldest = e.insertedAt
		}
	}
	if oldest >= 0 && now > oldest {
		s.OldestAge = time.Duration(now - oldest)
	}

	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}

// Utilization returns the share of occupied slots in percent.
func (s Stats) Utilization() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.Entries) / float64(s.Capacity) * 100.0
}
