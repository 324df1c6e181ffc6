package cache

import (
	"sync"
	"time"

	"avissok/internal/chart"
)

type entry struct {
	key string
	ts  time.Time
}

// Results keeps a fixed-size set of recently built chart payloads keyed by
// artifact name, so repeated viewer requests do not re-parse the CSV or
// re-run the fetch. Entries expire after the ttl and the oldest are
// evicted past capacity.
type Results struct {
	mu       sync.Mutex
	items    map[string]cached
	order    []entry
	capacity int
	ttl      time.Duration
}

type cached struct {
	payload chart.Payload
	ts      time.Time
}

// New creates a cache with the provided capacity and ttl.
func New(capacity int, ttl time.Duration) *Results {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Results{
		items:    make(map[string]cached, capacity),
		order:    make([]entry, 0, capacity),
		capacity: capacity,
		ttl:      ttl,
	}
}

// Get returns the payload stored for key when it is still inside the ttl
// window.
func (c *Results) Get(key string) (chart.Payload, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if item, ok := c.items[key]; ok && now.Sub(item.ts) <= c.ttl {
		return item.payload, true
	}
	return chart.Payload{}, false
}

// Put stores a payload for key.
func (c *Results) Put(key string, payload chart.Payload) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = cached{payload: payload, ts: now}
	c.order = append(c.order, entry{key: key, ts: now})
	c.compact(now)
}

// Invalidate drops any entry for key, typically because its backing
// artifact disappeared from disk.
func (c *Results) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *Results) compact(now time.Time) {
	cutoff := now.Add(-c.ttl)

	for len(c.order) > 0 && (len(c.items) > c.capacity || c.order[0].ts.Before(cutoff)) {
		oldest := c.order[0]
		c.order = c.order[1:]

		if item, ok := c.items[oldest.key]; ok {
			if item.ts.Equal(oldest.ts) {
				delete(c.items, oldest.key)
			}
		}
	}
}
