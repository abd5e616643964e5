package cache

import "sync"

// Cache is a generic thread-safe keyed table that never evicts.
// Entries are appended on first request and are never mutated or removed
// until Clear, so a value handed out by Cache stays valid for the cache's
// lifetime.
//
// Cache is safe for concurrent use.
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]V
	order   []K // insertion order, for deterministic Range
	hits    uint64
	misses  uint64
}

// New creates an empty cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]V),
	}
}

// Get retrieves a value from the cache.
// Returns (value, true) if found, (zero, false) otherwise.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[key]
	return v, ok
}

// GetOrCreate returns the cached value for key or creates it.
// Thread-safe: create is called under lock so two callers requesting the
// same new key never both create it. If create fails nothing is stored.
// The boolean result reports whether create ran.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.entries[key]; ok {
		c.hits++
		return v, false, nil
	}
	c.misses++

	v, err := create()
	if err != nil {
		var zero V
		return zero, false, err
	}
	c.entries[key] = v
	c.order = append(c.order, key)
	return v, true, nil
}

// Range calls fn for each entry in insertion order.
// fn must not call back into the cache.
func (c *Cache[K, V]) Range(fn func(K, V)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, k := range c.order {
		fn(k, c.entries[k])
	}
}

// Clear removes all entries from the cache and resets statistics.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]V)
	c.order = nil
	c.hits, c.misses = 0, 0
}

// Len returns the number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return newStats(len(c.entries), 0, c.hits, c.misses, 0)
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the per-shard capacity (ShardedCache only, 0 = unbounded).
	Capacity int
	// Hits is the number of lookups served from the cache.
	Hits uint64
	// Misses is the number of lookups that had to create a value.
	Misses uint64
	// HitRate is the cache hit rate 0.0 to 1.0.
	HitRate float64
	// Evictions is the number of evicted entries (ShardedCache only).
	Evictions uint64
}

func newStats(n, capacity int, hits, misses, evictions uint64) Stats {
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return Stats{
		Len:       n,
		Capacity:  capacity,
		Hits:      hits,
		Misses:    misses,
		HitRate:   rate,
		Evictions: evictions,
	}
}
