// Package cache provides the two caching primitives breeze is built on.
//
// # Cache[K, V]
//
// An append-only, never-evicting keyed table. It backs the material cache:
// an entry, once created, is shared by every consumer for the lifetime of
// the renderer, and creation is serialized so a key is created at most once.
//
//	c := cache.New[materialKey, gpu.MaterialID]()
//	mat, created, err := c.GetOrCreate(key, allocate)
//
// # ShardedCache[K, V]
//
// A sharded LRU cache for derived data that is cheap to recompute, such as
// shaped text metrics. It uses 16 shards to reduce lock contention, with LRU
// eviction per shard.
//
//	metrics := cache.NewSharded[metricKey, Metrics](256, hashMetricKey)
//	m := metrics.GetOrCreate(key, measure)
//
// # Thread Safety
//
// Both Cache and ShardedCache are safe for concurrent use.
// Neither should be copied after creation (they contain mutexes).
package cache
