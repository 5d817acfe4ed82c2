// Package cache provides the byte-bounded, content-addressed LRU cache
// used for the geometry cache and the boolean-kernel cache (the two
// process-wide caches of the evaluator). Both are instances of the same
// generic Cache type, keyed by a fingerprint string and bounded by a
// byte budget rather than an entry count.
//
// A single mutex guards all mutations, per the requirement that cache
// access be serializable even when postfix evaluation runs on a worker
// pool.
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// DefaultMaxSizeBytes is the default cache budget (100 MiB), matching
// the kernel-cache default from the Configuration table.
const DefaultMaxSizeBytes int64 = 100 * 1024 * 1024

// Sized is implemented by values stored in the cache so that the cache
// can account for their memory footprint against the byte budget.
type Sized interface {
	ByteSize() int64
}

// Cache is a thread-safe, byte-bounded LRU cache from fingerprint
// string to a Sized value. Eviction is strict LRU by recency of use.
//
// Cache is safe for concurrent use. All mutating and recency-affecting
// operations take the single internal mutex; this is deliberate: the
// evaluator's parallel mode requires cache mutations to be serialized.
type Cache[V Sized] struct {
	mu      sync.Mutex
	entries map[string]*entry[V]
	lru     *list.List
	size    int64
	maxSize int64

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
	rejected  atomic.Uint64
}

type entry[V Sized] struct {
	key     string
	value   V
	size    int64
	element *list.Element
}

// Stats reports cache statistics for monitoring.
type Stats struct {
	Size      int64
	MaxSize   int64
	Entries   int
	Hits      uint64
	Misses    uint64
	HitRate   float64
	Evictions uint64
	Rejected  uint64
}

// New creates a cache with the given byte budget. A non-positive
// maxSize falls back to DefaultMaxSizeBytes.
func New[V Sized](maxSizeBytes int64) *Cache[V] {
	if maxSizeBytes <= 0 {
		maxSizeBytes = DefaultMaxSizeBytes
	}
	return &Cache[V]{
		entries: make(map[string]*entry[V]),
		lru:     list.New(),
		maxSize: maxSizeBytes,
	}
}

// Contains reports whether key is present, without affecting recency.
func (c *Cache[V]) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Get retrieves the value for key, promoting it to most-recently-used.
// The caller should have verified Contains (or tolerate the ok=false
// case directly), per the contract in the Cache Layer design.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.lru.MoveToFront(e.element)
	c.hits.Add(1)
	return e.value, true
}

// Insert stores value under key. Returns false iff value's byte size
// exceeds the total cache budget, in which case nothing is cached and
// nothing is evicted (CacheOverflow: the caller is expected to log a
// warning and continue without failing evaluation).
func (c *Cache[V]) Insert(key string, value V) bool {
	size := value.ByteSize()
	if size > c.maxSize {
		c.rejected.Add(1)
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		c.size -= existing.size
		c.lru.Remove(existing.element)
		delete(c.entries, key)
	}

	c.evictUntilSize(c.maxSize - size)

	e := &entry[V]{key: key, value: value, size: size}
	e.element = c.lru.PushFront(e)
	c.entries[key] = e
	c.size += size
	return true
}

// evictUntilSize evicts least-recently-used entries until the cache
// fits within targetSize. Must be called with c.mu held.
func (c *Cache[V]) evictUntilSize(targetSize int64) {
	for c.size > targetSize && c.lru.Len() > 0 {
		back := c.lru.Back()
		if back == nil {
			break
		}
		e := back.Value.(*entry[V])
		c.lru.Remove(back)
		delete(c.entries, e.key)
		c.size -= e.size
		c.evictions.Add(1)
	}
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry[V])
	c.lru.Init()
	c.size = 0
}

// SetMaxSize updates the byte budget, evicting entries if the new
// budget is smaller than the current usage.
func (c *Cache[V]) SetMaxSize(maxSizeBytes int64) {
	if maxSizeBytes <= 0 {
		maxSizeBytes = DefaultMaxSizeBytes
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxSize = maxSizeBytes
	c.evictUntilSize(maxSizeBytes)
}

// Size returns current memory usage in bytes.
func (c *Cache[V]) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns current cache statistics.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	size, maxSize, n := c.size, c.maxSize, len(c.entries)
	c.mu.Unlock()

	hits := c.hits.Load()
	misses := c.misses.Load()
	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Size:      size,
		MaxSize:   maxSize,
		Entries:   n,
		Hits:      hits,
		Misses:    misses,
		HitRate:   hitRate,
		Evictions: c.evictions.Load(),
		Rejected:  c.rejected.Load(),
	}
}

// ResetStats resets the hit/miss/eviction/rejected counters to zero.
func (c *Cache[V]) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
	c.rejected.Store(0)
}
