// Package cache provides a generic, count-bounded LRU cache used for
// the per-node fingerprint memo (see Fingerprint in the parent
// package). It favors a single mutex over sharding: the evaluator's
// byte-bounded geometry and kernel caches (see the sibling cache/
// package) require all mutations to be serializable for correctness
// under parallel traversal, and this memo follows the same discipline
// for consistency even though it is a soft, count-based cache rather
// than a byte-bounded one.
//
//	c := cache.New[string, int](100)
//	c.Set("key", 42)
//	value, ok := c.Get("key")
//
// # Thread Safety
//
// Cache is safe for concurrent use. It should not be copied after
// creation (it contains a mutex).
package cache
