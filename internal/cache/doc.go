// Package cache provides a small fixed-slot cache with round-robin eviction.
//
// # Ring[K, V]
//
// Ring holds a fixed number of key/value slots. A miss fills the slot under
// the replacement cursor and advances the cursor, so once the ring is full the
// oldest-filled slot is overwritten first regardless of how recently it was
// read.
//
//	r := cache.NewRing[key, value](2)
//	v, hit := r.GetOrCreate(k, func() value { return build(k) })
//
// Keys are compared with ==, so any comparable struct works as a key.
//
// # Thread Safety
//
// Ring is safe for concurrent use. It must not be copied after creation (it
// contains a mutex).
package cache
