package cache

import "sync"

// Ring is a generic fixed-capacity cache with round-robin replacement.
//
// Ring is safe for concurrent use.
// Ring must not be copied after creation (has mutex).
type Ring[K comparable, V any] struct {
	mu     sync.Mutex
	slots  []ringSlot[K, V]
	next   int // Replacement cursor
	hits   uint64
	misses uint64
}

// ringSlot holds one cached entry.
type ringSlot[K comparable, V any] struct {
	key   K
	value V
	used  bool
}

// NewRing creates a ring with the given number of slots.
// A capacity below 1 is raised to 1.
func NewRing[K comparable, V any](capacity int) *Ring[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[K, V]{
		slots: make([]ringSlot[K, V], capacity),
	}
}

// GetOrCreate returns the cached value for key or creates and stores it.
// Thread-safe: create is called under lock to prevent duplicate creation.
// The boolean reports whether the value was already cached.
func (r *Ring[K, V]) GetOrCreate(key K, create func() V) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.find(key); i >= 0 {
		r.hits++
		return r.slots[i].value, true
	}
	r.misses++

	value := create()
	r.insert(key, value)
	return value, false
}

// Slot returns the index of the slot holding key, or -1.
func (r *Ring[K, V]) Slot(key K) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.find(key)
}

// Stats returns cache statistics.
func (r *Ring[K, V]) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Stats{
		Capacity: len(r.slots),
		Hits:     r.hits,
		Misses:   r.misses,
	}
	for i := range r.slots {
		if r.slots[i].used {
			s.Len++
		}
	}
	if total := r.hits + r.misses; total > 0 {
		s.HitRate = float64(r.hits) / float64(total)
	}
	return s
}

// find returns the slot index of key or -1.
// Caller must hold r.mu.
func (r *Ring[K, V]) find(key K) int {
	for i := range r.slots {
		if r.slots[i].used && r.slots[i].key == key {
			return i
		}
	}
	return -1
}

// insert overwrites the slot under the cursor and advances it.
// Caller must hold r.mu.
func (r *Ring[K, V]) insert(key K, value V) {
	r.slots[r.next] = ringSlot[K, V]{key: key, value: value, used: true}
	r.next = (r.next + 1) % len(r.slots)
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of filled slots.
	Len int
	// Capacity is the number of slots.
	Capacity int
	// Hits is the number of lookups served from the ring.
	Hits uint64
	// Misses is the number of lookups that found nothing.
	Misses uint64
	// HitRate is the hit rate 0.0 to 1.0.
	HitRate float64
}
