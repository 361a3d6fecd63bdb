package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Store is a keyed TTL cache that keeps the last-known-good value past
// expiry. There is no eviction: the key space is fixed by configuration
// (one key per source/handle/collection), not by request volume.
//
// Reads are lock-free against an immutable map snapshot; writes copy the
// map and swap it atomically, so readers of distinct keys never block.
type Store[V any] struct {
	ttl  time.Duration
	now  func() time.Time
	mu   sync.Mutex
	data atomic.Pointer[map[string]entry[V]]
}

// New builds an empty store with the given freshness window.
func New[V any](ttl time.Duration) *Store[V] {
	s := &Store[V]{ttl: ttl, now: time.Now}
	m := make(map[string]entry[V])
	s.data.Store(&m)
	return s
}

// Get returns the cached value for key if it is still fresh. A value is
// fresh while now - storedAt < ttl.
func (s *Store[V]) Get(key string) (V, bool) {
	ent, ok := (*s.data.Load())[key]
	if !ok || s.now().Sub(ent.storedAt) >= s.ttl {
		var zero V
		return zero, false
	}
	return ent.value, true
}

// GetStale returns the last stored value regardless of age. Callers use it
// only after a live fetch has failed.
func (s *Store[V]) GetStale(key string) (V, bool) {
	ent, ok := (*s.data.Load())[key]
	if !ok {
		var zero V
		return zero, false
	}
	return ent.value, true
}

// Set stores value under key with the current time. Last writer wins;
// refreshes are idempotent per source so no compare-and-swap is needed.
func (s *Store[V]) Set(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := *s.data.Load()
	next := make(map[string]entry[V], len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[key] = entry[V]{value: value, storedAt: s.now()}
	s.data.Store(&next)
}
