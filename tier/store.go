package tier

import (
	"sync/atomic"

	"github.com/karuvi/tiercache/types"
)

/*
This file defines how entries are actually stored inside a tier.

Reads dominate a cache, so the store is built around Copy-On-Write:
readers always see an immutable snapshot of the map, writers build a new
map and swap it in atomically. Reads never take a lock; writes are
serialized by the owning tier's mutex.
*/

// Store is the interface a tier uses to hold its entries.
type Store interface {

	// Get retrieves an entry by key.
	Get(key string) (*types.CacheEntry, bool)

	// Put inserts or replaces an entry.
	Put(key string, ent *types.CacheEntry)

	// Delete removes an entry.
	Delete(key string)

	// Len returns how many entries are stored.
	Len() int

	// Entries returns a snapshot of all live entries. The slice is safe to
	// iterate while writes continue; it simply goes stale.
	Entries() []*types.CacheEntry
}

type cowStore struct {
	// data holds the current map[string]*CacheEntry behind an atomic.Value
	// so the whole map can be swapped without readers noticing.
	data atomic.Value
}

func newCOWStore() *cowStore {
	s := &cowStore{}
	s.data.Store(make(map[string]*types.CacheEntry))
	return s
}

func (s *cowStore) snapshot() map[string]*types.CacheEntry {
	return s.data.Load().(map[string]*types.CacheEntry)
}

func (s *cowStore) Get(key string) (*types.CacheEntry, bool) {
	ent, ok := s.snapshot()[key]
	return ent, ok
}

// Put copies the current map, adds the entry, and swaps the copy in.
// Writes pay for the copy so reads stay lock-free.
func (s *cowStore) Put(key string, ent *types.CacheEntry) {
	old := s.snapshot()
	next := make(map[string]*types.CacheEntry, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[key] = ent
	s.data.Store(next)
}

func (s *cowStore) Delete(key string) {
	old := s.snapshot()
	if _, ok := old[key]; !ok {
		return
	}
	next := make(map[string]*types.CacheEntry, len(old))
	for k, v := range old {
		if k != key {
			next[k] = v
		}
	}
	s.data.Store(next)
}

func (s *cowStore) Len() int {
	return len(s.snapshot())
}

func (s *cowStore) Entries() []*types.CacheEntry {
	m := s.snapshot()
	out := make([]*types.CacheEntry, 0, len(m))
	for _, ent := range m {
		out = append(out, ent)
	}
	return out
}
