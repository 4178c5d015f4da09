// Package tier implements one storage partition of the cache: a
// copy-on-write entry store paired with an eviction strategy and a byte
// budget.
package tier

import (
	"sync"
	"time"

	"github.com/karuvi/tiercache/eviction"
	"github.com/karuvi/tiercache/types"
)

/*
Tier is one independent partition of the cache.

Each tier has:
- its own storage (lock-free reads, copy-on-write writes)
- its own eviction strategy instance
- its own capacity budget in bytes

Reads are lock-free; every mutation (insert, remove, access bookkeeping)
is serialized under mu so storage, strategy state, and the byte count
never drift apart.
*/
type Tier struct {
	Name          types.TierName
	CapacityBytes int64
	DefaultTTL    time.Duration

	store    Store
	strategy eviction.Strategy
	used     int64

	mu sync.Mutex
}

func New(name types.TierName, strategy eviction.Strategy, capacityBytes int64, defaultTTL time.Duration) *Tier {
	return &Tier{
		Name:          name,
		CapacityBytes: capacityBytes,
		DefaultTTL:    defaultTTL,
		store:         newCOWStore(),
		strategy:      strategy,
	}
}

// Get retrieves an entry without locking.
func (t *Tier) Get(key string) (*types.CacheEntry, bool) {
	return t.store.Get(key)
}

/*
Insert adds or replaces an entry, evicting lowest-scored entries first
until the new entry fits inside the byte budget.

If the tier empties and the entry still exceeds the budget, the insert is
admitted anyway and the tier runs transiently over capacity; rejecting
would turn an oversized payload into a permanent cache miss, which is
worse than briefly exceeding the budget.

Returns the entries evicted to make room, so the caller can propagate
removals to the durable store and record metrics.
*/
func (t *Tier) Insert(ent *types.CacheEntry) []*types.CacheEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Replacing an existing key frees its bytes first.
	if old, ok := t.store.Get(ent.Key); ok {
		t.store.Delete(ent.Key)
		t.strategy.Remove(ent.Key)
		t.used -= old.SizeBytes
	}

	var evicted []*types.CacheEntry
	for t.used+ent.SizeBytes > t.CapacityBytes && t.store.Len() > 0 {
		victim := t.strategy.Evict()
		if victim == "" {
			break
		}
		if v, ok := t.store.Get(victim); ok {
			t.store.Delete(victim)
			t.used -= v.SizeBytes
			evicted = append(evicted, v)
		}
	}

	t.store.Put(ent.Key, ent)
	t.strategy.OnAdd(ent.Key, eviction.Meta{
		Priority:  ent.Priority,
		CreatedAt: ent.CreatedAt,
	})
	t.used += ent.SizeBytes

	return evicted
}

// Remove deletes a key, returning the entry it held.
func (t *Tier) Remove(key string) (*types.CacheEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ent, ok := t.store.Get(key)
	if !ok {
		return nil, false
	}
	t.store.Delete(key)
	t.strategy.Remove(key)
	t.used -= ent.SizeBytes
	return ent, true
}

// OnAccess records a successful read with the eviction strategy.
func (t *Tier) OnAccess(key string, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.strategy.OnAccess(key, at)
}

// Entries returns a snapshot of the tier's live entries.
func (t *Tier) Entries() []*types.CacheEntry {
	return t.store.Entries()
}

// Len returns the number of live entries.
func (t *Tier) Len() int {
	return t.store.Len()
}

// UsedBytes returns the bytes currently accounted to live entries.
func (t *Tier) UsedBytes() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.used
}

// Clear empties the tier and returns the entries it held.
func (t *Tier) Clear() []*types.CacheEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	dropped := t.store.Entries()
	for _, ent := range dropped {
		t.store.Delete(ent.Key)
		t.strategy.Remove(ent.Key)
	}
	t.used = 0
	return dropped
}
