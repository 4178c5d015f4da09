package eviction

/*
This package decides what a tier removes when an insertion would not fit.
*/

import (
	"time"

	"github.com/karuvi/tiercache/types"
)

// Meta carries the entry attributes a strategy may score on. It is passed
// once, when the entry enters the tier; access bookkeeping afterwards
// flows through OnAccess.
type Meta struct {
	Priority  types.Priority
	CreatedAt time.Time
}

/*
Strategy is the interface every eviction algorithm must follow.

The tier does NOT care how a strategy picks victims. It only calls these
methods, and it calls Evict repeatedly: eviction here is size-aware, so a
single insertion may need several victims before it fits.

Strategies keep their own bookkeeping and are NOT safe for concurrent use;
the owning tier serializes calls under its write mutex.
*/
type Strategy interface {

	// OnAdd is called when a key enters the tier (insert or replace).
	OnAdd(key string, meta Meta)

	// OnAccess is called whenever a key is read successfully.
	// LRU reorders on this; the weighted strategies count it.
	OnAccess(key string, at time.Time)

	// Remove is called when a key leaves the tier for any reason other
	// than eviction (delete, expiry, promotion, tag invalidation), so the
	// strategy can drop its bookkeeping.
	Remove(key string)

	// Evict returns the next victim key, or "" when nothing is tracked.
	// The tier performs the actual removal from storage.
	Evict() string
}

// StrategyType identifies the supported eviction strategies.
type StrategyType string

const (
	// LRU evicts the key that has not been accessed for the longest time.
	// Used by the hot tier.
	LRU StrategyType = "LRU"

	// Weighted blends access frequency with recency so entries that are
	// both frequently AND recently used survive longest. Used by the
	// session tier; this blend is what differentiates it from hot (pure
	// recency) and durable (priority).
	Weighted StrategyType = "WEIGHTED"

	// PriorityAge evicts low-priority, old entries first; high-priority
	// entries go last regardless of age. Among equal priorities the
	// ordering degrades to age alone. Used by the durable tier.
	PriorityAge StrategyType = "PRIORITY_AGE"
)

// NewStrategy is a small factory: given a StrategyType, it builds the
// corresponding strategy.
func NewStrategy(t StrategyType) Strategy {
	switch t {
	case LRU:
		return newLRU()
	case Weighted:
		return newWeighted()
	case PriorityAge:
		return newPriorityAge()
	default:
		panic("unknown eviction strategy")
	}
}
