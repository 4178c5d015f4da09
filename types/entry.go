package types

import "time"

// TierName identifies one of the three storage tiers.
type TierName string

const (
	// TierHot is the in-process tier. Smallest budget, fastest reuse, pure LRU.
	TierHot TierName = "hot"

	// TierSession holds data scoped to the current session. Eviction blends
	// access frequency with recency.
	TierSession TierName = "session"

	// TierDurable is backed by the external key-value store and survives
	// restarts. Eviction favors high-priority entries.
	TierDurable TierName = "durable"
)

// Priority influences eviction order in the durable tier and promotion
// eligibility. High-priority entries are evicted last among same-age peers
// and may promote before crossing the access-count threshold.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityHigh:
		return "high"
	default:
		return "normal"
	}
}

// CacheEntry is the unit of storage. The payload holds the value AFTER
// serialization and any transforms (compression, encryption); the flags
// record which transforms were applied so reads can reverse them.
//
// CacheEntry is intentionally mutable for access bookkeeping.
// Timestamp races are acceptable.
type CacheEntry struct {
	Key          string
	Payload      []byte
	CreatedAt    time.Time
	TTL          time.Duration // must be > 0 once stored
	SizeBytes    int64         // post-transform payload size
	AccessCount  int64
	LastAccessAt time.Time
	Priority     Priority
	Tags         []string
	Compressed   bool
	Encrypted    bool
}

// IsExpired reports whether the entry has outlived its TTL at the given time.
func (e *CacheEntry) IsExpired(now time.Time) bool {
	return now.Sub(e.CreatedAt) > e.TTL
}

// Touch records a successful read.
func (e *CacheEntry) Touch(now time.Time) {
	e.AccessCount++
	e.LastAccessAt = now
}

// HasTag reports whether the entry carries the given invalidation tag.
func (e *CacheEntry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
