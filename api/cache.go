package api

import (
	"context"
	"time"

	"github.com/karuvi/tiercache/types"
)

/*
Cache defines the PUBLIC API of the tiered cache.
This is a contract that guarantees certain behaviors without exposing
internals. Tier routing, eviction, expiry, transforms, persistence, and
promotion all live behind this interface.
*/
type Cache interface {

	/*
		Set stores a value.

		BEHAVIOR:
		---------
		- Serializes the value; compresses it past the size threshold;
		  encrypts it when requested
		- Routes it to a tier (explicit WithTier wins; PriorityHigh goes
		  hot; SessionOnly goes session; everything else goes durable)
		- Evicts within the target tier until the entry fits
		- Persists durable-tier entries to the external store, best-effort

		Set never panics and never surfaces storage errors: it returns
		false only when the value could not be encoded, the key is
		empty, or an explicit tier override names a tier that does not
		exist. Recovered errors reach the observer hook instead.
	*/
	Set(ctx context.Context, key string, value any, opts ...SetOption) bool

	/*
		Get retrieves a value, searching hot → session → durable.

		- Missing key: (nil, false)
		- Expired entry: deleted, (nil, false) (lazy expiry)
		- Live entry: transforms reversed (decrypt, then decompress, then
		  deserialize), access recorded, promotion toward the hot tier
		  applied once the entry crosses the access threshold

		An entry whose transforms cannot be reversed is deleted and
		reported as a miss: corrupted entries self-heal by disappearing.
	*/
	Get(ctx context.Context, key string) (any, bool)

	/*
		GetOrSet returns the cached value, or runs factory, stores its
		result, and returns it.

		Concurrent calls for the same missing key are NOT deduplicated:
		each caller runs the factory independently and the last completed
		write wins. Callers relying on cheap factories get predictable
		timing; callers with expensive factories should coordinate
		upstream.
	*/
	GetOrSet(ctx context.Context, key string, factory func(context.Context) (any, error), opts ...SetOption) (any, error)

	/*
		Delete removes the key from whichever tier holds it, and from the
		durable store when applicable.

		Idempotent: deleting a missing key returns false and changes
		nothing.
	*/
	Delete(key string) bool

	// Clear empties the named tiers, or every tier when called with no
	// arguments. Clearing the durable tier also clears its backing
	// store entries.
	Clear(tiers ...types.TierName)

	// InvalidateByTag removes every entry carrying the tag, across all
	// tiers, and returns how many were removed.
	InvalidateByTag(tag string) int

	// Stats returns a point-in-time snapshot of per-tier occupancy and
	// instance-wide hit/miss counts.
	Stats() Stats

	/*
		Close stops the expiry sweep and flushes pending durable writes.
		Call it on shutdown; in-flight write-back work completes, but
		durability of writes issued after Close is not guaranteed.
	*/
	Close()
}

// Stats is the observability snapshot returned by Stats().
type Stats struct {
	Hits   uint64
	Misses uint64
	Tiers  map[types.TierName]TierStats
}

// TierStats describes one tier's occupancy.
type TierStats struct {
	Entries       int
	SizeBytes     int64
	CapacityBytes int64
}

// SetOptions collects the per-entry knobs a caller can turn at Set time.
type SetOptions struct {
	TTL         time.Duration
	Tier        types.TierName // "" = route by policy
	Priority    types.Priority
	Tags        []string
	SessionOnly bool
	Encrypt     bool
}

// SetOption is a functional option for Set.
type SetOption func(*SetOptions)

// ApplySetOptions folds options over the defaults.
func ApplySetOptions(opts []SetOption) SetOptions {
	o := SetOptions{Priority: types.PriorityNormal}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithTTL overrides the target tier's default TTL. Values <= 0 are
// ignored and the tier default applies.
func WithTTL(ttl time.Duration) SetOption {
	return func(o *SetOptions) { o.TTL = ttl }
}

// WithTier pins the entry to a tier, overriding the routing policy.
func WithTier(tier types.TierName) SetOption {
	return func(o *SetOptions) { o.Tier = tier }
}

// WithPriority sets the entry's eviction/promotion priority.
func WithPriority(p types.Priority) SetOption {
	return func(o *SetOptions) { o.Priority = p }
}

// WithTags attaches invalidation tags to the entry.
func WithTags(tags ...string) SetOption {
	return func(o *SetOptions) { o.Tags = tags }
}

// SessionOnly routes the entry to the session tier (unless an explicit
// tier override says otherwise).
func SessionOnly() SetOption {
	return func(o *SetOptions) { o.SessionOnly = true }
}

// WithEncryption encrypts the payload at rest. Requires the cache to be
// built with an encryption key; otherwise the Set fails.
func WithEncryption() SetOption {
	return func(o *SetOptions) { o.Encrypt = true }
}
