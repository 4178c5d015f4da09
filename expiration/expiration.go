// This package defines how cache entries expire over time.

package expiration

import (
	"time"

	"github.com/karuvi/tiercache/types"
)

/*
Strategy decides whether an entry is too old to serve. Keeping it behind
an interface lets expiry behavior be swapped without touching the read
path that consults it.
*/
type Strategy interface {
	IsExpired(ent *types.CacheEntry, now time.Time) bool
}

/*
FixedTTL is the default strategy: an entry expires once its age exceeds
its TTL, counted from creation. Reads do NOT push the deadline forward;
the entry's lifetime is fixed at write time.
*/
type FixedTTL struct{}

func (FixedTTL) IsExpired(ent *types.CacheEntry, now time.Time) bool {
	return ent.IsExpired(now)
}
