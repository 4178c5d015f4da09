package tiercache

import (
	"context"

	"github.com/karuvi/tiercache/api"
	"github.com/karuvi/tiercache/codec"
)

// The store is payload-agnostic internally; these helpers keep call sites
// typed by deserializing straight into the caller's type instead of
// through a dynamic value.

// GetAs retrieves key and deserializes it into T.
//
// A stored value of an incompatible shape counts as a miss for this
// caller, but the entry stays in place: a type mismatch is a caller-side
// disagreement, not corruption, and another caller asking with the right
// T can still use the entry. The read has already counted toward
// promotion by the time the typed decode runs.
func GetAs[T any](ctx context.Context, c *TieredCache, key string) (T, bool) {
	var v T
	raw, ok := c.lookup(key)
	if !ok {
		return v, false
	}
	if err := codec.Unmarshal(raw, &v); err != nil {
		c.observer.OnRecoveredError("get.typed", key, err)
		return v, false
	}
	return v, true
}

// GetOrSetAs is GetOrSet with a typed factory.
func GetOrSetAs[T any](ctx context.Context, c *TieredCache, key string, factory func(context.Context) (T, error), opts ...api.SetOption) (T, error) {
	if v, ok := GetAs[T](ctx, c, key); ok {
		return v, nil
	}
	v, err := factory(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(ctx, key, v, opts...)
	return v, nil
}
