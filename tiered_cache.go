// Package tiercache implements a three-tier in-process cache: a hot LRU
// tier, a session tier with frequency+recency eviction, and a durable
// tier persisted to an external key-value store.
package tiercache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/karuvi/tiercache/api"
	"github.com/karuvi/tiercache/codec"
	"github.com/karuvi/tiercache/config"
	"github.com/karuvi/tiercache/engine"
	"github.com/karuvi/tiercache/eviction"
	"github.com/karuvi/tiercache/expiration"
	"github.com/karuvi/tiercache/persist"
	"github.com/karuvi/tiercache/tier"
	"github.com/karuvi/tiercache/types"
)

/*
TieredCache is the orchestrator that connects:
- the three tiers and their eviction strategies
- the engine (transforms, routing, promotion, expiry rules)
- the durable store, behind a persistence policy
- the expiry sweeper
- metrics and the recovered-error observer

Construct one instance at bootstrap and pass it by reference; there is no
process-wide global.
*/
type TieredCache struct {
	hot     *tier.Tier
	session *tier.Tier
	durable *tier.Tier

	// tiers in lookup order: hot wins when a key somehow exists twice.
	tiers []*tier.Tier

	engine   *engine.Engine
	store    types.DurableStore
	policy   persist.Policy
	metrics  types.Metrics
	observer types.Observer
	sweeper  *expiration.Sweeper
	prefix   string

	hits   atomic.Uint64
	misses atomic.Uint64
	closed atomic.Bool
}

// compile-time check that the orchestrator satisfies the public contract.
var _ api.Cache = (*TieredCache)(nil)

// errUnknownTier is reported when an explicit tier override names a tier
// that does not exist.
var errUnknownTier = errors.New("unknown tier name")

type options struct {
	store           types.DurableStore
	writeBackBuffer int
	metrics         types.Metrics
	observer        types.Observer
	codec           codec.Codec
	encryptionKey   []byte
}

// Option configures a TieredCache at construction.
type Option func(*options)

// WithDurableStore attaches the external key-value store backing the
// durable tier. Without one, the durable tier works but nothing survives
// a restart.
func WithDurableStore(store types.DurableStore) Option {
	return func(o *options) { o.store = store }
}

// WithWriteBack switches durable persistence from synchronous
// write-through to a buffered background queue of the given size.
func WithWriteBack(buffer int) Option {
	return func(o *options) { o.writeBackBuffer = buffer }
}

// WithMetrics attaches a metrics sink.
func WithMetrics(m types.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithObserver attaches the recovered-error diagnostic hook.
func WithObserver(obs types.Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithCodec replaces the default s2 compression codec.
func WithCodec(c codec.Codec) Option {
	return func(o *options) { o.codec = c }
}

// WithEncryptionKey enables opt-in payload encryption. The key must be
// 32 bytes.
func WithEncryptionKey(key []byte) Option {
	return func(o *options) { o.encryptionKey = key }
}

// New builds the cache, rehydrates the durable tier from the store, and
// starts the expiry sweep.
func New(cfg config.Config, opts ...Option) (*TieredCache, error) {
	cfg.Normalize()

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.metrics == nil {
		o.metrics = types.NoopMetrics{}
	}
	if o.observer == nil {
		o.observer = types.NoopObserver{}
	}
	if o.codec == nil {
		o.codec = codec.NewS2Codec()
	}

	var enc *codec.Encryptor
	if o.encryptionKey != nil {
		var err error
		enc, err = codec.NewEncryptor(o.encryptionKey)
		if err != nil {
			return nil, err
		}
	}

	c := &TieredCache{
		hot: tier.New(types.TierHot, eviction.NewStrategy(eviction.LRU),
			cfg.Hot.CapacityBytes, cfg.Hot.DefaultTTL.Std()),
		session: tier.New(types.TierSession, eviction.NewStrategy(eviction.Weighted),
			cfg.Session.CapacityBytes, cfg.Session.DefaultTTL.Std()),
		durable: tier.New(types.TierDurable, eviction.NewStrategy(eviction.PriorityAge),
			cfg.Durable.CapacityBytes, cfg.Durable.DefaultTTL.Std()),
		engine:   engine.New(o.codec, enc, cfg.CompressThresholdBytes, cfg.PromoteThreshold),
		store:    o.store,
		metrics:  o.metrics,
		observer: o.observer,
		prefix:   cfg.KeyPrefix,
	}
	c.tiers = []*tier.Tier{c.hot, c.session, c.durable}

	if o.store != nil {
		if o.writeBackBuffer > 0 {
			c.policy = persist.NewWriteBack(o.store, o.observer, o.writeBackBuffer)
		} else {
			c.policy = persist.NewWriteThrough(o.store, o.observer)
		}
		c.rehydrate()
	}

	c.sweeper = expiration.NewSweeper(c, cfg.SweepInterval.Std())

	return c, nil
}

// Set stores a value. See api.Cache for the full contract.
func (c *TieredCache) Set(ctx context.Context, key string, value any, opts ...api.SetOption) bool {
	if key == "" {
		return false
	}
	o := api.ApplySetOptions(opts)

	payload, compressed, encrypted, err := c.engine.Encode(value, o.Encrypt)
	if err != nil {
		c.observer.OnRecoveredError("set.encode", key, err)
		return false
	}

	target := c.tierByName(c.engine.ResolveTier(o))
	if target == nil {
		c.observer.OnRecoveredError("set.route", key, errUnknownTier)
		return false
	}

	ttl := o.TTL
	if ttl <= 0 {
		ttl = target.DefaultTTL
	}

	now := time.Now()
	ent := &types.CacheEntry{
		Key:          key,
		Payload:      payload,
		CreatedAt:    now,
		TTL:          ttl,
		SizeBytes:    int64(len(payload)),
		LastAccessAt: now,
		Priority:     o.Priority,
		Tags:         o.Tags,
		Compressed:   compressed,
		Encrypted:    encrypted,
	}

	// A key lives in at most one tier; writing to the target displaces any
	// copy elsewhere.
	for _, t := range c.tiers {
		if t != target {
			if _, ok := t.Remove(key); ok && t == c.durable {
				c.removeDurable(key)
			}
		}
	}

	for _, victim := range target.Insert(ent) {
		c.metrics.Eviction(target.Name)
		if target == c.durable {
			c.removeDurable(victim.Key)
		}
	}

	if target == c.durable && c.policy != nil {
		if env, err := persist.EncodeEntry(ent); err != nil {
			c.observer.OnRecoveredError("set.persist", key, err)
		} else {
			c.policy.OnWrite(c.prefix+key, env)
		}
	}

	return true
}

// Get retrieves a value, searching hot → session → durable.
func (c *TieredCache) Get(ctx context.Context, key string) (any, bool) {
	raw, ok := c.lookup(key)
	if !ok {
		return nil, false
	}

	var v any
	if err := codec.Unmarshal(raw, &v); err != nil {
		c.observer.OnRecoveredError("get.decode", key, err)
		c.Delete(key)
		return nil, false
	}
	return v, true
}

/*
lookup is the shared read path: find the entry, expire it lazily if its
TTL elapsed, reverse its transforms, record the access, and promote it
toward hot once it qualifies. Returns the entry's serialized value.

Promotion happens after the payload has been decoded, so a promotion
hiccup can never cost the caller the value it asked for.
*/
func (c *TieredCache) lookup(key string) ([]byte, bool) {
	now := time.Now()

	for _, t := range c.tiers {
		ent, ok := t.Get(key)
		if !ok {
			continue
		}

		if c.engine.IsExpired(ent, now) {
			c.removeEntry(t, key)
			c.metrics.Expire()
			break
		}

		raw, err := c.engine.DecodeBytes(ent)
		if err != nil {
			// Corrupted entries self-heal by disappearing.
			c.observer.OnRecoveredError("get.transform", key, err)
			c.removeEntry(t, key)
			break
		}

		ent.Touch(now)
		t.OnAccess(key, now)

		if t != c.hot && c.engine.ShouldPromote(ent) {
			c.promote(t, ent)
		}

		c.hits.Add(1)
		c.metrics.Hit()
		return raw, true
	}

	c.misses.Add(1)
	c.metrics.Miss()
	return nil, false
}

// promote moves an entry into the hot tier. Move semantics: the source
// copy is removed first so the key never exists in two tiers.
func (c *TieredCache) promote(from *tier.Tier, ent *types.CacheEntry) {
	from.Remove(ent.Key)
	if from == c.durable {
		c.removeDurable(ent.Key)
	}
	for range c.hot.Insert(ent) {
		c.metrics.Eviction(c.hot.Name)
	}
	c.metrics.Promotion()
}

// GetOrSet returns the cached value or stores the factory's result.
// Concurrent callers for the same missing key each run the factory;
// the last completed write wins.
func (c *TieredCache) GetOrSet(ctx context.Context, key string, factory func(context.Context) (any, error), opts ...api.SetOption) (any, error) {
	if v, ok := c.Get(ctx, key); ok {
		return v, nil
	}
	v, err := factory(ctx)
	if err != nil {
		return nil, err
	}
	c.Set(ctx, key, v, opts...)
	return v, nil
}

// Delete removes the key from whichever tier holds it. Idempotent.
func (c *TieredCache) Delete(key string) bool {
	for _, t := range c.tiers {
		if _, ok := t.Remove(key); ok {
			if t == c.durable {
				c.removeDurable(key)
			}
			return true
		}
	}
	return false
}

// Clear empties the named tiers, or all of them. Clearing durable also
// clears the backing store's keys under the cache's prefix.
func (c *TieredCache) Clear(tiers ...types.TierName) {
	if len(tiers) == 0 {
		tiers = []types.TierName{types.TierHot, types.TierSession, types.TierDurable}
	}
	for _, name := range tiers {
		t := c.tierByName(name)
		if t == nil {
			continue
		}
		dropped := t.Clear()
		if t != c.durable {
			continue
		}
		if c.store != nil {
			keys, err := c.store.ListKeys(c.prefix)
			if err == nil {
				for _, k := range keys {
					c.policy.OnRemove(k)
				}
				continue
			}
			c.observer.OnRecoveredError("clear.list", string(name), err)
		}
		for _, ent := range dropped {
			c.removeDurable(ent.Key)
		}
	}
}

// InvalidateByTag removes every entry carrying the tag, across all tiers.
func (c *TieredCache) InvalidateByTag(tag string) int {
	removed := 0
	for _, t := range c.tiers {
		for _, ent := range t.Entries() {
			if ent.HasTag(tag) {
				if c.removeEntry(t, ent.Key) {
					removed++
				}
			}
		}
	}
	return removed
}

// RemoveExpired drops every entry past its TTL. The sweeper calls this
// periodically; reads expire lazily on their own.
func (c *TieredCache) RemoveExpired(now time.Time) int {
	removed := 0
	for _, t := range c.tiers {
		for _, ent := range t.Entries() {
			if c.engine.IsExpired(ent, now) {
				if c.removeEntry(t, ent.Key) {
					c.metrics.Expire()
					removed++
				}
			}
		}
	}
	return removed
}

// Stats returns a point-in-time snapshot.
func (c *TieredCache) Stats() api.Stats {
	s := api.Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Tiers:  make(map[types.TierName]api.TierStats, len(c.tiers)),
	}
	for _, t := range c.tiers {
		s.Tiers[t.Name] = api.TierStats{
			Entries:       t.Len(),
			SizeBytes:     t.UsedBytes(),
			CapacityBytes: t.CapacityBytes,
		}
	}
	return s
}

// Close stops the sweep and flushes pending durable writes. Idempotent.
func (c *TieredCache) Close() {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	c.sweeper.Stop()
	if c.policy != nil {
		c.policy.Close()
	}
}

func (c *TieredCache) tierByName(name types.TierName) *tier.Tier {
	switch name {
	case types.TierHot:
		return c.hot
	case types.TierSession:
		return c.session
	case types.TierDurable:
		return c.durable
	default:
		return nil
	}
}

func (c *TieredCache) removeEntry(t *tier.Tier, key string) bool {
	_, ok := t.Remove(key)
	if ok && t == c.durable {
		c.removeDurable(key)
	}
	return ok
}

func (c *TieredCache) removeDurable(key string) {
	if c.policy != nil {
		c.policy.OnRemove(c.prefix + key)
	}
}

/*
rehydrate restores the durable tier from the external store.

Reads and envelope decoding run concurrently (bounded); inserts run
serially afterwards so tier bookkeeping stays single-writer. Entries that
fail to decode or arrive already expired are dropped from the store
silently; rehydration never fails construction.
*/
func (c *TieredCache) rehydrate() {
	keys, err := c.store.ListKeys(c.prefix)
	if err != nil {
		c.observer.OnRecoveredError("rehydrate.list", c.prefix, err)
		return
	}

	now := time.Now()
	var mu sync.Mutex
	var restored []*types.CacheEntry

	var g errgroup.Group
	g.SetLimit(4)
	for _, storeKey := range keys {
		g.Go(func() error {
			raw, ok, err := c.store.Read(storeKey)
			if err != nil || !ok {
				if err != nil {
					c.observer.OnRecoveredError("rehydrate.read", storeKey, err)
				}
				return nil
			}
			key := strings.TrimPrefix(storeKey, c.prefix)
			ent, err := persist.DecodeEntry(key, raw)
			if err != nil || c.engine.IsExpired(ent, now) {
				if err != nil {
					c.observer.OnRecoveredError("rehydrate.decode", storeKey, err)
				}
				if rerr := c.store.Remove(storeKey); rerr != nil {
					c.observer.OnRecoveredError("rehydrate.remove", storeKey, rerr)
				}
				return nil
			}
			mu.Lock()
			restored = append(restored, ent)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for _, ent := range restored {
		for _, victim := range c.durable.Insert(ent) {
			c.metrics.Eviction(c.durable.Name)
			c.removeDurable(victim.Key)
		}
		c.metrics.Rehydrate()
	}
}
