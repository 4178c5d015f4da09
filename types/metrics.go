package types

// This file defines how the cache reports what it is doing.

/*
Metrics is the set of events the cache wants measured.
The cache calls these methods whenever the corresponding event happens;
implementations decide what to do with them (count, export, ignore).
*/
type Metrics interface {

	// Hit is called when a lookup finds a live entry in any tier.
	Hit()

	// Miss is called when a lookup finds nothing, or finds only an
	// expired or unreadable entry.
	Miss()

	// Eviction is called when an entry is removed to free capacity,
	// with the tier it was evicted from.
	Eviction(tier TierName)

	// Expire is called when an entry is removed because its TTL elapsed,
	// whether lazily on read or by the sweep.
	Expire()

	// Promotion is called when an entry moves from a lower tier into hot.
	Promotion()

	// Rehydrate is called for every entry restored from the durable store
	// at startup.
	Rehydrate()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

Callers that do not care about metrics still get a working cache without
nil checks scattered through the hot path.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()               {}
func (NoopMetrics) Miss()              {}
func (NoopMetrics) Eviction(TierName)  {}
func (NoopMetrics) Expire()            {}
func (NoopMetrics) Promotion()         {}
func (NoopMetrics) Rehydrate()         {}
