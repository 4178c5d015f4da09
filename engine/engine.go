package engine

import (
	"errors"
	"time"

	"github.com/karuvi/tiercache/api"
	"github.com/karuvi/tiercache/codec"
	"github.com/karuvi/tiercache/expiration"
	"github.com/karuvi/tiercache/types"
)

// ErrEncryptionUnavailable is returned when a Set requests encryption but
// the cache was built without an encryption key.
var ErrEncryptionUnavailable = errors.New("engine: encryption requested but no key configured")

/*
Engine is the behavior layer of the cache. It owns the "rules", not the
storage:

- how values become stored payloads and back (serialize/compress/encrypt)
- which tier a new entry belongs to
- when an entry counts as expired
- when an entry has earned promotion to the hot tier

It does NOT hold entries, run eviction, or talk to the durable store;
the orchestrator wires its decisions to the tiers.
*/
type Engine struct {

	// Codec compresses payloads past CompressThreshold. Nil disables
	// compression entirely.
	Codec codec.Codec

	// Encryptor handles opt-in payload encryption. Nil means Sets
	// requesting encryption fail.
	Encryptor *codec.Encryptor

	// Expiry decides when entries are too old to serve.
	Expiry expiration.Strategy

	// CompressThreshold is the serialized size, in bytes, past which
	// payloads are compressed. <= 0 disables compression.
	CompressThreshold int64

	// PromoteThreshold is the access count at which a non-hot entry moves
	// to the hot tier.
	PromoteThreshold int64
}

func New(c codec.Codec, enc *codec.Encryptor, compressThreshold, promoteThreshold int64) *Engine {
	return &Engine{
		Codec:             c,
		Encryptor:         enc,
		Expiry:            expiration.FixedTTL{},
		CompressThreshold: compressThreshold,
		PromoteThreshold:  promoteThreshold,
	}
}

/*
Encode turns a caller's value into the payload a tier stores.

Order matters: serialize, compress, encrypt. Compressing first keeps the
codec effective (ciphertext does not compress); the read path reverses
the transforms back-to-front.
*/
func (e *Engine) Encode(value any, encrypt bool) (payload []byte, compressed, encrypted bool, err error) {
	payload, err = codec.Marshal(value)
	if err != nil {
		return nil, false, false, err
	}

	if e.Codec != nil && e.CompressThreshold > 0 && int64(len(payload)) > e.CompressThreshold {
		payload, err = e.Codec.Compress(payload)
		if err != nil {
			return nil, false, false, err
		}
		compressed = true
	}

	if encrypt {
		if e.Encryptor == nil {
			return nil, false, false, ErrEncryptionUnavailable
		}
		payload, err = e.Encryptor.Encrypt(payload)
		if err != nil {
			return nil, false, false, err
		}
		encrypted = true
	}

	return payload, compressed, encrypted, nil
}

// DecodeBytes reverses an entry's transforms and returns the serialized
// value, ready to unmarshal into whatever type the caller wants.
func (e *Engine) DecodeBytes(ent *types.CacheEntry) ([]byte, error) {
	data := ent.Payload

	if ent.Encrypted {
		if e.Encryptor == nil {
			return nil, ErrEncryptionUnavailable
		}
		var err error
		data, err = e.Encryptor.Decrypt(data)
		if err != nil {
			return nil, err
		}
	}

	if ent.Compressed {
		if e.Codec == nil {
			return nil, errors.New("engine: compressed entry but no codec configured")
		}
		var err error
		data, err = e.Codec.Decompress(data)
		if err != nil {
			return nil, err
		}
	}

	return data, nil
}

// Decode reverses transforms and deserializes into a dynamic value.
func (e *Engine) Decode(ent *types.CacheEntry) (any, error) {
	data, err := e.DecodeBytes(ent)
	if err != nil {
		return nil, err
	}
	var v any
	if err := codec.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

/*
ResolveTier picks the target tier for a Set.

Two rules are load-bearing and must hold whatever else changes here:
an explicit tier override always wins, and PriorityHigh defaults to the
hot tier. The rest is tunable policy.
*/
func (e *Engine) ResolveTier(o api.SetOptions) types.TierName {
	if o.Tier != "" {
		return o.Tier
	}
	if o.Priority == types.PriorityHigh {
		return types.TierHot
	}
	if o.SessionOnly {
		return types.TierSession
	}
	return types.TierDurable
}

// IsExpired consults the expiry strategy.
func (e *Engine) IsExpired(ent *types.CacheEntry, now time.Time) bool {
	return e.Expiry.IsExpired(ent, now)
}

// ShouldPromote reports whether a non-hot entry has earned its move to
// the hot tier. High-priority entries bypass the threshold after a
// single read.
func (e *Engine) ShouldPromote(ent *types.CacheEntry) bool {
	if ent.Priority == types.PriorityHigh {
		return ent.AccessCount >= 1
	}
	return ent.AccessCount >= e.PromoteThreshold
}
