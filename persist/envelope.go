package persist

import (
	"errors"
	"time"

	json "github.com/goccy/go-json"

	"github.com/karuvi/tiercache/types"
)

// ErrQueueFull is reported when write-back drops a mutation under pressure.
var ErrQueueFull = errors.New("persist: write-back queue full")

/*
envelope is the wire form of a durable entry. The payload stays exactly
as stored in memory (post-transform); the metadata travels alongside so
rehydration can rebuild the CacheEntry, including the flags needed to
reverse transforms on a later read.
*/
type envelope struct {
	Payload    []byte   `json:"payload"`
	CreatedAt  int64    `json:"createdAtMs"`
	TTLMs      int64    `json:"ttlMs"`
	Priority   int      `json:"priority"`
	Tags       []string `json:"tags,omitempty"`
	SizeBytes  int64    `json:"sizeBytes"`
	Compressed bool     `json:"compressed,omitempty"`
	Encrypted  bool     `json:"encrypted,omitempty"`
}

// EncodeEntry serializes an entry for the durable store.
func EncodeEntry(ent *types.CacheEntry) (string, error) {
	env := envelope{
		Payload:    ent.Payload,
		CreatedAt:  ent.CreatedAt.UnixMilli(),
		TTLMs:      ent.TTL.Milliseconds(),
		Priority:   int(ent.Priority),
		Tags:       ent.Tags,
		SizeBytes:  ent.SizeBytes,
		Compressed: ent.Compressed,
		Encrypted:  ent.Encrypted,
	}
	b, err := json.Marshal(env)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeEntry rebuilds an entry from its stored form. The key is not part
// of the envelope; it is recovered from the store key by the caller.
func DecodeEntry(key, data string) (*types.CacheEntry, error) {
	var env envelope
	if err := json.Unmarshal([]byte(data), &env); err != nil {
		return nil, err
	}
	if env.TTLMs <= 0 {
		return nil, errors.New("persist: envelope missing ttl")
	}
	if env.SizeBytes == 0 {
		env.SizeBytes = int64(len(env.Payload))
	}
	return &types.CacheEntry{
		Key:        key,
		Payload:    env.Payload,
		CreatedAt:  time.UnixMilli(env.CreatedAt),
		TTL:        time.Duration(env.TTLMs) * time.Millisecond,
		SizeBytes:  env.SizeBytes,
		Priority:   types.Priority(env.Priority),
		Tags:       env.Tags,
		Compressed: env.Compressed,
		Encrypted:  env.Encrypted,
	}, nil
}
