package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karuvi/tiercache/api"
	"github.com/karuvi/tiercache/codec"
	"github.com/karuvi/tiercache/types"
)

func newTestEngine(t *testing.T, withKey bool) *Engine {
	t.Helper()
	var enc *codec.Encryptor
	if withKey {
		var err error
		enc, err = codec.NewEncryptor([]byte(strings.Repeat("k", 32)))
		require.NoError(t, err)
	}
	return New(codec.NewS2Codec(), enc, 1024, 5)
}

func TestResolveTierExplicitOverrideWins(t *testing.T) {
	e := newTestEngine(t, false)

	// Explicit tier beats every other signal, including high priority.
	got := e.ResolveTier(api.SetOptions{
		Tier:        types.TierSession,
		Priority:    types.PriorityHigh,
		SessionOnly: false,
	})
	assert.Equal(t, types.TierSession, got)
}

func TestResolveTierPolicy(t *testing.T) {
	e := newTestEngine(t, false)

	assert.Equal(t, types.TierHot, e.ResolveTier(api.SetOptions{Priority: types.PriorityHigh}))
	assert.Equal(t, types.TierSession, e.ResolveTier(api.SetOptions{SessionOnly: true}))
	assert.Equal(t, types.TierDurable, e.ResolveTier(api.SetOptions{Priority: types.PriorityNormal}))
	assert.Equal(t, types.TierDurable, e.ResolveTier(api.SetOptions{Priority: types.PriorityLow}))
}

func TestEncodeSmallPayloadStaysUncompressed(t *testing.T) {
	e := newTestEngine(t, false)

	payload, compressed, encrypted, err := e.Encode("small value", false)
	require.NoError(t, err)
	assert.False(t, compressed)
	assert.False(t, encrypted)
	assert.Equal(t, `"small value"`, string(payload))
}

func TestEncodeCompressesPastThreshold(t *testing.T) {
	e := newTestEngine(t, false) // threshold 1 KiB

	big := strings.Repeat("data", 2048)
	payload, compressed, _, err := e.Encode(big, false)
	require.NoError(t, err)
	assert.True(t, compressed)
	assert.Less(t, len(payload), len(big))

	ent := &types.CacheEntry{Payload: payload, Compressed: true}
	raw, err := e.DecodeBytes(ent)
	require.NoError(t, err)

	var out string
	require.NoError(t, codec.Unmarshal(raw, &out))
	assert.Equal(t, big, out)
}

func TestEncodeEncryptsOnRequest(t *testing.T) {
	e := newTestEngine(t, true)

	payload, compressed, encrypted, err := e.Encode("secret", true)
	require.NoError(t, err)
	assert.False(t, compressed)
	assert.True(t, encrypted)
	assert.NotContains(t, string(payload), "secret")

	ent := &types.CacheEntry{Payload: payload, Encrypted: true}
	raw, err := e.DecodeBytes(ent)
	require.NoError(t, err)
	assert.Equal(t, `"secret"`, string(raw))
}

func TestEncodeEncryptionUnavailable(t *testing.T) {
	e := newTestEngine(t, false)

	_, _, _, err := e.Encode("secret", true)
	assert.ErrorIs(t, err, ErrEncryptionUnavailable)
}

func TestDecodeReversesTransformsInOrder(t *testing.T) {
	e := newTestEngine(t, true)

	// Compressed AND encrypted: write order is compress-then-encrypt, so
	// the read path must decrypt before it decompresses.
	big := strings.Repeat("records ", 1024)
	payload, compressed, encrypted, err := e.Encode(big, true)
	require.NoError(t, err)
	require.True(t, compressed)
	require.True(t, encrypted)

	ent := &types.CacheEntry{Payload: payload, Compressed: true, Encrypted: true}
	v, err := e.Decode(ent)
	require.NoError(t, err)
	assert.Equal(t, big, v)
}

func TestDecodeCorruptPayloadFails(t *testing.T) {
	e := newTestEngine(t, false)

	ent := &types.CacheEntry{Payload: []byte("junk"), Compressed: true}
	_, err := e.DecodeBytes(ent)
	assert.Error(t, err)
}

func TestShouldPromote(t *testing.T) {
	e := newTestEngine(t, false) // threshold 5

	normal := &types.CacheEntry{Priority: types.PriorityNormal, AccessCount: 4}
	assert.False(t, e.ShouldPromote(normal))
	normal.AccessCount = 5
	assert.True(t, e.ShouldPromote(normal))

	// High priority bypasses the threshold after a single read.
	high := &types.CacheEntry{Priority: types.PriorityHigh, AccessCount: 1}
	assert.True(t, e.ShouldPromote(high))
	high.AccessCount = 0
	assert.False(t, e.ShouldPromote(high))
}

func TestIsExpired(t *testing.T) {
	e := newTestEngine(t, false)
	now := time.Now()

	live := &types.CacheEntry{CreatedAt: now.Add(-time.Second), TTL: time.Minute}
	assert.False(t, e.IsExpired(live, now))

	dead := &types.CacheEntry{CreatedAt: now.Add(-2 * time.Minute), TTL: time.Minute}
	assert.True(t, e.IsExpired(dead, now))
}
