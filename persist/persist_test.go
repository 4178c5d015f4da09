package persist

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karuvi/tiercache/types"
)

type fakeStore struct {
	mu   sync.Mutex
	data map[string]string
	fail bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (s *fakeStore) Read(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *fakeStore) Write(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("store unavailable")
	}
	s.data[key] = value
	return nil
}

func (s *fakeStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *fakeStore) ListKeys(prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

type recordingObserver struct {
	mu     sync.Mutex
	events []string
}

func (o *recordingObserver) OnRecoveredError(op, key string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, op)
}

func (o *recordingObserver) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.events)
}

func TestWriteThroughWritesImmediately(t *testing.T) {
	store := newFakeStore()
	p := NewWriteThrough(store, nil)
	defer p.Close()

	p.OnWrite("k", "v")

	v, ok, err := store.Read("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", v)

	p.OnRemove("k")
	_, ok, _ = store.Read("k")
	assert.False(t, ok)
}

func TestWriteThroughReportsFailures(t *testing.T) {
	store := newFakeStore()
	store.fail = true
	obs := &recordingObserver{}
	p := NewWriteThrough(store, obs)

	p.OnWrite("k", "v") // must not panic or block

	assert.Equal(t, 1, obs.count())
}

func TestWriteBackAppliesQueuedMutations(t *testing.T) {
	store := newFakeStore()
	p := NewWriteBack(store, nil, 16)

	p.OnWrite("a", "1")
	p.OnWrite("b", "2")
	p.OnRemove("a")
	p.Close() // drains the queue

	_, ok, _ := store.Read("a")
	assert.False(t, ok)
	v, ok, _ := store.Read("b")
	require.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestWriteBackDropsUnderPressure(t *testing.T) {
	store := newFakeStore()
	obs := &recordingObserver{}

	// Buffer of one and no worker progress guarantee: flood it.
	p := NewWriteBack(store, obs, 1)
	for i := 0; i < 1000; i++ {
		p.OnWrite("k", "v")
	}
	p.Close()

	// At least some mutations were dropped and each drop was reported.
	assert.Greater(t, obs.count(), 0)
}

func TestEnvelopeRoundTrip(t *testing.T) {
	created := time.Now().Truncate(time.Millisecond)
	ent := &types.CacheEntry{
		Key:        "student:1",
		Payload:    []byte("compressed-bytes"),
		CreatedAt:  created,
		TTL:        90 * time.Second,
		SizeBytes:  16,
		Priority:   types.PriorityHigh,
		Tags:       []string{"students", "views"},
		Compressed: true,
	}

	encoded, err := EncodeEntry(ent)
	require.NoError(t, err)

	decoded, err := DecodeEntry("student:1", encoded)
	require.NoError(t, err)

	assert.Equal(t, ent.Key, decoded.Key)
	assert.Equal(t, ent.Payload, decoded.Payload)
	assert.True(t, ent.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, ent.TTL, decoded.TTL)
	assert.Equal(t, ent.SizeBytes, decoded.SizeBytes)
	assert.Equal(t, ent.Priority, decoded.Priority)
	assert.Equal(t, ent.Tags, decoded.Tags)
	assert.True(t, decoded.Compressed)
	assert.False(t, decoded.Encrypted)
}

func TestDecodeEntryRejectsGarbage(t *testing.T) {
	_, err := DecodeEntry("k", "{not json")
	assert.Error(t, err)

	_, err = DecodeEntry("k", `{"payload":null,"ttlMs":0}`)
	assert.Error(t, err, "a zero TTL envelope is invalid")
}
