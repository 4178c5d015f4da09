package durable

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteReadWriteRemove(t *testing.T) {
	s := newSQLite(t)

	_, ok, err := s.Read("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Write("k1", "v1"))

	v, ok, err := s.Read("k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v1", v)

	require.NoError(t, s.Remove("k1"))
	require.NoError(t, s.Remove("k1")) // idempotent

	_, ok, err = s.Read("k1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteWriteReplaces(t *testing.T) {
	s := newSQLite(t)

	require.NoError(t, s.Write("k", "old"))
	require.NoError(t, s.Write("k", "new"))

	v, ok, err := s.Read("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestSQLiteListKeysHonorsPrefix(t *testing.T) {
	s := newSQLite(t)

	require.NoError(t, s.Write("cache:a", "1"))
	require.NoError(t, s.Write("cache:b", "2"))
	require.NoError(t, s.Write("other:c", "3"))

	keys, err := s.ListKeys("cache:")
	require.NoError(t, err)
	assert.Equal(t, []string{"cache:a", "cache:b"}, keys)

	keys, err = s.ListKeys("nothing:")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	s1, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s1.Write("k", "v"))
	require.NoError(t, s1.Close())

	s2, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s2.Close()

	v, ok, err := s2.Read("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestMemoryStoreBehavesLikeSQLite(t *testing.T) {
	m := NewMemoryStore()

	require.NoError(t, m.Write("p:a", "1"))
	require.NoError(t, m.Write("p:b", "2"))
	require.NoError(t, m.Write("q:c", "3"))

	keys, err := m.ListKeys("p:")
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	require.NoError(t, m.Remove("p:a"))
	_, ok, err := m.Read("p:a")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, m.Len())
}
