package eviction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	l := newLRU()
	now := time.Now()

	l.OnAdd("a", Meta{})
	l.OnAdd("b", Meta{})
	l.OnAdd("c", Meta{})

	// a becomes most recently used; b is now the stalest.
	l.OnAccess("a", now)

	assert.Equal(t, "b", l.Evict())
	assert.Equal(t, "c", l.Evict())
	assert.Equal(t, "a", l.Evict())
	assert.Equal(t, "", l.Evict(), "empty list has no victim")
}

func TestLRUReAddRefreshesPosition(t *testing.T) {
	l := newLRU()

	l.OnAdd("a", Meta{})
	l.OnAdd("b", Meta{})
	l.OnAdd("a", Meta{}) // replace counts as a use

	assert.Equal(t, "b", l.Evict())
}

func TestLRURemove(t *testing.T) {
	l := newLRU()

	l.OnAdd("a", Meta{})
	l.OnAdd("b", Meta{})

	l.Remove("a")
	l.Remove("untracked") // must be a no-op

	assert.Equal(t, "b", l.Evict())
	assert.Equal(t, "", l.Evict())
}
