package eviction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/karuvi/tiercache/types"
)

func TestPriorityAgeEvictsLowPriorityFirst(t *testing.T) {
	p := newPriorityAge()
	base := time.Now()

	// The high-priority entry is oldest, yet must be evicted last.
	p.OnAdd("high-old", Meta{Priority: types.PriorityHigh, CreatedAt: base})
	p.OnAdd("normal", Meta{Priority: types.PriorityNormal, CreatedAt: base.Add(time.Minute)})
	p.OnAdd("low-new", Meta{Priority: types.PriorityLow, CreatedAt: base.Add(2 * time.Minute)})

	assert.Equal(t, "low-new", p.Evict())
	assert.Equal(t, "normal", p.Evict())
	assert.Equal(t, "high-old", p.Evict())
	assert.Equal(t, "", p.Evict())
}

func TestPriorityAgeFallsBackToAgeWithinSamePriority(t *testing.T) {
	p := newPriorityAge()
	base := time.Now()

	p.OnAdd("newer", Meta{Priority: types.PriorityHigh, CreatedAt: base.Add(time.Minute)})
	p.OnAdd("older", Meta{Priority: types.PriorityHigh, CreatedAt: base})

	assert.Equal(t, "older", p.Evict())
	assert.Equal(t, "newer", p.Evict())
}

func TestPriorityAgeIgnoresAccesses(t *testing.T) {
	p := newPriorityAge()
	base := time.Now()

	p.OnAdd("a", Meta{Priority: types.PriorityLow, CreatedAt: base})
	p.OnAdd("b", Meta{Priority: types.PriorityLow, CreatedAt: base.Add(time.Second)})

	// Heavy access does not save a durable entry.
	for i := 0; i < 100; i++ {
		p.OnAccess("a", base.Add(time.Duration(i)*time.Second))
	}

	assert.Equal(t, "a", p.Evict())
}
