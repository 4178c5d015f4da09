package expiration

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/karuvi/tiercache/types"
)

func entryWithTTL(createdAt time.Time, ttl time.Duration) *types.CacheEntry {
	return &types.CacheEntry{
		Key:       "k",
		CreatedAt: createdAt,
		TTL:       ttl,
	}
}

type countingTarget struct {
	sweeps atomic.Int64
}

func (c *countingTarget) RemoveExpired(time.Time) int {
	c.sweeps.Add(1)
	return 0
}

func TestSweeperRunsPeriodically(t *testing.T) {
	target := &countingTarget{}
	s := NewSweeper(target, 10*time.Millisecond)
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return target.sweeps.Load() >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestSweeperStopHaltsSweeping(t *testing.T) {
	target := &countingTarget{}
	s := NewSweeper(target, 5*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	s.Stop()

	after := target.sweeps.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, target.sweeps.Load(), "no sweeps after Stop")
}

func TestSweeperStopIsIdempotent(t *testing.T) {
	s := NewSweeper(&countingTarget{}, time.Minute)

	s.Stop()
	s.Stop() // must not panic or block
}

func TestFixedTTL(t *testing.T) {
	strategy := FixedTTL{}
	now := time.Now()

	ent := entryWithTTL(now.Add(-2*time.Second), time.Second)
	assert.True(t, strategy.IsExpired(ent, now))

	ent = entryWithTTL(now.Add(-500*time.Millisecond), time.Second)
	assert.False(t, strategy.IsExpired(ent, now))
}
