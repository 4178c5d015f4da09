// This file implements the durable tier's priority+age ordering.

package eviction

import (
	"time"

	"github.com/karuvi/tiercache/types"
)

type priorityStat struct {
	priority  types.Priority
	createdAt time.Time
}

/*
priorityAge orders victims by priority first, age second: the lowest
priority bucket empties before a higher one is touched, and within a
bucket the oldest entry goes first.

The priority term must strictly dominate: a high-priority entry is
never evicted before a lower-priority peer, regardless of age. Any
blend that lets a large age gap outweigh a priority step would break
that contract. When every remaining entry shares a priority, ordering
degrades to age alone.

Evict is an O(n) scan, same trade-off as the weighted strategy.
*/
type priorityAge struct {
	stats map[string]*priorityStat
}

func newPriorityAge() *priorityAge {
	return &priorityAge{stats: make(map[string]*priorityStat)}
}

func (p *priorityAge) OnAdd(k string, meta Meta) {
	p.stats[k] = &priorityStat{priority: meta.Priority, createdAt: meta.CreatedAt}
}

// OnAccess is ignored: durable ordering depends on priority and age only.
func (p *priorityAge) OnAccess(string, time.Time) {}

func (p *priorityAge) Remove(k string) {
	delete(p.stats, k)
}

func (p *priorityAge) Evict() string {
	if len(p.stats) == 0 {
		return ""
	}

	var victim string
	var best *priorityStat
	for k, s := range p.stats {
		if best == nil ||
			s.priority < best.priority ||
			(s.priority == best.priority && s.createdAt.Before(best.createdAt)) {
			victim, best = k, s
		}
	}

	delete(p.stats, victim)
	return victim
}
