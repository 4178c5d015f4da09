// This file implements the session tier's frequency+recency blend.

package eviction

import "time"

// Weights of the two score components. Tunable; the blend itself is the
// point: neither pure LFU nor pure LRU.
const (
	weightFrequency = 0.7
	weightRecency   = 0.3
)

type weightedStat struct {
	count      int64
	lastAccess time.Time
}

/*
weighted scores every tracked key as

	0.7 × normalizedFrequency + 0.3 × normalizedRecency

with both components scaled to [0,1] across the keys currently tracked.
The LOWEST scorer (least frequently and least recently used) is evicted
first, so entries that are both hot and fresh survive longest.

Evict is an O(n) scan. Tiers hold at most a few thousand entries and
eviction only runs under capacity pressure, so the scan stays cheap
relative to the serialization work that triggered it.
*/
type weighted struct {
	stats map[string]*weightedStat
}

func newWeighted() *weighted {
	return &weighted{stats: make(map[string]*weightedStat)}
}

func (w *weighted) OnAdd(k string, meta Meta) {
	w.stats[k] = &weightedStat{lastAccess: meta.CreatedAt}
}

func (w *weighted) OnAccess(k string, at time.Time) {
	if s, ok := w.stats[k]; ok {
		s.count++
		s.lastAccess = at
	}
}

func (w *weighted) Remove(k string) {
	delete(w.stats, k)
}

func (w *weighted) Evict() string {
	if len(w.stats) == 0 {
		return ""
	}

	// Normalization bounds across the tracked keys.
	var maxCount int64
	var oldest, newest time.Time
	first := true
	for _, s := range w.stats {
		if s.count > maxCount {
			maxCount = s.count
		}
		if first || s.lastAccess.Before(oldest) {
			oldest = s.lastAccess
		}
		if first || s.lastAccess.After(newest) {
			newest = s.lastAccess
		}
		first = false
	}
	span := newest.Sub(oldest)

	var victim string
	var victimScore float64
	var victimAccess time.Time
	found := false
	for k, s := range w.stats {
		var freq float64
		if maxCount > 0 {
			freq = float64(s.count) / float64(maxCount)
		}
		var rec float64
		if span > 0 {
			rec = float64(s.lastAccess.Sub(oldest)) / float64(span)
		}
		score := weightFrequency*freq + weightRecency*rec

		// Ties break toward the staler access so the result is stable.
		if !found || score < victimScore ||
			(score == victimScore && s.lastAccess.Before(victimAccess)) {
			victim, victimScore, victimAccess = k, score, s.lastAccess
			found = true
		}
	}

	delete(w.stats, victim)
	return victim
}
