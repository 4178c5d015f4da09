package expiration

import "time"

// Target is whatever the sweeper garbage-collects. The root cache
// implements it across all tiers.
type Target interface {

	// RemoveExpired drops every entry past its TTL and returns how many
	// were removed.
	RemoveExpired(now time.Time) int
}

/*
Sweeper periodically removes expired entries regardless of read traffic.

Lazy expiry on Get only catches entries that are actually read again; the
sweep catches the rest. The two paths overlap; the redundancy keeps
stale entries from pinning capacity.
*/
type Sweeper struct {
	interval time.Duration
	target   Target
	stop     chan struct{}
	done     chan struct{}
}

// NewSweeper starts the background sweep. Callers must Stop it on
// shutdown or the goroutine dangles.
func NewSweeper(target Target, interval time.Duration) *Sweeper {
	s := &Sweeper{
		interval: interval,
		target:   target,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Sweeper) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.target.RemoveExpired(time.Now())
		case <-s.stop:
			return
		}
	}
}

// Stop halts the sweep and waits for the goroutine to exit.
// Stop is idempotent.
func (s *Sweeper) Stop() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	<-s.done
}
