// Package metrics provides a Prometheus-backed implementation of the
// cache's Metrics interface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/karuvi/tiercache/types"
)

// PrometheusMetrics exports cache events as Prometheus counters on its
// own registry, so embedding applications choose where to expose it.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	hits         prometheus.Counter
	misses       prometheus.Counter
	expirations  prometheus.Counter
	promotions   prometheus.Counter
	rehydrations prometheus.Counter
	evictions    *prometheus.CounterVec
}

// NewPrometheus builds the collector. namespace prefixes every metric
// name (e.g. "myapp" → myapp_cache_hits_total).
func NewPrometheus(namespace string) *PrometheusMetrics {
	m := &PrometheusMetrics{registry: prometheus.NewRegistry()}

	counter := func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      name,
			Help:      help,
		})
		m.registry.MustRegister(c)
		return c
	}

	m.hits = counter("hits_total", "Lookups served from any tier")
	m.misses = counter("misses_total", "Lookups that found nothing usable")
	m.expirations = counter("expirations_total", "Entries removed because their TTL elapsed")
	m.promotions = counter("promotions_total", "Entries moved into the hot tier")
	m.rehydrations = counter("rehydrations_total", "Entries restored from the durable store at startup")

	m.evictions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "evictions_total",
		Help:      "Entries evicted to free capacity, by tier",
	}, []string{"tier"})
	m.registry.MustRegister(m.evictions)

	return m
}

func (m *PrometheusMetrics) Hit()       { m.hits.Inc() }
func (m *PrometheusMetrics) Miss()      { m.misses.Inc() }
func (m *PrometheusMetrics) Expire()    { m.expirations.Inc() }
func (m *PrometheusMetrics) Promotion() { m.promotions.Inc() }
func (m *PrometheusMetrics) Rehydrate() { m.rehydrations.Inc() }

func (m *PrometheusMetrics) Eviction(tier types.TierName) {
	m.evictions.WithLabelValues(string(tier)).Inc()
}

// Registry returns the registry holding the cache metrics, for mounting
// on an exposition endpoint.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}
