package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters for the duplicate detection and routing
// services. Fail-open branches increment a counter so swallowed errors stay
// observable even though no error reaches the caller.
type Metrics struct {
	registry *prometheus.Registry

	DuplicateChecks         prometheus.Counter
	DuplicateLookupFailures prometheus.Counter
	RoutesBuilt             prometheus.Counter
	RoutingFallbacks        prometheus.Counter
	OptimizeFallbacks       prometheus.Counter
}

// New creates a Metrics instance backed by its own registry, so tests can
// construct independent instances without collector name collisions.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		DuplicateChecks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "archiroutes_duplicate_checks_total",
			Help: "Number of duplicate checks performed.",
		}),
		DuplicateLookupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "archiroutes_duplicate_lookup_failures_total",
			Help: "Number of duplicate lookups that failed and returned an empty result.",
		}),
		RoutesBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "archiroutes_routes_built_total",
			Help: "Number of routes built.",
		}),
		RoutingFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "archiroutes_routing_fallbacks_total",
			Help: "Number of routes synthesized locally after a directions provider failure.",
		}),
		OptimizeFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "archiroutes_optimize_fallbacks_total",
			Help: "Number of optimizations that fell back to the original waypoint order.",
		}),
	}

	registry.MustRegister(
		m.DuplicateChecks,
		m.DuplicateLookupFailures,
		m.RoutesBuilt,
		m.RoutingFallbacks,
		m.OptimizeFallbacks,
	)

	return m
}

// Handler returns an http.Handler serving the registry in Prometheus
// exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
