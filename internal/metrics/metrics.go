// Package metrics bundles the Prometheus collectors the client maintains
// while orchestrating requests.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds one client instance's collectors. Instances register on a
// caller-supplied Registerer rather than the global default so two clients
// in one process cannot collide.
type Metrics struct {
	Requests  *prometheus.CounterVec
	Retries   *prometheus.CounterVec
	Latency   *prometheus.HistogramVec
	InFlight  prometheus.Gauge
	CacheHits prometheus.Counter
}

// New creates the collector set and registers it on reg. A nil reg leaves
// the collectors unregistered but fully functional, which keeps metrics
// optional for library embedders.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "entsoe_requests_total",
				Help: "API requests by endpoint and outcome.",
			},
			[]string{"endpoint", "outcome"},
		),
		Retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "entsoe_request_retries_total",
				Help: "Transient failures that triggered a retry, by endpoint.",
			},
			[]string{"endpoint"},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "entsoe_request_duration_seconds",
				Help:    "Per-attempt request latency by endpoint.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "entsoe_chunks_in_flight",
			Help: "Chunk fetches currently running.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "entsoe_cache_hits_total",
			Help: "Queries answered from the result cache.",
		}),
	}

	if reg != nil {
		collectors := []prometheus.Collector{
			m.Requests, m.Retries, m.Latency, m.InFlight, m.CacheHits,
		}
		for _, c := range collectors {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}
