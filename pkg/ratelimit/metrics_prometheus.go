package ratelimit

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics is the production RateLimitMetrics, registered on its own
// registry so FeedLimiter instances in tests don't collide on global metric
// names. limiter_type is always "feed_fetch" here; path/endpoint carries the
// publisher name.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	checkDuration    *prometheus.HistogramVec
	activeKeys       *prometheus.GaugeVec
	circuitState     *prometheus.GaugeVec
	degradationLevel *prometheus.GaugeVec
	evictionsTotal   *prometheus.CounterVec
}

// NewPrometheusMetrics builds a PrometheusMetrics on a fresh registry, so
// multiple FeedLimiter instances (e.g. one per test) never collide registering
// the same metric names on the global DefaultRegisterer.
func NewPrometheusMetrics() *PrometheusMetrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limit_requests_total",
			Help: "Total rate limit requests by limiter type, status, and path",
		},
		[]string{"limiter_type", "status", "path"},
	)

	checkDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_rate_limit_check_duration_seconds",
			Help:    "Duration of rate limit check operations",
			Buckets: []float64{0.0005, 0.001, 0.002, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"limiter_type"},
	)

	activeKeys := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_rate_limit_active_keys",
			Help: "Current number of active keys by limiter type",
		},
		[]string{"limiter_type"},
	)

	circuitState := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_rate_limit_circuit_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"limiter_type"},
	)

	degradationLevel := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_rate_limit_degradation_level",
			Help: "Current degradation level (0=normal, 1=relaxed, 2=minimal, 3=disabled)",
		},
		[]string{"limiter_type"},
	)

	evictionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limit_evictions_total",
			Help: "Total LRU evictions by limiter type",
		},
		[]string{"limiter_type"},
	)

	// Register all metrics with the custom registry
	registry.MustRegister(
		requestsTotal,
		checkDuration,
		activeKeys,
		circuitState,
		degradationLevel,
		evictionsTotal,
	)

	return &PrometheusMetrics{
		registry:         registry,
		requestsTotal:    requestsTotal,
		checkDuration:    checkDuration,
		activeKeys:       activeKeys,
		circuitState:     circuitState,
		degradationLevel: degradationLevel,
		evictionsTotal:   evictionsTotal,
	}
}

func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *PrometheusMetrics) RecordRequest(limiterType, endpoint string) {
	m.requestsTotal.WithLabelValues(limiterType, "allowed", endpoint).Inc()
}

func (m *PrometheusMetrics) RecordDenied(limiterType, endpoint string) {
	m.requestsTotal.WithLabelValues(limiterType, "denied", endpoint).Inc()
}

// RecordAllowed is RecordRequest under a more explicit name.
func (m *PrometheusMetrics) RecordAllowed(limiterType, endpoint string) {
	m.RecordRequest(limiterType, endpoint)
}

func (m *PrometheusMetrics) RecordCheckDuration(limiterType string, duration time.Duration) {
	m.checkDuration.WithLabelValues(limiterType).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) SetActiveKeys(limiterType string, count int) {
	m.activeKeys.WithLabelValues(limiterType).Set(float64(count))
}

// RecordCircuitState maps state ("closed"/"open"/"half-open") to a gauge
// value (0/1/2) for alerting; unrecognized states are treated as closed.
func (m *PrometheusMetrics) RecordCircuitState(limiterType, state string) {
	var stateValue float64
	switch state {
	case "closed":
		stateValue = 0
	case "open":
		stateValue = 1
	case "half-open":
		stateValue = 2
	default:
		stateValue = 0
	}
	m.circuitState.WithLabelValues(limiterType).Set(stateValue)
}

func (m *PrometheusMetrics) RecordDegradationLevel(limiterType string, level int) {
	m.degradationLevel.WithLabelValues(limiterType).Set(float64(level))
}

// RecordEviction records keys evicted from the store once it hit capacity.
// A persistently high rate usually means MaxActiveKeys needs raising for the
// current watchlist size.
func (m *PrometheusMetrics) RecordEviction(limiterType string, count int) {
	m.evictionsTotal.WithLabelValues(limiterType).Add(float64(count))
}
