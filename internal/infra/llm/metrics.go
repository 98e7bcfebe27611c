package llm

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CallMetricsRecorder records provider-agnostic chat call metrics, labeled
// by provider name so Claude and OpenAI show up as distinct series.
type CallMetricsRecorder interface {
	RecordDuration(provider string, d time.Duration)
	RecordError(provider string)
}

// PrometheusCallMetrics implements CallMetricsRecorder with Prometheus.
type PrometheusCallMetrics struct {
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

var (
	promCallMetrics     *PrometheusCallMetrics
	promCallMetricsOnce sync.Once
)

// NewPrometheusCallMetrics returns the process-wide singleton recorder,
// registering its collectors on first use.
func NewPrometheusCallMetrics() *PrometheusCallMetrics {
	promCallMetricsOnce.Do(func() {
		promCallMetrics = &PrometheusCallMetrics{
			duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "llm_chat_duration_seconds",
				Help:    "Time taken by a chat-completion call, by provider",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			}, []string{"provider"}),
			errors: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "llm_chat_errors_total",
				Help: "Total chat-completion calls that failed after retries, by provider",
			}, []string{"provider"}),
		}
	})
	return promCallMetrics
}

// RecordDuration implements CallMetricsRecorder.
func (m *PrometheusCallMetrics) RecordDuration(provider string, d time.Duration) {
	m.duration.WithLabelValues(provider).Observe(d.Seconds())
}

// RecordError implements CallMetricsRecorder.
func (m *PrometheusCallMetrics) RecordError(provider string) {
	m.errors.WithLabelValues(provider).Inc()
}
