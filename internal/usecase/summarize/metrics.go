package summarize

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// QualityMetrics tracks summary length, limit compliance, and generation
// duration across the process, independent of which LLM provider produced
// the text.
type QualityMetrics struct {
	length        prometheus.Histogram
	limitExceeded prometheus.Counter
	compliant     prometheus.Counter
	nonCompliant  prometheus.Counter
	duration      prometheus.Histogram
}

var (
	promQualityMetrics     *QualityMetrics
	promQualityMetricsOnce sync.Once
)

// NewQualityMetrics returns the process-wide singleton recorder, registering
// its collectors on first use.
func NewQualityMetrics() *QualityMetrics {
	promQualityMetricsOnce.Do(func() {
		promQualityMetrics = &QualityMetrics{
			length: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "summarize_summary_length_chars",
				Help:    "Character length of generated summaries",
				Buckets: prometheus.LinearBuckets(100, 200, 10),
			}),
			limitExceeded: promauto.NewCounter(prometheus.CounterOpts{
				Name: "summarize_character_limit_exceeded_total",
				Help: "Summaries that exceeded the configured character limit",
			}),
			compliant: promauto.NewCounter(prometheus.CounterOpts{
				Name: "summarize_character_limit_compliant_total",
				Help: "Summaries within the configured character limit",
			}),
			nonCompliant: promauto.NewCounter(prometheus.CounterOpts{
				Name: "summarize_character_limit_noncompliant_total",
				Help: "Summaries outside the configured character limit",
			}),
			duration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "summarize_duration_seconds",
				Help:    "Time taken to produce a single article summary",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			}),
		}
	})
	return promQualityMetrics
}

// RecordLength observes a generated summary's character length.
func (m *QualityMetrics) RecordLength(chars int) {
	m.length.Observe(float64(chars))
}

// RecordLimitExceeded increments the exceeded-limit counter.
func (m *QualityMetrics) RecordLimitExceeded() {
	m.limitExceeded.Inc()
}

// RecordCompliance increments the compliant or non-compliant counter
// depending on withinLimit.
func (m *QualityMetrics) RecordCompliance(withinLimit bool) {
	if withinLimit {
		m.compliant.Inc()
		return
	}
	m.nonCompliant.Inc()
}

// RecordDuration observes the wall-clock time spent producing one summary.
func (m *QualityMetrics) RecordDuration(d time.Duration) {
	m.duration.Observe(d.Seconds())
}
