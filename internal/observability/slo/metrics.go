package slo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SLO targets define the service level objectives for the pipeline.
// These targets are used to measure and monitor whether ProcessQuery and
// SummarizeArticles runs stay within their reliability budget.
const (
	// AvailabilitySLO defines the target ratio of pipeline runs that return
	// at least one summary (99.9% = roughly 1 fatal run per 1000)
	AvailabilitySLO = 99.9

	// LatencyP95SLO defines the target for 95th percentile pipeline run
	// latency in seconds
	LatencyP95SLO = 0.200

	// LatencyP99SLO defines the target for 99th percentile pipeline run
	// latency in seconds
	LatencyP99SLO = 0.500

	// ErrorRateSLO defines the maximum acceptable fatal-run rate as a ratio
	// (0.1% = 0.001)
	ErrorRateSLO = 0.001
)

// SLO tracking metrics.
// These gauges are updated periodically (e.g., every minute) based on recent
// pipeline_runs_total/pipeline_run_duration_seconds measurements, to track
// whether the pipeline is meeting its SLO targets.
var (
	// SLOAvailability tracks the current availability ratio (0-1)
	// calculated as: (pipeline_runs - fatal_runs) / pipeline_runs
	SLOAvailability = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_availability_ratio",
			Help: "Current availability ratio (0-1), target: 0.999",
		},
	)

	// SLOLatencyP95 tracks the current p95 pipeline run latency in seconds
	// calculated from pipeline_run_duration_seconds
	SLOLatencyP95 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_latency_p95_seconds",
			Help: "Current p95 latency in seconds, target: 0.200",
		},
	)

	// SLOLatencyP99 tracks the current p99 pipeline run latency in seconds
	// calculated from pipeline_run_duration_seconds
	SLOLatencyP99 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_latency_p99_seconds",
			Help: "Current p99 latency in seconds, target: 0.500",
		},
	)

	// SLOErrorRate tracks the current fatal-run rate ratio (0-1)
	// calculated as: fatal_runs / pipeline_runs
	SLOErrorRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_error_rate_ratio",
			Help: "Current error rate ratio (0-1), target: 0.001",
		},
	)
)

// UpdateAvailability updates the availability SLO metric.
// Call this periodically (e.g., every minute) with the calculated
// availability ratio.
//
// Example calculation:
//
//	totalRuns := getPipelineRunCount()
//	fatalRuns := getFatalRunCount()
//	availability := float64(totalRuns - fatalRuns) / float64(totalRuns)
//	slo.UpdateAvailability(availability)
func UpdateAvailability(ratio float64) {
	SLOAvailability.Set(ratio)
}

// UpdateLatencyP95 updates the p95 latency SLO metric.
// Call this periodically with the calculated p95 latency in seconds.
//
// Example using Prometheus query:
//
//	histogram_quantile(0.95, rate(pipeline_run_duration_seconds_bucket[5m]))
func UpdateLatencyP95(seconds float64) {
	SLOLatencyP95.Set(seconds)
}

// UpdateLatencyP99 updates the p99 latency SLO metric.
// Call this periodically with the calculated p99 latency in seconds.
//
// Example using Prometheus query:
//
//	histogram_quantile(0.99, rate(pipeline_run_duration_seconds_bucket[5m]))
func UpdateLatencyP99(seconds float64) {
	SLOLatencyP99.Set(seconds)
}

// UpdateErrorRate updates the error rate SLO metric.
// Call this periodically with the calculated fatal-run rate ratio.
//
// Example calculation:
//
//	totalRuns := getPipelineRunCount()
//	fatalRuns := getFatalRunCount()
//	errorRate := float64(fatalRuns) / float64(totalRuns)
//	slo.UpdateErrorRate(errorRate)
func UpdateErrorRate(ratio float64) {
	SLOErrorRate.Set(ratio)
}
