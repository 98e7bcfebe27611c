// Package metrics provides Prometheus metrics registry and recording utilities
// for the news aggregation pipeline.
//
// This package centralizes every pipeline-stage metric: feed fetch outcomes
// and latency, article body fetch outcomes, summarization outcomes and
// latency, per-reason drop counts, and whole-pipeline-run outcome/latency.
//
// All metrics are automatically registered with the Prometheus default
// registry and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "newsdigest/internal/observability/metrics"
//
//	start := time.Now()
//	entries, err := fetchAndParseFeed(ctx, entry)
//	metrics.RecordFeedFetch(string(entry.Publisher), time.Since(start), err == nil, len(entries))
package metrics
