// Package metrics provides centralized Prometheus metrics for the pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Feed-stage metrics track RSS/Atom ingestion per publisher.
var (
	// FeedFetchesTotal counts feed fetch attempts by publisher and outcome.
	FeedFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetches_total",
			Help: "Total number of feed fetch attempts",
		},
		[]string{"publisher", "outcome"}, // outcome: success, failure
	)

	// FeedFetchDuration measures time to fetch and parse one feed.
	FeedFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_fetch_duration_seconds",
			Help:    "Time taken to fetch and parse a feed",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"publisher"},
	)

	// EntriesDiscoveredTotal counts feed entries parsed out of fetched feeds.
	EntriesDiscoveredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_entries_discovered_total",
			Help: "Total number of feed entries discovered",
		},
		[]string{"publisher"},
	)
)

// Article-stage metrics track body fetch, extraction, and summarization.
var (
	// BodyFetchAttemptsTotal counts article page fetch attempts by result.
	BodyFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_body_fetch_attempts_total",
			Help: "Total number of article body fetch attempts",
		},
		[]string{"result"}, // result: success, failure
	)

	// BodyFetchDuration measures time to fetch and extract an article body.
	BodyFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "article_body_fetch_duration_seconds",
			Help:    "Time taken to fetch and extract an article body",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)

	// ArticlesSummarizedTotal counts summarization attempts by status.
	ArticlesSummarizedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_summarized_total",
			Help: "Total number of articles summarized",
		},
		[]string{"status"}, // success, failure
	)

	// SummarizationDuration measures time to summarize one article.
	SummarizationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summarization_duration_seconds",
			Help:    "Time taken to summarize an article",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	// DroppedItemsTotal counts items dropped from the pipeline by reason.
	DroppedItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_dropped_items_total",
			Help: "Total number of items dropped from the pipeline, by reason",
		},
		[]string{"reason"},
	)
)

// Pipeline-run metrics track whole ProcessQuery/SummarizeArticles calls.
var (
	// PipelineRunsTotal counts pipeline runs by outcome.
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total number of pipeline runs",
		},
		[]string{"outcome"}, // success, partial, fatal
	)

	// PipelineDuration measures end-to-end pipeline run latency.
	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipeline_run_duration_seconds",
			Help:    "End-to-end duration of a pipeline run",
			Buckets: prometheus.DefBuckets,
		},
	)
)
