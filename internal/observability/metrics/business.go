package metrics

import "time"

// RecordFeedFetch records the outcome and duration of fetching and parsing
// one feed, plus how many entries it yielded when successful.
func RecordFeedFetch(publisher string, duration time.Duration, success bool, entries int) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	FeedFetchesTotal.WithLabelValues(publisher, outcome).Inc()
	FeedFetchDuration.WithLabelValues(publisher).Observe(duration.Seconds())
	if success && entries > 0 {
		EntriesDiscoveredTotal.WithLabelValues(publisher).Add(float64(entries))
	}
}

// RecordBodyFetch records the outcome and duration of fetching and
// extracting one article body.
func RecordBodyFetch(duration time.Duration, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	BodyFetchAttemptsTotal.WithLabelValues(result).Inc()
	BodyFetchDuration.Observe(duration.Seconds())
}

// RecordArticleSummarized records the result of a summarization call.
func RecordArticleSummarized(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	ArticlesSummarizedTotal.WithLabelValues(status).Inc()
}

// RecordSummarizationDuration records the time taken to summarize one article.
func RecordSummarizationDuration(duration time.Duration) {
	SummarizationDuration.Observe(duration.Seconds())
}

// RecordDrop records one item dropped from the pipeline for reason.
func RecordDrop(reason string) {
	DroppedItemsTotal.WithLabelValues(reason).Inc()
}

// RecordPipelineRun records the outcome and total duration of one
// ProcessQuery or SummarizeArticles call.
func RecordPipelineRun(outcome string, duration time.Duration) {
	PipelineRunsTotal.WithLabelValues(outcome).Inc()
	PipelineDuration.Observe(duration.Seconds())
}
