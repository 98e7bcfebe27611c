package aggregator

import "errors"

// Fatal conditions. Anything short of these is a partial failure reported
// via PipelineStats alongside whatever summaries did succeed.
var (
	// ErrNoKeywords is returned when keyword extraction produced nothing
	// usable even after its regex and tokenization fallbacks.
	ErrNoKeywords = errors.New("aggregator: no keywords could be derived from query")
	// ErrAllFeedsFailed is returned when every planned feed fetch failed.
	ErrAllFeedsFailed = errors.New("aggregator: all feed fetches failed")
	// ErrNoResults is returned when zero summaries succeeded.
	ErrNoResults = errors.New("aggregator: no articles could be summarized")

	// errBodyTooShort marks an extracted body as below minContentLen; never
	// propagated past fetchAndExtractOne, just used to select DropReason.
	errBodyTooShort = errors.New("aggregator: extracted body too short")
)
