package aggregator

import (
	"context"
	"time"

	"newsdigest/pkg/ratelimit"
)

// feedLimiterWindow is the sliding window a publisher's fetch count is
// measured over. Scheduled watchlist runs and ad hoc queries share the same
// small feedregistry catalogue, so concurrent runs can otherwise hit the
// same publisher URL far more often than any publisher's own rate limits
// tolerate.
const feedLimiterWindow = 1 * time.Minute

// feedLimiterPerPublisher caps fetches per publisher per feedLimiterWindow.
const feedLimiterPerPublisher = 6

// FeedLimiter throttles feed fetches per publisher, independent of the
// maxConcurrentFeedFetches semaphore that bounds fan-out within a single
// request. It exists so that overlapping queries (a scheduled watchlist run
// alongside an ad hoc request) can't collectively exceed a publisher's
// tolerance for repeated polling.
//
// A breaker guards the limiter store itself: if the in-memory store starts
// erroring, FeedLimiter stops calling into it for a cooldown period and
// fails every check open, rather than paying the lookup cost (and logging
// noise) on every fetch while the store is unhealthy.
type FeedLimiter struct {
	algorithm ratelimit.RateLimitAlgorithm
	store     ratelimit.RateLimitStore
	metrics   ratelimit.RateLimitMetrics
	breaker   *ratelimit.CircuitBreaker
	config    *ratelimit.PublisherLimitConfig
}

// NewFeedLimiter builds a FeedLimiter tuned to feedLimiterPerPublisher
// fetches per feedLimiterWindow, with no per-publisher overrides.
func NewFeedLimiter() *FeedLimiter {
	cfg := ratelimit.DefaultConfig()
	cfg.DefaultLimit = feedLimiterPerPublisher
	cfg.DefaultWindow = feedLimiterWindow
	return NewFeedLimiterFromConfig(cfg)
}

// NewFeedLimiterFromConfig builds a FeedLimiter from an explicit config,
// letting callers set per-publisher overrides for outlets known to be
// stricter (or laxer) than the rest of the watchlist.
func NewFeedLimiterFromConfig(cfg *ratelimit.PublisherLimitConfig) *FeedLimiter {
	metrics := ratelimit.NewPrometheusMetrics()
	return &FeedLimiter{
		algorithm: ratelimit.NewSlidingWindowAlgorithm(&ratelimit.SystemClock{}),
		store: ratelimit.NewInMemoryRateLimitStore(ratelimit.InMemoryStoreConfig{
			MaxKeys: cfg.MaxActiveKeys,
		}),
		metrics: metrics,
		breaker: ratelimit.NewCircuitBreaker(ratelimit.CircuitBreakerConfig{
			LimiterType: "feed_fetch",
			Metrics:     metrics,
		}),
		config: cfg,
	}
}

// Allow reports whether a fetch against publisher is within its rolling
// window budget, recording the decision to metrics either way. A broken
// limiter store, or one the breaker has already given up on, always
// returns true: ingestion must never stall on the rate limiter itself.
func (l *FeedLimiter) Allow(ctx context.Context, publisher string) bool {
	if l.breaker.IsOpen() {
		return true
	}

	limit, window := l.config.LimitFor(publisher)
	decision, err := l.algorithm.IsAllowed(ctx, publisher, l.store, limit, window)
	if err != nil {
		l.breaker.RecordFailure()
		return true
	}
	l.breaker.RecordSuccess()

	if decision.Allowed {
		l.metrics.RecordAllowed("feed_fetch", publisher)
	} else {
		l.metrics.RecordDenied("feed_fetch", publisher)
	}
	return decision.Allowed
}
