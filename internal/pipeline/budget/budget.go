// Package budget centralizes the aggregator's deadline and fan-out knobs:
// the overall wall-clock budget, per-stage soft deadlines, and the counts
// that bound feed/article/summary fan-out. Values are read-only after
// process start, loaded from environment with fail-open defaults, mirroring
// the worker package's configuration loader.
package budget

import (
	"context"
	"log/slog"
	"time"

	"newsdigest/internal/pkg/config"
)

// Config holds every pipeline-wide cap and deadline the aggregator consults.
type Config struct {
	// OverallDeadline bounds one ProcessQuery/SummarizeArticles call end to
	// end.
	OverallDeadline time.Duration

	// FeedStageDeadline is the soft deadline for the parallel feed-ingestion
	// stage; stragglers past this are cancelled.
	FeedStageDeadline time.Duration
	// BodyStageDeadline is the soft deadline for the parallel body
	// fetch+extraction stage.
	BodyStageDeadline time.Duration
	// FeedTaskDeadline bounds one feed's fetch+parse.
	FeedTaskDeadline time.Duration
	// BodyTaskDeadline bounds one article's fetch+extract.
	BodyTaskDeadline time.Duration
	// SummaryTaskDeadline bounds one article's summarization call.
	SummaryTaskDeadline time.Duration

	// MaxFeedsPerPublisher caps feed fan-out within one publisher.
	MaxFeedsPerPublisher int
	// MaxTotalFeeds caps feed fan-out across all publishers.
	MaxTotalFeeds int
	// MaxArticles caps the number of articles carried past the filter
	// stage, in [1, 20].
	MaxArticles int
	// MaxConcurrentSummaries bounds the summarizer-stage semaphore.
	MaxConcurrentSummaries int
	// MinContentLen is the minimum extracted body length, in characters,
	// for an article to be summarized.
	MinContentLen int
	// MaxInputChars caps the article text sent to the summarizer prompt.
	MaxInputChars int
}

// Default returns the pipeline's out-of-the-box configuration.
func Default() Config {
	return Config{
		OverallDeadline:        60 * time.Second,
		FeedStageDeadline:      30 * time.Second,
		BodyStageDeadline:      30 * time.Second,
		FeedTaskDeadline:       10 * time.Second,
		BodyTaskDeadline:       20 * time.Second,
		SummaryTaskDeadline:    30 * time.Second,
		MaxFeedsPerPublisher:   2,
		MaxTotalFeeds:          6,
		MaxArticles:            10,
		MaxConcurrentSummaries: 3,
		MinContentLen:          50,
		MaxInputChars:          8000,
	}
}

// LoadFromEnv loads Config from environment variables, falling back to
// Default()'s values field by field on any invalid entry, logging a warning
// rather than failing startup.
func LoadFromEnv() Config {
	cfg := Default()

	cfg.OverallDeadline = loadDuration("PIPELINE_OVERALL_DEADLINE", cfg.OverallDeadline, 5*time.Second, 5*time.Minute)
	cfg.FeedStageDeadline = loadDuration("PIPELINE_FEED_STAGE_DEADLINE", cfg.FeedStageDeadline, time.Second, 2*time.Minute)
	cfg.BodyStageDeadline = loadDuration("PIPELINE_BODY_STAGE_DEADLINE", cfg.BodyStageDeadline, time.Second, 2*time.Minute)
	cfg.FeedTaskDeadline = loadDuration("PIPELINE_FEED_TASK_DEADLINE", cfg.FeedTaskDeadline, time.Second, time.Minute)
	cfg.BodyTaskDeadline = loadDuration("PIPELINE_BODY_TASK_DEADLINE", cfg.BodyTaskDeadline, time.Second, time.Minute)
	cfg.SummaryTaskDeadline = loadDuration("PIPELINE_SUMMARY_TASK_DEADLINE", cfg.SummaryTaskDeadline, time.Second, time.Minute)

	cfg.MaxFeedsPerPublisher = loadInt("PIPELINE_MAX_FEEDS_PER_PUBLISHER", cfg.MaxFeedsPerPublisher, 1, 5)
	cfg.MaxTotalFeeds = loadInt("PIPELINE_MAX_TOTAL_FEEDS", cfg.MaxTotalFeeds, 1, 30)
	cfg.MaxArticles = loadInt("PIPELINE_MAX_ARTICLES", cfg.MaxArticles, 1, 20)
	cfg.MaxConcurrentSummaries = loadInt("PIPELINE_MAX_CONCURRENT_SUMMARIES", cfg.MaxConcurrentSummaries, 1, 20)
	cfg.MinContentLen = loadInt("PIPELINE_MIN_CONTENT_LEN", cfg.MinContentLen, 0, 10000)
	cfg.MaxInputChars = loadInt("PIPELINE_MAX_INPUT_CHARS", cfg.MaxInputChars, 500, 20000)

	return cfg
}

func loadDuration(envKey string, defaultValue, min, max time.Duration) time.Duration {
	result := config.LoadEnvDuration(envKey, defaultValue, func(d time.Duration) error {
		return config.ValidateDuration(d, min, max)
	})
	if result.FallbackApplied {
		for _, warning := range result.Warnings {
			slog.Warn("pipeline config fallback applied", slog.String("field", envKey), slog.String("warning", warning))
		}
	}
	return result.Value.(time.Duration)
}

func loadInt(envKey string, defaultValue, min, max int) int {
	result := config.LoadEnvInt(envKey, defaultValue, func(v int) error {
		return config.ValidateIntRange(v, min, max)
	})
	if result.FallbackApplied {
		for _, warning := range result.Warnings {
			slog.Warn("pipeline config fallback applied", slog.String("field", envKey), slog.String("warning", warning))
		}
	}
	return result.Value.(int)
}

// Controller derives sub-deadlines from a parent request context and
// exposes the fan-out caps loaded into Config.
type Controller struct {
	cfg Config
}

// New returns a Controller over cfg.
func New(cfg Config) *Controller {
	return &Controller{cfg: cfg}
}

// Config returns the underlying Config.
func (c *Controller) Config() Config { return c.cfg }

// WithOverallDeadline derives ctx with the controller's overall deadline
// applied, returning the cancel function the caller must defer.
func (c *Controller) WithOverallDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.cfg.OverallDeadline)
}

// StageDeadline derives a sub-context for a pipeline stage, clamped to the
// lesser of stageDefault and the time remaining on ctx.
func (c *Controller) StageDeadline(ctx context.Context, stageDefault time.Duration) (context.Context, context.CancelFunc) {
	d := stageDefault
	if remaining, ok := c.Remaining(ctx); ok && remaining < d {
		d = remaining
	}
	if d < 0 {
		d = 0
	}
	return context.WithTimeout(ctx, d)
}

// Remaining reports the time left before ctx's deadline, if any.
func (c *Controller) Remaining(ctx context.Context) (time.Duration, bool) {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0, false
	}
	return time.Until(deadline), true
}
