package worker

import (
	"fmt"
	"log/slog"
	"time"

	"newsdigest/internal/pkg/config"
)

// WorkerConfig controls the scheduled digest run: when it fires, in what
// timezone, how many watchlist queries run concurrently, how long a single
// crawl may take, and where the health server listens.
type WorkerConfig struct {
	// CronSchedule is a 5-field cron expression ("minute hour day month
	// weekday"), e.g. "30 5 * * *" for every day at 5:30.
	CronSchedule string
	// Timezone is the IANA name the cron schedule is interpreted in.
	Timezone string
	// WatchlistMaxConcurrent bounds how many watchlist queries the
	// scheduled run processes at once, in [1, 50].
	WatchlistMaxConcurrent int
	// CrawlTimeout bounds one scheduled run end to end.
	CrawlTimeout time.Duration
	// HealthPort is the health/readiness server's listen port, in
	// [1024, 65535].
	HealthPort int
}

// DefaultConfig returns a WorkerConfig tuned for a daily pre-dawn crawl in
// Korea Standard... strictly Asia/Tokyo (JST), matching the publisher set's
// typical morning-edition publish time.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:           "30 5 * * *",
		Timezone:               "Asia/Tokyo",
		WatchlistMaxConcurrent: 10,
		CrawlTimeout:           30 * time.Minute,
		HealthPort:             9091,
	}
}

// Validate checks every field and returns an aggregated error naming all
// that fail, not just the first.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateIntRange(c.WatchlistMaxConcurrent, 1, 50); err != nil {
		errs = append(errs, fmt.Errorf("watchlist max concurrent: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.CrawlTimeout); err != nil {
		errs = append(errs, fmt.Errorf("crawl timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// applyFallback records metrics and logs a warning for one field's load
// result, returning whether a fallback was applied. It exists so
// LoadConfigFromEnv's five field loads share one reporting path instead of
// repeating the same four-line block per field.
func applyFallback(logger *slog.Logger, metrics *WorkerMetrics, field string, result config.ConfigLoadResult) bool {
	if !result.FallbackApplied {
		return false
	}
	metrics.RecordValidationError(field)
	metrics.RecordFallback(field, "default")
	for _, warning := range result.Warnings {
		logger.Warn("Configuration fallback applied", slog.String("field", field), slog.String("warning", warning))
	}
	return true
}

// LoadConfigFromEnv loads WorkerConfig from CRON_SCHEDULE, WORKER_TIMEZONE,
// WATCHLIST_MAX_CONCURRENT, CRAWL_TIMEOUT, and WORKER_HEALTH_PORT,
// fail-open field by field: an invalid or missing value falls back to
// DefaultConfig()'s value for that field rather than aborting startup.
// Always returns a valid, non-nil config; the error return exists for the
// few callers that want to distinguish "never fails" explicitly and is
// always nil.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	result := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	fallbackApplied = applyFallback(logger, metrics, "CronSchedule", result) || fallbackApplied

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	fallbackApplied = applyFallback(logger, metrics, "Timezone", result) || fallbackApplied

	result = config.LoadEnvInt("WATCHLIST_MAX_CONCURRENT", cfg.WatchlistMaxConcurrent, func(v int) error {
		return config.ValidateIntRange(v, 1, 50)
	})
	cfg.WatchlistMaxConcurrent = result.Value.(int)
	fallbackApplied = applyFallback(logger, metrics, "WatchlistMaxConcurrent", result) || fallbackApplied

	result = config.LoadEnvDuration("CRAWL_TIMEOUT", cfg.CrawlTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 1*time.Minute, 4*time.Hour)
	})
	cfg.CrawlTimeout = result.Value.(time.Duration)
	fallbackApplied = applyFallback(logger, metrics, "CrawlTimeout", result) || fallbackApplied

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	fallbackApplied = applyFallback(logger, metrics, "HealthPort", result) || fallbackApplied

	metrics.SetFallbackActive("", fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
