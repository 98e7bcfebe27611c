package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/semaphore"

	"newsdigest/internal/domain/entity"
	"newsdigest/internal/infra/extractor"
	"newsdigest/internal/infra/feedparser"
	"newsdigest/internal/infra/httpfetch"
	"newsdigest/internal/infra/llm"
	workerPkg "newsdigest/internal/infra/worker"
	"newsdigest/internal/observability/logging"
	"newsdigest/internal/observability/slo"
	"newsdigest/internal/pipeline/aggregator"
	"newsdigest/internal/pipeline/budget"
	"newsdigest/internal/resilience/retry"
	"newsdigest/internal/usecase/keyword"
	"newsdigest/internal/usecase/summarize"
)

func main() {
	logger := initLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.MustRegister()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("watchlist_max_concurrent", workerConfig.WatchlistMaxConcurrent),
		slog.Duration("crawl_timeout", workerConfig.CrawlTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	agg := setupAggregator(logger)
	watchlist := loadWatchlist(logger)

	startMetricsServer(ctx, logger)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	go runSLOUpdater(ctx, logger)

	startCronWorker(logger, agg, watchlist, workerConfig, workerMetrics, healthServer)
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// setupAggregator wires the shared HTTP client, feed parser, body
// extractor, keyword extractor, summarizer, and budget controller into an
// Aggregator, the same dependency graph a request-driven entrypoint would
// use, so the scheduled watchlist run exercises the identical pipeline.
func setupAggregator(logger *slog.Logger) *aggregator.Aggregator {
	fetchClient := httpfetch.NewClient(httpfetch.LoadConfigFromEnv(), "feed-and-body-fetch", retry.FeedFetchConfig())

	chat := createLLMChat(logger)

	characterLimit, err := summarize.LoadCharacterLimitFromEnv()
	if err != nil {
		logger.Warn("invalid summarizer character limit, using default", slog.Any("error", err))
		characterLimit = summarize.DefaultCharacterLimit
	}

	budgetCtl := budget.New(budget.LoadFromEnv())

	return aggregator.New(
		fetchClient,
		feedparser.New(),
		extractor.New(),
		keyword.New(chat),
		summarize.New(chat, characterLimit),
		budgetCtl,
	)
}

// createLLMChat selects an LLMChat provider via LLM_PROVIDER (claude,
// openai, or noop for local development without API keys), wrapping it in
// a rate limiter sized for that provider's published per-minute quota.
func createLLMChat(logger *slog.Logger) llm.LLMChat {
	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = "claude"
	}

	switch provider {
	case "claude":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			logger.Error("ANTHROPIC_API_KEY is required when LLM_PROVIDER=claude")
			os.Exit(1)
		}
		logger.Info("using Claude for keyword extraction and summarization")
		return llm.NewRateLimited(llm.NewClaude(apiKey, llm.DefaultClaudeConfig()), 1, 2)
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			logger.Error("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
			os.Exit(1)
		}
		logger.Info("using OpenAI for keyword extraction and summarization")
		return llm.NewRateLimited(llm.NewOpenAI(apiKey, llm.DefaultOpenAIConfig()), 3, 5)
	case "noop":
		logger.Warn("LLM_PROVIDER=noop: keyword extraction and summarization are stubbed")
		return llm.NewNoOp()
	default:
		logger.Error("invalid LLM_PROVIDER", slog.String("provider", provider), slog.String("expected", "claude, openai, or noop"))
		os.Exit(1)
		return nil
	}
}

// loadWatchlist reads WATCHLIST_QUERIES, a comma-separated list of queries
// the scheduled cron run re-executes through ProcessQuery, e.g.
// "반도체 수출,기준금리 인상". An empty list disables the scheduled run;
// the worker still serves health and metrics endpoints.
func loadWatchlist(logger *slog.Logger) []string {
	raw := os.Getenv("WATCHLIST_QUERIES")
	if raw == "" {
		logger.Warn("WATCHLIST_QUERIES is empty, scheduled digest run is a no-op")
		return nil
	}
	var queries []string
	for _, q := range strings.Split(raw, ",") {
		q = strings.TrimSpace(q)
		if q != "" {
			queries = append(queries, q)
		}
	}
	return queries
}

// startCronWorker starts the cron scheduler and re-runs ProcessQuery for
// every watchlist entry on the configured schedule.
func startCronWorker(logger *slog.Logger, agg *aggregator.Aggregator, watchlist []string, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runWatchlistJob(logger, agg, watchlist, cfg, metrics, healthServer)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker marked as ready")

	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))
	select {}
}

// runWatchlistJob runs ProcessQuery for every watchlist query, bounded by
// cfg.WatchlistMaxConcurrent, within a single cfg.CrawlTimeout window. The
// per-query PipelineStats are merged into one run-level total and handed
// to healthServer.RecordRun so /health/ready and /health/last-run reflect
// this crawl rather than only the process's liveness.
func runWatchlistJob(logger *slog.Logger, agg *aggregator.Aggregator, watchlist []string, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) {
	startTime := time.Now()
	metrics.RecordJobRun("started")
	logger.Info("scheduled digest run started", slog.Int("watchlist_size", len(watchlist)))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.CrawlTimeout)
	defer cancel()

	sem := semaphore.NewWeighted(int64(cfg.WatchlistMaxConcurrent))
	var mu sync.Mutex
	var wg sync.WaitGroup
	var processed, failed int
	var lastErr error
	total := entity.NewPipelineStats()

	for _, query := range watchlist {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			reqCtx := logging.WithRequestIDValue(ctx, logging.NewRequestID())
			summaries, keywords, stats, err := agg.ProcessQuery(reqCtx, query, 0, summarize.Korean)

			mu.Lock()
			defer mu.Unlock()
			if stats != nil {
				mergePipelineStats(total, stats)
			}
			if err != nil {
				failed++
				lastErr = err
				logging.WithRequestID(reqCtx, logger).Error("scheduled query failed",
					slog.String("query", query), slog.Any("error", err))
				return
			}
			processed++
			logging.WithRequestID(reqCtx, logger).Info("scheduled query completed",
				slog.String("query", query),
				slog.Any("keywords", keywords),
				slog.Int("summaries", len(summaries)),
				slog.Int("dropped", len(stats.DroppedByReason)))
		}()
	}
	wg.Wait()

	metrics.RecordJobDuration(time.Since(startTime).Seconds())
	metrics.RecordFeedsProcessed(total.FeedsSucceeded)
	if failed == 0 {
		metrics.RecordJobRun("success")
		metrics.RecordLastSuccess()
	} else {
		metrics.RecordJobRun("failure")
	}
	healthServer.RecordRun(total, lastErr)

	logger.Info("scheduled digest run completed",
		slog.Int("processed", processed),
		slog.Int("failed", failed),
		slog.Duration("duration", time.Since(startTime)))
}

// mergePipelineStats folds src's counters into dst, for combining one
// watchlist run's per-query PipelineStats into a single run-level total.
func mergePipelineStats(dst, src *entity.PipelineStats) {
	dst.FeedsAttempted += src.FeedsAttempted
	dst.FeedsSucceeded += src.FeedsSucceeded
	dst.EntriesDiscovered += src.EntriesDiscovered
	dst.EntriesFiltered += src.EntriesFiltered
	dst.ArticlesExtracted += src.ArticlesExtracted
	dst.SummariesSucceeded += src.SummariesSucceeded
	for reason, count := range src.DroppedByReason {
		dst.DroppedByReason[reason] += count
	}
}

// runSLOUpdater periodically derives availability, latency, and error-rate
// SLO gauges from the pipeline_runs_total/pipeline_run_duration_seconds
// counters accumulated by the aggregator, by reading them straight back out
// of the default Prometheus registry.
func runSLOUpdater(ctx context.Context, logger *slog.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSLOGauges(logger)
		}
	}
}

func updateSLOGauges(logger *slog.Logger) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		logger.Warn("failed to gather metrics for SLO update", slog.Any("error", err))
		return
	}

	var totalRuns, fatalRuns float64
	var duration *dto.Histogram

	for _, mf := range families {
		switch mf.GetName() {
		case "pipeline_runs_total":
			for _, m := range mf.GetMetric() {
				count := m.GetCounter().GetValue()
				totalRuns += count
				for _, lbl := range m.GetLabel() {
					if lbl.GetName() == "outcome" && lbl.GetValue() == "fatal" {
						fatalRuns += count
					}
				}
			}
		case "pipeline_run_duration_seconds":
			if metrics := mf.GetMetric(); len(metrics) > 0 {
				duration = metrics[0].GetHistogram()
			}
		}
	}

	if totalRuns > 0 {
		slo.UpdateAvailability((totalRuns - fatalRuns) / totalRuns)
		slo.UpdateErrorRate(fatalRuns / totalRuns)
	}
	if duration != nil {
		slo.UpdateLatencyP95(histogramQuantile(duration, 0.95))
		slo.UpdateLatencyP99(histogramQuantile(duration, 0.99))
	}
}

// histogramQuantile linearly interpolates the qth quantile (0-1) within the
// cumulative bucket that first reaches it, the same approximation
// Prometheus's histogram_quantile() query function uses.
func histogramQuantile(h *dto.Histogram, q float64) float64 {
	total := float64(h.GetSampleCount())
	if total == 0 {
		return 0
	}
	target := q * total
	var prevCount, prevBound float64
	for _, b := range h.GetBucket() {
		count := float64(b.GetCumulativeCount())
		bound := b.GetUpperBound()
		if count >= target {
			if count == prevCount {
				return bound
			}
			return prevBound + (bound-prevBound)*(target-prevCount)/(count-prevCount)
		}
		prevCount = count
		prevBound = bound
	}
	return prevBound
}
