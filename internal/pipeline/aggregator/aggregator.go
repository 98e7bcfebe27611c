// Package aggregator orchestrates the full query-to-summaries pipeline:
// keyword derivation, feed fan-out, keyword filtering, deduplication, body
// fetch/extraction, and summarization. It is the only component that
// introduces concurrency — every component it drives exposes a purely
// synchronous per-call contract.
package aggregator

import (
	"context"
	"log/slog"
	"time"

	"newsdigest/internal/domain/entity"
	"newsdigest/internal/infra/extractor"
	"newsdigest/internal/infra/feedparser"
	"newsdigest/internal/infra/httpfetch"
	"newsdigest/internal/observability/metrics"
	"newsdigest/internal/pipeline/budget"
	"newsdigest/internal/usecase/summarize"
)

// KeywordSource derives a KeywordSet from a free-text query. Satisfied by
// *keyword.Extractor.
type KeywordSource interface {
	Extract(ctx context.Context, query string) entity.KeywordSet
}

// Summarizer produces an ArticleSummary from an Article. Satisfied by
// *summarize.Summarizer.
type Summarizer interface {
	Summarize(ctx context.Context, article entity.Article, language summarize.Language) (entity.ArticleSummary, error)
}

// Aggregator drives the pipeline end to end.
type Aggregator struct {
	fetcher    httpfetch.HTTPGetter
	feeds      feedparser.FeedParser
	extractor  extractor.BodyExtractor
	keywords   KeywordSource
	summarizer Summarizer
	budget     *budget.Controller
	feedLimit  *FeedLimiter
}

// New builds an Aggregator from its component dependencies.
func New(fetcher httpfetch.HTTPGetter, feeds feedparser.FeedParser, bodyExtractor extractor.BodyExtractor, keywords KeywordSource, summarizer Summarizer, budgetCtl *budget.Controller) *Aggregator {
	return &Aggregator{
		fetcher:    fetcher,
		feeds:      feeds,
		extractor:  bodyExtractor,
		keywords:   keywords,
		summarizer: summarizer,
		budget:     budgetCtl,
		feedLimit:  NewFeedLimiter(),
	}
}

// clampMaxArticles forces maxArticles into [1, 20], defaulting to the
// budget's configured value when the caller passes 0.
func (a *Aggregator) clampMaxArticles(maxArticles int) int {
	if maxArticles <= 0 {
		maxArticles = a.budget.Config().MaxArticles
	}
	if maxArticles < 1 {
		return 1
	}
	if maxArticles > 20 {
		return 20
	}
	return maxArticles
}

// ProcessQuery runs the full pipeline: derive keywords, fan out to feeds,
// filter by keyword, dedupe, fetch+extract bodies, summarize, and assemble.
// It returns whatever summaries succeeded provided at least one did;
// otherwise it returns a typed fatal error alongside the partial-failure
// tally.
func (a *Aggregator) ProcessQuery(ctx context.Context, query string, maxArticles int, language summarize.Language) ([]entity.ArticleSummary, []string, *entity.PipelineStats, error) {
	runStart := time.Now()
	stats := entity.NewPipelineStats()
	maxArticles = a.clampMaxArticles(maxArticles)

	ctx, cancel := a.budget.WithOverallDeadline(ctx)
	defer cancel()

	ks := a.keywords.Extract(ctx, query)
	if ks.Empty() {
		metrics.RecordPipelineRun("fatal", time.Since(runStart))
		return nil, nil, stats, ErrNoKeywords
	}
	keywords := ks.Values()
	slog.InfoContext(ctx, "keywords derived", slog.Any("keywords", keywords))

	entries, err := a.ingestFeeds(ctx, stats)
	if err != nil {
		metrics.RecordPipelineRun("fatal", time.Since(runStart))
		return nil, keywords, stats, err
	}

	filtered := filterByKeywords(entries, keywords, stats)
	deduped := dedupeByCanonicalURL(filtered, stats)
	if len(deduped) > maxArticles {
		for range deduped[maxArticles:] {
			stats.Drop(entity.DropOverCap)
			metrics.RecordDrop(string(entity.DropOverCap))
		}
		deduped = deduped[:maxArticles]
	}

	summaries, err := a.extractAndSummarize(ctx, deduped, language, stats)
	if err != nil {
		metrics.RecordPipelineRun("fatal", time.Since(runStart))
		return nil, keywords, stats, err
	}

	outcome := "success"
	if len(stats.DroppedByReason) > 0 {
		outcome = "partial"
	}
	metrics.RecordPipelineRun(outcome, time.Since(runStart))
	return summaries, keywords, stats, nil
}

// SummarizeArticles bypasses keyword/feed discovery and runs only the
// fetch→extract→summarize tail over an explicit URL list, reusing the same
// per-task concurrency, deadline, and failure-isolation machinery as
// ProcessQuery's later stages.
func (a *Aggregator) SummarizeArticles(ctx context.Context, urls []string, language summarize.Language) ([]entity.ArticleSummary, *entity.PipelineStats, error) {
	runStart := time.Now()
	stats := entity.NewPipelineStats()
	ctx, cancel := a.budget.WithOverallDeadline(ctx)
	defer cancel()

	entries := make([]entity.FeedEntry, 0, len(urls))
	for _, u := range urls {
		fe, err := entity.NewFeedEntry(u, u, "", time.Time{}, "", "direct", "")
		if err != nil {
			stats.Drop(entity.DropFeedParseFailed)
			metrics.RecordDrop(string(entity.DropFeedParseFailed))
			continue
		}
		entries = append(entries, fe)
	}

	summaries, err := a.extractAndSummarize(ctx, entries, language, stats)
	if err != nil {
		metrics.RecordPipelineRun("fatal", time.Since(runStart))
		return nil, stats, err
	}
	outcome := "success"
	if len(stats.DroppedByReason) > 0 {
		outcome = "partial"
	}
	metrics.RecordPipelineRun(outcome, time.Since(runStart))
	return summaries, stats, nil
}
