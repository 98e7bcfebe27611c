package aggregator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"newsdigest/internal/domain/entity"
	"newsdigest/internal/observability/metrics"
	"newsdigest/internal/observability/tracing"
	"newsdigest/internal/usecase/summarize"
)

// maxConcurrentBodyFetches bounds simultaneous article page fetches.
const maxConcurrentBodyFetches = 6

// extractAndSummarize runs the body fetch+extraction stage followed by the
// summarization stage over entries, preserving entries' order in the
// returned summaries. A single article's failure at either stage drops that
// article and continues; only a zero-summaries outcome is fatal.
func (a *Aggregator) extractAndSummarize(ctx context.Context, entries []entity.FeedEntry, language summarize.Language, stats *entity.PipelineStats) ([]entity.ArticleSummary, error) {
	articles := a.fetchAndExtractBodies(ctx, entries, stats)
	summaries := a.summarizeArticles(ctx, articles, language, stats)

	if len(summaries) == 0 {
		return nil, ErrNoResults
	}
	return summaries, nil
}

// fetchAndExtractBodies fetches and extracts each entry's article body
// concurrently, bounded by a body-stage soft deadline and per-task
// deadline, preserving entry order in the result slice (failed slots are
// left as Article{} and filtered out).
func (a *Aggregator) fetchAndExtractBodies(ctx context.Context, entries []entity.FeedEntry, stats *entity.PipelineStats) []entity.Article {
	cfg := a.budget.Config()
	stageCtx, stageCancel := a.budget.StageDeadline(ctx, cfg.BodyStageDeadline)
	defer stageCancel()

	results := make([]*entity.Article, len(entries))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(stageCtx)
	sem := semaphore.NewWeighted(maxConcurrentBodyFetches)

	for i, entry := range entries {
		i, entry := i, entry
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)

			taskCtx, taskCancel := a.budget.StageDeadline(gctx, cfg.BodyTaskDeadline)
			defer taskCancel()

			taskStart := time.Now()
			var article entity.Article
			var reason entity.DropReason
			err := tracing.TraceStageItem(taskCtx, "body_fetch", "url", entry.Link, func(ctx context.Context) error {
				var err error
				article, reason, err = a.fetchAndExtractOne(ctx, entry, cfg.MinContentLen)
				return err
			})
			if err != nil {
				metrics.RecordBodyFetch(time.Since(taskStart), false)
				slog.InfoContext(gctx, "article body fetch/extraction dropped",
					slog.String("url", entry.Link), slog.String("error", err.Error()))
				mu.Lock()
				stats.Drop(reason)
				mu.Unlock()
				metrics.RecordDrop(string(reason))
				return nil
			}
			metrics.RecordBodyFetch(time.Since(taskStart), true)

			mu.Lock()
			results[i] = &article
			stats.ArticlesExtracted++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	articles := make([]entity.Article, 0, len(entries))
	for _, r := range results {
		if r != nil {
			articles = append(articles, *r)
		}
	}
	return articles
}

func (a *Aggregator) fetchAndExtractOne(ctx context.Context, entry entity.FeedEntry, minContentLen int) (entity.Article, entity.DropReason, error) {
	resp, err := a.fetcher.Get(ctx, entry.Link)
	if err != nil {
		return entity.Article{}, entity.DropBodyFetchFailed, err
	}

	result, err := a.extractor.Extract(resp.Body, entry.Link)
	if err != nil {
		return entity.Article{}, entity.DropExtractionFailed, err
	}
	if len([]rune(result.Body)) < minContentLen {
		return entity.Article{}, entity.DropContentTooShort, errBodyTooShort
	}

	title := result.Title
	if title == "" {
		title = entry.Title
	}
	article, err := entity.NewArticle(title, entry.Link, result.Body, entry.PublishedAt, entry.Author, entry.SourceName)
	if err != nil {
		return entity.Article{}, entity.DropExtractionFailed, err
	}
	return article, "", nil
}

// summarizeArticles runs summarization concurrently, bounded by
// maxConcurrentSummaries, preserving articles' order in the returned slice.
func (a *Aggregator) summarizeArticles(ctx context.Context, articles []entity.Article, language summarize.Language, stats *entity.PipelineStats) []entity.ArticleSummary {
	cfg := a.budget.Config()
	results := make([]*entity.ArticleSummary, len(articles))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(cfg.MaxConcurrentSummaries))

	for i, article := range articles {
		i, article := i, article
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)

			taskCtx, taskCancel := a.budget.StageDeadline(gctx, cfg.SummaryTaskDeadline)
			defer taskCancel()

			summaryStart := time.Now()
			var summary entity.ArticleSummary
			err := tracing.TraceStageItem(taskCtx, "summarize", "url", article.URL, func(ctx context.Context) error {
				var err error
				summary, err = a.summarizer.Summarize(ctx, article, language)
				return err
			})
			if err != nil {
				metrics.RecordArticleSummarized(false)
				slog.InfoContext(gctx, "summarization dropped",
					slog.String("url", article.URL), slog.String("error", err.Error()))
				mu.Lock()
				stats.Drop(entity.DropSummarizationError)
				mu.Unlock()
				metrics.RecordDrop(string(entity.DropSummarizationError))
				return nil
			}
			metrics.RecordArticleSummarized(true)
			metrics.RecordSummarizationDuration(time.Since(summaryStart))

			mu.Lock()
			results[i] = &summary
			stats.SummariesSucceeded++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	summaries := make([]entity.ArticleSummary, 0, len(articles))
	for _, r := range results {
		if r != nil {
			summaries = append(summaries, *r)
		}
	}
	return summaries
}
