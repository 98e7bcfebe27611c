package aggregator

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"newsdigest/internal/domain/entity"
	"newsdigest/internal/observability/metrics"
	"newsdigest/internal/observability/tracing"
	"newsdigest/internal/pipeline/feedregistry"
)

// maxConcurrentFeedFetches bounds simultaneous feed fetches regardless of
// how many feeds were planned for this request.
const maxConcurrentFeedFetches = 6

// planFeeds selects feed URLs from the registry, capping at
// maxFeedsPerPublisher per publisher and maxTotalFeeds overall, preserving
// publisher order and within-publisher order.
func planFeeds(maxFeedsPerPublisher, maxTotalFeeds int) []feedregistry.Entry {
	perPublisher := map[feedregistry.Publisher]int{}
	var planned []feedregistry.Entry
	for _, entry := range feedregistry.All() {
		if len(planned) >= maxTotalFeeds {
			break
		}
		if perPublisher[entry.Publisher] >= maxFeedsPerPublisher {
			continue
		}
		perPublisher[entry.Publisher]++
		planned = append(planned, entry)
	}
	return planned
}

// ingestFeeds fetches and parses every planned feed concurrently, bounded by
// a feed-stage soft deadline and a per-task deadline. Failures are logged
// and omitted; only a zero-feed-succeeded outcome is fatal.
func (a *Aggregator) ingestFeeds(ctx context.Context, stats *entity.PipelineStats) ([]entity.FeedEntry, error) {
	cfg := a.budget.Config()
	planned := planFeeds(cfg.MaxFeedsPerPublisher, cfg.MaxTotalFeeds)

	stageCtx, stageCancel := a.budget.StageDeadline(ctx, cfg.FeedStageDeadline)
	defer stageCancel()

	results := make([][]entity.FeedEntry, len(planned))
	var mu sync.Mutex
	var succeeded int

	g, gctx := errgroup.WithContext(stageCtx)
	sem := semaphore.NewWeighted(maxConcurrentFeedFetches)

	for i, entry := range planned {
		i, entry := i, entry
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)

			mu.Lock()
			stats.FeedsAttempted++
			mu.Unlock()

			taskCtx, taskCancel := a.budget.StageDeadline(gctx, cfg.FeedTaskDeadline)
			defer taskCancel()

			if !a.feedLimit.Allow(taskCtx, string(entry.Publisher)) {
				slog.WarnContext(gctx, "feed fetch rate limited",
					slog.String("publisher", string(entry.Publisher)),
					slog.String("url", entry.URL))
				return nil
			}

			taskStart := time.Now()
			var entries []entity.FeedEntry
			err := tracing.TraceStageItem(taskCtx, "feed_fetch", "publisher", string(entry.Publisher), func(ctx context.Context) error {
				var err error
				entries, err = a.fetchAndParseFeed(ctx, entry)
				return err
			})
			if err != nil {
				metrics.RecordFeedFetch(string(entry.Publisher), time.Since(taskStart), false, 0)
				slog.WarnContext(gctx, "feed ingestion failed",
					slog.String("publisher", string(entry.Publisher)),
					slog.String("url", entry.URL),
					slog.String("error", err.Error()))
				return nil
			}
			metrics.RecordFeedFetch(string(entry.Publisher), time.Since(taskStart), true, len(entries))

			mu.Lock()
			results[i] = entries
			succeeded++
			stats.FeedsSucceeded++
			stats.EntriesDiscovered += len(entries)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if succeeded == 0 && len(planned) > 0 {
		return nil, ErrAllFeedsFailed
	}

	merged := make([]entity.FeedEntry, 0, stats.EntriesDiscovered)
	for _, entries := range results {
		merged = append(merged, entries...)
	}
	return merged, nil
}

func (a *Aggregator) fetchAndParseFeed(ctx context.Context, entry feedregistry.Entry) ([]entity.FeedEntry, error) {
	resp, err := a.fetcher.Get(ctx, entry.URL)
	if err != nil {
		return nil, err
	}
	return a.feeds.Parse(resp.Body, string(entry.Publisher), feedHost(entry.URL), 0)
}

func feedHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}

// filterByKeywords keeps entries whose title or raw summary contains any
// keyword, case-insensitively, preserving the original merged order.
func filterByKeywords(entries []entity.FeedEntry, keywords []string, stats *entity.PipelineStats) []entity.FeedEntry {
	filtered := make([]entity.FeedEntry, 0, len(entries))
	for _, e := range entries {
		if matchesAny(e, keywords) {
			filtered = append(filtered, e)
			continue
		}
		stats.Drop(entity.DropNoKeywordMatch)
		metrics.RecordDrop(string(entity.DropNoKeywordMatch))
	}
	stats.EntriesFiltered = len(filtered)
	return filtered
}

func matchesAny(e entity.FeedEntry, keywords []string) bool {
	for _, k := range keywords {
		if e.MatchesKeyword(k) {
			return true
		}
	}
	return false
}

// dedupeByCanonicalURL drops later occurrences of an already-seen canonical
// URL, first occurrence wins, original order preserved.
func dedupeByCanonicalURL(entries []entity.FeedEntry, stats *entity.PipelineStats) []entity.FeedEntry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]entity.FeedEntry, 0, len(entries))
	for _, e := range entries {
		canon, err := entity.CanonicalURL(e.Link)
		if err != nil {
			canon = strings.ToLower(e.Link)
		}
		if _, ok := seen[canon]; ok {
			stats.Drop(entity.DropDuplicate)
			metrics.RecordDrop(string(entity.DropDuplicate))
			continue
		}
		seen[canon] = struct{}{}
		out = append(out, e)
	}
	return out
}
