// Package tracing provides OpenTelemetry tracing helpers for the pipeline's
// concurrent stages (feed fetch, body fetch, summarization).
//
// Features:
//   - A package-global tracer (GetTracer) for ad hoc spans
//   - TraceStage/TraceStageItem wrap a stage function in a span, marking it
//     as errored (status + "error" attribute) when the function fails
//
// Example usage:
//
//	func (a *Aggregator) fetchAndExtractOne(ctx context.Context, entry entity.FeedEntry) (entity.Article, error) {
//	    var article entity.Article
//	    err := tracing.TraceStageItem(ctx, "body_fetch", "url", entry.Link, func(ctx context.Context) error {
//	        var err error
//	        article, err = a.doFetchAndExtract(ctx, entry)
//	        return err
//	    })
//	    return article, err
//	}
package tracing
