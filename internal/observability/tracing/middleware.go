package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TraceStage wraps fn in a span named "stage.<name>", recording the outcome
// and, on failure, the error message. It is the pipeline's equivalent of the
// old per-request HTTP span: one per ingestFeeds/fetchAndExtractBodies/
// summarizeArticles task, instead of one per inbound request.
//
// Example usage:
//
//	err := tracing.TraceStage(ctx, "body_fetch", func(ctx context.Context) error {
//	    return a.fetchAndExtractOne(ctx, entry)
//	})
func TraceStage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := tracer.Start(ctx, "stage."+name, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	err := fn(ctx)
	if err != nil {
		span.SetAttributes(attribute.Bool("error", true))
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// TraceStageItem is TraceStage with an identifying attribute (a URL, a
// publisher name) attached to the span, for stages that fan out over many
// items and need per-item correlation in the trace backend.
func TraceStageItem(ctx context.Context, name, itemKey, itemValue string, fn func(context.Context) error) error {
	ctx, span := tracer.Start(ctx, "stage."+name, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()
	span.SetAttributes(attribute.String(itemKey, itemValue))

	err := fn(ctx)
	if err != nil {
		span.SetAttributes(attribute.Bool("error", true))
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
