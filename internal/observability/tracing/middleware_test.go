package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withTestProvider(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	tracer = tp.Tracer("newsdigest")
	t.Cleanup(func() {
		otel.SetTracerProvider(sdktrace.NewTracerProvider())
		tracer = otel.Tracer("newsdigest")
	})
	return exporter
}

func TestTraceStage_CreatesSpan(t *testing.T) {
	exporter := withTestProvider(t)

	err := TraceStage(context.Background(), "body_fetch", func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "stage.body_fetch" {
		t.Errorf("expected span name 'stage.body_fetch', got %q", spans[0].Name)
	}
}

func TestTraceStage_MarksErrorOnFailure(t *testing.T) {
	exporter := withTestProvider(t)

	wantErr := errors.New("fetch failed")
	err := TraceStage(context.Background(), "body_fetch", func(ctx context.Context) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected returned error to be wantErr, got %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Status.Code != codes.Error {
		t.Errorf("expected span status Error, got %v", span.Status.Code)
	}

	foundError := false
	for _, attr := range span.Attributes {
		if attr.Key == "error" && attr.Value.AsBool() {
			foundError = true
		}
	}
	if !foundError {
		t.Error("expected error attribute on failed stage")
	}
}

func TestTraceStage_NoErrorAttributeOnSuccess(t *testing.T) {
	exporter := withTestProvider(t)

	_ = TraceStage(context.Background(), "summarize", func(ctx context.Context) error {
		return nil
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	for _, attr := range spans[0].Attributes {
		if attr.Key == "error" {
			t.Error("unexpected error attribute on successful stage")
		}
	}
}

func TestTraceStageItem_AttachesItemAttribute(t *testing.T) {
	exporter := withTestProvider(t)

	err := TraceStageItem(context.Background(), "feed_fetch", "publisher", "yonhap", func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	found := false
	for _, attr := range spans[0].Attributes {
		if attr.Key == "publisher" && attr.Value.AsString() == "yonhap" {
			found = true
		}
	}
	if !found {
		t.Error("expected publisher attribute on span")
	}
}
