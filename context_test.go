package rollbar

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func spanContext(t *testing.T) trace.SpanContext {
	t.Helper()
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	})
}

func TestTraceAttributes(t *testing.T) {
	if got := traceAttributes(context.Background()); got != nil {
		t.Errorf("background context = %v, want nil", got)
	}

	ctx := trace.ContextWithSpanContext(context.Background(), spanContext(t))
	got := traceAttributes(ctx)
	if got == nil {
		t.Fatal("expected trace attributes from a valid span context")
	}
	if got["trace_id"] != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("trace_id = %v", got["trace_id"])
	}
	if got["span_id"] != "00f067aa0ba902b7" {
		t.Errorf("span_id = %v", got["span_id"])
	}
}

func TestReportContext_AttachesTrace(t *testing.T) {
	rec := newRecordingSender()
	client, _ := New(testConfig(rec))

	ctx := trace.ContextWithSpanContext(context.Background(), spanContext(t))
	if _, err := client.ReportContext(ctx, LevelError, "traced failure", nil); err != nil {
		t.Fatalf("ReportContext() error: %v", err)
	}

	tree := decodeItem(t, rec.sent[0])
	tc, ok := tree["trace_context"].(map[string]any)
	if !ok {
		t.Fatalf("item has no trace_context: %#v", tree)
	}
	if tc["trace_id"] != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("trace_id = %v", tc["trace_id"])
	}
}
