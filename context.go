package rollbar

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// traceAttributes extracts span identifiers from ctx, or nil when the
// context carries no valid span. Items tagged this way can be joined with
// distributed traces on the collector side.
func traceAttributes(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return nil
	}
	return map[string]any{
		"trace_id": spanCtx.TraceID().String(),
		"span_id":  spanCtx.SpanID().String(),
	}
}
