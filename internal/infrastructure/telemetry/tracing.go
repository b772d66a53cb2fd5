// Package telemetry provides OpenTelemetry integration for distributed tracing.
// This file contains utility functions for business-level tracing in application services.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName is the default tracer name for business spans
	TracerName = "propman-backend"
)

// StartSpan starts a new span with the given name.
// The caller is responsible for calling span.End() when the operation completes.
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindInternal))
}

// StartServiceSpan starts a span for a service method.
// It follows the naming convention {service}.{method} (e.g., "billing.generate_bills").
func StartServiceSpan(ctx context.Context, service, method string) (context.Context, trace.Span) {
	return StartSpan(ctx, fmt.Sprintf("%s.%s", service, method))
}

// SetAttributes adds attributes to an existing span from alternating
// key/value pairs.
func SetAttributes(span trace.Span, keyValues ...interface{}) {
	if span == nil {
		return
	}
	attrs := make([]attribute.KeyValue, 0, len(keyValues)/2)
	for i := 0; i+1 < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, toAttribute(key, keyValues[i+1]))
	}
	span.SetAttributes(attrs...)
}

// SetAttribute adds a single attribute to an existing span.
func SetAttribute(span trace.Span, key string, value interface{}) {
	if span == nil {
		return
	}
	span.SetAttributes(toAttribute(key, value))
}

// RecordError records an error on the span and sets the span status to error.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// GetTraceID returns the trace ID from the current span in the context.
// Returns empty string if no span is present.
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	traceID := span.SpanContext().TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}

func toAttribute(key string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}

// Common attribute keys for business spans
const (
	SpanAttrMonth      = "month"
	SpanAttrContractID = "contract_id"
	SpanAttrBillID     = "bill_id"
	SpanAttrMeterID    = "meter_id"
	SpanAttrOwnerID    = "owner_id"
	SpanAttrPayoutID   = "payout_id"
	SpanAttrAmount     = "amount"
	SpanAttrDryRun     = "dry_run"
)
