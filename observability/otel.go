package observability

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelObserver records one span per attempt, using tracer. The driver
// passes the same context.Context to OnAttemptStart and its matching
// OnAttemptEnd, tagged uniquely per Run so it can double as the
// correlation key across many concurrent drivers sharing one observer.
type OTelObserver struct {
	tracer trace.Tracer

	mu    sync.Mutex
	spans map[context.Context]trace.Span
}

// NewOTelObserver builds an observer that starts spans on tracer.
func NewOTelObserver(tracer trace.Tracer) *OTelObserver {
	return &OTelObserver{tracer: tracer, spans: make(map[context.Context]trace.Span)}
}

func (o *OTelObserver) OnAttemptStart(ctx context.Context, rec AttemptRecord) {
	if o.tracer == nil {
		return
	}
	_, span := o.tracer.Start(ctx, "retrycap.attempt", trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(attribute.Int("retrycap.attempt_number", rec.AttemptNumber))

	o.mu.Lock()
	o.spans[ctx] = span
	o.mu.Unlock()
}

func (o *OTelObserver) OnAttemptEnd(ctx context.Context, rec AttemptRecord) {
	o.mu.Lock()
	span, ok := o.spans[ctx]
	if ok {
		delete(o.spans, ctx)
	}
	o.mu.Unlock()
	if !ok {
		return
	}

	if rec.Failure != nil {
		span.RecordError(rec.Failure)
		span.SetStatus(codes.Error, rec.Failure.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	if rec.StatusCode != 0 {
		span.SetAttributes(attribute.Int("retrycap.status_code", rec.StatusCode))
	}
	span.End()
}

func (o *OTelObserver) OnCapacityDenied(context.Context, int) {}

func (o *OTelObserver) OnTerminal(context.Context, Outcome, int, error) {}
