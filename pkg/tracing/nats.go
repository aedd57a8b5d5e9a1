package tracing

import (
	"context"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// NATS headers share http.Header's shape, so the stock carrier fits.

func InjectNATSHeaders(ctx context.Context, header nats.Header) {
	if header == nil {
		return
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(header))
}

func StartSpanFromNATSMessage(ctx context.Context, operationName string, header nats.Header) (context.Context, trace.Span) {
	if header != nil {
		ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(header))
	}

	tracer := GetTracer("relay-nats")
	return tracer.Start(ctx, operationName)
}
