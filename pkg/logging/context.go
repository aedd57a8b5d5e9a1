package logging

import (
	"context"
)

type ctxKey string

const (
	TraceIDKey      ctxKey = "trace_id"
	TickIDKey       ctxKey = "tick_id"
	DestinationKey  ctxKey = "destination"
	CollectionIDKey ctxKey = "collection_id"
	ServiceNameKey  ctxKey = "service_name"
)

// fieldOrder fixes the order fields are emitted in, so log lines stay stable.
var fieldOrder = []ctxKey{TraceIDKey, TickIDKey, CollectionIDKey, DestinationKey, ServiceNameKey}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

func WithTickID(ctx context.Context, tickID string) context.Context {
	return context.WithValue(ctx, TickIDKey, tickID)
}

func WithDestination(ctx context.Context, destination string) context.Context {
	return context.WithValue(ctx, DestinationKey, destination)
}

func WithCollectionID(ctx context.Context, collectionID string) context.Context {
	return context.WithValue(ctx, CollectionIDKey, collectionID)
}

func WithServiceName(ctx context.Context, serviceName string) context.Context {
	return context.WithValue(ctx, ServiceNameKey, serviceName)
}

func value(ctx context.Context, key ctxKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

func GetTraceID(ctx context.Context) string {
	return value(ctx, TraceIDKey)
}

func GetTickID(ctx context.Context) string {
	return value(ctx, TickIDKey)
}

func GetDestination(ctx context.Context) string {
	return value(ctx, DestinationKey)
}

func GetCollectionID(ctx context.Context) string {
	return value(ctx, CollectionIDKey)
}

func GetServiceName(ctx context.Context) string {
	return value(ctx, ServiceNameKey)
}

// GetLogFields returns the key/value pairs stored in ctx, ready to be passed to
// a sugared logger.
func GetLogFields(ctx context.Context) []interface{} {
	fields := make([]interface{}, 0, len(fieldOrder)*2)
	for _, key := range fieldOrder {
		if v := value(ctx, key); v != "" {
			fields = append(fields, string(key), v)
		}
	}
	return fields
}
