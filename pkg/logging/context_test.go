package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLogFields_Order(t *testing.T) {
	ctx := context.Background()
	ctx = WithDestination(ctx, "-100123")
	ctx = WithTickID(ctx, "tick-1")
	ctx = WithCollectionID(ctx, "abc123")

	fields := GetLogFields(ctx)

	assert.Equal(t, []interface{}{
		"tick_id", "tick-1",
		"collection_id", "abc123",
		"destination", "-100123",
	}, fields)
}

func TestGetLogFields_Empty(t *testing.T) {
	assert.Empty(t, GetLogFields(context.Background()))
}

func TestGetters(t *testing.T) {
	ctx := WithServiceName(WithTraceID(context.Background(), "t-1"), "relay-service")

	assert.Equal(t, "t-1", GetTraceID(ctx))
	assert.Equal(t, "relay-service", GetServiceName(ctx))
	assert.Equal(t, "", GetDestination(ctx))
}
