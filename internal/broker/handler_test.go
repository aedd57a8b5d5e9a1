package broker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nftrelay/internal/config"
	"nftrelay/internal/logger"
	apperrors "nftrelay/pkg/errors"
	"nftrelay/pkg/models"
	"nftrelay/pkg/retry"
)

func fastPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2,
	}
}

func testEnvelope() models.MessageEnvelope {
	return *models.NewMessageEnvelopeBuilder().
		WithID("m-1").
		WithKind(models.KindCommand).
		Build()
}

func TestHandleWithRetry_PanicBecomesError(t *testing.T) {
	calls := 0
	err := handleWithRetry(context.Background(), logger.NopLogger(), fastPolicy(), "test", "commands", testEnvelope(),
		func(context.Context, models.MessageEnvelope) error {
			calls++
			panic("boom")
		})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, 3, calls)
}

func TestHandleWithRetry_FatalIsNotRetried(t *testing.T) {
	calls := 0
	err := handleWithRetry(context.Background(), logger.NopLogger(), fastPolicy(), "test", "commands", testEnvelope(),
		func(context.Context, models.MessageEnvelope) error {
			calls++
			return retry.Fatal(errors.New("bad command"))
		})

	require.Error(t, err)
	assert.True(t, retry.IsFatal(err))
	assert.Equal(t, 1, calls)
}

func TestHandleWithRetry_TransientErrorExhaustsAttempts(t *testing.T) {
	policy := fastPolicy()
	policy.MaxAttempts = 4

	calls := 0
	err := handleWithRetry(context.Background(), logger.NopLogger(), policy, "test", "commands", testEnvelope(),
		func(context.Context, models.MessageEnvelope) error {
			calls++
			return errors.New("unavailable")
		})

	require.EqualError(t, err, "unavailable")
	assert.Equal(t, 4, calls)
}

func TestHandleWithRetry_SucceedsAfterRetry(t *testing.T) {
	calls := 0
	var got models.MessageEnvelope
	err := handleWithRetry(context.Background(), logger.NopLogger(), fastPolicy(), "test", "commands", testEnvelope(),
		func(_ context.Context, msg models.MessageEnvelope) error {
			calls++
			got = msg
			if calls < 2 {
				return errors.New("unavailable")
			}
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "m-1", got.ID)
}

func TestHandleWithRetry_StopsWhenContextIsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := fastPolicy()
	policy.MaxAttempts = 10

	calls := 0
	err := handleWithRetry(ctx, logger.NopLogger(), policy, "test", "commands", testEnvelope(),
		func(context.Context, models.MessageEnvelope) error {
			calls++
			cancel()
			return errors.New("unavailable")
		})

	require.Error(t, err)
	assert.Less(t, calls, 10)
}

func TestRetryPolicy(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p := retryPolicy(config.RetryConfig{})
		assert.Equal(t, 3, p.MaxAttempts)
		assert.Equal(t, time.Second, p.InitialInterval)
		assert.Equal(t, 30*time.Second, p.MaxInterval)
		assert.Equal(t, 2.0, p.Multiplier)
		assert.Zero(t, p.MaxElapsedTime)
	})

	t.Run("overrides", func(t *testing.T) {
		p := retryPolicy(config.RetryConfig{
			MaxAttempts:     5,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     time.Second,
			Multiplier:      1.5,
			MaxElapsedTime:  time.Minute,
		})
		assert.Equal(t, 5, p.MaxAttempts)
		assert.Equal(t, 10*time.Millisecond, p.InitialInterval)
		assert.Equal(t, time.Second, p.MaxInterval)
		assert.Equal(t, 1.5, p.Multiplier)
		assert.Equal(t, time.Minute, p.MaxElapsedTime)
	})
}
