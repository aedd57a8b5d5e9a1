package deduplication

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nftrelay/internal/config"
	"nftrelay/internal/logger"
)

type failingRepository struct{}

func (failingRepository) Insert(context.Context, string) (bool, error) {
	return false, errors.New("connection refused")
}

func (failingRepository) Size(context.Context) (int, error) {
	return 0, errors.New("connection refused")
}

func (failingRepository) Trim(context.Context, int) (int, error) {
	return 0, errors.New("connection refused")
}

func newService(repo Repository, high, low int, onErr string) *Service {
	return NewService(repo, config.DeduplicationConfig{
		Backend:        "memory",
		HighWater:      high,
		LowWater:       low,
		OnBackendError: onErr,
	}, logger.NopLogger())
}

func TestService_IsNewOnce(t *testing.T) {
	svc := newService(NewMemoryRepository(), 3000, 1000, "deny")
	ctx := context.Background()

	first, err := svc.IsNew(ctx, "abc123:T1")
	require.NoError(t, err)
	second, err := svc.IsNew(ctx, "abc123:T1")
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
}

func TestService_IsNewConcurrent(t *testing.T) {
	svc := newService(NewMemoryRepository(), 3000, 1000, "deny")
	var novel int32
	var wg sync.WaitGroup

	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := svc.IsNew(context.Background(), "abc123:same")
			if err == nil && ok {
				atomic.AddInt32(&novel, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), novel)
}

func TestService_TrimKeepsMostRecent(t *testing.T) {
	repo := NewMemoryRepository()
	svc := newService(repo, 3000, 1000, "deny")
	ctx := context.Background()

	for i := 0; i < 5000; i++ {
		_, err := svc.IsNew(ctx, fmt.Sprintf("c:%d", i))
		require.NoError(t, err)
	}

	removed, err := svc.Trim(ctx)
	require.NoError(t, err)

	size, _ := repo.Size(ctx)
	assert.Equal(t, 4000, removed)
	assert.Equal(t, 1000, size)
	for i := 4000; i < 5000; i++ {
		assert.True(t, repo.Contains(fmt.Sprintf("c:%d", i)))
	}
	assert.False(t, repo.Contains("c:3999"))

	again, err := svc.IsNew(ctx, "c:0")
	require.NoError(t, err)
	assert.True(t, again, "evicted keys are accepted again")
}

func TestService_TrimBelowHighWaterIsNoop(t *testing.T) {
	repo := NewMemoryRepository()
	svc := newService(repo, 10, 5, "deny")
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		svc.IsNew(ctx, fmt.Sprintf("c:%d", i))
	}

	removed, err := svc.Trim(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	svc.IsNew(ctx, "c:10")
	removed, err = svc.Trim(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, removed)
	size, _ := repo.Size(ctx)
	assert.Equal(t, 5, size)
}

func TestService_BackendErrorPolicy(t *testing.T) {
	deny := newService(failingRepository{}, 10, 5, "deny")
	ok, err := deny.IsNew(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, ok)

	allow := newService(failingRepository{}, 10, 5, "allow")
	ok, err = allow.IsNew(context.Background(), "k")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestService_DefaultPolicyIsDeny(t *testing.T) {
	svc := newService(failingRepository{}, 10, 5, "")

	_, err := svc.IsNew(context.Background(), "k")

	assert.Error(t, err)
}

func TestService_Stats(t *testing.T) {
	repo := NewCircuitBreakerRepository(NewMemoryRepository(), config.CircuitBreakerConfig{Enabled: true})
	svc := newService(repo, 10, 5, "deny")
	svc.IsNew(context.Background(), "a")

	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, "closed", stats.BreakerState)
	assert.Equal(t, "deny", stats.OnBackendError)
}

func TestService_MetricsUpdaterStops(t *testing.T) {
	svc := newService(NewMemoryRepository(), 10, 5, "deny")
	svc.StartMetricsUpdater()

	svc.StopMetricsUpdater()
	svc.StopMetricsUpdater()
}
