//go:build integration

package deduplication

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisRepository_InsertAndTrim(t *testing.T) {
	client := setupRedis(t)
	repo := NewRedisRepository(client, "test:seen")
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		ok, err := repo.Insert(ctx, fmt.Sprintf("c:%d", i))
		require.NoError(t, err)
		require.True(t, ok)
	}
	dup, err := repo.Insert(ctx, "c:7")
	require.NoError(t, err)
	assert.False(t, dup)

	removed, err := repo.Trim(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 40, removed)

	size, err := repo.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, size)

	members, err := client.ZRange(ctx, "test:seen:keys", 0, -1).Result()
	require.NoError(t, err)
	assert.Equal(t, "c:40", members[0])
	assert.Equal(t, "c:49", members[9])
}

func TestRedisRepository_ConcurrentInsert(t *testing.T) {
	client := setupRedis(t)
	repo := NewRedisRepository(client, "test:concurrent")
	var novel int32
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, err := repo.Insert(context.Background(), "c:same"); err == nil && ok {
				atomic.AddInt32(&novel, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), novel)
}
