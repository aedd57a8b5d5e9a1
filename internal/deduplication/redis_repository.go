package deduplication

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// The seen set is a sorted set scored by a monotonically increasing sequence,
// so rank order is insertion order. Both scripts run atomically on the server.
var (
	insertScript = redis.NewScript(`
if redis.call('ZSCORE', KEYS[1], ARGV[1]) then
	return 0
end
local seq = redis.call('INCR', KEYS[2])
redis.call('ZADD', KEYS[1], seq, ARGV[1])
return 1
`)

	trimScript = redis.NewScript(`
local size = redis.call('ZCARD', KEYS[1])
local keep = tonumber(ARGV[1])
if size <= keep then
	return 0
end
redis.call('ZREMRANGEBYRANK', KEYS[1], 0, size - keep - 1)
return size - keep
`)
)

type RedisRepository struct {
	client *redis.Client
	setKey string
	seqKey string
}

func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	return &RedisRepository{
		client: client,
		setKey: prefix + ":keys",
		seqKey: prefix + ":seq",
	}
}

func (r *RedisRepository) Insert(ctx context.Context, key string) (bool, error) {
	inserted, err := insertScript.Run(ctx, r.client, []string{r.setKey, r.seqKey}, key).Int()
	if err != nil {
		return false, fmt.Errorf("redis seen-set insert failed: %w", err)
	}
	return inserted == 1, nil
}

func (r *RedisRepository) Size(ctx context.Context) (int, error) {
	n, err := r.client.ZCard(ctx, r.setKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis ZCARD failed: %w", err)
	}
	return int(n), nil
}

func (r *RedisRepository) Trim(ctx context.Context, keep int) (int, error) {
	removed, err := trimScript.Run(ctx, r.client, []string{r.setKey}, keep).Int()
	if err != nil {
		return 0, fmt.Errorf("redis seen-set trim failed: %w", err)
	}
	return removed, nil
}
