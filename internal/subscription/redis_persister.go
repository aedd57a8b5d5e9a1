package subscription

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nftrelay/pkg/metrics"
	"nftrelay/pkg/retry"
)

// RedisPersister stores one hash field per destination holding the JSON
// encoded record.
type RedisPersister struct {
	client *redis.Client
	key    string
	policy retry.Policy
}

func NewRedisPersister(client *redis.Client, key string, policy retry.Policy) *RedisPersister {
	return &RedisPersister{
		client: client,
		key:    key,
		policy: policy,
	}
}

func (p *RedisPersister) Load(ctx context.Context) (State, error) {
	start := time.Now()
	fields, err := p.client.HGetAll(ctx, p.key).Result()
	if err != nil {
		metrics.ObserveDatabaseQuery("redis", "load", "error", time.Since(start))
		return nil, fmt.Errorf("redis HGETALL %s failed: %w", p.key, err)
	}
	metrics.ObserveDatabaseQuery("redis", "load", "ok", time.Since(start))

	state := make(State, len(fields))
	for dest, raw := range fields {
		var rec Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("%w: destination %s: %v", ErrCorruptState, dest, err)
		}
		state[dest] = rec
	}
	return state, nil
}

func (p *RedisPersister) Put(ctx context.Context, destination string, record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	return p.exec(ctx, "put", func() error {
		return p.client.HSet(ctx, p.key, destination, data).Err()
	})
}

func (p *RedisPersister) Delete(ctx context.Context, destination string) error {
	return p.exec(ctx, "delete", func() error {
		return p.client.HDel(ctx, p.key, destination).Err()
	})
}

func (p *RedisPersister) exec(ctx context.Context, operation string, fn func() error) error {
	start := time.Now()
	err := retry.RetryWithCallback(ctx, p.policy, fn, func(attempt int, err error, _ time.Duration) {
		metrics.RetryAttemptsTotal.WithLabelValues("subscriptions", "redis_"+operation).Inc()
	})

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.ObserveDatabaseQuery("redis", operation, status, time.Since(start))

	if err != nil {
		return fmt.Errorf("redis %s failed: %w", operation, err)
	}
	return nil
}
