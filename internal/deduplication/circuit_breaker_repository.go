package deduplication

import (
	"context"
	"fmt"

	"nftrelay/internal/config"
	"nftrelay/pkg/circuitbreaker"
)

type CircuitBreakerRepository struct {
	repo Repository
	cb   *circuitbreaker.Wrapper
}

func NewCircuitBreakerRepository(repo Repository, cfg config.CircuitBreakerConfig) *CircuitBreakerRepository {
	if !cfg.Enabled {
		return &CircuitBreakerRepository{repo: repo}
	}

	cbConfig := circuitbreaker.DefaultConfig("redis-dedup")
	if cfg.MaxRequests > 0 {
		cbConfig.MaxRequests = cfg.MaxRequests
	}
	if cfg.Interval > 0 {
		cbConfig.Interval = cfg.Interval
	}
	if cfg.Timeout > 0 {
		cbConfig.Timeout = cfg.Timeout
	}
	if cfg.FailureRatio > 0 {
		cbConfig.FailureRatio = cfg.FailureRatio
	}
	if cfg.MinRequests > 0 {
		cbConfig.MinRequests = cfg.MinRequests
	}

	return &CircuitBreakerRepository{
		repo: repo,
		cb:   circuitbreaker.NewWrapper(cbConfig),
	}
}

func (r *CircuitBreakerRepository) Insert(ctx context.Context, key string) (bool, error) {
	if r.cb == nil {
		return r.repo.Insert(ctx, key)
	}

	result, err := r.cb.Execute(ctx, func() (interface{}, error) {
		return r.repo.Insert(ctx, key)
	})
	if err != nil {
		return false, err
	}

	inserted, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("repository returned invalid result type %T", result)
	}
	return inserted, nil
}

func (r *CircuitBreakerRepository) Size(ctx context.Context) (int, error) {
	return r.intCall(ctx, func() (int, error) { return r.repo.Size(ctx) })
}

func (r *CircuitBreakerRepository) Trim(ctx context.Context, keep int) (int, error) {
	return r.intCall(ctx, func() (int, error) { return r.repo.Trim(ctx, keep) })
}

func (r *CircuitBreakerRepository) intCall(ctx context.Context, fn func() (int, error)) (int, error) {
	if r.cb == nil {
		return fn()
	}

	result, err := r.cb.Execute(ctx, func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return 0, err
	}

	n, ok := result.(int)
	if !ok {
		return 0, fmt.Errorf("repository returned invalid result type %T", result)
	}
	return n, nil
}

func (r *CircuitBreakerRepository) State() string {
	if r.cb == nil {
		return "disabled"
	}
	return r.cb.State().String()
}

func (r *CircuitBreakerRepository) IsOpen() bool {
	if r.cb == nil {
		return false
	}
	return r.cb.IsOpen()
}
