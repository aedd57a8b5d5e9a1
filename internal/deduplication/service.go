package deduplication

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"nftrelay/internal/config"
	"nftrelay/internal/constants"
	"nftrelay/internal/logger"
	"nftrelay/pkg/metrics"
	"nftrelay/pkg/tracing"
)

const sizeMetricsInterval = 30 * time.Second

// Service decides event novelty. A key is reported new exactly once until a
// trim evicts it; evicted keys may be delivered again.
type Service struct {
	repo       Repository
	cfg        config.DeduplicationConfig
	allowOnErr bool
	logger     logger.Logger

	stopOnce         sync.Once
	cancelMetricsCtx context.CancelFunc
}

func NewService(repo Repository, cfg config.DeduplicationConfig, log logger.Logger) *Service {
	if cfg.HighWater <= 0 {
		cfg.HighWater = constants.DefaultSeenHighWater
	}
	if cfg.LowWater <= 0 {
		cfg.LowWater = constants.DefaultSeenLowWater
	}
	if cfg.OnBackendError == "" {
		cfg.OnBackendError = constants.FallbackDeny
	}

	return &Service{
		repo:       repo,
		cfg:        cfg,
		allowOnErr: strings.EqualFold(cfg.OnBackendError, constants.FallbackAllow),
		logger:     log,
	}
}

// IsNew marks key as seen and reports whether this call was the one that did.
// On a backend error the configured policy decides: "deny" returns the error
// so the caller skips the event for this tick, "allow" reports it as new.
func (s *Service) IsNew(ctx context.Context, key string) (bool, error) {
	ctx, span := tracing.GetTracer("relay-service").Start(ctx, "deduplication.is_new")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return false, err
	}

	start := time.Now()
	inserted, err := s.repo.Insert(ctx, key)
	duration := time.Since(start)

	if err != nil {
		metrics.ObserveDedupDuration(duration, "error")
		return s.handleBackendError(ctx, key, err)
	}

	status := "duplicate"
	if inserted {
		status = "unique"
	}
	span.SetAttributes(attribute.Bool("novel", inserted))
	metrics.ObserveDedupDuration(duration, status)
	return inserted, nil
}

func (s *Service) handleBackendError(ctx context.Context, key string, err error) (bool, error) {
	if s.allowOnErr {
		metrics.IncFallbackUsage("deduplication", "allow_on_error", "backend_error")
		s.logger.WarnwCtx(ctx, "Seen-set backend error, treating event as new (fallback: allow)",
			"key", key,
			"error", err,
		)
		return true, nil
	}

	metrics.IncFallbackUsage("deduplication", "deny_on_error", "backend_error")
	return false, fmt.Errorf("seen-set check failed for %s: %w", key, err)
}

// Trim shrinks the seen set to the low-water mark once it has grown past the
// high-water mark. It returns the number of evicted keys.
func (s *Service) Trim(ctx context.Context) (int, error) {
	size, err := s.repo.Size(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read seen-set size: %w", err)
	}
	metrics.SetDedupSeenKeys(size)

	if size <= s.cfg.HighWater {
		return 0, nil
	}

	removed, err := s.repo.Trim(ctx, s.cfg.LowWater)
	if err != nil {
		return 0, fmt.Errorf("failed to trim seen set: %w", err)
	}

	metrics.AddDedupTrimmed(removed)
	metrics.SetDedupSeenKeys(size - removed)
	s.logger.InfowCtx(ctx, "Trimmed seen set",
		"size_before", size,
		"removed", removed,
		"kept", s.cfg.LowWater,
	)
	return removed, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	size, err := s.repo.Size(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		Backend:        s.cfg.Backend,
		Size:           size,
		HighWater:      s.cfg.HighWater,
		LowWater:       s.cfg.LowWater,
		OnBackendError: s.cfg.OnBackendError,
	}
	if cb, ok := s.repo.(*CircuitBreakerRepository); ok {
		stats.BreakerState = cb.State()
	}
	return stats, nil
}

// StartMetricsUpdater publishes the seen-set size in the background until
// StopMetricsUpdater is called.
func (s *Service) StartMetricsUpdater() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelMetricsCtx = cancel
	go s.updateSizeMetrics(ctx)
}

func (s *Service) updateSizeMetrics(ctx context.Context) {
	ticker := time.NewTicker(sizeMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			size, err := s.repo.Size(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Debugw("Failed to get seen-set size for metrics", "error", err)
				continue
			}
			metrics.SetDedupSeenKeys(size)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) StopMetricsUpdater() {
	s.stopOnce.Do(func() {
		if s.cancelMetricsCtx != nil {
			s.cancelMetricsCtx()
		}
	})
}
