package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"nftrelay/internal/config"
	"nftrelay/internal/constants"
	"nftrelay/internal/logger"
	"nftrelay/pkg/circuitbreaker"
	"nftrelay/pkg/metrics"
	"nftrelay/pkg/tracing"
)

const maxBodyBytes = 8 << 20

// Source fetches the recent events of one collection.
type Source interface {
	Fetch(ctx context.Context, collectionID string) FetchResult
}

type fetchError struct {
	kind   FailureKind
	status int
	err    error
}

func (e *fetchError) Error() string {
	if e.status != 0 {
		return fmt.Sprintf("%s: upstream returned %d", e.kind, e.status)
	}
	return fmt.Sprintf("%s: %v", e.kind, e.err)
}

func (e *fetchError) Unwrap() error {
	return e.err
}

// tripsBreaker reports whether err says something about upstream health.
// Client errors and bad payloads do not.
func tripsBreaker(err error) bool {
	var fe *fetchError
	if !errors.As(err, &fe) {
		return true
	}
	switch fe.kind {
	case FailureNetwork, FailureTimeout:
		return !errors.Is(fe.err, context.Canceled)
	case FailureStatus:
		return fe.status >= http.StatusInternalServerError
	default:
		return false
	}
}

type HTTPSource struct {
	client      *http.Client
	urlTemplate string
	userAgent   string
	timeout     time.Duration
	hasher      *Hasher
	breaker     *circuitbreaker.Wrapper
	logger      logger.Logger
}

func NewHTTPSource(cfg config.MarketplaceConfig, cbCfg config.CircuitBreakerConfig, hasher *Hasher, log logger.Logger) *HTTPSource {
	s := &HTTPSource{
		client:      &http.Client{},
		urlTemplate: cfg.EventsURL,
		userAgent:   cfg.UserAgent,
		timeout:     cfg.Timeout,
		hasher:      hasher,
		logger:      log,
	}
	if s.timeout <= 0 {
		s.timeout = constants.DefaultFetchTimeout
	}

	if cbCfg.Enabled {
		breakerCfg := circuitbreaker.DefaultConfig("marketplace-api")
		if cbCfg.MaxRequests > 0 {
			breakerCfg.MaxRequests = cbCfg.MaxRequests
		}
		if cbCfg.Interval > 0 {
			breakerCfg.Interval = cbCfg.Interval
		}
		if cbCfg.Timeout > 0 {
			breakerCfg.Timeout = cbCfg.Timeout
		}
		if cbCfg.FailureRatio > 0 {
			breakerCfg.FailureRatio = cbCfg.FailureRatio
		}
		if cbCfg.MinRequests > 0 {
			breakerCfg.MinRequests = cbCfg.MinRequests
		}
		breakerCfg.IsFailure = tripsBreaker
		breakerCfg.OnStateChange = func(name string, from, to gobreaker.State) {
			log.Warnw("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		}
		s.breaker = circuitbreaker.NewWrapper(breakerCfg)
	}

	return s
}

// BreakerOpen reports whether the marketplace breaker is currently rejecting
// calls. Always false when the breaker is disabled.
func (s *HTTPSource) BreakerOpen() bool {
	return s.breaker != nil && s.breaker.IsOpen()
}

func (s *HTTPSource) URL(collectionID string) string {
	return strings.ReplaceAll(s.urlTemplate, constants.CollectionPlaceholder, url.PathEscape(collectionID))
}

func (s *HTTPSource) Fetch(ctx context.Context, collectionID string) FetchResult {
	ctx, span := tracing.GetTracer("relay-service").Start(ctx, "events.fetch")
	defer span.End()
	span.SetAttributes(attribute.String("collection_id", collectionID))

	start := time.Now()
	result := s.fetch(ctx, collectionID)
	duration := time.Since(start)

	if result.Failed() {
		span.SetStatus(codes.Error, string(result.Failure))
		span.RecordError(result.Err)
		metrics.ObserveFetch(duration, string(result.Failure))
		s.logger.WarnwCtx(ctx, "Marketplace fetch failed",
			"collection_id", collectionID,
			"failure", result.Failure,
			"error", result.Err,
			"duration_ms", duration.Milliseconds(),
		)
		return result
	}

	span.SetAttributes(attribute.Int("events", len(result.Events)))
	metrics.ObserveFetch(duration, "ok")
	s.logger.DebugwCtx(ctx, "Marketplace fetch completed",
		"collection_id", collectionID,
		"events", len(result.Events),
		"duration_ms", duration.Milliseconds(),
	)
	return result
}

func (s *HTTPSource) fetch(ctx context.Context, collectionID string) FetchResult {
	var (
		body []byte
		err  error
	)

	if s.breaker != nil {
		var out interface{}
		out, err = s.breaker.Execute(ctx, func() (interface{}, error) {
			return s.get(ctx, collectionID)
		})
		if errors.Is(err, circuitbreaker.ErrOpen) {
			return failed(FailureCircuitOpen, err)
		}
		if err == nil {
			body = out.([]byte)
		}
	} else {
		body, err = s.get(ctx, collectionID)
	}

	if err != nil {
		var fe *fetchError
		if errors.As(err, &fe) {
			return failed(fe.kind, err)
		}
		return failed(FailureNetwork, err)
	}

	raws, err := DecodePayload(body)
	if err != nil {
		return failed(FailureMalformed, err)
	}

	out := make([]Event, 0, len(raws))
	for _, raw := range raws {
		event, err := Normalize(collectionID, raw, s.hasher)
		if err != nil {
			s.logger.WarnwCtx(ctx, "Skipping event that could not be normalized",
				"collection_id", collectionID,
				"error", err,
			)
			continue
		}
		out = append(out, event)
	}

	return FetchResult{Events: out, Failure: FailureNone}
}

func (s *HTTPSource) get(ctx context.Context, collectionID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL(collectionID), nil)
	if err != nil {
		return nil, &fetchError{kind: FailureNetwork, err: err}
	}
	req.Header.Set("Accept", "application/json")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &fetchError{kind: classifyTransportError(err), err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < constants.HTTPStatusOKMin || resp.StatusCode >= constants.HTTPStatusOKMax {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &fetchError{kind: FailureStatus, status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &fetchError{kind: classifyTransportError(err), err: err}
	}
	return body, nil
}

func classifyTransportError(err error) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}
	return FailureNetwork
}
