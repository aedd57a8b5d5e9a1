package poller

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"nftrelay/internal/config"
	"nftrelay/internal/constants"
	"nftrelay/internal/events"
	"nftrelay/internal/feed"
	"nftrelay/internal/locale"
	"nftrelay/internal/logger"
	"nftrelay/internal/notifier"
	"nftrelay/internal/subscription"
	"nftrelay/pkg/cel"
	apperrors "nftrelay/pkg/errors"
	"nftrelay/pkg/logging"
	"nftrelay/pkg/metrics"
	"nftrelay/pkg/tracing"
)

type Subscriptions interface {
	All() []subscription.Entry
}

type Deduplicator interface {
	IsNew(ctx context.Context, key string) (bool, error)
	Trim(ctx context.Context) (int, error)
}

// Poller runs the fetch, deduplicate and dispatch cycle.
//
// Delivery is at most once per novel event: a key is marked seen before the
// alert is queued and a failed dispatch is never retried. Alerts for one
// destination are sent in the order their events were fetched.
type Poller struct {
	source    events.Source
	subs      Subscriptions
	dedup     Deduplicator
	notifier  notifier.Notifier
	pacer     notifier.Pacer
	captions  *notifier.CaptionBuilder
	locales   *locale.Registry
	feed      feed.Publisher
	filter    *cel.Filter
	newTicker TickerFactory

	interval        time.Duration
	workers         int
	dispatchTimeout time.Duration
	pollOnStart     bool

	logger logger.Logger

	tickMu   sync.Mutex
	lastTick atomic.Int64
}

type Option func(*Poller)

func WithTicker(factory TickerFactory) Option {
	return func(p *Poller) {
		p.newTicker = factory
	}
}

func WithFeed(publisher feed.Publisher) Option {
	return func(p *Poller) {
		p.feed = publisher
	}
}

// WithPacer makes every alert wait for the destination's send slot before its
// dispatch deadline starts.
func WithPacer(pacer notifier.Pacer) Option {
	return func(p *Poller) {
		p.pacer = pacer
	}
}

// WithFilter drops events the filter rejects before they are marked seen.
func WithFilter(filter *cel.Filter) Option {
	return func(p *Poller) {
		p.filter = filter
	}
}

func New(
	cfg config.PollerConfig,
	source events.Source,
	subs Subscriptions,
	dedup Deduplicator,
	n notifier.Notifier,
	captions *notifier.CaptionBuilder,
	locales *locale.Registry,
	log logger.Logger,
	opts ...Option,
) *Poller {
	p := &Poller{
		source:          source,
		subs:            subs,
		dedup:           dedup,
		notifier:        n,
		captions:        captions,
		locales:         locales,
		feed:            feed.NopPublisher{},
		newTicker:       NewRealTicker,
		interval:        cfg.Interval,
		workers:         cfg.Workers,
		dispatchTimeout: cfg.DispatchTimeout,
		pollOnStart:     cfg.PollOnStart,
		logger:          log,
	}
	if p.interval <= 0 {
		p.interval = constants.DefaultPollInterval
	}
	if p.workers <= 0 {
		p.workers = constants.DefaultPollWorkers
	}
	if p.dispatchTimeout <= 0 {
		p.dispatchTimeout = constants.DefaultDispatchTimeout
	}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Poller) Interval() time.Duration {
	return p.interval
}

// LastTick is when the most recent tick finished, zero before the first.
func (p *Poller) LastTick() time.Time {
	ns := p.lastTick.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Run drives ticks until ctx is cancelled. Ticks run on this goroutine, so a
// slow tick delays the next one instead of overlapping it.
func (p *Poller) Run(ctx context.Context) error {
	ticker := p.newTicker(p.interval)
	defer ticker.Stop()

	p.logger.Infow("Poller started",
		"interval", p.interval.String(),
		"workers", p.workers,
		"poll_on_start", p.pollOnStart,
	)

	if p.pollOnStart {
		p.runScheduledTick(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			p.logger.Infow("Poller stopped")
			return nil
		case <-ticker.C():
			p.runScheduledTick(ctx)
		}
	}
}

func (p *Poller) runScheduledTick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := p.Tick(ctx); errors.Is(err, ErrTickInProgress) {
		p.logger.Debugw("Skipping scheduled tick, previous tick still running")
	}
}

// Tick performs one full cycle. It returns ErrTickInProgress rather than
// running concurrently with another tick.
func (p *Poller) Tick(ctx context.Context) (TickReport, error) {
	if !p.tickMu.TryLock() {
		return TickReport{}, ErrTickInProgress
	}
	defer p.tickMu.Unlock()

	start := time.Now()
	report := TickReport{TickID: uuid.NewString()}
	ctx = logging.WithTickID(ctx, report.TickID)

	ctx, span := tracing.GetTracer("relay-service").Start(ctx, "poller.tick")
	defer span.End()

	entries := p.subs.All()
	groups := groupByCollection(entries)
	report.Destinations = len(entries)
	report.Collections = len(groups)

	collections := make([]string, 0, len(groups))
	for c := range groups {
		collections = append(collections, c)
	}
	sort.Strings(collections)

	var counters tickCounters
	box := newOutbox()

	g := new(errgroup.Group)
	g.SetLimit(p.workers)
	for _, collectionID := range collections {
		if ctx.Err() != nil {
			break
		}
		collectionID := collectionID
		recipients := groups[collectionID]
		g.Go(func() error {
			p.pollCollection(ctx, collectionID, recipients, &counters, box)
			return nil
		})
	}
	_ = g.Wait()
	p.deliver(ctx, box, &counters)

	if ctx.Err() == nil {
		trimmed, err := p.dedup.Trim(ctx)
		if err != nil {
			p.logger.WarnwCtx(ctx, "Seen-set trim failed", "error", err)
		}
		report.Trimmed = trimmed
	}

	counters.fill(&report)
	report.Duration = time.Since(start)
	p.lastTick.Store(time.Now().UnixNano())

	status := "ok"
	if ctx.Err() != nil {
		status = "cancelled"
	}
	metrics.ObserveTick(report.Duration, status)
	span.SetAttributes(
		attribute.Int("collections", report.Collections),
		attribute.Int64("novel", report.Novel),
		attribute.Int64("dispatched", report.Dispatched),
	)

	p.logger.InfowCtx(ctx, "Tick completed",
		"destinations", report.Destinations,
		"collections", report.Collections,
		"fetch_failures", report.FetchFailures,
		"novel", report.Novel,
		"dispatched", report.Dispatched,
		"dispatch_failures", report.DispatchFails,
		"trimmed", report.Trimmed,
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report, nil
}

func groupByCollection(entries []subscription.Entry) map[string][]recipient {
	groups := make(map[string][]recipient)
	for _, e := range entries {
		for _, c := range e.Collections {
			groups[c] = append(groups[c], recipient{destination: e.Destination, locale: e.Locale})
		}
	}
	return groups
}

// pollCollection fetches one collection and queues every novel event for its
// recipients. Failures stay inside this collection.
func (p *Poller) pollCollection(ctx context.Context, collectionID string, recipients []recipient, counters *tickCounters, box *outbox) {
	ctx = logging.WithCollectionID(ctx, collectionID)
	defer func() {
		if r := recover(); r != nil {
			p.logger.ErrorwCtx(ctx, "Panic recovered while polling collection",
				"error", apperrors.RecoverPanic(r),
			)
		}
	}()

	result := p.source.Fetch(ctx, collectionID)
	if result.Failed() {
		counters.fetchFailures.Add(1)
		return
	}

	for _, ev := range result.Events {
		// Once shutdown starts nothing new is marked; what was marked is
		// already queued.
		if ctx.Err() != nil {
			return
		}
		counters.events.Add(1)

		if !p.accept(ctx, ev) {
			counters.filtered.Add(1)
			metrics.IncEvent("filtered")
			continue
		}

		novel, err := p.dedup.IsNew(ctx, ev.SeenKey())
		if err != nil {
			counters.dedupErrors.Add(1)
			metrics.IncEvent("dedup_error")
			p.logger.WarnwCtx(ctx, "Skipping event, seen-set unavailable",
				"key", ev.Key,
				"error", err,
			)
			continue
		}
		if !novel {
			counters.duplicates.Add(1)
			metrics.IncEvent("duplicate")
			continue
		}

		counters.novel.Add(1)
		metrics.IncEvent("novel")
		p.publish(ctx, ev, recipients)

		for _, r := range recipients {
			box.add(r, ev)
		}
	}
}

func (p *Poller) accept(ctx context.Context, ev events.Event) bool {
	if p.filter == nil {
		return true
	}
	ok, err := p.filter.Matches(ctx, ev.Attributes())
	if err != nil {
		p.logger.WarnwCtx(ctx, "Event filter evaluation failed, dropping event",
			"key", ev.Key,
			"error", err,
		)
		return false
	}
	return ok
}

func (p *Poller) publish(ctx context.Context, ev events.Event, recipients []recipient) {
	destinations := make([]string, len(recipients))
	for i, r := range recipients {
		destinations[i] = r.destination
	}
	if err := p.feed.Publish(ctx, ev, destinations); err != nil {
		p.logger.WarnwCtx(ctx, "Failed to publish event to feed",
			"key", ev.Key,
			"error", err,
		)
	}
}

// deliver drains the outbox. Each destination's queue is sent in order by one
// worker; at most p.workers destinations are served at a time.
func (p *Poller) deliver(parent context.Context, box *outbox, counters *tickCounters) {
	ctx, cancel := drainContext(parent, p.dispatchTimeout)
	defer cancel()

	g := new(errgroup.Group)
	g.SetLimit(p.workers)
	for _, queue := range box.queues() {
		queue := queue
		g.Go(func() error {
			for _, j := range queue {
				p.dispatch(ctx, j.recipient, j.event, counters)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// dispatch sends one alert. The deadline covers the send only; time spent
// waiting on the pacer does not count against it.
func (p *Poller) dispatch(ctx context.Context, r recipient, ev events.Event, counters *tickCounters) {
	ctx = logging.WithDestination(ctx, r.destination)

	defer func() {
		if rec := recover(); rec != nil {
			counters.dispatchFails.Add(1)
			p.logger.ErrorwCtx(ctx, "Panic recovered during dispatch",
				"error", apperrors.RecoverPanic(rec),
			)
		}
	}()

	if p.pacer != nil {
		if err := p.pacer.Wait(ctx, r.destination); err != nil {
			counters.dispatchFails.Add(1)
			metrics.ObserveDispatch(0, "error")
			p.logger.WarnwCtx(ctx, "Dispatch abandoned while waiting for send slot",
				"key", ev.Key,
				"error", err,
			)
			return
		}
	}

	alert := p.captions.Build(ev, p.locales.Get(r.locale))

	sendCtx, cancel := context.WithTimeout(ctx, p.dispatchTimeout)
	defer cancel()

	start := time.Now()
	err := p.notifier.SendPhoto(sendCtx, r.destination, alert.ImageURL, alert.Caption, alert.Format)
	duration := time.Since(start)

	if err != nil {
		counters.dispatchFails.Add(1)
		metrics.ObserveDispatch(duration, "error")
		p.logger.WarnwCtx(ctx, "Dispatch failed, not retrying",
			"key", ev.Key,
			"type", ev.Type,
			"error", err,
		)
		return
	}

	counters.dispatched.Add(1)
	metrics.ObserveDispatch(duration, "ok")
	p.logger.DebugwCtx(ctx, "Event dispatched", "key", ev.Key, "type", ev.Type)
}
