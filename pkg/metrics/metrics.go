package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	PollTicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_poll_ticks_total",
			Help: "Total number of poll ticks (count)",
		},
		[]string{"status"},
	)

	PollTickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relay_poll_tick_duration_ms",
			Help:    "Duration of a full poll tick in milliseconds",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		},
	)

	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_fetch_total",
			Help: "Total number of marketplace fetches by outcome (count)",
		},
		[]string{"status"},
	)

	FetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relay_fetch_duration_ms",
			Help:    "Duration of marketplace fetches in milliseconds",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 12000},
		},
	)

	EventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_events_total",
			Help: "Total number of fetched events by dedup outcome (count)",
		},
		[]string{"outcome"},
	)

	DispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_dispatch_total",
			Help: "Total number of notifications dispatched to destinations (count)",
		},
		[]string{"status"},
	)

	DispatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relay_dispatch_duration_ms",
			Help:    "Duration of a single notification dispatch in milliseconds",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
	)

	DedupSeenKeys = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dedup_seen_keys",
			Help: "Number of keys held by the seen set (count)",
		},
	)

	DedupTrimmedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dedup_trimmed_keys_total",
			Help: "Total number of seen keys evicted by trimming (count)",
		},
	)

	DedupProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dedup_processing_duration_ms",
			Help:    "Duration of check-and-insert calls in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"status"},
	)

	SubscriptionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "relay_subscriptions_active",
			Help: "Number of tracking destinations and tracked collections (count)",
		},
		[]string{"kind"},
	)

	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_commands_total",
			Help: "Total number of commands handled (count)",
		},
		[]string{"command", "source", "status"},
	)

	FeedPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_feed_published_total",
			Help: "Total number of novel events published to the event feed (count)",
		},
		[]string{"status"},
	)

	FallbackUsageTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fallback_usage_total",
			Help: "Total number of times fallback strategies were used (count)",
		},
		[]string{"service", "strategy", "reason"},
	)

	RetryAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retry_attempts_total",
			Help: "Total number of retry attempts (count)",
		},
		[]string{"service", "operation"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open) (state code)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failures through circuit breaker (count)",
		},
		[]string{"name"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of requests checked against rate limit (count)",
		},
		[]string{"status"},
	)

	BrokerMessagesWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broker_messages_written_total",
			Help: "Total number of messages written to the broker (count)",
		},
		[]string{"broker", "topic"},
	)

	BrokerMessagesReadTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broker_messages_read_total",
			Help: "Total number of messages read from the broker (count)",
		},
		[]string{"broker", "topic"},
	)

	BrokerWriteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "broker_write_duration_ms",
			Help:    "Duration of writing messages to the broker in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"broker", "topic"},
	)

	DatabaseQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries (count)",
		},
		[]string{"database", "operation", "status"},
	)

	DatabaseQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_ms",
			Help:    "Duration of database queries in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"database", "operation"},
	)
)

var registerOnce sync.Once

// RegisterRelayMetrics registers every collector with the default registry.
// Safe to call more than once.
func RegisterRelayMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			PollTicksTotal,
			PollTickDuration,
			FetchTotal,
			FetchDuration,
			EventsTotal,
			DispatchTotal,
			DispatchDuration,
			DedupSeenKeys,
			DedupTrimmedTotal,
			DedupProcessingDuration,
			SubscriptionsActive,
			CommandsTotal,
			FeedPublishedTotal,
			FallbackUsageTotal,
			RetryAttemptsTotal,
			CircuitBreakerState,
			CircuitBreakerRequests,
			CircuitBreakerFailures,
			RateLimitRequestsTotal,
			BrokerMessagesWrittenTotal,
			BrokerMessagesReadTotal,
			BrokerWriteDuration,
			DatabaseQueriesTotal,
			DatabaseQueryDuration,
		)
	})
}

func ObserveTick(duration time.Duration, status string) {
	PollTicksTotal.WithLabelValues(status).Inc()
	PollTickDuration.Observe(float64(duration.Milliseconds()))
}

func ObserveFetch(duration time.Duration, status string) {
	FetchTotal.WithLabelValues(status).Inc()
	FetchDuration.Observe(float64(duration.Milliseconds()))
}

func IncEvent(outcome string) {
	EventsTotal.WithLabelValues(outcome).Inc()
}

func ObserveDispatch(duration time.Duration, status string) {
	DispatchTotal.WithLabelValues(status).Inc()
	DispatchDuration.Observe(float64(duration.Milliseconds()))
}

func ObserveDedupDuration(duration time.Duration, status string) {
	DedupProcessingDuration.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func SetDedupSeenKeys(size int) {
	DedupSeenKeys.Set(float64(size))
}

func AddDedupTrimmed(n int) {
	DedupTrimmedTotal.Add(float64(n))
}

func SetSubscriptionsActive(destinations, collections int) {
	SubscriptionsActive.WithLabelValues("destinations").Set(float64(destinations))
	SubscriptionsActive.WithLabelValues("collections").Set(float64(collections))
}

func IncCommand(command, source, status string) {
	CommandsTotal.WithLabelValues(command, source, status).Inc()
}

func IncFeedPublished(status string) {
	FeedPublishedTotal.WithLabelValues(status).Inc()
}

func IncFallbackUsage(service, strategy, reason string) {
	FallbackUsageTotal.WithLabelValues(service, strategy, reason).Inc()
}

func IncBrokerMessagesWritten(broker, topic string) {
	BrokerMessagesWrittenTotal.WithLabelValues(broker, topic).Inc()
}

func IncBrokerMessagesRead(broker, topic string) {
	BrokerMessagesReadTotal.WithLabelValues(broker, topic).Inc()
}

func ObserveBrokerWriteDuration(broker, topic string, duration time.Duration) {
	BrokerWriteDuration.WithLabelValues(broker, topic).Observe(float64(duration.Milliseconds()))
}

func ObserveDatabaseQuery(database, operation, status string, duration time.Duration) {
	DatabaseQueriesTotal.WithLabelValues(database, operation, status).Inc()
	DatabaseQueryDuration.WithLabelValues(database, operation).Observe(float64(duration.Milliseconds()))
}
