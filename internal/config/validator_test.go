package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 3000, ReadTimeoutSeconds: 15, WriteTimeoutSeconds: 15},
		Telegram: TelegramConfig{
			Token:        "123:abc",
			RateLimitRPS: 25,
			Burst:        5,
			SendTimeout:  10 * time.Second,
		},
		Marketplace: MarketplaceConfig{
			EventsURL: "https://api.xrpldata.com/api/v1/nft/sales/{collection}",
			Timeout:   12 * time.Second,
		},
		Poller: PollerConfig{Interval: time.Minute, Workers: 8, DispatchTimeout: 10 * time.Second},
		Deduplication: DeduplicationConfig{
			Backend:        "memory",
			HighWater:      3000,
			LowWater:       1000,
			OnBackendError: "deny",
			HashAlgorithm:  "sha256",
		},
		Subscriptions: SubscriptionsConfig{Backend: "file", Path: "data/subscriptions.json", DefaultLocale: "en"},
	}
}

func TestValidateStatic_Valid(t *testing.T) {
	require.NoError(t, ValidateStatic(validConfig()))
}

func TestValidateStatic_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "missing token", mutate: func(c *Config) { c.Telegram.Token = " " }, field: "telegram.token"},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }, field: "server.port"},
		{name: "url without placeholder", mutate: func(c *Config) { c.Marketplace.EventsURL = "https://example.com/sales" }, field: "marketplace.events_url"},
		{name: "zero workers", mutate: func(c *Config) { c.Poller.Workers = 0 }, field: "poller.workers"},
		{name: "water marks inverted", mutate: func(c *Config) { c.Deduplication.HighWater = 500 }, field: "deduplication.high_water"},
		{name: "unknown dedup policy", mutate: func(c *Config) { c.Deduplication.OnBackendError = "retry" }, field: "deduplication.on_backend_error"},
		{name: "redis dedup without host", mutate: func(c *Config) { c.Deduplication.Backend = "redis" }, field: "database.redis.host"},
		{name: "postgres store without host", mutate: func(c *Config) { c.Subscriptions.Backend = "postgres" }, field: "database.postgres.host"},
		{name: "unknown broker", mutate: func(c *Config) { c.Broker.Type = "rabbitmq" }, field: "broker.type"},
		{name: "nats without url", mutate: func(c *Config) { c.Broker.Type = "nats" }, field: "broker.nats.url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := ValidateStatic(cfg)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidateKafka_RequiresBrokers(t *testing.T) {
	err := validateKafka(KafkaConfig{GroupID: "g", Retry: RetryConfig{Multiplier: 2}})

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "broker.kafka.brokers", vErr.Field)
}

func TestValidateNATS_ChecksRetry(t *testing.T) {
	err := validateNATS(NATSConfig{URL: "nats://localhost:4222", Retry: RetryConfig{MaxAttempts: -1, Multiplier: 2}})

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "broker.nats.retry.max_attempts", vErr.Field)

	assert.NoError(t, validateNATS(NATSConfig{URL: "nats://localhost:4222", Retry: RetryConfig{Multiplier: 2}}))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, splitList(" a:9092, ,b:9092 "))
	assert.Nil(t, splitList("  "))
}
