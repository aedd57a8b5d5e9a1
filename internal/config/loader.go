package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"nftrelay/internal/constants"
)

// LoadConfig reads configuration from an optional YAML file, the process
// environment and a .env file in the working directory, in increasing order of
// precedence for the environment.
func LoadConfig(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	viper.Reset()

	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()
	bindEnvVariables()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := ValidateStatic(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 3000)
	viper.SetDefault("server.read_timeout_seconds", 15)
	viper.SetDefault("server.write_timeout_seconds", 15)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	viper.SetDefault("telegram.token", "")
	viper.SetDefault("telegram.rate_limit_rps", constants.DefaultTelegramRateLimitRPS)
	viper.SetDefault("telegram.burst", constants.DefaultTelegramRateLimitBurst)
	viper.SetDefault("telegram.per_chat_rps", constants.DefaultTelegramPerChatRPS)
	viper.SetDefault("telegram.per_chat_burst", constants.DefaultTelegramPerChatBurst)
	viper.SetDefault("telegram.send_timeout", constants.DefaultHTTPTimeout)
	viper.SetDefault("telegram.fallback_image_url", constants.DefaultFallbackImageURL)

	viper.SetDefault("marketplace.events_url", constants.DefaultEventsURL)
	viper.SetDefault("marketplace.timeout", constants.DefaultFetchTimeout)
	viper.SetDefault("marketplace.explorer_url", constants.DefaultExplorerURL)
	viper.SetDefault("marketplace.collection_hosts", []string{constants.DefaultMarketplaceHost})
	viper.SetDefault("marketplace.user_agent", "nftrelay/1.0")

	viper.SetDefault("poller.interval", constants.DefaultPollInterval)
	viper.SetDefault("poller.workers", constants.DefaultPollWorkers)
	viper.SetDefault("poller.dispatch_timeout", constants.DefaultDispatchTimeout)
	viper.SetDefault("poller.filter", "")
	viper.SetDefault("poller.poll_on_start", true)

	viper.SetDefault("deduplication.backend", constants.BackendMemory)
	viper.SetDefault("deduplication.high_water", constants.DefaultSeenHighWater)
	viper.SetDefault("deduplication.low_water", constants.DefaultSeenLowWater)
	viper.SetDefault("deduplication.on_backend_error", constants.FallbackDeny)
	viper.SetDefault("deduplication.hash_algorithm", "sha256")
	viper.SetDefault("deduplication.key_prefix", constants.CacheKeyPrefixSeen)

	viper.SetDefault("subscriptions.backend", constants.BackendFile)
	viper.SetDefault("subscriptions.path", constants.DefaultSubscriptionFile)
	viper.SetDefault("subscriptions.default_locale", constants.DefaultLocale)

	viper.SetDefault("database.run_migrations", true)
	viper.SetDefault("database.postgres.host", "")
	viper.SetDefault("database.postgres.port", 0)
	viper.SetDefault("database.postgres.user", "")
	viper.SetDefault("database.postgres.password", "")
	viper.SetDefault("database.postgres.dbname", "")
	viper.SetDefault("database.postgres.sslmode", "disable")
	viper.SetDefault("database.redis.host", "")
	viper.SetDefault("database.redis.port", 0)
	viper.SetDefault("database.redis.password", "")
	viper.SetDefault("database.redis.db", 0)
	viper.SetDefault("database.mongodb.uri", "")
	viper.SetDefault("database.mongodb.database", constants.DefaultMongoDBName)

	viper.SetDefault("broker.type", constants.BrokerNone)
	viper.SetDefault("broker.kafka.brokers", []string{})
	viper.SetDefault("broker.kafka.group_id", "nftrelay")
	viper.SetDefault("broker.kafka.events_topic", constants.DefaultEventsTopic)
	viper.SetDefault("broker.kafka.commands_topic", constants.DefaultCommandsTopic)
	viper.SetDefault("broker.kafka.retry.max_attempts", 3)
	viper.SetDefault("broker.kafka.retry.initial_interval", "100ms")
	viper.SetDefault("broker.kafka.retry.max_interval", "5s")
	viper.SetDefault("broker.kafka.retry.multiplier", 2.0)
	viper.SetDefault("broker.kafka.retry.max_elapsed_time", "30s")
	viper.SetDefault("broker.nats.url", "")
	viper.SetDefault("broker.nats.events_subject", "nft.events")
	viper.SetDefault("broker.nats.commands_subject", "relay.commands")
	viper.SetDefault("broker.nats.queue_group", "nftrelay")
	viper.SetDefault("broker.nats.retry.max_attempts", 3)
	viper.SetDefault("broker.nats.retry.initial_interval", "100ms")
	viper.SetDefault("broker.nats.retry.max_interval", "5s")
	viper.SetDefault("broker.nats.retry.multiplier", 2.0)
	viper.SetDefault("broker.nats.retry.max_elapsed_time", "30s")

	viper.SetDefault("api.rate_limit.enabled", false)
	viper.SetDefault("api.rate_limit.rps", 10.0)
	viper.SetDefault("api.rate_limit.burst", 20)
	viper.SetDefault("api.rate_limit.cleanup_interval", 60)
	viper.SetDefault("api.rate_limit.max_age", 300)

	viper.SetDefault("circuit_breaker.enabled", true)
	viper.SetDefault("circuit_breaker.max_requests", 1)
	viper.SetDefault("circuit_breaker.interval", "60s")
	viper.SetDefault("circuit_breaker.timeout", "30s")
	viper.SetDefault("circuit_breaker.failure_ratio", 0.6)
	viper.SetDefault("circuit_breaker.min_requests", 5)

	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.service_name", "relay-service")
	viper.SetDefault("tracing.otlp.endpoint", "localhost:4317")
	viper.SetDefault("tracing.otlp.insecure", true)
	viper.SetDefault("tracing.sampler.type", "always_on")
	viper.SetDefault("tracing.sampler.param", 1.0)
}

func bindEnvVariables() {
	viper.BindEnv("telegram.token", "TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN")

	viper.BindEnv("server.port", "SERVER_PORT", "PORT")

	viper.BindEnv("broker.type", "BROKER_TYPE")
	viper.BindEnv("broker.kafka.brokers", "BROKER_KAFKA_BROKERS")
	viper.BindEnv("broker.kafka.group_id", "BROKER_KAFKA_GROUP_ID")
	viper.BindEnv("broker.kafka.events_topic", "BROKER_KAFKA_EVENTS_TOPIC")
	viper.BindEnv("broker.kafka.commands_topic", "BROKER_KAFKA_COMMANDS_TOPIC")
	viper.BindEnv("broker.nats.url", "BROKER_NATS_URL", "NATS_URL")

	viper.BindEnv("database.postgres.host", "DATABASE_POSTGRES_HOST")
	viper.BindEnv("database.postgres.port", "DATABASE_POSTGRES_PORT")
	viper.BindEnv("database.postgres.user", "DATABASE_POSTGRES_USER")
	viper.BindEnv("database.postgres.password", "DATABASE_POSTGRES_PASSWORD")
	viper.BindEnv("database.postgres.dbname", "DATABASE_POSTGRES_DBNAME")
	viper.BindEnv("database.postgres.sslmode", "DATABASE_POSTGRES_SSLMODE")

	viper.BindEnv("database.redis.host", "DATABASE_REDIS_HOST")
	viper.BindEnv("database.redis.port", "DATABASE_REDIS_PORT")
	viper.BindEnv("database.redis.password", "DATABASE_REDIS_PASSWORD")
	viper.BindEnv("database.redis.db", "DATABASE_REDIS_DB")

	viper.BindEnv("database.mongodb.uri", "DATABASE_MONGODB_URI")
	viper.BindEnv("database.mongodb.database", "DATABASE_MONGODB_DATABASE")

	viper.BindEnv("logging.level", "LOGGING_LEVEL", "LOG_LEVEL")
	viper.BindEnv("logging.format", "LOGGING_FORMAT")

	viper.BindEnv("tracing.otlp.endpoint", "TRACING_OTLP_ENDPOINT")
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
}

// applyEnvOverrides handles list values, which viper does not split when they
// come from the environment.
func applyEnvOverrides(cfg *Config) {
	if brokers := splitList(viper.GetString("BROKER_KAFKA_BROKERS")); len(brokers) > 0 {
		cfg.Broker.Kafka.Brokers = brokers
	}

	if hosts := splitList(os.Getenv("MARKETPLACE_COLLECTION_HOSTS")); len(hosts) > 0 {
		cfg.Marketplace.CollectionHosts = hosts
	}
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
