package config

import (
	"fmt"
	"net/url"
	"strings"

	"nftrelay/internal/constants"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errors []error

	validators := []func(*Config) error{
		func(c *Config) error { return validateServer(c.Server) },
		func(c *Config) error { return validateTelegram(c.Telegram) },
		func(c *Config) error { return validateMarketplace(c.Marketplace) },
		func(c *Config) error { return validatePoller(c.Poller) },
		func(c *Config) error { return validateDeduplication(c.Deduplication, c.Database) },
		func(c *Config) error { return validateSubscriptions(c.Subscriptions, c.Database) },
		func(c *Config) error { return validateBroker(c.Broker) },
		func(c *Config) error { return validateDatabase(c.Database) },
	}

	for _, validate := range validators {
		if err := validate(cfg); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}

func validateServer(cfg ServerConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	if cfg.ReadTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.read_timeout_seconds",
			Message: "read timeout must be positive",
		}
	}

	if cfg.WriteTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.write_timeout_seconds",
			Message: "write timeout must be positive",
		}
	}

	return nil
}

func validateTelegram(cfg TelegramConfig) error {
	if strings.TrimSpace(cfg.Token) == "" {
		return &ValidationError{
			Field:   "telegram.token",
			Message: "bot token is required (set TELEGRAM_TOKEN)",
		}
	}

	if cfg.RateLimitRPS <= 0 {
		return &ValidationError{
			Field:   "telegram.rate_limit_rps",
			Message: "rate limit must be positive",
		}
	}

	if cfg.SendTimeout <= 0 {
		return &ValidationError{
			Field:   "telegram.send_timeout",
			Message: "send timeout must be positive",
		}
	}

	return nil
}

func validateMarketplace(cfg MarketplaceConfig) error {
	if !strings.Contains(cfg.EventsURL, constants.CollectionPlaceholder) {
		return &ValidationError{
			Field:   "marketplace.events_url",
			Message: fmt.Sprintf("events URL must contain the %s placeholder", constants.CollectionPlaceholder),
		}
	}

	sample := strings.ReplaceAll(cfg.EventsURL, constants.CollectionPlaceholder, "x")
	if u, err := url.Parse(sample); err != nil || u.Scheme == "" || u.Host == "" {
		return &ValidationError{
			Field:   "marketplace.events_url",
			Message: fmt.Sprintf("invalid URL: %s", cfg.EventsURL),
		}
	}

	if cfg.Timeout <= 0 {
		return &ValidationError{
			Field:   "marketplace.timeout",
			Message: "timeout must be positive",
		}
	}

	return nil
}

func validatePoller(cfg PollerConfig) error {
	if cfg.Interval <= 0 {
		return &ValidationError{
			Field:   "poller.interval",
			Message: "interval must be positive",
		}
	}

	if cfg.Workers < 1 {
		return &ValidationError{
			Field:   "poller.workers",
			Message: fmt.Sprintf("workers must be at least 1, got %d", cfg.Workers),
		}
	}

	if cfg.DispatchTimeout <= 0 {
		return &ValidationError{
			Field:   "poller.dispatch_timeout",
			Message: "dispatch timeout must be positive",
		}
	}

	return nil
}

func validateDeduplication(cfg DeduplicationConfig, db DatabaseConfig) error {
	switch cfg.Backend {
	case constants.BackendMemory:
	case constants.BackendRedis:
		if db.Redis.Host == "" {
			return &ValidationError{
				Field:   "database.redis.host",
				Message: "Redis host is required for the redis deduplication backend",
			}
		}
	default:
		return &ValidationError{
			Field:   "deduplication.backend",
			Message: fmt.Sprintf("unknown backend: %s (supported: memory, redis)", cfg.Backend),
		}
	}

	if cfg.LowWater < 1 {
		return &ValidationError{
			Field:   "deduplication.low_water",
			Message: "low water mark must be at least 1",
		}
	}

	if cfg.HighWater <= cfg.LowWater {
		return &ValidationError{
			Field:   "deduplication.high_water",
			Message: fmt.Sprintf("high water mark (%d) must be greater than low water mark (%d)", cfg.HighWater, cfg.LowWater),
		}
	}

	validAlgorithms := map[string]bool{
		"md5": true, "sha256": true, "sha1": true,
	}
	if cfg.HashAlgorithm != "" && !validAlgorithms[strings.ToLower(cfg.HashAlgorithm)] {
		return &ValidationError{
			Field:   "deduplication.hash_algorithm",
			Message: fmt.Sprintf("invalid hash algorithm: %s (valid: md5, sha256, sha1)", cfg.HashAlgorithm),
		}
	}

	switch strings.ToLower(cfg.OnBackendError) {
	case "", constants.FallbackAllow, constants.FallbackDeny:
	default:
		return &ValidationError{
			Field:   "deduplication.on_backend_error",
			Message: fmt.Sprintf("invalid on_backend_error value: %s (valid: allow, deny)", cfg.OnBackendError),
		}
	}

	return nil
}

func validateSubscriptions(cfg SubscriptionsConfig, db DatabaseConfig) error {
	switch cfg.Backend {
	case constants.BackendFile:
		if strings.TrimSpace(cfg.Path) == "" {
			return &ValidationError{
				Field:   "subscriptions.path",
				Message: "path is required for the file backend",
			}
		}
	case constants.BackendRedis:
		if db.Redis.Host == "" {
			return &ValidationError{
				Field:   "database.redis.host",
				Message: "Redis host is required for the redis subscriptions backend",
			}
		}
	case constants.BackendPostgres:
		if db.Postgres.Host == "" {
			return &ValidationError{
				Field:   "database.postgres.host",
				Message: "PostgreSQL host is required for the postgres subscriptions backend",
			}
		}
	case constants.BackendMongoDB:
		if db.MongoDB.URI == "" {
			return &ValidationError{
				Field:   "database.mongodb.uri",
				Message: "MongoDB URI is required for the mongodb subscriptions backend",
			}
		}
	default:
		return &ValidationError{
			Field:   "subscriptions.backend",
			Message: fmt.Sprintf("unknown backend: %s (supported: file, redis, postgres, mongodb)", cfg.Backend),
		}
	}

	return nil
}

func validateBroker(cfg BrokerConfig) error {
	switch cfg.Type {
	case constants.BrokerNone:
		return nil
	case constants.BrokerKafka:
		return validateKafka(cfg.Kafka)
	case constants.BrokerNATS:
		return validateNATS(cfg.NATS)
	default:
		return &ValidationError{
			Field:   "broker.type",
			Message: fmt.Sprintf("unknown broker type: %s (supported: kafka, nats)", cfg.Type),
		}
	}
}

func validateKafka(cfg KafkaConfig) error {
	if len(cfg.Brokers) == 0 {
		return &ValidationError{
			Field:   "broker.kafka.brokers",
			Message: "at least one Kafka broker is required",
		}
	}

	for i, broker := range cfg.Brokers {
		if broker == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("broker.kafka.brokers[%d]", i),
				Message: "broker address cannot be empty",
			}
		}
	}

	if cfg.GroupID == "" {
		return &ValidationError{
			Field:   "broker.kafka.group_id",
			Message: "Kafka consumer group ID is required",
		}
	}

	return validateRetry("broker.kafka.retry", cfg.Retry)
}

func validateRetry(field string, cfg RetryConfig) error {
	if cfg.MaxAttempts < 0 {
		return &ValidationError{
			Field:   field + ".max_attempts",
			Message: "max_attempts must be non-negative",
		}
	}

	if cfg.MaxInterval > 0 && cfg.InitialInterval > 0 && cfg.MaxInterval < cfg.InitialInterval {
		return &ValidationError{
			Field:   field + ".max_interval",
			Message: "max_interval must be greater than or equal to initial_interval",
		}
	}

	if cfg.Multiplier <= 0 {
		return &ValidationError{
			Field:   field + ".multiplier",
			Message: "multiplier must be positive",
		}
	}

	return nil
}

func validateNATS(cfg NATSConfig) error {
	if cfg.URL == "" {
		return &ValidationError{
			Field:   "broker.nats.url",
			Message: "NATS URL is required",
		}
	}

	if !strings.HasPrefix(cfg.URL, "nats://") && !strings.HasPrefix(cfg.URL, "tls://") {
		return &ValidationError{
			Field:   "broker.nats.url",
			Message: "NATS URL must start with nats:// or tls://",
		}
	}

	return validateRetry("broker.nats.retry", cfg.Retry)
}

func validateDatabase(cfg DatabaseConfig) error {
	if cfg.Postgres.Host != "" || cfg.Postgres.Port > 0 {
		if err := validatePostgres(cfg.Postgres); err != nil {
			return err
		}
	}

	if cfg.Redis.Host != "" || cfg.Redis.Port > 0 {
		if err := validateRedis(cfg.Redis); err != nil {
			return err
		}
	}

	if cfg.MongoDB.URI != "" {
		if err := validateMongoDB(cfg.MongoDB); err != nil {
			return err
		}
	}

	return nil
}

func validatePostgres(cfg PostgresConfig) error {
	if cfg.Host == "" {
		return &ValidationError{
			Field:   "database.postgres.host",
			Message: "PostgreSQL host is required",
		}
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "database.postgres.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	if cfg.User == "" || cfg.DBName == "" {
		return &ValidationError{
			Field:   "database.postgres",
			Message: "PostgreSQL user and dbname are required",
		}
	}

	validSSLModes := map[string]bool{
		"disable": true, "allow": true, "prefer": true,
		"require": true, "verify-ca": true, "verify-full": true,
	}
	if cfg.SSLMode != "" && !validSSLModes[strings.ToLower(cfg.SSLMode)] {
		return &ValidationError{
			Field:   "database.postgres.sslmode",
			Message: fmt.Sprintf("invalid SSL mode: %s", cfg.SSLMode),
		}
	}

	return nil
}

func validateRedis(cfg RedisConfig) error {
	if cfg.Host == "" {
		return &ValidationError{
			Field:   "database.redis.host",
			Message: "Redis host is required",
		}
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "database.redis.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	return nil
}

func validateMongoDB(cfg MongoDBConfig) error {
	if !strings.HasPrefix(cfg.URI, "mongodb://") && !strings.HasPrefix(cfg.URI, "mongodb+srv://") {
		return &ValidationError{
			Field:   "database.mongodb.uri",
			Message: "MongoDB URI must start with mongodb:// or mongodb+srv://",
		}
	}

	if cfg.Database == "" {
		return &ValidationError{
			Field:   "database.mongodb.database",
			Message: "MongoDB database name is required",
		}
	}

	return nil
}
