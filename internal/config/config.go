package config

import (
	"time"
)

type Config struct {
	Server         ServerConfig
	Logging        LoggingConfig
	Telegram       TelegramConfig
	Marketplace    MarketplaceConfig
	Poller         PollerConfig
	Deduplication  DeduplicationConfig
	Subscriptions  SubscriptionsConfig
	Database       DatabaseConfig
	Broker         BrokerConfig
	API            APIConfig
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	Tracing        TracingConfig
}

type ServerConfig struct {
	Port                int           `mapstructure:"port"`
	ReadTimeoutSeconds  time.Duration `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds time.Duration `mapstructure:"write_timeout_seconds"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TelegramConfig struct {
	Token            string        `mapstructure:"token"`
	RateLimitRPS     float64       `mapstructure:"rate_limit_rps"`
	Burst            int           `mapstructure:"burst"`
	PerChatRPS       float64       `mapstructure:"per_chat_rps"`
	PerChatBurst     int           `mapstructure:"per_chat_burst"`
	SendTimeout      time.Duration `mapstructure:"send_timeout"`
	FallbackImageURL string        `mapstructure:"fallback_image_url"`
}

type MarketplaceConfig struct {
	EventsURL       string        `mapstructure:"events_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	ExplorerURL     string        `mapstructure:"explorer_url"`
	CollectionHosts []string      `mapstructure:"collection_hosts"`
	UserAgent       string        `mapstructure:"user_agent"`
}

type PollerConfig struct {
	Interval        time.Duration `mapstructure:"interval"`
	Workers         int           `mapstructure:"workers"`
	DispatchTimeout time.Duration `mapstructure:"dispatch_timeout"`
	// Filter is an optional CEL expression over `event`; events it rejects are
	// neither marked nor delivered.
	Filter      string `mapstructure:"filter"`
	PollOnStart bool   `mapstructure:"poll_on_start"`
}

type DeduplicationConfig struct {
	Backend        string `mapstructure:"backend"`
	HighWater      int    `mapstructure:"high_water"`
	LowWater       int    `mapstructure:"low_water"`
	OnBackendError string `mapstructure:"on_backend_error"` // "allow" or "deny" (default)
	HashAlgorithm  string `mapstructure:"hash_algorithm"`
	KeyPrefix      string `mapstructure:"key_prefix"`
}

type SubscriptionsConfig struct {
	Backend       string `mapstructure:"backend"`
	Path          string `mapstructure:"path"`
	DefaultLocale string `mapstructure:"default_locale"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig
	Redis         RedisConfig
	MongoDB       MongoDBConfig
	RunMigrations bool `mapstructure:"run_migrations"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MongoDBConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type BrokerConfig struct {
	Type  string      `mapstructure:"type"`
	Kafka KafkaConfig `mapstructure:"kafka"`
	NATS  NATSConfig  `mapstructure:"nats"`
}

type KafkaConfig struct {
	Brokers       []string    `mapstructure:"brokers"`
	GroupID       string      `mapstructure:"group_id"`
	EventsTopic   string      `mapstructure:"events_topic"`
	CommandsTopic string      `mapstructure:"commands_topic"`
	Retry         RetryConfig `mapstructure:"retry"`
}

type NATSConfig struct {
	URL             string      `mapstructure:"url"`
	EventsSubject   string      `mapstructure:"events_subject"`
	CommandsSubject string      `mapstructure:"commands_subject"`
	QueueGroup      string      `mapstructure:"queue_group"`
	Retry           RetryConfig `mapstructure:"retry"`
}

type RetryConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	Multiplier      float64       `mapstructure:"multiplier"`
	MaxElapsedTime  time.Duration `mapstructure:"max_elapsed_time"`
}

type APIConfig struct {
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	RPS             float64 `mapstructure:"rps"`
	Burst           int     `mapstructure:"burst"`
	CleanupInterval int     `mapstructure:"cleanup_interval"`
	MaxAge          int     `mapstructure:"max_age"`
}

type CircuitBreakerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
	MinRequests  uint32        `mapstructure:"min_requests"`
}

type TracingConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	ServiceName string        `mapstructure:"service_name"`
	OTLP        OTLPConfig    `mapstructure:"otlp"`
	Sampler     SamplerConfig `mapstructure:"sampler"`
}

type OTLPConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
}

type SamplerConfig struct {
	Type  string  `mapstructure:"type"`
	Param float64 `mapstructure:"param"`
}

func Load(configFile string) (*Config, error) {
	return LoadConfig(configFile)
}
