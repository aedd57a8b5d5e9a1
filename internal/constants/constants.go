package constants

import "time"

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second
)

const (
	DefaultHTTPTimeout  = 10 * time.Second
	DefaultFetchTimeout = 12 * time.Second
)

const (
	DefaultPollInterval    = 60 * time.Second
	DefaultPollWorkers     = 8
	DefaultDispatchTimeout = 10 * time.Second
	// LivenessIntervals is how many poll intervals may pass without a tick
	// before the poller is reported unhealthy.
	LivenessIntervals = 3
)

const (
	DefaultSeenHighWater = 3000
	DefaultSeenLowWater  = 1000
	CacheKeyPrefixSeen   = "relay:seen"
	SubscriptionsHashKey = "relay:subscriptions"
)

const (
	DefaultEventsURL        = "https://api.xrpldata.com/api/v1/nft/sales/{collection}"
	CollectionPlaceholder   = "{collection}"
	DefaultExplorerURL      = "https://xrpscan.com"
	DefaultFallbackImageURL = "https://xrp.cafe/logo.png"
	DefaultMarketplaceHost  = "xrp.cafe"
	DefaultCurrency         = "XRP"
	DefaultDisplayName      = "Unnamed NFT"
)

const (
	DefaultLocale           = "en"
	DefaultSubscriptionFile = "data/subscriptions.json"
)

const (
	DefaultEventsTopic   = "nft_events"
	DefaultCommandsTopic = "relay_commands"
)

const (
	DefaultMongoDBName            = "nftrelay"
	SubscriptionsCollectionName   = "relay_destinations"
	DefaultTelegramRateLimitRPS   = 25
	DefaultTelegramRateLimitBurst = 5
)

// Telegram allows roughly one message per second into a single chat.
const (
	DefaultTelegramPerChatRPS   = 1
	DefaultTelegramPerChatBurst = 3
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	HTTPStatusOKMin = 200
	HTTPStatusOKMax = 300
)

const (
	FallbackAllow = "allow"
	FallbackDeny  = "deny"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMongoDB  = "mongodb"
)

const (
	BrokerNone  = ""
	BrokerKafka = "kafka"
	BrokerNATS  = "nats"
)
