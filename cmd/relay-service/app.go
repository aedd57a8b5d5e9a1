package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"nftrelay/internal/broker"
	"nftrelay/internal/command"
	"nftrelay/internal/config"
	"nftrelay/internal/constants"
	"nftrelay/internal/deduplication"
	"nftrelay/internal/events"
	"nftrelay/internal/feed"
	"nftrelay/internal/locale"
	"nftrelay/internal/logger"
	"nftrelay/internal/notifier"
	"nftrelay/internal/poller"
	"nftrelay/internal/subscription"
	"nftrelay/internal/telegram"
	"nftrelay/pkg/bootstrap"
	"nftrelay/pkg/cel"
	"nftrelay/pkg/health"
	"nftrelay/pkg/logging"
	"nftrelay/pkg/metrics"
	"nftrelay/pkg/middleware"
	"nftrelay/pkg/ratelimit"
	"nftrelay/pkg/retry"
	"nftrelay/pkg/tracing"
)

type App struct {
	*bootstrap.Base
	dbConnector *bootstrap.DatabaseConnector

	redis       *redis.Client
	postgres    *sql.DB
	mongoClient *mongo.Client

	locales  *locale.Registry
	store    *subscription.Store
	dedup    *deduplication.Service
	source   *events.HTTPSource
	telegram *telegram.Client
	commands *command.Service
	poller   *poller.Poller

	health         *health.CheckerRegistry
	router         *gin.Engine
	server         *http.Server
	tracerProvider *tracing.TracerProvider
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	if sugaredLogger, ok := log.(*logger.SugaredLogger); ok {
		sugaredLogger.SetServiceName(serviceName)
	}
	return &App{
		Base:        bootstrap.NewBase(cfg, log),
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
		health:      health.NewCheckerRegistry(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	ctx = logging.WithServiceName(ctx, serviceName)

	tp, err := tracing.Init(a.Config.Tracing, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracerProvider = tp

	metrics.RegisterRelayMetrics()

	if err := a.initDatabases(ctx); err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}

	a.locales = locale.NewRegistry(a.Config.Subscriptions.DefaultLocale)

	if err := a.initStore(ctx); err != nil {
		return fmt.Errorf("failed to initialize subscriptions: %w", err)
	}

	a.initDeduplication()

	a.source = events.NewHTTPSource(
		a.Config.Marketplace,
		a.Config.CircuitBreaker,
		events.NewHasher(a.Config.Deduplication.HashAlgorithm),
		a.Logger,
	)

	client, err := telegram.New(a.Config.Telegram, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to open Telegram session: %w", err)
	}
	a.telegram = client

	if err := a.InitBroker(serviceName); err != nil {
		return fmt.Errorf("failed to initialize broker: %w", err)
	}

	if err := a.initPoller(); err != nil {
		return fmt.Errorf("failed to initialize poller: %w", err)
	}

	a.commands = command.NewService(a.store, a.locales, events.NewCollectionParser(a.Config.Marketplace.CollectionHosts), a.Logger)
	telegram.NewCommandHandler(a.telegram, a.commands, a.Logger).Register()

	a.initHealth()
	a.initRouter(ctx)

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  a.Config.Server.ReadTimeoutSeconds * time.Second,
		WriteTimeout: a.Config.Server.WriteTimeoutSeconds * time.Second,
	}

	return nil
}

func (a *App) initDatabases(ctx context.Context) error {
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if a.dbConnector.NeedsRedis() {
		rdb, err := a.dbConnector.InitRedis(initCtx)
		if err != nil {
			return err
		}
		a.redis = rdb
	}

	switch a.Config.Subscriptions.Backend {
	case constants.BackendPostgres:
		db, err := a.dbConnector.InitPostgreSQL(initCtx)
		if err != nil {
			return err
		}
		a.postgres = db
	case constants.BackendMongoDB:
		mc, err := a.dbConnector.InitMongoDB(initCtx)
		if err != nil {
			return err
		}
		a.mongoClient = mc
	}
	return nil
}

func (a *App) initStore(ctx context.Context) error {
	policy := retry.DefaultPolicy()

	var persister subscription.Persister
	switch a.Config.Subscriptions.Backend {
	case constants.BackendRedis:
		persister = subscription.NewRedisPersister(a.redis, constants.SubscriptionsHashKey, policy)
	case constants.BackendPostgres:
		persister = subscription.NewPostgresPersister(a.postgres, policy)
	case constants.BackendMongoDB:
		db, err := a.dbConnector.MongoDatabase(ctx, a.mongoClient)
		if err != nil {
			return err
		}
		persister = subscription.NewMongoPersister(db, constants.SubscriptionsCollectionName, policy)
	default:
		path := a.Config.Subscriptions.Path
		if path == "" {
			path = constants.DefaultSubscriptionFile
		}
		persister = subscription.NewFilePersister(path)
	}

	a.store = subscription.NewStore(persister, a.locales, a.Logger)
	a.Logger.InfowCtx(ctx, "Subscription store initialized", "backend", a.Config.Subscriptions.Backend)
	return a.store.Load(ctx)
}

func (a *App) initDeduplication() {
	var repo deduplication.Repository
	if a.Config.Deduplication.Backend == constants.BackendRedis {
		prefix := a.Config.Deduplication.KeyPrefix
		if prefix == "" {
			prefix = constants.CacheKeyPrefixSeen
		}
		repo = deduplication.NewCircuitBreakerRepository(
			deduplication.NewRedisRepository(a.redis, prefix),
			a.Config.CircuitBreaker,
		)
	} else {
		repo = deduplication.NewMemoryRepository()
	}
	a.dedup = deduplication.NewService(repo, a.Config.Deduplication, a.Logger)
}

func (a *App) initPoller() error {
	var opts []poller.Option

	if a.Config.Poller.Filter != "" {
		evaluator, err := cel.NewEvaluator()
		if err != nil {
			return fmt.Errorf("failed to create CEL evaluator: %w", err)
		}
		filter, err := evaluator.CompileFilter(a.Config.Poller.Filter)
		if err != nil {
			return fmt.Errorf("invalid poller filter: %w", err)
		}
		opts = append(opts, poller.WithFilter(filter))
		a.Logger.Infow("Event filter enabled", "expression", filter.Expression())
	}

	if a.Producer != nil {
		eventsTopic, _ := broker.Topics(a.Config.Broker)
		opts = append(opts, poller.WithFeed(feed.NewBrokerPublisher(a.Producer, eventsTopic, serviceName, a.Logger)))
		a.Logger.Infow("Event feed enabled", "topic", eventsTopic)
	}

	opts = append(opts, poller.WithPacer(a.telegram.Pacer()))

	captions := notifier.NewCaptionBuilder(a.Config.Marketplace.ExplorerURL, a.Config.Telegram.FallbackImageURL)
	a.poller = poller.New(
		a.Config.Poller,
		a.source,
		a.store,
		a.dedup,
		a.telegram,
		captions,
		a.locales,
		a.Logger,
		opts...,
	)
	return nil
}

func (a *App) initHealth() {
	a.health.Register(health.NewLivenessChecker("poller", a.poller.LastTick, a.poller.Interval()*constants.LivenessIntervals))
	a.health.Register(health.NewBreakerChecker("marketplace", a.source.BreakerOpen))
	if a.redis != nil {
		a.health.Register(health.NewRedisChecker(a.redis))
	}
	if a.postgres != nil {
		a.health.Register(health.NewPostgreSQLChecker(a.postgres))
	}
	if a.mongoClient != nil {
		a.health.Register(health.NewMongoDBChecker(a.mongoClient))
	}
}

func (a *App) initRouter(ctx context.Context) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if a.Config.Tracing.Enabled {
		router.Use(tracing.GinMiddleware(serviceName))
	}

	router.Use(middleware.RecoveryMiddleware(a.Logger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(a.Logger))

	if a.Config.API.RateLimit.Enabled {
		rateLimitConfig := ratelimit.FromConfig(a.Config.API.RateLimit)
		router.Use(ratelimit.RateLimitMiddleware(ctx, rateLimitConfig))
		a.Logger.InfowCtx(ctx, "Rate limiting enabled", "rps", rateLimitConfig.RPS, "burst", rateLimitConfig.Burst)
	}

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "NFT relay is running.")
	})

	router.GET("/health", func(c *gin.Context) {
		h := a.health.Check(c.Request.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, h)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	command.NewHandler(a.commands, a.poller, a.dedup, a.Logger).RegisterRoutes(router)

	a.router = router
}

func (a *App) Run(ctx context.Context) error {
	ctx = logging.WithServiceName(ctx, serviceName)
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfowCtx(gCtx, "HTTP server starting", "port", a.Config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return a.poller.Run(gCtx)
	})

	g.Go(func() error {
		return a.telegram.Start(gCtx)
	})

	if a.Consumer != nil {
		_, commandsTopic := broker.Topics(a.Config.Broker)
		if commandsTopic != "" {
			handler := command.NewBrokerHandler(a.commands, a.telegram.Paced(), a.Logger)
			g.Go(func() error {
				a.Logger.InfowCtx(gCtx, "Starting remote command consumer", "topic", commandsTopic)
				err := a.Consumer.Consume(gCtx, commandsTopic, handler.Handle)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		}
	}

	a.dedup.StartMetricsUpdater()

	return g.Wait()
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx := logging.WithServiceName(ctx, serviceName)
	a.Logger.InfowCtx(shutdownCtx, "Shutting down relay service")

	additionalShutdown := func(ctx context.Context) []error {
		var errs []error

		if a.dedup != nil {
			a.dedup.StopMetricsUpdater()
		}

		if a.tracerProvider != nil {
			if err := a.tracerProvider.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("tracer provider shutdown error: %w", err))
			}
		}

		errs = append(errs, a.dbConnector.ShutdownDatabases(ctx, a.redis, a.postgres, a.mongoClient)...)
		return errs
	}

	return a.Base.Shutdown(shutdownCtx, additionalShutdown)
}
