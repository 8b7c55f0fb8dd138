// Package app wires the application together. Local mode runs on SQLite
// with an in-process event bus; server mode runs on PostgreSQL, Redis,
// and RabbitMQ.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite" // Registers the "sqlite" driver

	recommendApp "github.com/nextup-dev/nextup/internal/recommend/application"
	recommendDomain "github.com/nextup-dev/nextup/internal/recommend/domain"
	"github.com/nextup-dev/nextup/internal/recommend/engine"
	"github.com/nextup-dev/nextup/internal/recommend/infrastructure/cache"
	"github.com/nextup-dev/nextup/internal/shared/infrastructure/eventbus"
	"github.com/nextup-dev/nextup/internal/tasks/application/commands"
	"github.com/nextup-dev/nextup/internal/tasks/application/queries"
	"github.com/nextup-dev/nextup/internal/tasks/domain/task"
	"github.com/nextup-dev/nextup/internal/tasks/infrastructure/persistence"
	"github.com/nextup-dev/nextup/pkg/config"
	"github.com/nextup-dev/nextup/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics
	Health  *observability.HealthRegistry

	// Storage
	SQLiteDB    *sql.DB
	PostgresDB  *pgxpool.Pool
	RedisClient *redis.Client

	// Repositories
	TaskRepo task.Repository

	// Events
	EventPublisher eventbus.Publisher
	LocalBus       *eventbus.InProcessEventBus
	EventConsumer  *eventbus.RabbitMQConsumer

	// Recommendation
	Engine      *engine.Engine
	Cache       cache.Store
	Recommender *recommendApp.Service

	// Task command handlers
	CreateTaskHandler   *commands.CreateTaskHandler
	StartTaskHandler    *commands.StartTaskHandler
	CompleteTaskHandler *commands.CompleteTaskHandler
	ArchiveTaskHandler  *commands.ArchiveTaskHandler

	// Task query handlers
	ListTasksHandler *queries.ListTasksHandler
	GetTaskHandler   *queries.GetTaskHandler
}

// NewLocalContainer builds the single-user stack: SQLite storage, a
// synchronous in-process event bus, and an in-memory result cache.
func NewLocalContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
	}

	if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	c.SQLiteDB = db
	c.Health.Register("database", observability.DatabaseHealthChecker(db.PingContext))

	taskRepo, err := persistence.NewSQLiteTaskRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	c.TaskRepo = taskRepo

	bus := eventbus.NewInProcessEventBus(logger)
	c.LocalBus = bus
	c.EventPublisher = bus

	if err := c.buildRecommendation(logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Task events flow through the local bus straight into cache
	// invalidation.
	if c.Cache != nil {
		bus.RegisterConsumer(cache.NewInvalidator(c.Cache, logger, c.Metrics))
	}

	c.buildHandlers()
	return c, nil
}

// NewContainer builds the server stack: PostgreSQL storage, a RabbitMQ
// event bus, and a Redis-backed result cache.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}
	c.PostgresDB = pool
	c.Health.Register("database", observability.DatabaseHealthChecker(pool.Ping))

	taskRepo, err := persistence.NewPostgresTaskRepository(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	c.TaskRepo = taskRepo

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			c.close()
			return nil, fmt.Errorf("invalid Redis URL: %w", err)
		}
		c.RedisClient = redis.NewClient(opts)
		c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
			return c.RedisClient.Ping(ctx).Err()
		}))
	}

	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			c.close()
			return nil, err
		}
		c.EventPublisher = publisher
		c.Health.Register("rabbitmq", observability.RabbitMQHealthChecker(publisher.Ping))
	} else {
		logger.Warn("no RabbitMQ URL configured, events will not be published")
		c.EventPublisher = eventbus.NewNoopPublisher(logger)
	}

	if err := c.buildRecommendation(logger); err != nil {
		c.close()
		return nil, err
	}

	// Server mode consumes task events from the broker so every
	// instance invalidates its view of the cache.
	if c.Cache != nil && cfg.RabbitMQURL != "" {
		registry := eventbus.NewConsumerRegistry(logger)
		consumer, err := eventbus.NewRabbitMQConsumer(cfg.RabbitMQURL, "", registry, logger)
		if err != nil {
			c.close()
			return nil, err
		}
		consumer.RegisterConsumer(cache.NewInvalidator(c.Cache, logger, c.Metrics))
		c.EventConsumer = consumer
	}

	c.buildHandlers()
	return c, nil
}

// buildRecommendation constructs the engine, cache, and service.
func (c *Container) buildRecommendation(logger *slog.Logger) error {
	weights := recommendDomain.DefaultWeights()
	if c.Config.WeightsPath != "" {
		loaded, err := recommendDomain.LoadWeights(c.Config.WeightsPath)
		if err != nil {
			return err
		}
		weights = loaded
	}

	engCfg := engine.Config{
		DecayRate:              c.Config.DecayRate,
		MinScoreFloor:          c.Config.MinPriorityThreshold,
		HorizonDays:            c.Config.UrgencyHorizonDays,
		DeadlineOverrideWindow: c.Config.DeadlineOverrideWindow,
	}

	eng, err := engine.New(weights, engCfg,
		engine.WithLogger(logger),
		engine.WithMetrics(c.Metrics),
	)
	if err != nil {
		return err
	}
	c.Engine = eng

	if c.Config.CacheEnabled {
		if c.RedisClient != nil {
			c.Cache = cache.NewRedisStore(c.RedisClient, c.Config.CacheTTL, logger)
		} else {
			c.Cache = cache.NewMemoryStore(c.Config.CacheTTL)
		}
	}

	opts := []recommendApp.Option{
		recommendApp.WithTimeout(c.Config.RecommendTimeout),
		recommendApp.WithLogger(logger),
		recommendApp.WithMetrics(c.Metrics),
	}
	if c.Cache != nil {
		opts = append(opts, recommendApp.WithCache(c.Cache))
	}
	c.Recommender = recommendApp.NewService(c.TaskRepo, eng, opts...)

	return nil
}

// buildHandlers constructs the task command and query handlers.
func (c *Container) buildHandlers() {
	c.CreateTaskHandler = commands.NewCreateTaskHandler(c.TaskRepo, c.EventPublisher, c.Metrics)
	c.StartTaskHandler = commands.NewStartTaskHandler(c.TaskRepo, c.EventPublisher)
	c.CompleteTaskHandler = commands.NewCompleteTaskHandler(c.TaskRepo, c.EventPublisher, c.Metrics)
	c.ArchiveTaskHandler = commands.NewArchiveTaskHandler(c.TaskRepo, c.EventPublisher)

	c.ListTasksHandler = queries.NewListTasksHandler(c.TaskRepo)
	c.GetTaskHandler = queries.NewGetTaskHandler(c.TaskRepo)
}

// Close releases all container resources.
func (c *Container) Close() error {
	return c.close()
}

func (c *Container) close() error {
	var firstErr error

	if c.EventConsumer != nil {
		if err := c.EventConsumer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.PostgresDB != nil {
		c.PostgresDB.Close()
	}
	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
