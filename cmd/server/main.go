// Package main is the hot-path gateway. It validates transactions, evaluates
// the blacklist and rate rules, archives declines and forwards approvals to
// the transaction stream.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fraudguard/internal/config"
	"fraudguard/internal/handlers"
	"fraudguard/internal/logging"
	"fraudguard/internal/metrics"
	"fraudguard/internal/middleware"
	"fraudguard/internal/repositories"
	"fraudguard/internal/repositories/cache"
	"fraudguard/internal/routes"
	"fraudguard/internal/services/decision"
	"fraudguard/internal/services/rules"
	"fraudguard/internal/services/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	config.LoadEnv()
	cfg := config.Load()

	log := logging.New(os.Stdout, "gateway", cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("gateway_exit", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	collector := metrics.NewCollector(log)

	store, err := cache.Open(ctx, cfg.StateStore, &cache.RedisConfig{
		Host:         cfg.RedisHost,
		Port:         cfg.RedisPort,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		DialTimeout:  cfg.StoreTimeout * 4,
		ReadTimeout:  cfg.StoreTimeout,
		WriteTimeout: cfg.StoreTimeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("state_store_close", slog.Any("err", err))
		}
	}()
	if cfg.StateStore == cache.BackendMemory {
		log.Info("state_store_ready", slog.String("backend", cfg.StateStore))
	} else {
		log.Info("state_store_ready", slog.String("backend", cfg.StateStore), slog.String("addr", cfg.RedisAddr()))
	}

	db, err := repositories.NewPostgres(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			log.Warn("database_close", slog.Any("err", err))
		}
	}()
	if err := repositories.Migrate(db, cfg.ResultTable, cfg.ViolationTable); err != nil {
		return err
	}
	go logPoolStats(ctx, db, store, log)

	publisher, err := stream.NewKafkaPublisher(stream.PublisherConfig{
		Brokers:      cfg.KafkaBrokers,
		Topic:        cfg.TransactionTopic,
		Timeout:      cfg.PublishTimeout,
		BatchTimeout: cfg.PublishBatchTimeout,
	}, log)
	if err != nil {
		return err
	}
	defer publisher.Close()

	engine := rules.NewEngine(store, rules.Config{
		Window:       cfg.RateLimitWindow,
		Threshold:    cfg.RateLimitThreshold,
		StoreTimeout: cfg.StoreTimeout,
	}, log.With(slog.String("component", "rules")), collector)

	violations := repositories.NewViolationRepository(db, cfg.ViolationTable)
	svc := decision.NewService(
		engine,
		violations,
		publisher,
		decision.Config{ArchiveTimeout: cfg.PersistTimeout},
		log,
		collector,
	)

	app := fiber.New(fiber.Config{
		AppName:               "fraud-gateway",
		DisableStartupMessage: config.IsProduction(),
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ALLOW_ORIGINS", "*"),
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
		AllowMethods: "GET,POST",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
	}))

	routes.SetupRoutes(app, routes.Handlers{
		Transactions: handlers.NewTransactionHandler(svc),
		Health: handlers.NewHealthHandler(2*time.Second,
			handlers.HealthCheck{Name: "state_store", Ping: store.Ping},
			handlers.HealthCheck{Name: "database", Ping: func(ctx context.Context) error { return repositories.Ping(ctx, db) }},
		),
		Results:    handlers.NewResultHandler(repositories.NewResultRepository(db, cfg.ResultTable), log),
		Violations: handlers.NewViolationHandler(violations, log),
		Metrics:    collector.Handler(),
	})

	go func() {
		<-ctx.Done()
		log.Info("gateway_shutdown")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("gateway_shutdown_failed", slog.Any("err", err))
		}
	}()

	log.Info("gateway_listening", slog.String("port", cfg.Port))
	return app.Listen(":" + cfg.Port)
}

// logPoolStats periodically reports database and redis connection pool usage.
func logPoolStats(ctx context.Context, db *gorm.DB, store cache.Store, log *slog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	rs, _ := store.(*cache.RedisStore)
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := sqlDB.Stats()
			log.Debug("db_stats",
				slog.Int("open", stats.OpenConnections),
				slog.Int("idle", stats.Idle),
				slog.Int("in_use", stats.InUse),
				slog.Int64("wait_count", stats.WaitCount),
				slog.Duration("wait_duration", stats.WaitDuration))
			if rs != nil {
				ps := rs.PoolStats()
				log.Debug("redis_pool_stats",
					slog.Any("hits", ps.Hits),
					slog.Any("misses", ps.Misses),
					slog.Any("timeouts", ps.Timeouts),
					slog.Any("total_conns", ps.TotalConns),
					slog.Any("idle_conns", ps.IdleConns))
			}
		}
	}
}
