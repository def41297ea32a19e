// Package main runs the cold path: it consumes approved transactions in
// batches, scores them, stores the results and raises fraud alerts.
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
	"fraudguard/internal/repositories"
	"fraudguard/internal/services/alert"
	"fraudguard/internal/services/coldpath"
	"fraudguard/internal/services/scoring"
	"fraudguard/internal/services/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// ALERT_TOPIC=log writes alerts to the log instead of kafka.
const alertTopicLog = "log"

func main() {
	config.LoadEnv()
	cfg := config.Load()

	log := logging.New(os.Stdout, "scorer", cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("scorer_exit", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	collector := metrics.NewCollector(log)

	db, err := repositories.NewPostgres(cfg)
	if err != nil {
		return err
	}
	defer repositories.Close(db)
	if err := repositories.Migrate(db, cfg.ResultTable, cfg.ViolationTable); err != nil {
		return err
	}

	scorer, err := scoring.New(scoring.Config{
		BaseURL:      cfg.ScoringBaseURL,
		EndpointName: cfg.ScoringEndpointName,
		Timeout:      cfg.ScoringTimeout,
	}, log)
	if err != nil {
		return err
	}

	var notifier alert.Notifier = alert.LogNotifier{Log: log}
	if cfg.AlertTopic != alertTopicLog {
		kn, err := alert.NewKafkaNotifier(cfg.KafkaBrokers, cfg.AlertTopic, cfg.PublishBatchTimeout)
		if err != nil {
			return err
		}
		defer kn.Close()
		notifier = kn
	}
	dispatcher := alert.NewDispatcher(notifier, alert.Config{
		QueueSize:     cfg.AlertQueueSize,
		NotifyTimeout: cfg.PublishTimeout,
	}, log, collector)
	dispatcher.Start()
	// runs before the notifier is closed so queued alerts still go out
	defer dispatcher.Close()

	processor := coldpath.NewProcessor(coldpath.ProcessorConfig{
		Scorer: scorer,
		Store:  repositories.NewResultRepository(db, cfg.ResultTable),
		Alerts: dispatcher,
		Config: coldpath.Config{
			Workers:        cfg.Workers,
			PersistTimeout: cfg.PersistTimeout,
		},
		Logger:  log,
		Metrics: collector,
	})

	consumer, err := stream.NewBatchConsumer(stream.ConsumerConfig{
		Brokers:   cfg.KafkaBrokers,
		Topic:     cfg.TransactionTopic,
		GroupID:   cfg.ConsumerGroup,
		BatchSize: cfg.BatchSize,
		BatchWait: cfg.BatchWait,
	}, processor.Handle, log)
	if err != nil {
		return err
	}

	ops := opsServer(collector, func(ctx context.Context) error { return repositories.Ping(ctx, db) })
	go func() {
		if err := ops.Listen(":" + cfg.MetricsPort); err != nil {
			log.Error("ops_server_failed", slog.Any("err", err))
		}
	}()
	defer ops.ShutdownWithTimeout(5 * time.Second)

	return consumer.Run(ctx)
}

// opsServer exposes /metrics and /health for the scorer process.
func opsServer(collector *metrics.Collector, pingDB func(context.Context) error) *fiber.App {
	app := fiber.New(fiber.Config{AppName: "fraud-scorer", DisableStartupMessage: true})
	app.Get("/metrics", adaptor.HTTPHandler(collector.Handler()))
	app.Get("/health", handlers.NewHealthHandler(2*time.Second, handlers.HealthCheck{Name: "database", Ping: pingDB}).Health)
	return app
}
