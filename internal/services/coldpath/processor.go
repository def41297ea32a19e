// Package coldpath scores approved transactions in batches.
package coldpath

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"fraudguard/internal/models"
	"fraudguard/internal/services/alert"
	"fraudguard/internal/services/scoring"
	"fraudguard/internal/services/stream"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Record outcomes reported to the metrics collector.
const (
	OutcomeProcessed     = "processed"
	OutcomeDecodeFailed  = "decode_failed"
	OutcomePersistFailed = "persist_failed"
)

// ResultStore persists scored transactions.
type ResultStore interface {
	Save(ctx context.Context, result *models.ScoredTransaction) error
}

// AlertSink accepts alerts without waiting for delivery.
type AlertSink interface {
	Dispatch(p models.AlertPayload) bool
}

// MetricsCollector is optional.
type MetricsCollector interface {
	RecordRecord(outcome string)
	RecordScore(probability float64, degraded bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRecord(string)       {}
func (NoopMetricsCollector) RecordScore(float64, bool) {}

type Config struct {
	Workers        int
	PersistTimeout time.Duration
}

// BatchSummary counts the outcome of one batch.
type BatchSummary struct {
	Processed int
	Failed    int
}

type ProcessorConfig struct {
	Scorer  scoring.Scorer
	Store   ResultStore
	Alerts  AlertSink
	Config  Config
	Logger  *slog.Logger
	Metrics MetricsCollector
}

// Processor runs decode, score, persist and maybe-alert for every record of a
// batch. Records fail independently; a batch is never aborted.
type Processor struct {
	scorer  scoring.Scorer
	store   ResultStore
	alerts  AlertSink
	cfg     Config
	log     *slog.Logger
	metrics MetricsCollector

	newID func() string
	now   func() time.Time
}

func NewProcessor(config ProcessorConfig) *Processor {
	if config.Scorer == nil {
		panic("scorer is required")
	}
	if config.Store == nil {
		panic("result store is required")
	}
	if config.Alerts == nil {
		panic("alert sink is required")
	}
	cfg := config.Config
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = 2 * time.Second
	}
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}
	metrics := config.Metrics
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}
	return &Processor{
		scorer:  config.Scorer,
		store:   config.Store,
		alerts:  config.Alerts,
		cfg:     cfg,
		log:     log.With(slog.String("component", "coldpath")),
		metrics: metrics,
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// Handle adapts ProcessBatch to stream.BatchHandler.
func (p *Processor) Handle(ctx context.Context, records []stream.Record) {
	p.ProcessBatch(ctx, records)
}

func (p *Processor) ProcessBatch(ctx context.Context, records []stream.Record) BatchSummary {
	var processed, failed atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(p.cfg.Workers)
	for _, rec := range records {
		g.Go(func() error {
			if p.processRecord(ctx, rec) {
				processed.Add(1)
			} else {
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	summary := BatchSummary{Processed: int(processed.Load()), Failed: int(failed.Load())}
	p.log.Info("batch_done",
		slog.Int("records", len(records)),
		slog.Int("processed", summary.Processed),
		slog.Int("failed", summary.Failed))
	return summary
}

func (p *Processor) processRecord(ctx context.Context, rec stream.Record) bool {
	tx, err := rec.Decode()
	if err != nil {
		p.log.Error("record_decode_failed",
			slog.String("sequence_number", rec.SequenceNumber),
			slog.String("partition_key", rec.PartitionKey),
			slog.Any("err", err))
		p.metrics.RecordRecord(OutcomeDecodeFailed)
		return false
	}

	prediction := p.scorer.Score(ctx, tx)
	p.metrics.RecordScore(prediction.Probability, prediction.IsSentinel())

	processedAt := p.now()
	result := models.NewScoredTransaction(p.newID(), tx, prediction, processedAt)

	persistCtx, cancel := context.WithTimeout(ctx, p.cfg.PersistTimeout)
	err = p.store.Save(persistCtx, result)
	cancel()
	if err != nil {
		p.log.Error("record_persist_failed",
			slog.String("sequence_number", rec.SequenceNumber),
			slog.String("transaction_id", result.TransactionID),
			slog.String("name_orig", tx.NameOrig),
			slog.Any("err", err))
		p.metrics.RecordRecord(OutcomePersistFailed)
		return false
	}

	if prediction.IsFraud() {
		p.log.Warn("fraud_detected",
			slog.String("transaction_id", result.TransactionID),
			slog.String("name_orig", tx.NameOrig),
			slog.Float64("probability", prediction.Probability))
		p.alerts.Dispatch(models.AlertPayload{
			TransactionID: result.TransactionID,
			NameOrig:      tx.NameOrig,
			NameDest:      tx.NameDest,
			Type:          tx.Type,
			Amount:        tx.Amount,
			Step:          tx.Step,
			Label:         prediction.Label,
			Probability:   prediction.Probability,
			Message:       alert.SummaryMessage(tx.NameOrig, prediction.Probability),
			DetectedAt:    processedAt,
		})
	}

	p.metrics.RecordRecord(OutcomeProcessed)
	return true
}
