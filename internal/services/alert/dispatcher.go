// Package alert delivers fraud alerts off the consumer's critical path.
package alert

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fraudguard/internal/models"
)

// Alert outcomes reported to the metrics collector.
const (
	OutcomeDispatched = "dispatched"
	OutcomeDropped    = "dropped"
	OutcomeFailed     = "failed"
)

// Notifier delivers one rendered alert.
type Notifier interface {
	Notify(ctx context.Context, a Alert) error
}

// MetricsCollector is optional.
type MetricsCollector interface {
	RecordAlert(outcome string)
}

type noopMetrics struct{}

func (noopMetrics) RecordAlert(string) {}

type Config struct {
	QueueSize     int
	NotifyTimeout time.Duration
}

// Dispatcher queues alerts and delivers them from a background worker.
type Dispatcher struct {
	notifier Notifier
	queue    chan models.AlertPayload
	timeout  time.Duration
	log      *slog.Logger
	metrics  MetricsCollector

	mu        sync.RWMutex
	closed    bool
	startOnce sync.Once
	wg        sync.WaitGroup
}

func NewDispatcher(notifier Notifier, cfg Config, log *slog.Logger, metrics MetricsCollector) *Dispatcher {
	if notifier == nil {
		panic("notifier is required")
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 2 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Dispatcher{
		notifier: notifier,
		queue:    make(chan models.AlertPayload, cfg.QueueSize),
		timeout:  cfg.NotifyTimeout,
		log:      log.With(slog.String("component", "alert_dispatcher")),
		metrics:  metrics,
	}
}

// Start launches the delivery worker. Calling it more than once is harmless.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		d.wg.Add(1)
		go d.run()
	})
}

// Dispatch hands p to the worker without waiting. It reports false when the
// alert was dropped because the queue is full or closed.
func (d *Dispatcher) Dispatch(p models.AlertPayload) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn("alert_dropped", slog.String("reason", "closed"), slog.String("transaction_id", p.TransactionID))
		d.metrics.RecordAlert(OutcomeDropped)
		return false
	}
	select {
	case d.queue <- p:
		return true
	default:
		d.log.Warn("alert_dropped", slog.String("reason", "queue_full"), slog.String("transaction_id", p.TransactionID))
		d.metrics.RecordAlert(OutcomeDropped)
		return false
	}
}

// Close stops intake and waits until queued alerts were delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.Start() // drain even if never started
	d.wg.Wait()
	d.log.Info("alert_dispatcher_stopped")
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for p := range d.queue {
		d.deliver(p)
	}
}

func (d *Dispatcher) deliver(p models.AlertPayload) {
	a := Alert{AlertPayload: p, Text: Render(p)}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.notifier.Notify(ctx, a); err != nil {
		d.log.Error("alert_failed",
			slog.String("transaction_id", p.TransactionID),
			slog.String("name_orig", p.NameOrig),
			slog.Any("err", err))
		d.metrics.RecordAlert(OutcomeFailed)
		return
	}
	d.log.Info("alert_sent", slog.String("transaction_id", p.TransactionID), slog.String("name_orig", p.NameOrig))
	d.metrics.RecordAlert(OutcomeDispatched)
}
