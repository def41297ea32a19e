// Package metrics exposes the pipeline's Prometheus collectors.
package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so tests and binaries never share global state.
type Collector struct {
	registry *prometheus.Registry
	logger   *slog.Logger

	decisions          *prometheus.CounterVec
	decisionDuration   prometheus.Histogram
	ruleHits           *prometheus.CounterVec
	dependencyFailures *prometheus.CounterVec
	records            *prometheus.CounterVec
	scoringDegraded    prometheus.Counter
	fraudProbability   prometheus.Histogram
	alerts             *prometheus.CounterVec
}

func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		logger:   logger,
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fraud_decisions_total",
			Help: "Hot-path decisions by outcome",
		}, []string{"outcome"}),
		decisionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fraud_decision_duration_seconds",
			Help:    "Time taken to decide on a transaction",
			Buckets: prometheus.DefBuckets,
		}),
		ruleHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fraud_rule_hits_total",
			Help: "Rule violations by rule name",
		}, []string{"rule"}),
		dependencyFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fraud_dependency_failures_total",
			Help: "State store failures by the check that was running",
		}, []string{"check"}),
		records: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fraud_coldpath_records_total",
			Help: "Cold-path records by outcome",
		}, []string{"outcome"}),
		scoringDegraded: factory.NewCounter(prometheus.CounterOpts{
			Name: "fraud_scoring_degraded_total",
			Help: "Records persisted with the unscored sentinel",
		}),
		fraudProbability: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fraud_score_probability",
			Help:    "Distribution of scoring probabilities",
			Buckets: []float64{0.1, 0.25, 0.5, 0.75, 0.9, 0.99},
		}),
		alerts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fraud_alerts_total",
			Help: "Alerts by outcome",
		}, []string{"outcome"}),
	}
}

func (c *Collector) RecordDecision(outcome string, duration time.Duration) {
	c.decisions.WithLabelValues(outcome).Inc()
	c.decisionDuration.Observe(duration.Seconds())
}

func (c *Collector) RecordRuleHit(rule string) {
	c.ruleHits.WithLabelValues(rule).Inc()
}

func (c *Collector) RecordDependencyFailure(check string) {
	c.dependencyFailures.WithLabelValues(check).Inc()
}

// RecordRecord counts one cold-path record ("processed", "decode_failed", "persist_failed").
func (c *Collector) RecordRecord(outcome string) {
	c.records.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordScore(probability float64, degraded bool) {
	if degraded {
		c.scoringDegraded.Inc()
		return
	}
	c.fraudProbability.Observe(probability)
}

// RecordAlert counts one alert ("dispatched", "dropped", "failed").
func (c *Collector) RecordAlert(outcome string) {
	c.alerts.WithLabelValues(outcome).Inc()
}

// Registry is exposed for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorLog: slog.NewLogLogger(c.logger.Handler(), slog.LevelError),
	})
}
