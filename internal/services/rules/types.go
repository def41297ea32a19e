package rules

import "time"

// Default rule parameters.
const (
	DefaultWindow       = 60 * time.Second
	DefaultThreshold    = 5
	DefaultStoreTimeout = 500 * time.Millisecond
)

// Config holds the rate-limit window and the per-call timeout for the state store.
type Config struct {
	Window       time.Duration
	Threshold    int64
	StoreTimeout time.Duration
}

// MetricsCollector receives rule outcomes. It is optional.
type MetricsCollector interface {
	RecordRuleHit(rule string)
	RecordDependencyFailure(check string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordRuleHit(string)           {}
func (n *NoopMetricsCollector) RecordDependencyFailure(string) {}
