// Package rules is the hot-path rule engine: input validation plus blacklist and
// rate-limit checks against the shared state store.
package rules

import (
	"context"
	"log/slog"

	apperrors "fraudguard/internal/errors"
	"fraudguard/internal/models"
	"fraudguard/internal/repositories/cache"
	"fraudguard/internal/validation"
)

type Engine struct {
	store   cache.StateStore
	config  Config
	logger  *slog.Logger
	metrics MetricsCollector
}

// NewEngine creates a rule engine over the given state store.
func NewEngine(store cache.StateStore, config Config, logger *slog.Logger, metrics MetricsCollector) *Engine {
	if store == nil {
		panic("state store is required")
	}
	if config.Window <= 0 {
		config.Window = DefaultWindow
	}
	if config.Threshold <= 0 {
		config.Threshold = DefaultThreshold
	}
	if config.StoreTimeout <= 0 {
		config.StoreTimeout = DefaultStoreTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &Engine{
		store:   store,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

// Validate parses and checks a raw transaction document.
func (e *Engine) Validate(raw []byte) (*models.Transaction, error) {
	return validation.ParseTransaction(raw)
}

// Evaluate runs the blacklist and rate-limit rules. The verdict always carries
// one entry per rule. A state store failure aborts with a *DependencyError naming
// the failed check; the rate counter is not touched once a blacklist read failed.
func (e *Engine) Evaluate(ctx context.Context, tx *models.Transaction) (models.RuleVerdict, error) {
	verdict := models.NewRuleVerdict()
	decided := models.RuleVerdict{}

	hit, err := e.isMember(ctx, cache.BlacklistOriginatorKey, tx.NameOrig)
	if err != nil {
		return nil, e.dependencyFailure(ctx, models.RuleBlacklistedOriginator, decided, err)
	}
	verdict[models.RuleBlacklistedOriginator] = hit
	decided[models.RuleBlacklistedOriginator] = hit

	hit, err = e.isMember(ctx, cache.BlacklistDestinationKey, tx.NameDest)
	if err != nil {
		return nil, e.dependencyFailure(ctx, models.RuleBlacklistedDestination, decided, err)
	}
	verdict[models.RuleBlacklistedDestination] = hit
	decided[models.RuleBlacklistedDestination] = hit

	exceeded, err := e.checkRate(ctx, tx)
	if err != nil {
		return nil, e.dependencyFailure(ctx, models.RuleRateExceeded, decided, err)
	}
	verdict[models.RuleRateExceeded] = exceeded

	for _, name := range verdict.Violations() {
		e.metrics.RecordRuleHit(name)
	}
	return verdict, nil
}

func (e *Engine) isMember(ctx context.Context, set, value string) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.config.StoreTimeout)
	defer cancel()
	return e.store.IsMember(callCtx, set, value)
}

// checkRate increments the composite counter and arms its expiry on first use.
// The increment is atomic in the store; a lost EXPIRE race only stretches one window.
func (e *Engine) checkRate(ctx context.Context, tx *models.Transaction) (bool, error) {
	key := cache.RateCounterKey(tx.Type, tx.NameOrig, tx.NameDest)

	incrCtx, cancel := context.WithTimeout(ctx, e.config.StoreTimeout)
	count, err := e.store.Increment(incrCtx, key)
	cancel()
	if err != nil {
		return false, err
	}

	if count == 1 {
		expCtx, cancel := context.WithTimeout(ctx, e.config.StoreTimeout)
		err := e.store.Expire(expCtx, key, e.config.Window)
		cancel()
		if err != nil {
			return false, err
		}
	}

	return count > e.config.Threshold, nil
}

// dependencyFailure wraps err with the check name and the entries decided so far.
func (e *Engine) dependencyFailure(ctx context.Context, check string, decided models.RuleVerdict, err error) error {
	e.metrics.RecordDependencyFailure(check)
	e.logger.ErrorContext(ctx, "rule_check_failed",
		slog.String("check", check),
		slog.String("error", err.Error()))
	return &apperrors.DependencyError{Check: check, Partial: decided, Err: err}
}
