// Package decision is the hot-path gateway logic: validate, evaluate, then
// decline and archive or approve and forward.
package decision

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	apperrors "fraudguard/internal/errors"
	"fraudguard/internal/models"
	"fraudguard/internal/services/stream"
	"fraudguard/internal/validation"
)

const (
	MessageApproved = "Transaction processed successfully"
	MessageDeclined = "Transaction failed due to rule violation"

	StatusApproved = "Approved"
	StatusDeclined = "Declined"
)

// Decision outcomes reported to the metrics collector.
const (
	OutcomeApproved = "approved"
	OutcomeDeclined = "declined"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Evaluator is the rule engine as seen by the gateway.
type Evaluator interface {
	Validate(raw []byte) (*models.Transaction, error)
	Evaluate(ctx context.Context, tx *models.Transaction) (models.RuleVerdict, error)
}

// Archiver stores declined transactions.
type Archiver interface {
	Archive(ctx context.Context, tx *models.Transaction, verdict models.RuleVerdict) (*models.Violation, error)
}

// MetricsCollector is optional.
type MetricsCollector interface {
	RecordDecision(outcome string, duration time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) RecordDecision(string, time.Duration) {}

// Response is the status/body pair returned to the client. Decision is empty
// unless a verdict was reached.
type Response struct {
	Status   int
	Decision string
	Body     interface{}
}

// VerdictBody is returned for approved and declined transactions.
type VerdictBody struct {
	Message    string             `json:"message"`
	RuleResult models.RuleVerdict `json:"rule_result"`
}

// ErrorBody is returned when no verdict could be reached.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type Config struct {
	ArchiveTimeout time.Duration
}

type Service struct {
	rules     Evaluator
	archiver  Archiver
	publisher stream.Publisher
	cfg       Config
	log       *slog.Logger
	metrics   MetricsCollector
}

func NewService(rules Evaluator, archiver Archiver, publisher stream.Publisher, cfg Config, log *slog.Logger, metrics MetricsCollector) *Service {
	if rules == nil || archiver == nil || publisher == nil {
		panic("decision service requires rules, archiver and publisher")
	}
	if cfg.ArchiveTimeout <= 0 {
		cfg.ArchiveTimeout = 2 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		rules:     rules,
		archiver:  archiver,
		publisher: publisher,
		cfg:       cfg,
		log:       log.With(slog.String("component", "decision")),
		metrics:   metrics,
	}
}

// Decide produces exactly one response per request, with at most one archive
// write and at most one stream publish.
func (s *Service) Decide(ctx context.Context, raw []byte) Response {
	start := time.Now()
	resp, outcome := s.decide(ctx, raw)
	s.metrics.RecordDecision(outcome, time.Since(start))
	return resp
}

func (s *Service) decide(ctx context.Context, raw []byte) (Response, string) {
	payload, err := validation.ExtractPayload(raw)
	if err != nil {
		return invalidResponse(err), OutcomeInvalid
	}

	tx, err := s.rules.Validate(payload)
	if err != nil {
		return invalidResponse(err), OutcomeInvalid
	}

	verdict, err := s.rules.Evaluate(ctx, tx)
	if err != nil {
		var dep *apperrors.DependencyError
		if errors.As(err, &dep) {
			s.log.ErrorContext(ctx, "decision_dependency_failed",
				slog.String("check", dep.Check),
				slog.String("name_orig", tx.NameOrig),
				slog.Any("err", dep.Err))
			return errorResponse(http.StatusInternalServerError, apperrors.ErrStateStoreUnavailable), OutcomeError
		}
		s.log.ErrorContext(ctx, "decision_failed", slog.Any("err", err))
		return errorResponse(http.StatusInternalServerError, apperrors.ErrInternal), OutcomeError
	}

	if verdict.Declined() {
		s.archive(ctx, tx, verdict)
		s.log.InfoContext(ctx, "transaction_declined",
			slog.String("name_orig", tx.NameOrig),
			slog.String("name_dest", tx.NameDest),
			slog.Any("violations", verdict.Violations()))
		return Response{
			Status:   http.StatusBadRequest,
			Decision: StatusDeclined,
			Body:     VerdictBody{Message: MessageDeclined, RuleResult: verdict},
		}, OutcomeDeclined
	}

	if err := s.publisher.Publish(ctx, tx); err != nil {
		s.log.ErrorContext(ctx, "forward_failed", slog.String("name_orig", tx.NameOrig), slog.Any("err", err))
		return errorResponse(http.StatusInternalServerError, apperrors.ErrForwardFailed), OutcomeError
	}

	return Response{
		Status:   http.StatusOK,
		Decision: StatusApproved,
		Body:     VerdictBody{Message: MessageApproved, RuleResult: verdict},
	}, OutcomeApproved
}

// archive is best-effort: a failed write is logged, never surfaced to the client.
func (s *Service) archive(ctx context.Context, tx *models.Transaction, verdict models.RuleVerdict) {
	archiveCtx, cancel := context.WithTimeout(ctx, s.cfg.ArchiveTimeout)
	defer cancel()

	v, err := s.archiver.Archive(archiveCtx, tx, verdict)
	if err != nil {
		s.log.ErrorContext(ctx, "archive_failed",
			slog.String("name_orig", tx.NameOrig),
			slog.String("name_dest", tx.NameDest),
			slog.Any("err", err))
		return
	}
	s.log.DebugContext(ctx, "archive_ok", slog.String("violation_id", v.ID))
}

func errorResponse(status int, derr *apperrors.DomainError) Response {
	return Response{Status: status, Body: ErrorBody{Error: derr.Message, Code: derr.Code}}
}

// invalidResponse keeps the validation message, which names the offending field.
func invalidResponse(err error) Response {
	code := apperrors.ErrInvalidTransaction.Code
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		code = verr.Code()
	}
	return Response{Status: http.StatusBadRequest, Body: ErrorBody{Error: err.Error(), Code: code}}
}
