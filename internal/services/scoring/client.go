// Package scoring calls the remote fraud-scoring endpoint.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fraudguard/internal/models"
)

const maxResponseBytes = 1 << 20

// Scorer returns a prediction for a transaction. It never fails: when the
// oracle cannot be used it returns models.SentinelPrediction.
type Scorer interface {
	Score(ctx context.Context, tx *models.Transaction) models.Prediction
}

// Config locates the scoring endpoint.
type Config struct {
	BaseURL      string
	EndpointName string
	Timeout      time.Duration
}

// HTTPClient invokes {BaseURL}/endpoints/{EndpointName}/invocations.
type HTTPClient struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
	log      *slog.Logger
}

func NewHTTPClient(cfg Config, log *slog.Logger) (*HTTPClient, error) {
	return NewHTTPClientWith(cfg, &http.Client{}, log)
}

// NewHTTPClientWith lets callers supply the transport.
func NewHTTPClientWith(cfg Config, hc *http.Client, log *slog.Logger) (*HTTPClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("scoring base url must not be empty")
	}
	if strings.TrimSpace(cfg.EndpointName) == "" {
		return nil, errors.New("scoring endpoint name must not be empty")
	}
	endpoint, err := url.JoinPath(cfg.BaseURL, "endpoints", cfg.EndpointName, "invocations")
	if err != nil {
		return nil, fmt.Errorf("invalid scoring url: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &HTTPClient{
		endpoint: endpoint,
		timeout:  cfg.Timeout,
		client:   hc,
		log:      log.With(slog.String("component", "scoring_client")),
	}, nil
}

// Endpoint is the resolved invocation URL.
func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

func (c *HTTPClient) Score(ctx context.Context, tx *models.Transaction) models.Prediction {
	p, err := c.invoke(ctx, tx)
	if err != nil {
		c.log.Warn("scoring_degraded",
			slog.String("name_orig", tx.NameOrig),
			slog.Any("err", err))
		return models.SentinelPrediction()
	}
	return p
}

// response accepts both label spellings the endpoint has used.
type response struct {
	Prediction  *int     `json:"prediction"`
	PredLabel   *int     `json:"pred_label"`
	Probability *float64 `json:"probability"`
}

func (c *HTTPClient) invoke(ctx context.Context, tx *models.Transaction) (models.Prediction, error) {
	body, err := json.Marshal(tx)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("encode transaction: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return models.Prediction{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("invoke endpoint: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return models.Prediction{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Prediction{}, fmt.Errorf("endpoint returned %d", resp.StatusCode)
	}

	var out response
	if err := json.Unmarshal(raw, &out); err != nil {
		return models.Prediction{}, fmt.Errorf("decode response: %w", err)
	}
	return out.prediction()
}

func (r response) prediction() (models.Prediction, error) {
	label := r.Prediction
	if label == nil {
		label = r.PredLabel
	}
	if label == nil || r.Probability == nil {
		return models.Prediction{}, errors.New("response lacks label or probability")
	}
	if *label != models.LabelLegit && *label != models.LabelFraud {
		return models.Prediction{}, fmt.Errorf("unexpected label %d", *label)
	}
	if *r.Probability < 0 || *r.Probability > 1 {
		return models.Prediction{}, fmt.Errorf("probability %v out of range", *r.Probability)
	}
	return models.Prediction{Label: *label, Probability: *r.Probability}, nil
}

// StaticBaseURL selects StaticScorer in New.
const StaticBaseURL = "static"

// New returns the HTTP client, or a StaticScorer yielding the sentinel when
// the base URL is StaticBaseURL. Every result is then stored as unscored.
func New(cfg Config, log *slog.Logger) (Scorer, error) {
	if log == nil {
		log = slog.Default()
	}
	if cfg.BaseURL == StaticBaseURL {
		log.Warn("scoring_static", slog.String("reason", "SCORING_BASE_URL=static"))
		return StaticScorer{Prediction: models.SentinelPrediction()}, nil
	}
	c, err := NewHTTPClient(cfg, log)
	if err != nil {
		return nil, err
	}
	log.Info("scoring_endpoint", slog.String("url", c.Endpoint()))
	return c, nil
}

// StaticScorer always returns the same prediction. Used for local runs
// without a scoring endpoint and in tests.
type StaticScorer struct {
	Prediction models.Prediction
}

func (s StaticScorer) Score(context.Context, *models.Transaction) models.Prediction {
	return s.Prediction
}
