package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"fraudguard/internal/handlers"
	"fraudguard/internal/metrics"
	"fraudguard/internal/models"
	"fraudguard/internal/repositories/cache"
	"fraudguard/internal/services/decision"
	"fraudguard/internal/services/rules"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopArchiver struct{}

func (nopArchiver) Archive(context.Context, *models.Transaction, models.RuleVerdict) (*models.Violation, error) {
	return &models.Violation{ID: "v"}, nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, *models.Transaction) error { return nil }

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	collector := metrics.NewCollector(log)
	store := cache.NewMemoryStore(nil)
	engine := rules.NewEngine(store, rules.Config{}, log, collector)
	svc := decision.NewService(engine, nopArchiver{}, nopPublisher{}, decision.Config{}, log, collector)

	app := fiber.New()
	SetupRoutes(app, Handlers{
		Transactions: handlers.NewTransactionHandler(svc),
		Health:       handlers.NewHealthHandler(0, handlers.HealthCheck{Name: "state_store", Ping: store.Ping}),
		Metrics:      collector.Handler(),
	})
	return app
}

func TestRoutes_TransactionThenMetrics(t *testing.T) {
	app := newApp(t)

	body := `{"type":"TRANSFER","nameOrig":"C1","nameDest":"M1","amount":500,` +
		`"oldbalanceOrg":1000,"newbalanceOrig":500,"oldbalanceDest":0,"newbalanceDest":500}`
	req := httptest.NewRequest("POST", "/api/transactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `fraud_decisions_total{outcome="approved"} 1`)
}

func TestRoutes_Health(t *testing.T) {
	resp, err := newApp(t).Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRoutes_ResultsOptional(t *testing.T) {
	resp, err := newApp(t).Test(httptest.NewRequest("GET", "/api/results/x", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
