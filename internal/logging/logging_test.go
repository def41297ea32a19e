package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "gateway", "info").With(slog.String("component", "decision"))

	ctx := WithRequestID(context.Background(), "req-42")
	log.InfoContext(ctx, "transaction_declined", slog.String("name_orig", "C1"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "transaction_declined", entry["msg"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, "gateway", entry["service"])
	assert.Equal(t, "decision", entry["component"])
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "scorer", "warn")

	log.Info("batch_done")
	assert.Zero(t, buf.Len())
	log.Warn("scoring_degraded")
	assert.NotZero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestRequestID_Empty(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
}
