package metrics

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCollector() *Collector {
	return NewCollector(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCollector_Counters(t *testing.T) {
	c := newTestCollector()

	c.RecordDecision("approved", 3*time.Millisecond)
	c.RecordDecision("approved", time.Millisecond)
	c.RecordDecision("declined", time.Millisecond)
	c.RecordRuleHit("blackUser")
	c.RecordDependencyFailure("SpawmOver5PerMinute")
	c.RecordRecord("processed")
	c.RecordRecord("decode_failed")
	c.RecordScore(-1, true)
	c.RecordScore(0.92, false)
	c.RecordAlert("dispatched")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.decisions.WithLabelValues("approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.decisions.WithLabelValues("declined")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ruleHits.WithLabelValues("blackUser")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.dependencyFailures.WithLabelValues("SpawmOver5PerMinute")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.records.WithLabelValues("decode_failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.scoringDegraded))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.alerts.WithLabelValues("dispatched")))
}

func TestCollector_Handler(t *testing.T) {
	c := newTestCollector()
	c.RecordRuleHit("blackDevice")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `fraud_rule_hits_total{rule="blackDevice"} 1`)
}
