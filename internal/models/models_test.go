package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleVerdict(t *testing.T) {
	v := NewRuleVerdict()
	assert.Len(t, v, 3)
	assert.False(t, v.Declined())
	assert.Empty(t, v.Violations())

	v[RuleRateExceeded] = true
	v[RuleBlacklistedOriginator] = true
	assert.True(t, v.Declined())
	assert.Equal(t, []string{RuleRateExceeded, RuleBlacklistedOriginator}, v.Violations())
}

func TestPrediction(t *testing.T) {
	s := SentinelPrediction()
	assert.True(t, s.IsSentinel())
	assert.False(t, s.IsFraud())
	assert.Equal(t, float64(-1), s.Probability)

	assert.True(t, Prediction{Label: 1, Probability: 0.92}.IsFraud())
}

func TestNewScoredTransaction(t *testing.T) {
	tx := &Transaction{
		Type:     TransactionTypeTransfer,
		NameOrig: "C1",
		NameDest: "M1",
		Amount:   decimal.RequireFromString("500.10"),
		Step:     3,
	}
	at := time.Date(2025, 11, 15, 14, 4, 0, 0, time.UTC)

	st := NewScoredTransaction("id-1", tx, Prediction{Label: 1, Probability: 0.92}, at)

	assert.Equal(t, "id-1", st.TransactionID)
	assert.Equal(t, "C1", st.NameOrig)
	assert.True(t, st.Amount.Equal(decimal.RequireFromString("500.1")))
	assert.Equal(t, 1, st.PredictionLabel)
	assert.Equal(t, "0.92", st.Probability.String())
	assert.Equal(t, "2025-11-15T14:04:00.000000Z", st.ProcessedUTC)
}

func TestJSONColumn(t *testing.T) {
	j, err := ToJSON(NewRuleVerdict())
	require.NoError(t, err)

	val, err := j.Value()
	require.NoError(t, err)

	var back JSON
	require.NoError(t, back.Scan(val))
	assert.Equal(t, false, back[RuleBlacklistedOriginator])

	_, err = ToJSON([]int{1, 2})
	assert.Error(t, err)
}
