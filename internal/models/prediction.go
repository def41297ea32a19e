package models

// Labels returned by the scoring oracle.
const (
	LabelLegit    = 0
	LabelFraud    = 1
	LabelUnscored = -1
)

// Prediction is the scoring oracle's answer for one transaction.
type Prediction struct {
	Label       int     `json:"prediction"`
	Probability float64 `json:"probability"`
}

// SentinelPrediction stands in for "scoring unavailable".
func SentinelPrediction() Prediction {
	return Prediction{Label: LabelUnscored, Probability: -1}
}

// IsSentinel reports whether p is the unscored placeholder.
func (p Prediction) IsSentinel() bool {
	return p.Label == LabelUnscored
}

// IsFraud reports whether the oracle flagged the transaction.
func (p Prediction) IsFraud() bool {
	return p.Label == LabelFraud
}
