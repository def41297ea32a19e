package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProcessedTimeLayout is the ISO-8601 layout used for cold_path_processed_utc.
const ProcessedTimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// ScoredTransaction is one row of the result store. TransactionID is generated per
// scoring attempt, so a redelivered stream record yields a new row.
type ScoredTransaction struct {
	TransactionID   string          `gorm:"column:transactionId;primaryKey;size:36" json:"transactionId"`
	Type            string          `gorm:"column:type;not null" json:"type"`
	NameOrig        string          `gorm:"column:nameOrig;index;not null" json:"nameOrig"`
	NameDest        string          `gorm:"column:nameDest;not null" json:"nameDest"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric" json:"amount"`
	OldBalanceOrg   decimal.Decimal `gorm:"column:oldbalanceOrg;type:numeric" json:"oldbalanceOrg"`
	NewBalanceOrig  decimal.Decimal `gorm:"column:newbalanceOrig;type:numeric" json:"newbalanceOrig"`
	OldBalanceDest  decimal.Decimal `gorm:"column:oldbalanceDest;type:numeric" json:"oldbalanceDest"`
	NewBalanceDest  decimal.Decimal `gorm:"column:newbalanceDest;type:numeric" json:"newbalanceDest"`
	Step            int             `gorm:"column:step" json:"step"`
	PredictionLabel int             `gorm:"column:ai_prediction_label" json:"ai_prediction_label"`
	Probability     decimal.Decimal `gorm:"column:ai_probability;type:numeric" json:"ai_probability"`
	ProcessedUTC    string          `gorm:"column:cold_path_processed_utc" json:"cold_path_processed_utc"`
}

// NewScoredTransaction merges a transaction with its prediction.
func NewScoredTransaction(id string, tx *Transaction, p Prediction, processedAt time.Time) *ScoredTransaction {
	return &ScoredTransaction{
		TransactionID:   id,
		Type:            tx.Type,
		NameOrig:        tx.NameOrig,
		NameDest:        tx.NameDest,
		Amount:          tx.Amount,
		OldBalanceOrg:   tx.OldBalanceOrg,
		NewBalanceOrig:  tx.NewBalanceOrig,
		OldBalanceDest:  tx.OldBalanceDest,
		NewBalanceDest:  tx.NewBalanceDest,
		Step:            tx.Step,
		PredictionLabel: p.Label,
		Probability:     decimal.NewFromFloat(p.Probability),
		ProcessedUTC:    processedAt.UTC().Format(ProcessedTimeLayout),
	}
}
