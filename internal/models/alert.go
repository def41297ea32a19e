package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertPayload is handed to the alert dispatcher when a transaction scores as fraud.
type AlertPayload struct {
	TransactionID string          `json:"transactionId"`
	NameOrig      string          `json:"nameOrig"`
	NameDest      string          `json:"nameDest"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Step          int             `json:"step"`
	Label         int             `json:"label"`
	Probability   float64         `json:"ai_probability"`
	Violations    []string        `json:"violations"`
	Message       string          `json:"message"`
	DetectedAt    time.Time       `json:"detected_at"`
}
