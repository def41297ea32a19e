package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Violation is the audit record of a declined transaction.
type Violation struct {
	ID         string          `gorm:"primaryKey;size:36" json:"id"`
	NameOrig   string          `gorm:"index:idx_violation_parties;not null" json:"nameOrig"`
	NameDest   string          `gorm:"index:idx_violation_parties;not null" json:"nameDest"`
	Type       string          `gorm:"not null" json:"type"`
	Amount     decimal.Decimal `gorm:"type:numeric" json:"amount"`
	RuleResult JSON            `gorm:"type:jsonb" json:"rule_result"`
	Payload    JSON            `gorm:"type:jsonb" json:"payload"`
	ArchivedAt time.Time       `gorm:"not null" json:"archived_at"`
}
