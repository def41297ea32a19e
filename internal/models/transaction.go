package models

import (
	"github.com/shopspring/decimal"
)

// Transaction types accepted on the hot path.
const (
	TransactionTypePayment  = "PAYMENT"
	TransactionTypeTransfer = "TRANSFER"
	TransactionTypeCashOut  = "CASH_OUT"
)

// TransactionTypes lists the enumerated transaction types.
var TransactionTypes = []string{
	TransactionTypePayment,
	TransactionTypeTransfer,
	TransactionTypeCashOut,
}

// Transaction is a validated money movement between an originator and a destination.
// Amounts and balances are exact decimals; it is never mutated after validation.
type Transaction struct {
	Type           string          `json:"type"`
	NameOrig       string          `json:"nameOrig"`
	NameDest       string          `json:"nameDest"`
	Amount         decimal.Decimal `json:"amount"`
	OldBalanceOrg  decimal.Decimal `json:"oldbalanceOrg"`
	NewBalanceOrig decimal.Decimal `json:"newbalanceOrig"`
	OldBalanceDest decimal.Decimal `json:"oldbalanceDest"`
	NewBalanceDest decimal.Decimal `json:"newbalanceDest"`
	Step           int             `json:"step"`
}

// Amounts travel as JSON numbers on every surface: the request body, the
// stream record and the result API all use the same representation.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// IsValidTransactionType reports whether t is one of the enumerated types.
func IsValidTransactionType(t string) bool {
	for _, known := range TransactionTypes {
		if t == known {
			return true
		}
	}
	return false
}
