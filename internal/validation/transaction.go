package validation

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	apperrors "fraudguard/internal/errors"
	"fraudguard/internal/models"

	"github.com/shopspring/decimal"
)

// Wire field names, in the order presence is checked.
const (
	FieldType           = "type"
	FieldNameOrig       = "nameOrig"
	FieldNameDest       = "nameDest"
	FieldOldBalanceOrg  = "oldbalanceOrg"
	FieldNewBalanceOrig = "newbalanceOrig"
	FieldAmount         = "amount"
	FieldOldBalanceDest = "oldbalanceDest"
	FieldNewBalanceDest = "newbalanceDest"
	FieldStep           = "step"

	bodyField = "body"
)

// Numeric bounds. Amounts and balances are money: 38 significant digits and a
// decimal exponent within ±18 cover every real value and keep encoding cheap.
const (
	maxNumberLen = 64
	maxDigits    = 38
	maxExponent  = 18
	maxStep      = math.MaxInt32
)

// RequiredFields is checked front to back so the first reported failure is stable.
var RequiredFields = []string{
	FieldType,
	FieldNameOrig,
	FieldNameDest,
	FieldOldBalanceOrg,
	FieldNewBalanceOrig,
	FieldAmount,
	FieldOldBalanceDest,
	FieldNewBalanceDest,
}

// ExtractPayload returns the transaction document embedded in a request.
// A "body" field holding a JSON string (or object) wins; otherwise the whole
// input is the payload.
func ExtractPayload(raw []byte) ([]byte, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	body, ok := fields[bodyField]
	if !ok || isNull(body) {
		return raw, nil
	}

	trimmed := bytes.TrimSpace(body)
	switch {
	case len(trimmed) > 0 && trimmed[0] == '"':
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, &apperrors.ValidationError{Kind: apperrors.KindMalformed, Detail: "body is not a valid string"}
		}
		return []byte(inner), nil
	case len(trimmed) > 0 && trimmed[0] == '{':
		return trimmed, nil
	default:
		return nil, &apperrors.ValidationError{Kind: apperrors.KindMalformed, Detail: "body must be a JSON string or object"}
	}
}

// ParseTransaction validates a raw transaction document and converts it into
// a typed Transaction. Presence of every required field is checked before any
// value constraint; among value checks the amount comes first.
func ParseTransaction(raw []byte) (*models.Transaction, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	for _, name := range RequiredFields {
		v, ok := fields[name]
		if !ok || isNull(v) {
			return nil, apperrors.Missing(name)
		}
	}

	amount, err := numberField(fields, FieldAmount)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, &apperrors.ValidationError{Kind: apperrors.KindNonPositive, Field: FieldAmount}
	}

	tx := &models.Transaction{Amount: amount}

	if tx.Type, err = stringField(fields, FieldType); err != nil {
		return nil, err
	}
	if tx.NameOrig, err = stringField(fields, FieldNameOrig); err != nil {
		return nil, err
	}
	if tx.NameDest, err = stringField(fields, FieldNameDest); err != nil {
		return nil, err
	}
	if tx.OldBalanceOrg, err = numberField(fields, FieldOldBalanceOrg); err != nil {
		return nil, err
	}
	if tx.NewBalanceOrig, err = numberField(fields, FieldNewBalanceOrig); err != nil {
		return nil, err
	}
	if tx.OldBalanceDest, err = numberField(fields, FieldOldBalanceDest); err != nil {
		return nil, err
	}
	if tx.NewBalanceDest, err = numberField(fields, FieldNewBalanceDest); err != nil {
		return nil, err
	}

	if !models.IsValidTransactionType(tx.Type) {
		return nil, apperrors.Invalid(FieldType, "must be one of "+strings.Join(models.TransactionTypes, ", "))
	}

	if v, ok := fields[FieldStep]; ok && !isNull(v) {
		step, err := numberField(fields, FieldStep)
		if err != nil {
			return nil, err
		}
		if !step.IsInteger() {
			return nil, apperrors.Invalid(FieldStep, "must be an integer")
		}
		if step.IsNegative() {
			return nil, apperrors.Invalid(FieldStep, "must not be negative")
		}
		if step.GreaterThan(decimal.NewFromInt(maxStep)) {
			return nil, &apperrors.ValidationError{Kind: apperrors.KindOutOfRange, Field: FieldStep}
		}
		tx.Step = int(step.IntPart())
	}

	return tx, nil
}

func decodeObject(raw []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &apperrors.ValidationError{Kind: apperrors.KindMalformed}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, &apperrors.ValidationError{Kind: apperrors.KindMalformed, Detail: err.Error()}
	}
	return fields, nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// numberField accepts JSON numbers only; numeric strings are rejected.
// Numbers outside the digit and exponent bounds are out of range.
func numberField(fields map[string]json.RawMessage, name string) (decimal.Decimal, error) {
	v := bytes.TrimSpace(fields[name])
	if len(v) == 0 || !(v[0] == '-' || (v[0] >= '0' && v[0] <= '9')) {
		return decimal.Zero, &apperrors.ValidationError{Kind: apperrors.KindNonNumeric, Field: name}
	}
	if len(v) > maxNumberLen {
		return decimal.Zero, &apperrors.ValidationError{Kind: apperrors.KindOutOfRange, Field: name}
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return decimal.Zero, &apperrors.ValidationError{Kind: apperrors.KindNonNumeric, Field: name}
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, &apperrors.ValidationError{Kind: apperrors.KindNonNumeric, Field: name}
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent || d.NumDigits() > maxDigits {
		return decimal.Zero, &apperrors.ValidationError{Kind: apperrors.KindOutOfRange, Field: name}
	}
	return d, nil
}

func stringField(fields map[string]json.RawMessage, name string) (string, error) {
	var s string
	if err := json.Unmarshal(fields[name], &s); err != nil {
		return "", apperrors.Invalid(name, "must be a string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperrors.Invalid(name, "must not be empty")
	}
	return s, nil
}
