package validation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	apperrors "fraudguard/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() map[string]interface{} {
	return map[string]interface{}{
		"type":           "TRANSFER",
		"nameOrig":       "C1",
		"nameDest":       "M1",
		"amount":         500,
		"oldbalanceOrg":  1000,
		"newbalanceOrig": 500,
		"oldbalanceDest": 0,
		"newbalanceDest": 500,
	}
}

func encode(t *testing.T, v interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func asValidation(t *testing.T, err error) *apperrors.ValidationError {
	t.Helper()
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr
}

func TestParseTransaction_Valid(t *testing.T) {
	fields := validFields()
	fields["amount"] = 25.5
	fields["step"] = 7
	fields["extra"] = "ignored"

	tx, err := ParseTransaction(encode(t, fields))
	require.NoError(t, err)

	assert.Equal(t, "TRANSFER", tx.Type)
	assert.Equal(t, "C1", tx.NameOrig)
	assert.Equal(t, "M1", tx.NameDest)
	assert.Equal(t, "25.5", tx.Amount.String())
	assert.Equal(t, "1000", tx.OldBalanceOrg.String())
	assert.Equal(t, 7, tx.Step)
}

func TestParseTransaction_MissingEachField(t *testing.T) {
	for _, name := range RequiredFields {
		t.Run(name, func(t *testing.T) {
			fields := validFields()
			delete(fields, name)

			_, err := ParseTransaction(encode(t, fields))
			verr := asValidation(t, err)
			assert.Equal(t, apperrors.KindMissingField, verr.Kind)
			assert.Equal(t, name, verr.Field)
			assert.Equal(t, "missing field: "+name, err.Error())
		})
	}
}

func TestParseTransaction_NullCountsAsMissing(t *testing.T) {
	fields := validFields()
	fields["nameDest"] = nil

	_, err := ParseTransaction(encode(t, fields))
	assert.Equal(t, "missing field: nameDest", err.Error())
}

func TestParseTransaction_PresenceBeforeValues(t *testing.T) {
	// amount is garbage and newbalanceDest is missing: the missing field wins.
	fields := validFields()
	fields["amount"] = "abc"
	fields["type"] = 42
	delete(fields, "newbalanceDest")

	_, err := ParseTransaction(encode(t, fields))
	verr := asValidation(t, err)
	assert.Equal(t, apperrors.KindMissingField, verr.Kind)
	assert.Equal(t, "newbalanceDest", verr.Field)
}

func TestParseTransaction_FirstMissingInFixedOrder(t *testing.T) {
	fields := validFields()
	delete(fields, "amount")
	delete(fields, "nameOrig")

	_, err := ParseTransaction(encode(t, fields))
	assert.Equal(t, "missing field: nameOrig", err.Error())
}

func TestParseTransaction_AmountChecks(t *testing.T) {
	tests := []struct {
		name   string
		amount interface{}
		kind   apperrors.ValidationKind
		msg    string
	}{
		{"zero", 0, apperrors.KindNonPositive, "amount must be positive"},
		{"negative", -10, apperrors.KindNonPositive, "amount must be positive"},
		{"negative fraction", -0.01, apperrors.KindNonPositive, "amount must be positive"},
		{"string", "abc", apperrors.KindNonNumeric, "amount must be numeric"},
		{"numeric string", "100", apperrors.KindNonNumeric, "amount must be numeric"},
		{"bool", true, apperrors.KindNonNumeric, "amount must be numeric"},
		{"object", map[string]int{"v": 1}, apperrors.KindNonNumeric, "amount must be numeric"},
		{"huge exponent", json.Number("1e50000000"), apperrors.KindOutOfRange, "amount is out of range"},
		{"tiny exponent", json.Number("1e-30"), apperrors.KindOutOfRange, "amount is out of range"},
		{"too many digits", json.Number(strings.Repeat("9", 39)), apperrors.KindOutOfRange, "amount is out of range"},
		{"long literal", json.Number("1" + strings.Repeat("0", 100)), apperrors.KindOutOfRange, "amount is out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validFields()
			fields["amount"] = tt.amount

			_, err := ParseTransaction(encode(t, fields))
			verr := asValidation(t, err)
			assert.Equal(t, tt.kind, verr.Kind)
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestParseTransaction_OtherValueChecks(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value interface{}
		msg   string
	}{
		{"balance as string", "oldbalanceOrg", "1000", "oldbalanceOrg must be numeric"},
		{"unknown type", "type", "DEBIT", "type must be one of PAYMENT, TRANSFER, CASH_OUT"},
		{"numeric originator", "nameOrig", 12, "nameOrig must be a string"},
		{"blank destination", "nameDest", "  ", "nameDest must not be empty"},
		{"fractional step", "step", 1.5, "step must be an integer"},
		{"balance exponent", "oldbalanceDest", json.Number("5e400"), "oldbalanceDest is out of range"},
		{"negative balance exponent", "newbalanceOrig", json.Number("-1E-19"), "newbalanceOrig is out of range"},
		{"negative step", "step", -1, "step must not be negative"},
		{"step beyond int32", "step", json.Number("2147483648"), "step is out of range"},
		{"step beyond int64", "step", json.Number("1e30"), "step is out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validFields()
			fields[tt.field] = tt.value

			_, err := ParseTransaction(encode(t, fields))
			asValidation(t, err)
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestParseTransaction_BoundedValuesAccepted(t *testing.T) {
	fields := validFields()
	fields["amount"] = json.Number("12345678901234567890.123456789012345678")
	fields["oldbalanceOrg"] = json.Number("1e18")
	fields["step"] = json.Number("2147483647")

	tx, err := ParseTransaction(encode(t, fields))
	require.NoError(t, err)
	assert.Equal(t, "12345678901234567890.123456789012345678", tx.Amount.String())
	assert.Equal(t, "1000000000000000000", tx.OldBalanceOrg.String())
	assert.Equal(t, 2147483647, tx.Step)
}

func TestParseTransaction_Malformed(t *testing.T) {
	for _, raw := range []string{"", "[]", "not json", `{"type":`} {
		_, err := ParseTransaction([]byte(raw))
		verr := asValidation(t, err)
		assert.Equal(t, apperrors.KindMalformed, verr.Kind, raw)
	}
}

func TestExtractPayload(t *testing.T) {
	inner := encode(t, validFields())

	t.Run("body as string", func(t *testing.T) {
		raw := encode(t, map[string]string{"body": string(inner)})
		payload, err := ExtractPayload(raw)
		require.NoError(t, err)
		assert.JSONEq(t, string(inner), string(payload))
	})

	t.Run("body as object", func(t *testing.T) {
		raw := encode(t, map[string]interface{}{"body": validFields()})
		payload, err := ExtractPayload(raw)
		require.NoError(t, err)
		assert.JSONEq(t, string(inner), string(payload))
	})

	t.Run("no body", func(t *testing.T) {
		payload, err := ExtractPayload(inner)
		require.NoError(t, err)
		assert.Equal(t, inner, payload)
	})

	t.Run("body of wrong type", func(t *testing.T) {
		_, err := ExtractPayload([]byte(`{"body": 12}`))
		assert.Equal(t, apperrors.KindMalformed, asValidation(t, err).Kind)
	})
}
