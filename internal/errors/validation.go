package errors

import "fmt"

// ValidationKind classifies why a transaction was rejected.
type ValidationKind string

const (
	KindMalformed    ValidationKind = "malformed"
	KindMissingField ValidationKind = "missing_field"
	KindNonNumeric   ValidationKind = "non_numeric"
	KindNonPositive  ValidationKind = "non_positive"
	KindInvalidValue ValidationKind = "invalid_value"
	KindOutOfRange   ValidationKind = "out_of_range"
)

// ValidationError is a client input problem. It is never retried.
type ValidationError struct {
	Kind  ValidationKind
	Field string
	// Detail overrides the default message for KindInvalidValue and KindMalformed.
	Detail string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindMissingField:
		return fmt.Sprintf("missing field: %s", e.Field)
	case KindNonNumeric:
		return fmt.Sprintf("%s must be numeric", e.Field)
	case KindNonPositive:
		return fmt.Sprintf("%s must be positive", e.Field)
	case KindOutOfRange:
		return fmt.Sprintf("%s is out of range", e.Field)
	case KindMalformed:
		if e.Detail != "" {
			return "malformed transaction: " + e.Detail
		}
		return ErrMalformedRequest.Message
	default:
		if e.Detail != "" {
			return fmt.Sprintf("%s %s", e.Field, e.Detail)
		}
		return fmt.Sprintf("%s is invalid", e.Field)
	}
}

// Code is the machine-readable code sent alongside the message.
func (e *ValidationError) Code() string {
	if e.Kind == KindMalformed {
		return ErrMalformedRequest.Code
	}
	return ErrInvalidTransaction.Code
}

// Missing builds a missing-field error.
func Missing(field string) *ValidationError {
	return &ValidationError{Kind: KindMissingField, Field: field}
}

// Invalid builds an invalid-value error with a detail such as "must be a string".
func Invalid(field, detail string) *ValidationError {
	return &ValidationError{Kind: KindInvalidValue, Field: field, Detail: detail}
}
