// Package errors holds the error types shared by the hot and cold paths.
package errors

// DomainError is an error with a stable machine-readable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

var (
	ErrMalformedRequest = &DomainError{
		Code:    "MALFORMED_REQUEST",
		Message: "request body must be a JSON object",
	}
	ErrInvalidTransaction = &DomainError{
		Code:    "INVALID_TRANSACTION",
		Message: "transaction failed validation",
	}
	ErrStateStoreUnavailable = &DomainError{
		Code:    "STATE_STORE_UNAVAILABLE",
		Message: "state store connection failed",
	}
	ErrForwardFailed = &DomainError{
		Code:    "FORWARD_FAILED",
		Message: "failed to forward transaction for scoring",
	}
	ErrInternal = &DomainError{
		Code:    "INTERNAL_ERROR",
		Message: "internal error",
	}
)
