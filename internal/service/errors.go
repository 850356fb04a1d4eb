package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure so the API layer can pick an HTTP
// status without parsing messages.
type Kind int

const (
	KindPersistence Kind = iota
	KindValidation
	KindProductNotFound
	KindOrderNotFound
	KindLineNotFound
	KindInsufficientStock
	KindOrderNotModifiable
	KindInvalidStatus
	KindDuplicateEmail
	KindBadCredentials
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindProductNotFound:
		return "product_not_found"
	case KindOrderNotFound:
		return "order_not_found"
	case KindLineNotFound:
		return "line_not_found"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindOrderNotModifiable:
		return "order_not_modifiable"
	case KindInvalidStatus:
		return "invalid_status"
	case KindDuplicateEmail:
		return "duplicate_email"
	case KindBadCredentials:
		return "bad_credentials"
	}
	return "persistence"
}

// Error is a service failure with a discriminated kind and a human-readable
// message.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Errf builds a service error of the given kind.
func Errf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapErr wraps an unexpected failure, keeping the cause for logs.
func WrapErr(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the kind from err. Unclassified errors are treated as
// persistence faults.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}
