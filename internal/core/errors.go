package core

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping. Handlers translate kinds
// into HTTP status codes and fixed client-safe messages; the raw cause stays
// in logs and in the payment record's error column.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindUnsupportedToken Kind = "unsupported_token"
	KindNotFound         Kind = "not_found"
	KindConflict         Kind = "conflict"
	KindRateLimited      Kind = "rate_limited"
	KindLedger           Kind = "ledger"
	KindPersistence      Kind = "persistence"
	KindInternal         Kind = "internal"
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a classified error. The optional last argument may be a wrapped
// cause.
func E(kind Kind, msg string, cause ...error) *Error {
	e := &Error{Kind: kind, Msg: msg}
	if len(cause) > 0 {
		e.Err = cause[0]
	}
	return e
}

// KindOf extracts the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }

// SafeMessage returns the generic client-facing message for an error. Raw
// error text never crosses this boundary.
func SafeMessage(err error) string {
	switch KindOf(err) {
	case KindValidation:
		return "missing or invalid request fields"
	case KindUnsupportedToken:
		return "unsupported token type"
	case KindNotFound:
		return "resource not found"
	case KindConflict:
		return "resource already exists"
	case KindRateLimited:
		return "too many requests"
	case KindLedger:
		return "payment processing failed"
	case KindPersistence:
		return "storage failure"
	default:
		return "internal error"
	}
}
