// Package apperrors carries the application error taxonomy. Handlers raise
// kind-tagged errors; the message bus propagates them unchanged (it only adds
// the audit row) and the HTTP layer maps each kind to a stable status code.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping and auditing.
type Kind int

const (
	KindInternal Kind = iota
	KindItemNotFound
	KindDuplicateRecord
	KindUnauthorized
	KindForbidden
	KindConcurrency
	KindValidation
	KindHandlerNotFound
)

func (k Kind) String() string {
	switch k {
	case KindItemNotFound:
		return "item_not_found"
	case KindDuplicateRecord:
		return "duplicate_record"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindConcurrency:
		return "concurrency_conflict"
	case KindValidation:
		return "validation_error"
	case KindHandlerNotFound:
		return "handler_not_found"
	default:
		return "internal_error"
	}
}

// Error is a kind-tagged error. It plays well with errors.Is/As chains via
// Unwrap.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind carried by err. Untagged errors are internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}
