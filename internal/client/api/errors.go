package api

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the API boundary can produce. No raw
// transport error escapes to callers uncategorized: each failure path maps
// to exactly one kind plus a display-ready message.
type Kind int

const (
	// KindUnknown is the generic fallback for unclassified failures.
	KindUnknown Kind = iota

	// KindPrecondition is a client-detected error that prevents a network
	// call from being attempted at all (e.g. missing token).
	KindPrecondition

	// KindUnauthorized is a 401 from the server. It always triggers local
	// session teardown as a side effect; a stale token must not be retried.
	KindUnauthorized

	// KindNotFound is a 404; the message names the missing record.
	KindNotFound

	// KindValidation is a 400 with field-level errors; the message surfaces
	// the first offending field.
	KindValidation

	// KindNetwork means no response was received at all.
	KindNetwork

	// KindTimeout means the request was abandoned after the fixed per-request
	// timeout elapsed.
	KindTimeout

	// KindMalformedResponse is a success status with a body that could not be
	// decoded where one was required.
	KindMalformedResponse
)

func (k Kind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindMalformedResponse:
		return "malformed response"
	default:
		return "unknown"
	}
}

// Error is the single error type returned across the API boundary. Message
// is ready to display; the UI layer is its only consumer.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error with the given kind and display message.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Errorf is NewError with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches an underlying cause to a classified error.
func WrapError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind carried by err, or KindUnknown when err was not
// produced by this package.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Message returns the display-ready message carried by err, falling back to
// err.Error() for foreign errors.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
