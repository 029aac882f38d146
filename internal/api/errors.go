// Package api implements the only path by which Gistly talks to its backend:
// a closed error taxonomy, an endpoint routing table, a retrying request
// executor and the domain service facade built on top of them.
package api

import "strconv"

// Kind identifies one failure class in the closed taxonomy. Every operation
// in this package fails with an Error of exactly one Kind; callers branch
// with errors.Is against the exported sentinel values.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidURL
	KindInvalidResponse
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindRateLimited
	KindServerError
	KindUnexpectedStatus
	KindDecodingError
	KindEncodingError
	KindTransportError
)

// Error is an immutable failure value. Two errors are equal when their Kind
// and Detail match; errors of different kinds are never equal. Status is
// populated only for KindUnexpectedStatus.
type Error struct {
	Kind   Kind
	Detail string
	Status int
}

func (e Error) Error() string {
	switch e.Kind {
	case KindInvalidURL:
		return "invalid URL"
	case KindInvalidResponse:
		return "invalid response"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindRateLimited:
		return "rate limited"
	case KindServerError:
		return "server error: " + e.Detail
	case KindUnexpectedStatus:
		return "unexpected status " + strconv.Itoa(e.Status)
	case KindDecodingError:
		return "decoding error: " + e.Detail
	case KindEncodingError:
		return "encoding error: " + e.Detail
	case KindTransportError:
		return "transport error: " + e.Detail
	default:
		return "unknown error"
	}
}

// Is matches a target of the same Kind. A detail-less target (the sentinels
// below) matches any error of its kind; a target with detail requires an
// exact match.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	if t.Detail == "" && t.Status == 0 {
		return true
	}
	return t.Detail == e.Detail && t.Status == e.Status
}

// Sentinels for the detail-less kinds, usable both as return values and as
// errors.Is targets.
var (
	ErrInvalidURL      = Error{Kind: KindInvalidURL}
	ErrInvalidResponse = Error{Kind: KindInvalidResponse}
	ErrUnauthorized    = Error{Kind: KindUnauthorized}
	ErrForbidden       = Error{Kind: KindForbidden}
	ErrNotFound        = Error{Kind: KindNotFound}
	ErrRateLimited     = Error{Kind: KindRateLimited}
	ErrUnknown         = Error{Kind: KindUnknown}

	// Detail-carrying sentinels match any error of their kind.
	ErrServerError      = Error{Kind: KindServerError}
	ErrUnexpectedStatus = Error{Kind: KindUnexpectedStatus}
	ErrDecodingError    = Error{Kind: KindDecodingError}
	ErrEncodingError    = Error{Kind: KindEncodingError}
	ErrTransportError   = Error{Kind: KindTransportError}
)

// NewServerError reports a 5xx response with a short detail string.
func NewServerError(detail string) Error {
	return Error{Kind: KindServerError, Detail: detail}
}

// NewUnexpectedStatus reports a status code outside the classified set.
func NewUnexpectedStatus(code int) Error {
	return Error{Kind: KindUnexpectedStatus, Status: code}
}

// NewDecodingError reports a response body that failed to decode.
func NewDecodingError(err error) Error {
	return Error{Kind: KindDecodingError, Detail: err.Error()}
}

// NewEncodingError reports a request body that failed to serialize.
func NewEncodingError(err error) Error {
	return Error{Kind: KindEncodingError, Detail: err.Error()}
}

// NewTransportError reports a connection, DNS or timeout failure.
func NewTransportError(err error) Error {
	return Error{Kind: KindTransportError, Detail: err.Error()}
}
