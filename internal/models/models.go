// Package models defines the immutable domain entities exchanged with the
// backend: users, articles (stored links), gists and categories.
//
// Decoding is deliberately lenient, with an explicit per-entity policy
// replacing the ad hoc fallbacks of earlier clients: required fields abort
// the decode with ErrMissingField; defaulted fields substitute a documented
// default (DefaultTitle for titles, zero values elsewhere). Encoding
// round-trips field for field, omitting absent optionals.
package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrMissingField reports a required wire field that is absent or empty.
var ErrMissingField = errors.New("missing required field")

// DefaultTitle substitutes an absent title on decode.
const DefaultTitle = "Untitled"

// NewLocalID issues an id for an entity the backend has not yet seen.
func NewLocalID() string {
	return uuid.NewString()
}

// wire timestamps are ISO-8601. An absent or malformed value defaults to the
// zero time (lenient policy).
func parseWireTime(s *string) time.Time {
	if s == nil || *s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatWireTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func orDefault(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

func orZero[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
