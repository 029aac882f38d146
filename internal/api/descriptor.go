package api

import (
	"net/http"
	"net/url"
)

// Descriptor is the fully-specified, single-use representation of one
// outbound HTTP call. It is built fresh per call, owned by that call, and
// never persisted.
type Descriptor struct {
	// Op is the logical operation the call performs.
	Op Operation

	// Method is the HTTP method.
	Method string

	// Path is the resolved path, with all template parameters substituted.
	Path string

	// Query holds optional query parameters.
	Query url.Values

	// Body, when non-nil, is serialized to JSON as the request body.
	Body any

	// Header holds caller-supplied overrides. They may shadow the default
	// Content-Type/Accept headers but never the Authorization header.
	Header http.Header
}
