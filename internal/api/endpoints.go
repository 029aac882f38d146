package api

import (
	"fmt"
	"net/http"
	"strings"
)

// Operation names one logical backend capability, independent of its HTTP
// method/path encoding.
type Operation int

const (
	OpCreateUser Operation = iota
	OpUpdateUser
	OpDeleteUser
	OpStoreLink
	OpUpdateLinkGistStatus
	OpFetchLinks
	OpCreateGist
	OpUpdateGist
	OpDeleteGist
	OpUpdateGistStatus
	OpSignalGistStatus
	OpFetchGists
	OpFetchCategories
	OpFetchCategoryBySlug
	OpCreateCategory
	OpUpdateCategory
)

func (o Operation) String() string {
	if r, ok := routes[o]; ok {
		return r.Name
	}
	return fmt.Sprintf("operation(%d)", int(o))
}

// Route describes how one operation is encoded on the wire: HTTP method,
// path template and whether a JSON body is required. Routes are pure data;
// resolving one performs no I/O.
type Route struct {
	Name         string
	Method       string
	PathTemplate string
	BodyRequired bool
}

// routes is the closed operation table. OpSignalGistStatus shares the path
// of OpUpdateGistStatus but sends an empty body; the backend applies its
// default in-review status.
var routes = map[Operation]Route{
	OpCreateUser:           {"create user", http.MethodPost, "/users", true},
	OpUpdateUser:           {"update user", http.MethodPut, "/users/{userId}", true},
	OpDeleteUser:           {"delete user", http.MethodDelete, "/users/{userId}", false},
	OpStoreLink:            {"store link", http.MethodPost, "/links/{userId}", true},
	OpUpdateLinkGistStatus: {"update link gist status", http.MethodPatch, "/links/{userId}/{articleId}/gist-status", true},
	OpFetchLinks:           {"fetch links", http.MethodGet, "/links/{userId}", false},
	OpCreateGist:           {"create gist", http.MethodPost, "/gists/{userId}", true},
	OpUpdateGist:           {"update gist", http.MethodPut, "/gists/{userId}/{gistId}", true},
	OpDeleteGist:           {"delete gist", http.MethodDelete, "/gists/{userId}/{gistId}", false},
	OpUpdateGistStatus:     {"update gist production status", http.MethodPatch, "/gists/{userId}/{gistId}/status", true},
	OpSignalGistStatus:     {"signal gist production status", http.MethodPatch, "/gists/{userId}/{gistId}/status", false},
	OpFetchGists:           {"fetch gists", http.MethodGet, "/gists/{userId}", false},
	OpFetchCategories:      {"fetch categories", http.MethodGet, "/categories", false},
	OpFetchCategoryBySlug:  {"fetch category by slug", http.MethodGet, "/categories/{slug}", false},
	OpCreateCategory:       {"create category", http.MethodPost, "/categories", true},
	OpUpdateCategory:       {"update category", http.MethodPut, "/categories/{slug}", true},
}

// RouteFor returns the route for op. The table is closed: an unknown op is a
// programming error and reports ErrInvalidURL.
func RouteFor(op Operation) (Route, error) {
	r, ok := routes[op]
	if !ok {
		return Route{}, ErrInvalidURL
	}
	return r, nil
}

// Path substitutes {name} placeholders in the route's path template.
// A placeholder with no parameter, or an empty parameter value, leaves the
// path unresolvable and reports an error.
func (r Route) Path(params map[string]string) (string, error) {
	path := r.PathTemplate
	for name, value := range params {
		if value == "" {
			return "", fmt.Errorf("empty path parameter %q for %s", name, r.Name)
		}
		path = strings.ReplaceAll(path, "{"+name+"}", value)
	}
	if i := strings.IndexByte(path, '{'); i >= 0 {
		return "", fmt.Errorf("unresolved path parameter in %q for %s", path, r.Name)
	}
	return path, nil
}
