package queue

import (
	"net/url"
	"strings"
)

// mobile-site host prefixes stripped to their desktop equivalent.
var mobilePrefixes = []string{"m.", "mobile."}

// normalizeURL canonicalizes a shared link for deduplication: the host is
// lowercased and stripped of mobile prefixes, the fragment is dropped and a
// trailing slash on a non-root path is removed. Invalid or non-absolute
// URLs report an error.
func normalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", &url.Error{Op: "normalize", URL: raw, Err: url.InvalidHostError(u.Host)}
	}

	host := strings.ToLower(u.Host)
	for _, prefix := range mobilePrefixes {
		if rest, ok := strings.CutPrefix(host, prefix); ok && strings.Contains(rest, ".") {
			host = rest
			break
		}
	}
	u.Host = host
	u.Fragment = ""

	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	return u.String(), nil
}
