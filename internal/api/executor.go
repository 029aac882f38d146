package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gistly-app/gistly/internal/logging"
	"github.com/sethvargo/go-retry"
)

// ExecutorConfig bounds one logical call: a per-attempt timeout, the number
// of additional attempts after the first failure and the fixed pause between
// attempts. The delay is deliberately constant, not exponential.
type ExecutorConfig struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// Executor builds and sends one HTTP request per Do call, applies the retry
// policy and maps transport failures and status codes onto the error
// taxonomy. It is stateless across calls except for the base URL and bearer
// token, which the owner may replace at any time; a replacement takes effect
// on the next call.
type Executor struct {
	mu      sync.RWMutex
	baseURL string
	token   string

	cfg    ExecutorConfig
	client *http.Client
	log    logging.Logger
}

func NewExecutor(baseURL string, cfg ExecutorConfig, log logging.Logger) *Executor {
	return &Executor{
		baseURL: baseURL,
		cfg:     cfg,
		client:  &http.Client{},
		log:     log.With("component", "api.executor"),
	}
}

// SetToken replaces the bearer token attached to subsequent calls.
// An empty token disables the Authorization header.
func (e *Executor) SetToken(token string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.token = token
}

// SetBaseURL replaces the base URL used by subsequent calls.
func (e *Executor) SetBaseURL(baseURL string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.baseURL = baseURL
}

func (e *Executor) snapshot() (baseURL, token string) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.baseURL, e.token
}

// Do executes the described exchange and returns the raw response body of a
// 2xx response. Every failure is an Error from the taxonomy. Only transport
// failures and 5xx responses are retried, up to cfg.MaxRetries additional
// attempts with the fixed delay in between; all other classifications return
// on first occurrence.
func (e *Executor) Do(ctx context.Context, d Descriptor) ([]byte, error) {
	baseURL, token := e.snapshot()

	fullURL, err := resolveURL(baseURL, d.Path, d.Query)
	if err != nil {
		return nil, ErrInvalidURL
	}

	var body []byte
	if d.Body != nil {
		body, err = json.Marshal(d.Body)
		if err != nil {
			return nil, NewEncodingError(err)
		}
	}

	var out []byte
	attempt := 0

	backoff := retry.WithMaxRetries(uint64(e.cfg.MaxRetries), retry.NewConstant(e.cfg.RetryDelay))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		status, data, err := e.exchange(ctx, d, fullURL, body, token)
		if err != nil {
			e.log.Warn(ctx, "request attempt failed",
				"operation", d.Op.String(), "attempt", attempt, "error", err)
			return retry.RetryableError(NewTransportError(err))
		}

		classified := classify(status, data)
		if classified == nil {
			out = data
			return nil
		}
		if apiErr, ok := classified.(Error); ok && apiErr.Kind == KindServerError {
			e.log.Warn(ctx, "server error, will retry",
				"operation", d.Op.String(), "attempt", attempt, "status", status)
			return retry.RetryableError(classified)
		}
		return classified
	})
	if err != nil {
		var apiErr Error
		if !errors.As(err, &apiErr) {
			// Context cancellation surfaces as a transport failure.
			return nil, NewTransportError(err)
		}
		return nil, apiErr
	}

	e.log.Debug(ctx, "request succeeded",
		"operation", d.Op.String(), "attempts", attempt)
	return out, nil
}

// exchange performs a single HTTP attempt under the configured timeout.
func (e *Executor) exchange(ctx context.Context, d Descriptor, fullURL string, body []byte, token string) (int, []byte, error) {
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, d.Method, fullURL, reader)
	if err != nil {
		return 0, nil, err
	}

	// Defaults first, then caller overrides, then the auth header last so it
	// can never be shadowed.
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for name, values := range d.Header {
		req.Header.Del(name)
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, data, nil
}

// classify maps a status code to the taxonomy. nil means success.
func classify(status int, body []byte) error {
	switch {
	case status >= 200 && status <= 299:
		return nil
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= 500 && status <= 599:
		return NewServerError(serverDetail(status, body))
	default:
		return NewUnexpectedStatus(status)
	}
}

const maxServerDetailLen = 200

func serverDetail(status int, body []byte) string {
	detail := http.StatusText(status)
	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" {
		if len(trimmed) > maxServerDetailLen {
			trimmed = trimmed[:maxServerDetailLen]
		}
		detail += ": " + trimmed
	}
	return detail
}

// resolveURL joins the base URL, path and query parameters.
func resolveURL(baseURL, path string, query url.Values) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", ErrInvalidURL
	}
	joined, err := url.JoinPath(u.String(), path)
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		joined += "?" + query.Encode()
	}
	return joined, nil
}
