// Package api is the REST client for the Quorix backend.
//
// Every endpoint the dashboards use has one method on Client. Failures are
// classified with the errors package: a request that never got a response
// is a network error, a non-2xx response is an *errors.APIError carrying the
// body's "error" field, and 401/403/404/429 additionally match the
// corresponding sentinel.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/quorix/quorix/internal/errors"
	"github.com/quorix/quorix/internal/logging"
)

// RequestIDHeader carries a per-request id so client and server logs can be joined.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Client talks to one Quorix backend. It is safe for concurrent use; the
// dashboards share a single Client across all their pollers.
type Client struct {
	base    *url.URL
	http    *http.Client
	token   string
	limiter *rate.Limiter
	logger  *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its cookie jar is
// kept if set; otherwise a fresh jar is installed.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithToken sends "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithRateLimit throttles mutating requests to r per second with the given
// burst. r <= 0 disables throttling.
func WithRateLimit(r float64, burst int) Option {
	return func(c *Client) {
		if r <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

// WithLogger attaches a debug logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: must be absolute", baseURL)
	}

	c := &Client{
		base:   base,
		http:   &http.Client{Timeout: 10 * time.Second},
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		c.http.Jar = jar
	}
	return c, nil
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) { c.token = token }

// Cookies returns the session cookies held for the backend.
func (c *Client) Cookies() []*http.Cookie {
	return c.http.Jar.Cookies(c.base)
}

// SetCookies restores previously saved session cookies.
func (c *Client) SetCookies(cookies []*http.Cookie) {
	c.http.Jar.SetCookies(c.base, cookies)
}

// URL resolves an API path against the base URL.
func (c *Client) URL(path string) string {
	return c.base.String() + path
}

// do performs one request. body, when non-nil, is sent as JSON. out, when
// non-nil, receives the decoded JSON response.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(errors.ErrDecode, "%s %s: %v", method, path, err)
	}
	return nil
}

// send performs one request and returns the raw body of a 2xx response.
func (c *Client) send(ctx context.Context, method, path string, body any) ([]byte, error) {
	if method != http.MethodGet && c.limiter != nil && !c.limiter.Allow() {
		c.logger.Warn("request throttled", "method", method, "path", path)
		return nil, errors.Wrapf(errors.ErrRateLimited, "%s %s", method, path)
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Join(errors.ErrCanceled, ctx.Err())
		}
		c.logger.Warn("request failed", "method", method, "path", path, "request_id", reqID, "error", err.Error())
		return nil, errors.NewNetworkError(method, path, err)
	}
	defer resp.Body.Close()

	log := c.logger.With("method", method, "path", path, "status", resp.StatusCode,
		"request_id", reqID, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := errors.NewAPIError(resp.StatusCode, serverMessage(raw)).WithEndpoint(method, path)
		log.Debug("request rejected", "server_error", apiErr.ServerMessage)
		return nil, apiErr
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetworkError(method, path, err)
	}
	log.Debug("request ok", "bytes", len(raw))
	return raw, nil
}

// serverMessage extracts the "error" field of a JSON error body.
func serverMessage(raw []byte) string {
	var body struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	switch v := body.Error.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// getList fetches a JSON array. A body that is valid JSON but not an array
// yields an empty, non-nil slice.
func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	raw, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[T](raw, path)
}

func decodeList[T any](raw []byte, path string) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, errors.Wrapf(errors.ErrDecode, "GET %s: %v", path, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// esc escapes one path segment.
func esc(s string) string { return url.PathEscape(s) }
