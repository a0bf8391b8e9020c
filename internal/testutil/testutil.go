// Package testutil provides testing utilities for Quorix tests: a fake
// backend that serves canned JSON and records what the client sent, and a
// manual clock for anything driven by tickers.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Request is one request received by a Backend.
type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// JSON decodes the request body into v, failing the test on error.
func (r Request) JSON(t testing.TB, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("failed to decode %s %s body %q: %v", r.Method, r.Path, r.Body, err)
	}
}

// Backend is an httptest server with a chi router that records every
// request before routing it. Unrouted requests get 404 {"error":"not found"}.
type Backend struct {
	Router chi.Router
	server *httptest.Server

	mu       sync.Mutex
	requests []Request
}

// NewBackend starts a fake backend that is shut down when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{}
	r := chi.NewRouter()
	r.Use(b.record)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	b.Router = r
	b.server = httptest.NewServer(r)
	t.Cleanup(b.server.Close)
	return b
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// URL is the base URL to hand to api.New.
func (b *Backend) URL() string { return b.server.URL }

// Handle routes method+pattern to h. Patterns use chi syntax ("/api/chat/{id}").
func (b *Backend) Handle(method, pattern string, h http.HandlerFunc) {
	b.Router.MethodFunc(method, pattern, h)
}

// Reply routes method+pattern to a fixed JSON response.
func (b *Backend) Reply(method, pattern string, status int, body any) {
	b.Handle(method, pattern, func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, status, body)
	})
}

// Requests returns a copy of every request received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// Matching returns the requests with the given method and exact path.
func (b *Backend) Matching(method, path string) []Request {
	var out []Request
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Count returns how many requests hit method+path.
func (b *Backend) Count(method, path string) int {
	return len(b.Matching(method, path))
}

// Reset forgets recorded requests.
func (b *Backend) Reset() {
	b.mu.Lock()
	b.requests = nil
	b.mu.Unlock()
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
