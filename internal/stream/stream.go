// Package stream is the push alternative to polling. A Source holds a
// websocket open against the backend and forwards every frame, a complete
// JSON array snapshot, to the same OnData/OnError callbacks a poller uses.
//
// Like a poller, a Source never gives up on errors: a failed dial or a dropped
// connection is reported through OnError and retried after the reconnect
// delay. Stop closes the connection exactly once and, once it returns, no
// callback runs again.
package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sourcegraph/conc"

	"github.com/quorix/quorix/internal/errors"
	"github.com/quorix/quorix/internal/logging"
)

// DefaultReconnect is the redial delay when Config.Reconnect is zero.
const DefaultReconnect = 3 * time.Second

// Config describes one streamed resource.
type Config[T any] struct {
	// BaseURL is the backend's http(s) base URL.
	BaseURL string
	// Path is the REST path of the resource; the socket lives at /ws<Path>.
	Path string
	// Fetch, when set, serves Refresh with a one-off REST snapshot.
	Fetch func(ctx context.Context) ([]T, error)

	OnData  func([]T)
	OnError func(error)

	Reconnect time.Duration
	Dialer    *websocket.Dialer
	Header    http.Header
	Logger    *logging.Logger
}

// Source is a websocket subscription.
type Source[T any] struct {
	cfg Config[T]
	url string

	mu      sync.Mutex
	started bool
	stopped bool
	conn    *websocket.Conn
	ctx     context.Context
	cancel  context.CancelFunc
	closes  int

	deliver sync.Mutex
	wg      conc.WaitGroup
}

// New creates a Source. It does nothing until Start.
func New[T any](cfg Config[T]) (*Source[T], error) {
	u, err := SocketURL(cfg.BaseURL, cfg.Path)
	if err != nil {
		return nil, err
	}
	if cfg.Reconnect <= 0 {
		cfg.Reconnect = DefaultReconnect
	}
	if cfg.Dialer == nil {
		cfg.Dialer = websocket.DefaultDialer
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NopLogger()
	}
	if cfg.OnData == nil {
		cfg.OnData = func([]T) {}
	}
	if cfg.OnError == nil {
		cfg.OnError = func(error) {}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Source[T]{cfg: cfg, url: u, ctx: ctx, cancel: cancel}, nil
}

// SocketURL maps an http(s) base URL and a resource path onto the matching
// ws(s) endpoint: http://host:5000 + /api/chat/7 -> ws://host:5000/ws/api/chat/7.
func SocketURL(base, path string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid base url %q: unsupported scheme", base)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws" + path
	return u.String(), nil
}

// URL returns the socket endpoint.
func (s *Source[T]) URL() string { return s.url }

// Start begins the dial/read loop. Calling it twice, or after Stop, does
// nothing.
func (s *Source[T]) Start() {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.cfg.Logger.Debug("stream started", "url", s.url)
	s.wg.Go(s.run)
}

// Refresh fetches one snapshot over REST when a Fetch was configured.
func (s *Source[T]) Refresh() {
	if s.cfg.Fetch == nil {
		return
	}
	s.mu.Lock()
	live := s.started && !s.stopped
	s.mu.Unlock()
	if !live {
		return
	}
	s.wg.Go(func() {
		data, err := s.cfg.Fetch(s.ctx)
		s.emit(data, err)
	})
}

// Stop closes the connection exactly once and waits out a running callback.
func (s *Source[T]) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	s.cancel()
	if conn != nil {
		s.closeConn(conn)
	}

	s.deliver.Lock()
	s.deliver.Unlock()
	s.cfg.Logger.Debug("stream stopped", "url", s.url)
}

// Wait blocks until the read loop has returned.
func (s *Source[T]) Wait() { s.wg.Wait() }

// Closes reports how many connections Stop or a read failure closed.
func (s *Source[T]) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

func (s *Source[T]) run() {
	for {
		conn, _, err := s.cfg.Dialer.DialContext(s.ctx, s.url, s.cfg.Header)
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}
			nerr := errors.NewNetworkError(http.MethodGet, s.url, err)
			s.cfg.Logger.Failure("stream dial failed", nerr, "url", s.url)
			s.emit(nil, nerr)
		} else if s.adopt(conn) {
			s.read(conn)
		} else {
			return
		}

		timer := time.NewTimer(s.cfg.Reconnect)
		select {
		case <-s.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// adopt records conn as current unless Stop already ran.
func (s *Source[T]) adopt(conn *websocket.Conn) bool {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		s.closeConn(conn)
		return false
	}
	s.conn = conn
	s.mu.Unlock()
	return true
}

func (s *Source[T]) read(conn *websocket.Conn) {
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			owned := s.conn == conn
			if owned {
				s.conn = nil
			}
			s.mu.Unlock()
			if !owned {
				return // Stop closed it
			}
			s.closeConn(conn)
			nerr := errors.NewNetworkError(http.MethodGet, s.url, err)
			s.cfg.Logger.Failure("stream read failed", nerr, "url", s.url)
			s.emit(nil, nerr)
			return
		}
		data, err := decodeFrame[T](frame)
		s.emit(data, err)
	}
}

func (s *Source[T]) closeConn(conn *websocket.Conn) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	_ = conn.Close()
	s.mu.Lock()
	s.closes++
	s.mu.Unlock()
}

func (s *Source[T]) emit(data []T, err error) {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return
	}
	if err != nil {
		s.cfg.OnError(err)
		return
	}
	s.cfg.OnData(data)
}

// decodeFrame treats a frame that is not a JSON array as an empty snapshot,
// matching how list endpoints are read over REST.
func decodeFrame[T any](frame []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(frame)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, errors.Join(errors.ErrDecode, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
