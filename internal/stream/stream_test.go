package stream

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quorix/quorix/internal/errors"
	"github.com/quorix/quorix/internal/model"
	"github.com/quorix/quorix/internal/testutil"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

func recv[T any](t *testing.T, ch <-chan T, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
		var zero T
		return zero
	}
}

func TestSocketURL(t *testing.T) {
	tests := []struct {
		base, path, want string
		wantErr          bool
	}{
		{"http://localhost:5000", "/api/chat/7", "ws://localhost:5000/ws/api/chat/7", false},
		{"https://q.example.com/", "api/questions/demo", "wss://q.example.com/ws/api/questions/demo", false},
		{"https://q.example.com/backend", "/api/mod/links/1", "wss://q.example.com/backend/ws/api/mod/links/1", false},
		{"ws://127.0.0.1:9", "/x", "ws://127.0.0.1:9/ws/x", false},
		{"ftp://host", "/x", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.base+tt.path, func(t *testing.T) {
			got, err := SocketURL(tt.base, tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SocketURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SocketURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeFrame(t *testing.T) {
	got, err := decodeFrame[model.Question]([]byte(`[{"id":1,"text":"hi","status":"approved"}]`))
	if err != nil || len(got) != 1 || got[0].Text != "hi" {
		t.Errorf("decodeFrame(array) = %+v, %v", got, err)
	}
	got, err = decodeFrame[model.Question]([]byte(`{"error":"nope"}`))
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("decodeFrame(object) = %#v, %v", got, err)
	}
	if _, err := decodeFrame[model.Question]([]byte(`[{"id":`)); !errors.Is(err, errors.ErrDecode) {
		t.Errorf("decodeFrame(broken) error = %v", err)
	}
}

func TestSource_ForwardsSnapshots(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Handle(http.MethodGet, "/ws/api/questions/{id}", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`[{"id":1,"text":"a","status":"pending"}]`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`[{"id":1,"text":"a","status":"approved"},{"id":2,"text":"b","status":"pending"}]`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	data := make(chan []model.Question, 4)
	s, err := New(Config[model.Question]{
		BaseURL: b.URL(),
		Path:    "/api/questions/demo",
		OnData:  func(qs []model.Question) { data <- qs },
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	defer s.Stop()

	if got := recv(t, data, "first frame"); len(got) != 1 {
		t.Errorf("first frame = %+v", got)
	}
	if got := recv(t, data, "second frame"); len(got) != 2 || !got[0].Status.Approved() {
		t.Errorf("second frame = %+v", got)
	}
}

func TestSource_RedialsAfterDrop(t *testing.T) {
	b := testutil.NewBackend(t)
	var conns atomic.Int32
	b.Handle(http.MethodGet, "/ws/api/chat/{id}", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		n := conns.Add(1)
		if n == 1 {
			_ = conn.Close()
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`[{"id":5,"text":"hello"}]`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	errs := make(chan error, 4)
	data := make(chan []model.ChatMessage, 4)
	s, err := New(Config[model.ChatMessage]{
		BaseURL:   b.URL(),
		Path:      "/api/chat/7",
		Reconnect: 10 * time.Millisecond,
		OnData:    func(m []model.ChatMessage) { data <- m },
		OnError:   func(err error) { errs <- err },
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	defer s.Stop()

	if err := recv(t, errs, "drop error"); !errors.IsNetwork(err) {
		t.Errorf("drop error = %v, want network error", err)
	}
	if got := recv(t, data, "snapshot after redial"); len(got) != 1 || got[0].Text != "hello" {
		t.Errorf("snapshot = %+v", got)
	}
	if conns.Load() < 2 {
		t.Errorf("connections = %d, want a redial", conns.Load())
	}
}

func TestSource_StopClosesOnceAndSilences(t *testing.T) {
	b := testutil.NewBackend(t)
	connected := make(chan struct{}, 1)
	b.Handle(http.MethodGet, "/ws/api/mod/links/{id}", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		connected <- struct{}{}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	var updates atomic.Int32
	s, err := New(Config[model.Link]{
		BaseURL:   b.URL(),
		Path:      "/api/mod/links/demo",
		Reconnect: 10 * time.Millisecond,
		OnData:    func([]model.Link) { updates.Add(1) },
		OnError:   func(error) { updates.Add(1) },
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	recv(t, connected, "connection")

	// Give the loop time to adopt the connection before stopping.
	deadline := time.Now().Add(2 * time.Second)
	for {
		s.mu.Lock()
		adopted := s.conn != nil
		s.mu.Unlock()
		if adopted || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.Stop()
	s.Stop()
	s.Wait()

	if s.Closes() != 1 {
		t.Errorf("Closes() = %d, want 1", s.Closes())
	}
	if n := updates.Load(); n != 0 {
		t.Errorf("got %d callbacks, want none", n)
	}
}

func TestSource_RefreshUsesFetch(t *testing.T) {
	data := make(chan []model.Link, 2)
	s, err := New(Config[model.Link]{
		BaseURL:   "http://127.0.0.1:1",
		Path:      "/api/mod/links/demo",
		Reconnect: time.Hour,
		Fetch: func(context.Context) ([]model.Link, error) {
			return []model.Link{{URL: "https://example.com"}}, nil
		},
		OnData: func(l []model.Link) { data <- l },
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Refresh()
	select {
	case <-data:
		t.Fatal("Refresh before Start must not deliver")
	case <-time.After(50 * time.Millisecond):
	}

	s.Start()
	defer s.Stop()
	s.Refresh()
	if got := recv(t, data, "refreshed links"); len(got) != 1 {
		t.Errorf("links = %+v", got)
	}
}
