package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/quorix/quorix/internal/errors"
	"github.com/quorix/quorix/internal/model"
	"github.com/quorix/quorix/internal/testutil"
)

func newTestClient(t *testing.T, b *testutil.Backend, opts ...Option) *Client {
	t.Helper()
	c, err := New(b.URL(), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "/api", "localhost:5000", "::"} {
		if _, err := New(u); err == nil {
			t.Errorf("New(%q) should fail", u)
		}
	}
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Reply(http.MethodGet, "/api/mod/questions/unauth", http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	b.Reply(http.MethodGet, "/api/mod/questions/forbidden", http.StatusForbidden, map[string]string{"error": "forbidden"})
	b.Reply(http.MethodGet, "/api/mod/questions/busy", http.StatusTooManyRequests, map[string]string{"error": "Rate limit exceeded"})
	b.Handle(http.MethodGet, "/api/mod/questions/html", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>boom</html>"))
	})
	c := newTestClient(t, b)
	ctx := context.Background()

	tests := []struct {
		session  string
		sentinel error
		status   int
		message  string
	}{
		{"unauth", errors.ErrUnauthorized, 401, "unauthorized"},
		{"forbidden", errors.ErrForbidden, 403, "forbidden"},
		{"missing", errors.ErrNotFound, 404, "not found"},
		{"busy", errors.ErrRateLimited, 429, "Rate limit exceeded"},
		{"html", errors.ErrServer, 500, ""},
	}

	for _, tt := range tests {
		t.Run(tt.session, func(t *testing.T) {
			_, err := c.ModQuestions(ctx, tt.session)
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("error = %v, want %v", err, tt.sentinel)
			}
			var apiErr *errors.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error %T is not *APIError", err)
			}
			if apiErr.Status != tt.status {
				t.Errorf("Status = %d, want %d", apiErr.Status, tt.status)
			}
			if apiErr.ServerMessage != tt.message {
				t.Errorf("ServerMessage = %q, want %q", apiErr.ServerMessage, tt.message)
			}
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	c, err := New("http://127.0.0.1:1", WithTimeout(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Questions(context.Background(), "demo")
	if !errors.IsNetwork(err) {
		t.Fatalf("error = %v, want network error", err)
	}
	if errors.IsUnauthorized(err) {
		t.Error("network error must not look unauthorized")
	}
}

func TestClient_NonArrayListIsEmpty(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Reply(http.MethodGet, "/api/questions/{id}", http.StatusOK, map[string]string{"status": "weird"})
	b.Reply(http.MethodGet, "/api/chat/{id}", http.StatusOK, nil)
	c := newTestClient(t, b)

	qs, err := c.Questions(context.Background(), "demo")
	if err != nil {
		t.Fatalf("Questions() error = %v", err)
	}
	if qs == nil || len(qs) != 0 {
		t.Errorf("Questions() = %#v, want empty non-nil slice", qs)
	}

	msgs, err := c.Chat(context.Background(), "demo")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if msgs == nil || len(msgs) != 0 {
		t.Errorf("Chat() = %#v, want empty non-nil slice", msgs)
	}
}

func TestClient_SubmitQuestionBody(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Reply(http.MethodPost, "/questions", http.StatusCreated, map[string]bool{"success": true})
	c := newTestClient(t, b, WithToken("tok"))

	if err := c.SubmitQuestion(context.Background(), "u1", "demo", "Why Go?"); err != nil {
		t.Fatalf("SubmitQuestion() error = %v", err)
	}

	reqs := b.Matching(http.MethodPost, "/questions")
	if len(reqs) != 1 {
		t.Fatalf("got %d requests", len(reqs))
	}
	var body map[string]string
	reqs[0].JSON(t, &body)
	want := map[string]string{"user_id": "u1", "session_id": "demo", "question": "Why Go?"}
	for k, v := range want {
		if body[k] != v {
			t.Errorf("body[%s] = %q, want %q", k, body[k], v)
		}
	}
	if got := reqs[0].Header.Get("Authorization"); got != "Bearer tok" {
		t.Errorf("Authorization = %q", got)
	}
	if reqs[0].Header.Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestClient_ServerErrorMessage(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Reply(http.MethodPost, "/questions", http.StatusBadRequest, map[string]string{"error": "Question too long"})
	c := newTestClient(t, b)

	err := c.SubmitQuestion(context.Background(), "u1", "demo", "x")
	if got := errors.UserMessage(err, "Submission failed."); got != "Question too long" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestClient_MergeSendsNumericIDs(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Reply(http.MethodPost, "/api/mod/questions/merge", http.StatusOK, map[string]bool{"success": true})
	c := newTestClient(t, b)

	if err := c.Merge(context.Background(), []model.ID{"3", "9"}); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	req := b.Matching(http.MethodPost, "/api/mod/questions/merge")[0]
	if string(req.Body) != `{"ids":[3,9]}` {
		t.Errorf("body = %s", req.Body)
	}
}

func TestClient_Login(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Handle(http.MethodPost, "/login", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
		testutil.WriteJSON(w, http.StatusOK, map[string]string{"role": "Moderator", "user_id": "u7"})
	})
	c := newTestClient(t, b)

	id, err := c.Login(context.Background(), "mod@example.com", "DEMO")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if id.Role != model.RoleModerator || id.UserID != "u7" || id.Email != "mod@example.com" {
		t.Errorf("identity = %+v", id)
	}
	if len(c.Cookies()) != 1 {
		t.Errorf("expected the session cookie to be kept, got %v", c.Cookies())
	}

	var body map[string]string
	b.Matching(http.MethodPost, "/login")[0].JSON(t, &body)
	if body["session_code"] != "DEMO" {
		t.Errorf("session_code = %q", body["session_code"])
	}
}

func TestClient_Synthesize(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Reply(http.MethodPost, "/api/mod/questions/synthesize/obj", http.StatusOK, map[string]string{"summary": "Two themes."})
	b.Reply(http.MethodPost, "/api/mod/questions/synthesize/str", http.StatusOK, "Bare summary")
	b.Reply(http.MethodPost, "/api/mod/questions/synthesize/none", http.StatusOK, map[string]string{"status": "ok"})
	c := newTestClient(t, b)
	ctx := context.Background()

	tests := map[string]string{"obj": "Two themes.", "str": "Bare summary", "none": ""}
	for session, want := range tests {
		res, err := c.Synthesize(ctx, session)
		if err != nil {
			t.Fatalf("Synthesize(%s) error = %v", session, err)
		}
		if res.Summary != want {
			t.Errorf("Synthesize(%s) = %q, want %q", session, res.Summary, want)
		}
	}
}

func TestClient_RateLimitMutations(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Reply(http.MethodPost, "/api/mod/question/{id}/{action}", http.StatusOK, nil)
	b.Reply(http.MethodGet, "/api/questions/{id}", http.StatusOK, []any{})
	c := newTestClient(t, b, WithRateLimit(0.001, 2))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := c.ModerateQuestion(ctx, "1", ActionApprove); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}
	if err := c.ModerateQuestion(ctx, "1", ActionApprove); !errors.Is(err, errors.ErrRateLimited) {
		t.Errorf("third mutation error = %v, want rate limited", err)
	}
	if b.Count(http.MethodPost, "/api/mod/question/1/approve") != 2 {
		t.Error("throttled request must not reach the backend")
	}

	// Reads are never throttled.
	for i := 0; i < 5; i++ {
		if _, err := c.Questions(ctx, "demo"); err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
	}
}

func TestClient_AdminQuestionsFilter(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Reply(http.MethodGet, "/api/admin/questions", http.StatusOK, []map[string]any{
		{"id": 1, "text": "q", "status": "pending", "event_title": "Demo", "user_name": "Ada"},
	})
	c := newTestClient(t, b)

	qs, err := c.AdminQuestions(context.Background(), "demo day")
	if err != nil {
		t.Fatalf("AdminQuestions() error = %v", err)
	}
	if len(qs) != 1 || qs[0].EventLabel() != "Demo" {
		t.Errorf("AdminQuestions() = %+v", qs)
	}
	if q := b.Requests()[0].Query; q != "event_id=demo+day" {
		t.Errorf("query = %q", q)
	}
}

func TestClient_Ping(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Reply(http.MethodGet, "/api/ping", http.StatusOK, map[string]string{"message": "pong"})
	c := newTestClient(t, b)

	msg, err := c.Ping(context.Background())
	if err != nil || msg != "pong" {
		t.Errorf("Ping() = %q, %v", msg, err)
	}
}

func TestClient_Canceled(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Reply(http.MethodGet, "/api/events", http.StatusOK, []any{})
	c := newTestClient(t, b)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Events(ctx)
	if !errors.Is(err, errors.ErrCanceled) {
		t.Errorf("error = %v, want canceled", err)
	}
	if errors.IsNetwork(err) {
		t.Error("cancellation must not be reported as a network error")
	}
}
