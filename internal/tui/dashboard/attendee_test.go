package dashboard

import (
	"net/http"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quorix/quorix/internal/model"
	"github.com/quorix/quorix/internal/testutil"
)

// serveSession answers the lists an attendee mount polls, chat aside.
func serveSession(h *harness, questions []model.Question) {
	h.backend.Reply(http.MethodGet, "/api/events", http.StatusOK, []model.Event{{SessionID: "s1", Title: "GopherCon"}})
	h.backend.Reply(http.MethodGet, "/api/questions/{id}", http.StatusOK, questions)
	h.backend.Reply(http.MethodGet, "/api/session/{id}", http.StatusOK, model.Event{SessionID: "s1", Title: "GopherCon"})
}

func serveEmptyChat(h *harness) {
	h.backend.Reply(http.MethodGet, "/api/chat/{id}", http.StatusOK, []model.ChatMessage{})
}

func TestAttendeeEmptyQuestionIsRejectedLocally(t *testing.T) {
	h := newHarness(t)
	serveSession(h, nil)
	serveEmptyChat(h)
	h.signIn(attendee1)
	d := h.mount("/session/s1")

	h.press(d, rune1('i'))
	if !d.Capturing() {
		t.Fatal("question input did not take focus")
	}
	h.typeText(d, "   ")
	if cmd := h.press(d, key(tea.KeyEnter)); cmd != nil {
		t.Error("empty question produced a request")
	}

	assertView(t, d, "Question cannot be empty.")
	if n := h.backend.Count(http.MethodPost, "/questions"); n != 0 {
		t.Errorf("POST /questions sent %d times, want 0", n)
	}
}

func TestAttendeeSubmitQuestion(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "success",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				testutil.WriteJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
			},
			want: "Question submitted!",
		},
		{
			name: "server message",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				testutil.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "You are banned from this event."})
			},
			want: "You are banned from this event.",
		},
		{
			name: "server error without message",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			want: "Submission failed.",
		},
		{
			name: "network error",
			handler: func(http.ResponseWriter, *http.Request) {
				panic(http.ErrAbortHandler)
			},
			want: "Network error. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			serveSession(h, nil)
			serveEmptyChat(h)
			h.backend.Handle(http.MethodPost, "/questions", tt.handler)
			h.signIn(attendee1)
			d := h.mount("/session/s1")

			h.press(d, rune1('i'))
			h.typeText(d, "What is new in Go?")
			h.run(d, h.press(d, key(tea.KeyEnter)))

			assertView(t, d, tt.want)
			posts := h.backend.Matching(http.MethodPost, "/questions")
			if len(posts) != 1 {
				t.Fatalf("POST /questions sent %d times, want 1", len(posts))
			}
			var body map[string]string
			posts[0].JSON(t, &body)
			if body["question"] != "What is new in Go?" || body["session_id"] != "s1" || body["user_id"] != "u1" {
				t.Errorf("body = %v", body)
			}
		})
	}
}

func TestAttendeeQuestionsNewestFirst(t *testing.T) {
	h := newHarness(t)
	older, _ := model.ParseTimestamp("2024-05-01T10:00:00Z")
	newer, _ := model.ParseTimestamp("2024-05-01T11:00:00Z")
	serveSession(h, []model.Question{
		{ID: "1", Text: "older question", Timestamp: older},
		{ID: "2", Text: "newer question", Timestamp: newer},
	})
	serveEmptyChat(h)
	h.signIn(attendee1)
	d := h.mount("/session/s1")
	h.waitView(d, "older question")

	a := d.(*attendee)
	if a.questions[0].Text != "newer question" {
		t.Errorf("first question = %q, want the newest", a.questions[0].Text)
	}
}

// Posting to the chat refetches the whole list rather than appending
// locally.
func TestAttendeeChatPostRefetches(t *testing.T) {
	h := newHarness(t)
	serveSession(h, nil)

	var mu sync.Mutex
	var chat []model.ChatMessage
	h.backend.Handle(http.MethodGet, "/api/chat/{id}", func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		testutil.WriteJSON(w, http.StatusOK, chat)
	})
	h.backend.Handle(http.MethodPost, "/api/chat/{id}", func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		chat = append(chat, model.ChatMessage{ID: "c1", UserID: "u1", Text: "hello everyone"})
		mu.Unlock()
		testutil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	h.signIn(attendee1)
	d := h.mount("/session/s1")
	h.waitView(d, "No messages yet.")
	h.settle(d)
	before := h.backend.Count(http.MethodGet, "/api/chat/s1")

	h.press(d, rune1('c'))
	h.typeText(d, "hello everyone")
	h.run(d, h.press(d, key(tea.KeyEnter)))

	if n := h.backend.Count(http.MethodPost, "/api/chat/s1"); n != 1 {
		t.Fatalf("POST /api/chat/s1 sent %d times, want 1", n)
	}
	h.waitView(d, "hello everyone")
	if after := h.backend.Count(http.MethodGet, "/api/chat/s1"); after != before+1 {
		t.Errorf("chat fetched %d times after posting, want 1", after-before)
	}
	assertView(t, d, "You")
}

// A poll fetch that started before the post and answers after the post's
// refetch must not bring back the older list.
func TestAttendeeChatRefetchWinsOverOlderPoll(t *testing.T) {
	h := newHarness(t)
	serveSession(h, nil)

	var mu sync.Mutex
	var chat []model.ChatMessage
	var gate chan struct{}
	h.backend.Handle(http.MethodGet, "/api/chat/{id}", func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		snapshot := append([]model.ChatMessage(nil), chat...)
		g := gate
		gate = nil
		mu.Unlock()
		if g != nil {
			<-g
		}
		testutil.WriteJSON(w, http.StatusOK, snapshot)
	})
	h.backend.Handle(http.MethodPost, "/api/chat/{id}", func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		chat = append(chat, model.ChatMessage{ID: "c1", UserID: "u1", Text: "hello everyone"})
		mu.Unlock()
		testutil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	h.signIn(attendee1)
	d := h.mount("/session/s1")
	h.waitView(d, "No messages yet.")
	h.settle(d)

	held := make(chan struct{})
	mu.Lock()
	gate = held
	mu.Unlock()
	before := h.backend.Count(http.MethodGet, "/api/chat/s1")
	d.(*attendee).chatSrc.Refresh()
	deadline := time.Now().Add(3 * time.Second)
	for h.backend.Count(http.MethodGet, "/api/chat/s1") == before {
		if time.Now().After(deadline) {
			t.Fatal("held chat fetch never reached the backend")
		}
		time.Sleep(5 * time.Millisecond)
	}

	h.press(d, rune1('c'))
	h.typeText(d, "hello everyone")
	h.run(d, h.press(d, key(tea.KeyEnter)))
	h.waitView(d, "hello everyone")

	close(held)
	h.settle(d)
	assertView(t, d, "hello everyone")
	assertNoView(t, d, "No messages yet.")
}

func TestAttendeeChatPostFailure(t *testing.T) {
	h := newHarness(t)
	serveSession(h, nil)
	serveEmptyChat(h)
	h.backend.Reply(http.MethodPost, "/api/chat/{id}", http.StatusInternalServerError, nil)
	h.signIn(attendee1)
	d := h.mount("/session/s1")

	h.press(d, rune1('c'))
	h.typeText(d, "hi")
	h.run(d, h.press(d, key(tea.KeyEnter)))

	assertView(t, d, "Failed to send message.")
}

func TestAttendeeWithoutSessionPicksEvent(t *testing.T) {
	h := newHarness(t)
	serveSession(h, nil)
	serveEmptyChat(h)
	h.signIn(attendee1)
	d := h.mount("/")
	h.waitView(d, "GopherCon")

	h.run(d, h.press(d, key(tea.KeyEnter)))
	if got := h.lastNavigation(); got != "/session/s1" {
		t.Errorf("navigated to %q, want /session/s1", got)
	}
}
