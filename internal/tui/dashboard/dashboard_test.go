package dashboard

import (
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quorix/quorix/internal/api"
	"github.com/quorix/quorix/internal/config"
	"github.com/quorix/quorix/internal/event"
	"github.com/quorix/quorix/internal/feed"
	"github.com/quorix/quorix/internal/model"
	"github.com/quorix/quorix/internal/state"
	tuimsg "github.com/quorix/quorix/internal/tui/msg"
	"github.com/quorix/quorix/internal/testutil"
)

const (
	viewWidth  = 160
	viewHeight = 50
)

// harness mounts dashboards against a fake backend and a fake clock.
type harness struct {
	t       *testing.T
	backend *testutil.Backend
	clock   *testutil.FakeClock
	store   *state.Store
	deps    Deps
	msgs    chan tea.Msg

	mu        sync.Mutex
	navigated []string
	mounts    uint64
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := testutil.NewBackend(t)
	c, err := api.New(b.URL())
	if err != nil {
		t.Fatal(err)
	}
	clock := testutil.NewFakeClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	h := &harness{
		t:       t,
		backend: b,
		clock:   clock,
		store:   state.New(nil, nil),
		msgs:    make(chan tea.Msg, 256),
	}
	h.deps = Deps{
		Client:  c,
		Store:   h.store,
		Feeds:   feed.Factory{Transport: config.TransportPoll, Clock: clock},
		Polling: config.Default().Polling,
		Now:     clock.Now,
		Send:    func(m tea.Msg) { h.msgs <- m },
	}
	return h
}

func (h *harness) signIn(id model.Identity) {
	h.store.Dispatch(state.SignIn{Identity: id})
}

// mount resolves route against the store and initializes the dashboard,
// running its init command.
func (h *harness) mount(route string) Dashboard {
	h.t.Helper()
	d := h.mountOnly(route)
	h.run(d, d.Init())
	return d
}

// mountOnly resolves and builds without running Init.
func (h *harness) mountOnly(route string) Dashboard {
	h.t.Helper()
	h.store.Dispatch(state.Navigate{Route: route})
	h.mounts++
	d := New(h.store.Resolve(), h.mounts, h.deps)
	h.t.Cleanup(d.Close)
	return d
}

// exec runs cmd and returns the messages it produced, expanding batches.
func (h *harness) exec(cmd tea.Cmd) []tea.Msg {
	h.t.Helper()
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(2 * time.Second):
		h.t.Fatal("command did not return")
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, h.exec(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// run executes cmd and feeds what it produced back into d, following the
// commands d returns. Navigation is recorded; ticks and anything not
// addressed to a dashboard (cursor blinks) are dropped.
func (h *harness) run(d Dashboard, cmd tea.Cmd) {
	h.t.Helper()
	for _, msg := range h.exec(cmd) {
		switch m := msg.(type) {
		case tuimsg.TickMsg:
			continue
		case tuimsg.NavigateMsg:
			h.mu.Lock()
			h.navigated = append(h.navigated, m.Route)
			h.mu.Unlock()
		case tuimsg.Mounted:
			h.run(d, d.Update(m))
		}
	}
}

// press sends one key and returns the command the dashboard answered with,
// without running it.
func (h *harness) press(d Dashboard, k tea.KeyMsg) tea.Cmd {
	return d.Update(k)
}

// typeText sends s one rune at a time.
func (h *harness) typeText(d Dashboard, s string) {
	for _, r := range s {
		d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// waitFor delivers feed messages to d until cond holds.
func (h *harness) waitFor(d Dashboard, what string, cond func() bool) {
	h.t.Helper()
	deadline := time.After(3 * time.Second)
	for !cond() {
		select {
		case m := <-h.msgs:
			h.run(d, d.Update(m))
		case <-deadline:
			h.t.Fatalf("timed out waiting for %s; view:\n%s", what, d.View(viewWidth, viewHeight))
		}
	}
}

// waitView waits until the view contains want.
func (h *harness) waitView(d Dashboard, want string) {
	h.t.Helper()
	h.waitFor(d, strings.TrimSpace(want), func() bool {
		return strings.Contains(d.View(viewWidth, viewHeight), want)
	})
}

// settle delivers whatever is already queued.
func (h *harness) settle(d Dashboard) {
	h.t.Helper()
	for {
		select {
		case m := <-h.msgs:
			h.run(d, d.Update(m))
		case <-time.After(100 * time.Millisecond):
			return
		}
	}
}

func (h *harness) lastNavigation() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.navigated) == 0 {
		return ""
	}
	return h.navigated[len(h.navigated)-1]
}

func rune1(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func assertView(t *testing.T, d Dashboard, want ...string) {
	t.Helper()
	v := d.View(viewWidth, viewHeight)
	for _, w := range want {
		if !strings.Contains(v, w) {
			t.Errorf("view does not contain %q:\n%s", w, v)
		}
	}
}

func assertNoView(t *testing.T, d Dashboard, unwanted ...string) {
	t.Helper()
	v := d.View(viewWidth, viewHeight)
	for _, w := range unwanted {
		if strings.Contains(v, w) {
			t.Errorf("view unexpectedly contains %q:\n%s", w, v)
		}
	}
}

var (
	attendee1  = model.Identity{UserID: "u1", Email: "ada@example.com", Name: "Ada", Role: model.RoleAttendee}
	moderator1 = model.Identity{UserID: "m1", Email: "mod@example.com", Role: model.RoleModerator}
	organizer1 = model.Identity{UserID: "o1", Email: "org@example.com", Role: model.RoleOrganizer}
	admin1     = model.Identity{UserID: "a1", Email: "root@example.com", Role: model.RoleAdmin}
)

func TestNewPicksDashboardPerVariant(t *testing.T) {
	tests := []struct {
		name     string
		identity *model.Identity
		route    string
		want     any
	}{
		{name: "anonymous root", route: "/", want: &landing{}},
		{name: "login required", route: "/session/s1", want: &landing{}},
		{name: "event landing", route: "/event/demo", want: &eventLanding{}},
		{name: "attendee", identity: &attendee1, route: "/session/s1", want: &attendee{}},
		{name: "moderator", identity: &moderator1, route: "/moderator/s1", want: &moderator{}},
		{name: "organizer root", identity: &organizer1, route: "/", want: &organizer{}},
		{name: "speaker", route: "/speaker/s1", want: &speaker{}},
		{name: "speaker embed", route: "/speaker/s1/embed", want: &embed{}},
		{name: "audience", route: "/audience/s1", want: &audience{}},
		{name: "admin root", identity: &admin1, route: "/", want: &admin{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if tt.identity != nil {
				h.signIn(*tt.identity)
			}
			d := h.mountOnly(tt.route)
			if got, want := typeName(d), typeName(tt.want); got != want {
				t.Errorf("New() = %s, want %s", got, want)
			}
		})
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *landing:
		return "landing"
	case *eventLanding:
		return "eventLanding"
	case *attendee:
		return "attendee"
	case *moderator:
		return "moderator"
	case *organizer:
		return "organizer"
	case *speaker:
		return "speaker"
	case *embed:
		return "embed"
	case *audience:
		return "audience"
	case *admin:
		return "admin"
	}
	return "unknown"
}

func TestCloseStopsEveryFeedOnce(t *testing.T) {
	h := newHarness(t)
	h.backend.Reply(http.MethodGet, "/api/events", http.StatusOK, []model.Event{})
	h.backend.Reply(http.MethodGet, "/api/questions/{id}", http.StatusOK, []model.Question{})
	h.backend.Reply(http.MethodGet, "/api/chat/{id}", http.StatusOK, []model.ChatMessage{})
	h.backend.Reply(http.MethodGet, "/api/session/{id}", http.StatusOK, model.Event{SessionID: "s1"})
	h.signIn(attendee1)

	d := h.mount("/session/s1")
	if got := h.clock.Live(); got != 3 {
		t.Fatalf("Live() = %d after mount, want 3", got)
	}

	d.Close()
	d.Close()
	if got := h.clock.Live(); got != 0 {
		t.Errorf("Live() = %d after Close, want 0", got)
	}
	if got := h.clock.Stops(); got != 3 {
		t.Errorf("Stops() = %d, want each ticker stopped exactly once", got)
	}

	h.settle(d)
	before := h.backend.Count(http.MethodGet, "/api/questions/s1")
	h.clock.Advance(time.Minute)
	time.Sleep(50 * time.Millisecond)
	if after := h.backend.Count(http.MethodGet, "/api/questions/s1"); after != before {
		t.Errorf("questions fetched %d times after Close", after-before)
	}
}

func TestUnauthorizedIsTerminal(t *testing.T) {
	h := newHarness(t)
	h.backend.Reply(http.MethodGet, "/api/mod/questions/{id}", http.StatusUnauthorized, map[string]string{"error": "login required"})
	h.backend.Reply(http.MethodGet, "/api/mod/questions/synthesized/{id}", http.StatusOK, []model.SynthesizedQuestion{})
	h.backend.Reply(http.MethodGet, "/api/chat/{id}", http.StatusOK, []model.ChatMessage{})
	h.backend.Reply(http.MethodGet, "/api/mod/links/{id}", http.StatusOK, []model.Link{})
	h.signIn(admin1)

	var got []event.Event
	var mu sync.Mutex
	h.store.Bus().Subscribe(event.TypeUnauthorized, func(e event.Event) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	})

	d := h.mount("/moderator/s1")
	h.waitView(d, "Unauthorized")

	if live := h.clock.Live(); live != 0 {
		t.Errorf("Live() = %d, want polling stopped", live)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("published %d unauthorized events, want 1", len(got))
	}
	if ev := got[0].(event.UnauthorizedEvent); ev.View != "moderator" {
		t.Errorf("View = %q, want moderator", ev.View)
	}
}

func TestStaleFeedMessagesCarryTheirMount(t *testing.T) {
	h := newHarness(t)
	h.backend.Reply(http.MethodGet, "/api/speaker/questions/{id}", http.StatusOK, []model.Question{{ID: "q1", Text: "Why?"}})

	first := h.mount("/speaker/s1")
	second := h.mount("/speaker/s1")
	seen := map[uint64]bool{}
	deadline := time.After(2 * time.Second)
	for len(seen) < 2 {
		select {
		case m := <-h.msgs:
			if mm, ok := m.(tuimsg.Mounted); ok {
				seen[mm.MountID()] = true
			}
		case <-deadline:
			t.Fatalf("saw mounts %v, want 1 and 2", seen)
		}
	}
	first.Close()
	second.Close()
	if !seen[1] || !seen[2] {
		t.Errorf("saw mounts %v, want 1 and 2", seen)
	}
}
