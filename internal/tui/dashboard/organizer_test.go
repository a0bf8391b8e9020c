package dashboard

import (
	"net/http"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quorix/quorix/internal/errors"
	"github.com/quorix/quorix/internal/model"
	"github.com/quorix/quorix/internal/view"
)

func mountOrganizer(t *testing.T, roles []model.RoleAssignment) (*harness, Dashboard) {
	t.Helper()
	h := newHarness(t)
	serveModeration(h, []model.Question{{ID: "q1", Text: "Is there a recording?", Status: model.StatusPending}})
	h.backend.Reply(http.MethodGet, "/api/session/{id}", http.StatusOK, model.Event{SessionID: "s1", Title: "GopherCon", Description: "Talks about Go."})
	h.backend.Reply(http.MethodGet, "/api/organizer/event/{id}/roles", http.StatusOK, roles)
	h.backend.Reply(http.MethodGet, "/session_qr/{id}", http.StatusNotFound, nil)
	h.signIn(organizer1)
	d := h.mount("/organizer/s1")
	h.waitView(d, "Is there a recording?")
	return h, d
}

var eventRoles = []model.RoleAssignment{
	{UserID: "o1", Email: "org@example.com", Role: model.RoleOrganizer},
	{UserID: "m2", Email: "mod2@example.com", Role: model.RoleModerator},
}

func TestOrganizerShowsEventAndRoles(t *testing.T) {
	_, d := mountOrganizer(t, eventRoles)
	assertView(t, d,
		"Organizer Dashboard",
		"GopherCon",
		"Talks about Go.",
		"Manage Moderators & Speakers",
		"org@example.com",
		"mod2@example.com",
		"Pending Questions",
	)
	assertNoView(t, d, "Moderator Dashboard:")
}

func TestOrganizerCannotRemoveOrganizer(t *testing.T) {
	h, d := mountOrganizer(t, eventRoles)
	if cmd := h.press(d, rune1('-')); cmd != nil {
		t.Error("removing the organizer produced a request")
	}
	assertView(t, d, "Cannot remove the only organizer.")
}

func TestOrganizerRemoveRole(t *testing.T) {
	h, d := mountOrganizer(t, eventRoles)
	h.backend.Reply(http.MethodPost, "/api/organizer/event/{id}/remove_role", http.StatusOK, map[string]string{})

	h.press(d, rune1('j'))
	before := h.backend.Count(http.MethodGet, "/api/organizer/event/s1/roles")
	h.run(d, h.press(d, rune1('-')))

	reqs := h.backend.Matching(http.MethodPost, "/api/organizer/event/s1/remove_role")
	if len(reqs) != 1 {
		t.Fatalf("remove_role sent %d times, want 1", len(reqs))
	}
	var body map[string]string
	reqs[0].JSON(t, &body)
	if body["user_id"] != "m2" || body["role"] != "moderator" {
		t.Errorf("body = %v", body)
	}
	if after := h.backend.Count(http.MethodGet, "/api/organizer/event/s1/roles"); after != before+1 {
		t.Errorf("roles refetched %d times, want 1", after-before)
	}
	assertView(t, d, "Role removed.")
}

func TestOrganizerAddRole(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		cycles   int
		status   int
		want     string
		wantPost bool
	}{
		{name: "moderator", email: "new@example.com", status: http.StatusOK, want: "Role added for new@example.com.", wantPost: true},
		{name: "second organizer", email: "new@example.com", cycles: 2, want: "There is already an organizer for this event."},
		{name: "missing email", want: "Email is required."},
		{name: "backend refuses", email: "nobody@example.com", status: http.StatusNotFound, want: "Failed to add role.", wantPost: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, d := mountOrganizer(t, eventRoles)
			h.backend.Reply(http.MethodPost, "/api/organizer/event/{id}/add_role", tt.status, map[string]string{})

			h.press(d, rune1('+'))
			h.typeText(d, tt.email)
			h.press(d, key(tea.KeyTab))
			for i := 0; i < tt.cycles; i++ {
				h.press(d, key(tea.KeyRight))
			}
			h.run(d, h.press(d, key(tea.KeyEnter)))

			assertView(t, d, tt.want)
			n := h.backend.Count(http.MethodPost, "/api/organizer/event/s1/add_role")
			if tt.wantPost != (n == 1) {
				t.Errorf("add_role sent %d times, want post=%v", n, tt.wantPost)
			}
		})
	}
}

func TestOrganizerEditEvent(t *testing.T) {
	h, d := mountOrganizer(t, eventRoles)
	h.backend.Reply(http.MethodPost, "/api/organizer/event/{id}/edit", http.StatusOK, map[string]string{})

	h.press(d, rune1('e'))
	if !d.Capturing() {
		t.Fatal("edit form did not open")
	}
	h.press(d, key(tea.KeyEnd))
	h.typeText(d, " 2024")
	h.run(d, h.press(d, key(tea.KeyEnter)))

	reqs := h.backend.Matching(http.MethodPost, "/api/organizer/event/s1/edit")
	if len(reqs) != 1 {
		t.Fatalf("edit sent %d times, want 1", len(reqs))
	}
	var body model.EventEdit
	reqs[0].JSON(t, &body)
	if body.Title != "GopherCon 2024" || body.Description != "Talks about Go." {
		t.Errorf("body = %+v", body)
	}
	assertView(t, d, "Changes saved.")
}

func TestOrganizerSwitchesToModeration(t *testing.T) {
	h, d := mountOrganizer(t, eventRoles)
	h.backend.Reply(http.MethodPost, "/api/mod/question/q1/approve", http.StatusOK, map[string]string{})

	// 'a' means nothing to the organizer region.
	if cmd := h.press(d, rune1('a')); cmd != nil {
		t.Error("approve fired while the organizer region had focus")
	}
	h.press(d, key(tea.KeyCtrlO))
	h.run(d, h.press(d, rune1('a')))
	if n := h.backend.Count(http.MethodPost, "/api/mod/question/q1/approve"); n != 1 {
		t.Errorf("approve sent %d times, want 1", n)
	}

	h.press(d, key(tea.KeyCtrlO))
	if d.(*organizer).moderating {
		t.Error("ctrl+o did not return to the organizer region")
	}
}

func TestOrganizerLoadErrors(t *testing.T) {
	h := newHarness(t)
	serveModeration(h, nil)
	h.backend.Reply(http.MethodGet, "/api/session/{id}", http.StatusInternalServerError, nil)
	h.backend.Reply(http.MethodGet, "/api/organizer/event/{id}/roles", http.StatusInternalServerError, nil)
	h.backend.Reply(http.MethodGet, "/session_qr/{id}", http.StatusNotFound, nil)
	h.signIn(organizer1)
	d := h.mount("/organizer/s1")
	assertView(t, d, "Could not load event metadata.", "Could not load event roles.")
}

func TestOrganizerAdmitsOneOrganizer(t *testing.T) {
	_, d := mountOrganizer(t, eventRoles)
	o := d.(*organizer)

	if err := o.admit(model.RoleOrganizer); !errors.Is(err, errors.ErrOrganizerExists) {
		t.Errorf("admit(organizer) = %v, want ErrOrganizerExists", err)
	}
	if err := o.admit(model.RoleSpeaker); err != nil {
		t.Errorf("admit(speaker) = %v", err)
	}

	o.roles = eventRoles[1:]
	if err := o.admit(model.RoleOrganizer); err != nil {
		t.Errorf("admit(organizer) without one = %v", err)
	}
}

func TestOrganizerRootSummaryPanel(t *testing.T) {
	h := newHarness(t)
	now := h.clock.Now()
	h.backend.Reply(http.MethodGet, "/api/mod/events", http.StatusOK, []model.Event{
		{SessionID: "s1", Title: "Past Talk", StartTime: model.Timestamp{Time: now.Add(-48 * time.Hour)}},
		{SessionID: "s2", Title: "Keynote", StartTime: model.Timestamp{Time: now.Add(72 * time.Hour)}},
		{SessionID: "s3", Title: "Lightning", StartTime: model.Timestamp{Time: now.Add(24 * time.Hour)}, Closed: true},
	})
	h.signIn(organizer1)

	tests := []struct {
		name   string
		panels []view.Panel
		want   bool
	}{
		{name: "with panel", panels: []view.Panel{view.PanelOrganizerSummary}, want: true},
		{name: "without panel"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := view.Resolution{Variant: view.Organizer, Role: model.RoleOrganizer, Panels: tt.panels}
			d := New(res, uint64(100+i), h.deps)
			t.Cleanup(d.Close)
			h.run(d, d.Init())
			h.waitView(d, "Keynote")

			if tt.want {
				assertView(t, d, "Overview", "3 events, 2 open", "next: Keynote (3 days from now)")
				return
			}
			assertNoView(t, d, "Overview", "events,")
		})
	}
}
