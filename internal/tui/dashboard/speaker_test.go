package dashboard

import (
	"net/http"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quorix/quorix/internal/model"
	"github.com/quorix/quorix/internal/presenter"
	tuimsg "github.com/quorix/quorix/internal/tui/msg"
)

var approved = []model.Question{
	{ID: "q1", Text: "How do you test this?", Status: model.StatusApproved},
	{ID: "q2", Text: "What comes next?", Status: model.StatusApproved},
}

func TestSpeakerNavigation(t *testing.T) {
	h := newHarness(t)
	h.backend.Reply(http.MethodGet, "/api/speaker/questions/{id}", http.StatusOK, approved)
	d := h.mountOnly("/speaker/s1")
	assertView(t, d, "Loading...")
	h.run(d, d.Init())
	h.waitView(d, "Question 1 of 2")

	h.press(d, key(tea.KeyLeft))
	assertView(t, d, "Question 1 of 2", "How do you test this?")

	h.press(d, key(tea.KeyRight))
	assertView(t, d, "Question 2 of 2", "What comes next?")
	h.press(d, rune1('n'))
	assertView(t, d, "Question 2 of 2")

	h.press(d, rune1('d'))
	assertView(t, d, "Question 1 of 1", "How do you test this?")
	h.press(d, rune1('d'))
	assertView(t, d, presenter.EmptyText)
	if n := h.backend.Count(http.MethodDelete, "/api/speaker/questions/s1"); n != 0 {
		t.Errorf("dismiss reached the backend %d times", n)
	}
}

func TestSpeakerLoadError(t *testing.T) {
	h := newHarness(t)
	h.backend.Reply(http.MethodGet, "/api/speaker/questions/{id}", http.StatusInternalServerError, nil)
	d := h.mount("/speaker/s1")
	h.waitView(d, "Could not load questions.")
}

// The embed advances on its own once a full interval of simulated time has
// passed.
func TestEmbedAutoAdvance(t *testing.T) {
	h := newHarness(t)
	h.backend.Reply(http.MethodGet, "/api/speaker/questions/{id}", http.StatusOK, approved)
	d := h.mountOnly("/speaker/s1/embed?autoAdvance=true&interval=1")
	d.Init()
	h.waitView(d, "Question 1 of 2")

	tick := func() { d.Update(tuimsg.TickMsg{Scope: tuimsg.Scope{Mount: h.mounts}, Time: h.clock.Now()}) }

	h.clock.Advance(500 * time.Millisecond)
	tick()
	assertView(t, d, "Question 1 of 2")

	h.clock.Advance(500 * time.Millisecond)
	tick()
	assertView(t, d, "Question 2 of 2", "What comes next?")

	h.clock.Advance(5 * time.Second)
	tick()
	assertView(t, d, "Question 2 of 2")
}

func TestEmbedWithoutAutoAdvanceStays(t *testing.T) {
	h := newHarness(t)
	h.backend.Reply(http.MethodGet, "/api/speaker/questions/{id}", http.StatusOK, approved)
	d := h.mountOnly("/speaker/s1/embed?interval=1")
	d.Init()
	h.waitView(d, "Question 1 of 2")

	h.clock.Advance(2 * time.Second)
	d.Update(tuimsg.TickMsg{Time: h.clock.Now()})
	assertView(t, d, "Question 1 of 2")
}

func TestEmbedControlsHide(t *testing.T) {
	h := newHarness(t)
	h.backend.Reply(http.MethodGet, "/api/speaker/questions/{id}", http.StatusOK, approved)
	d := h.mountOnly("/speaker/s1/embed")
	d.Init()
	h.waitView(d, "Question 1 of 2")
	assertView(t, d, "next →")

	h.clock.Advance(presenter.ControlsTimeout)
	assertNoView(t, d, "next →")

	h.press(d, rune1('x'))
	assertView(t, d, "next →")
}
