package dashboard

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quorix/quorix/internal/errors"
	"github.com/quorix/quorix/internal/model"
	"github.com/quorix/quorix/internal/tui/keymap"
	tuimsg "github.com/quorix/quorix/internal/tui/msg"
	"github.com/quorix/quorix/internal/tui/styles"
	"github.com/quorix/quorix/internal/view"
)

// eventLanding is the public page of one event, addressed by its code.
type eventLanding struct {
	*base
	event  *model.Event
	loaded bool
	err    string
}

func newEventLanding(b *base) *eventLanding { return &eventLanding{base: b} }

func (e *eventLanding) Init() tea.Cmd {
	return tuimsg.LoadEvent(e.ctx, e.scope, e.deps.Client, e.sessionID())
}

func (e *eventLanding) Modes() []keymap.Mode {
	return []keymap.Mode{keymap.ModeLanding, keymap.ModeGlobal}
}

func (e *eventLanding) Capturing() bool { return false }

func (e *eventLanding) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tuimsg.EventMsg:
		e.loaded = true
		switch {
		case errors.Is(msg.Err, errors.ErrNotFound):
			e.err = "Event not found."
		case msg.Err != nil:
			e.err = "Could not load event details."
		default:
			e.event, e.err = msg.Event, ""
		}
	case tea.KeyMsg:
		if keyFor(msg, keymap.ModeLanding) == keymap.CmdOpen && e.event != nil {
			return tuimsg.Navigate(view.SessionRoute(view.RouteSession, e.event.Key()))
		}
	}
	return nil
}

func (e *eventLanding) View(width, height int) string {
	switch {
	case !e.loaded:
		return styles.Muted.Render("Loading event...")
	case e.err != "":
		return styles.ErrorMsg.Render(e.err)
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(e.event.DisplayTitle()))
	b.WriteString("\n")
	if !e.event.StartTime.IsZero() {
		b.WriteString(styles.Muted.Render("Date: " + e.event.StartTime.Local().Format("Mon Jan 2 2006 15:04")))
		b.WriteString("\n")
	}
	if e.event.Description != "" {
		b.WriteString("\n")
		b.WriteString(styles.Text.Width(max(width-4, 20)).Render(e.event.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("Press a to join this event."))
	return b.String()
}
