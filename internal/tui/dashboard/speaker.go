package dashboard

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quorix/quorix/internal/model"
	"github.com/quorix/quorix/internal/presenter"
	"github.com/quorix/quorix/internal/tui/keymap"
	tuimsg "github.com/quorix/quorix/internal/tui/msg"
	"github.com/quorix/quorix/internal/tui/styles"
	"github.com/quorix/quorix/internal/view"
)

// slides holds the load state shared by the speaker view and its embed.
type slides struct {
	loaded bool
	err    string
}

func (s *slides) apply(b *base, err error) bool {
	if err != nil {
		if !b.fail("/api/speaker/questions", err) {
			s.err = "Could not load questions."
		}
		return false
	}
	s.loaded, s.err = true, ""
	return true
}

func watchSpeaker(b *base) {
	c, id := b.deps.Client, b.sessionID()
	watch(b, feedSpeaker, "/api/speaker/questions/"+id, b.deps.Polling.Speaker(), func(ctx context.Context) ([]model.Question, error) {
		return c.SpeakerQuestions(ctx, id)
	})
}

// speaker presents the approved questions of an event one at a time.
type speaker struct {
	*base
	events *picker
	deck   presenter.Deck
	state  slides
}

func newSpeaker(b *base) *speaker {
	return &speaker{base: b, events: &picker{title: "Speaker View", target: view.RouteSpeaker}}
}

func (s *speaker) Init() tea.Cmd {
	if s.sessionID() == "" {
		watch(s.base, feedEvents, "/api/events", s.deps.Polling.Events(), s.deps.Client.Events)
	} else {
		watchSpeaker(s.base)
	}
	s.group.Start()
	return nil
}

func (s *speaker) Modes() []keymap.Mode {
	if s.sessionID() == "" {
		return []keymap.Mode{keymap.ModePicker, keymap.ModeGlobal}
	}
	return []keymap.Mode{keymap.ModeSpeaker, keymap.ModeGlobal}
}

func (s *speaker) Capturing() bool { return false }

func (s *speaker) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tuimsg.FeedMsg[model.Event]:
		if msg.Err == nil || !s.fail("/api/events", msg.Err) {
			s.events.apply(msg.Items, msg.Err)
		}
	case tuimsg.FeedMsg[model.Question]:
		if s.state.apply(s.base, msg.Err) {
			s.deck.Replace(msg.Items)
		}
	case tea.KeyMsg:
		if s.unauthorized {
			return nil
		}
		if s.sessionID() == "" {
			return s.events.update(keyFor(msg, keymap.ModePicker))
		}
		switch keyFor(msg, keymap.ModeSpeaker) {
		case keymap.CmdNext:
			s.deck.Next()
		case keymap.CmdPrev:
			s.deck.Prev()
		case keymap.CmdDismiss:
			s.deck.Dismiss()
		}
	}
	return nil
}

func (s *speaker) View(width, height int) string {
	switch {
	case s.unauthorized:
		return unauthorizedView()
	case s.sessionID() == "":
		return styles.Title.Render("Speaker View") + "\n" + s.events.view(width, true)
	}
	body := slideView(&s.deck, s.state, width)
	if !s.state.loaded || s.deck.Empty() {
		return body
	}
	return body + "\n" + navView(&s.deck)
}

// embed is the speaker view for unattended display: controls hide after a
// few seconds without input, and the deck can advance on a timer.
type embed struct {
	*base
	deck  *presenter.Embed
	state slides
}

func newEmbed(b *base) *embed {
	opts := presenter.ParseEmbedOptions(b.res.Route)
	return &embed{base: b, deck: presenter.NewEmbed(opts, b.now())}
}

func (e *embed) Init() tea.Cmd {
	watchSpeaker(e.base)
	e.group.Start()
	return tuimsg.Tick(e.scope)
}

func (e *embed) Modes() []keymap.Mode {
	return []keymap.Mode{keymap.ModeSpeaker, keymap.ModeGlobal}
}

func (e *embed) Capturing() bool { return false }

func (e *embed) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tuimsg.TickMsg:
		if e.unauthorized {
			return nil
		}
		e.deck.Tick(e.now())
		return tuimsg.Tick(e.scope)
	case tuimsg.FeedMsg[model.Question]:
		if e.state.apply(e.base, msg.Err) {
			e.deck.Replace(msg.Items, e.now())
		}
	case tea.KeyMsg:
		if e.unauthorized {
			return nil
		}
		now := e.now()
		e.deck.Activity(now)
		switch keyFor(msg, keymap.ModeSpeaker) {
		case keymap.CmdNext:
			e.deck.Next(now)
		case keymap.CmdPrev:
			e.deck.Prev(now)
		case keymap.CmdDismiss:
			e.deck.Dismiss(now)
		}
	}
	return nil
}

func (e *embed) View(width, height int) string {
	if e.unauthorized {
		return unauthorizedView()
	}
	body := slideView(&e.deck.Deck, e.state, width)
	if !e.state.loaded || e.deck.Empty() || !e.deck.ControlsVisible(e.now()) {
		return body
	}
	return body + "\n" + navView(&e.deck.Deck)
}

func slideView(d *presenter.Deck, st slides, width int) string {
	switch {
	case st.err != "":
		return styles.ErrorMsg.Render(st.err)
	case !st.loaded:
		return styles.Muted.Render("Loading...")
	}
	q, ok := d.Current()
	if !ok {
		return styles.Slide.Render(styles.Muted.Render(presenter.EmptyText))
	}
	w := min(max(width-12, 20), 100)
	text := styles.SlideText.Width(w).Align(lipgloss.Center).Render(q.Text)
	if who := q.User.DisplayName(); who != "" {
		text += "\n\n" + styles.Muted.Render("Asked by "+who)
	}
	return styles.Slide.Render(text) + "\n" + styles.Position.Render(d.Position())
}

func navView(d *presenter.Deck) string {
	var parts []string
	if d.HasPrev() {
		parts = append(parts, "← prev")
	}
	parts = append(parts, "d dismiss")
	if d.HasNext() {
		parts = append(parts, "next →")
	}
	return styles.HelpBar.Render(strings.Join(parts, "   "))
}
