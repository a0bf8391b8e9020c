package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quorix/quorix/internal/errors"
	"github.com/quorix/quorix/internal/feed"
	"github.com/quorix/quorix/internal/model"
	"github.com/quorix/quorix/internal/tui/keymap"
	tuimsg "github.com/quorix/quorix/internal/tui/msg"
	"github.com/quorix/quorix/internal/tui/styles"
	"github.com/quorix/quorix/internal/view"
)

// Feed keys.
const (
	feedEvents      = "events"
	feedQuestions   = "questions"
	feedChat        = "chat"
	feedModQueue    = "mod_questions"
	feedSynthesized = "synthesized"
	feedLinks       = "links"
	feedRoles       = "roles"
	feedUsers       = "users"
	feedAdminEvents = "admin_events"
	feedAdminQs     = "admin_questions"
	feedSpeaker     = "speaker"
	feedAudience    = "audience"
)

// Action names.
const (
	actSubmit = "submit"
	actChat   = "chat"
)

type attendeePane int

const (
	paneAttendeeQuestions attendeePane = iota
	paneAttendeeChat
	paneAttendeeEvents
)

// chatList is the chat of one event as last fetched.
type chatList struct {
	messages []model.ChatMessage
	loaded   bool
	err      string
	cursor   int
}

func (c *chatList) apply(items []model.ChatMessage, err error) {
	if err != nil {
		c.err = "Could not load chat messages."
		return
	}
	c.loaded, c.err = true, ""
	c.messages = items
	c.cursor = clampCursor(c.cursor, len(items))
}

func (c *chatList) selected() (model.ChatMessage, bool) {
	if len(c.messages) == 0 {
		return model.ChatMessage{}, false
	}
	return c.messages[c.cursor], true
}

func (c *chatList) view(b *base, width int, focused bool) string {
	switch {
	case c.err != "":
		return styles.ErrorMsg.Render(c.err)
	case !c.loaded:
		return styles.Muted.Render("Loading chat...")
	case len(c.messages) == 0:
		return styles.Muted.Render("No messages yet.")
	}
	me := b.userID()
	rows := make([]string, len(c.messages))
	for i, m := range c.messages {
		who := "User " + m.UserID
		if me != "" && m.UserID == me {
			who = "You"
		}
		rows[i] = styles.Secondary.Render(who+":") + " " + m.Text
		if ts := b.formatTime(m.Timestamp); ts != "" {
			rows[i] += styles.Badge.Render("  " + ts)
		}
	}
	return strings.TrimRight(renderRows(rows, c.cursor, focused, width), "\n")
}

// attendee is the question form, question list and chat of one event, with
// the event list alongside. Without a session it is only the event list.
type attendee struct {
	*base

	events *picker
	event  *model.Event

	questions   []model.Question
	qLoaded     bool
	qErr        string
	qCursor     int
	questionSrc feed.Source
	chatSrc     feed.Source

	ask    textarea.Model
	asking bool
	notice notice

	chat      chatList
	chatIn    textinput.Model
	chatting  bool
	chatError string

	pane attendeePane
}

func newAttendee(b *base) *attendee {
	ask := textarea.New()
	ask.Placeholder = "Type your question..."
	ask.SetHeight(3)
	ask.ShowLineNumbers = false
	ask.CharLimit = 1000

	chatIn := textinput.New()
	chatIn.Placeholder = "Say something..."
	chatIn.CharLimit = 500

	a := &attendee{
		base:   b,
		events: &picker{title: "Events", target: view.RouteSession},
		ask:    ask,
		chatIn: chatIn,
	}
	if b.sessionID() == "" {
		a.pane = paneAttendeeEvents
	}
	return a
}

func (a *attendee) Init() tea.Cmd {
	c, id := a.deps.Client, a.sessionID()
	watch(a.base, feedEvents, "/api/events", a.deps.Polling.Events(), c.Events)
	if id == "" {
		a.group.Start()
		return nil
	}
	a.questionSrc = watch(a.base, feedQuestions, "/api/questions/"+id, a.deps.Polling.Questions(),
		func(ctx context.Context) ([]model.Question, error) { return c.Questions(ctx, id) })
	a.chatSrc = watch(a.base, feedChat, "/api/chat/"+id, a.deps.Polling.Chat(),
		func(ctx context.Context) ([]model.ChatMessage, error) { return c.Chat(ctx, id) })
	a.group.Start()
	return tuimsg.LoadEvent(a.ctx, a.scope, c, id)
}

func (a *attendee) Modes() []keymap.Mode {
	switch {
	case a.Capturing():
		return []keymap.Mode{keymap.ModeForm}
	case a.sessionID() == "":
		return []keymap.Mode{keymap.ModePicker, keymap.ModeGlobal}
	}
	return []keymap.Mode{keymap.ModeAttendee, keymap.ModeGlobal}
}

func (a *attendee) Capturing() bool { return a.asking || a.chatting }

func (a *attendee) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tuimsg.FeedMsg[model.Event]:
		a.events.apply(msg.Items, msg.Err)
	case tuimsg.FeedMsg[model.Question]:
		if msg.Err != nil {
			a.qErr = "Failed to load questions."
			return nil
		}
		model.SortNewestFirst(msg.Items)
		a.questions, a.qLoaded, a.qErr = msg.Items, true, ""
		a.qCursor = clampCursor(a.qCursor, len(a.questions))
	case tuimsg.FeedMsg[model.ChatMessage]:
		a.chat.apply(msg.Items, msg.Err)
	case tuimsg.EventMsg:
		if msg.Err == nil {
			a.event = msg.Event
		}
	case tuimsg.ActionMsg:
		return a.handleAction(msg)
	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return nil
}

func (a *attendee) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.asking {
		return a.updateAsk(msg)
	}
	if a.chatting {
		return a.updateChat(msg)
	}
	if a.sessionID() == "" {
		return a.events.update(keyFor(msg, keymap.ModePicker))
	}

	switch cmd := keyFor(msg, keymap.ModeAttendee); cmd {
	case keymap.CmdFocusInput:
		a.asking = true
		a.notice.clear()
		return a.ask.Focus()
	case keymap.CmdSwitchRegion:
		a.chatting, a.pane = true, paneAttendeeChat
		a.chatError = ""
		return a.chatIn.Focus()
	case keymap.CmdNextPane:
		a.pane = (a.pane + 1) % 3
	case keymap.CmdPrevPane:
		a.pane = (a.pane + 2) % 3
	case keymap.CmdRefresh:
		if a.questionSrc != nil {
			a.questionSrc.Refresh()
		}
	case keymap.CmdUp, keymap.CmdDown:
		delta := 1
		if cmd == keymap.CmdUp {
			delta = -1
		}
		switch a.pane {
		case paneAttendeeQuestions:
			a.qCursor = moveCursor(a.qCursor, delta, len(a.questions))
		case paneAttendeeChat:
			a.chat.cursor = moveCursor(a.chat.cursor, delta, len(a.chat.messages))
		default:
			return a.events.update(cmd)
		}
	case keymap.CmdOpen:
		if a.pane == paneAttendeeEvents {
			return a.events.update(cmd)
		}
	}
	return nil
}

func (a *attendee) updateAsk(msg tea.KeyMsg) tea.Cmd {
	switch keyFor(msg, keymap.ModeForm) {
	case keymap.CmdCancel:
		a.asking = false
		a.ask.Blur()
		return nil
	case keymap.CmdSubmit:
		return a.submitQuestion()
	}
	var cmd tea.Cmd
	a.ask, cmd = a.ask.Update(msg)
	return cmd
}

// submitQuestion validates locally; an empty question never reaches the
// backend.
func (a *attendee) submitQuestion() tea.Cmd {
	text := strings.TrimSpace(a.ask.Value())
	if text == "" {
		a.notice.failure("Question cannot be empty.")
		return nil
	}
	c, user, id := a.deps.Client, a.userID(), a.sessionID()
	return tuimsg.Do(a.ctx, a.scope, actSubmit, "", func(ctx context.Context) error {
		return c.SubmitQuestion(ctx, user, id, text)
	})
}

func (a *attendee) updateChat(msg tea.KeyMsg) tea.Cmd {
	switch keyFor(msg, keymap.ModeForm) {
	case keymap.CmdCancel:
		a.chatting = false
		a.chatIn.Blur()
		return nil
	case keymap.CmdSubmit:
		text := strings.TrimSpace(a.chatIn.Value())
		if text == "" {
			return nil
		}
		c, user, id := a.deps.Client, a.userID(), a.sessionID()
		return tuimsg.Do(a.ctx, a.scope, actChat, "", func(ctx context.Context) error {
			return c.PostChat(ctx, id, user, text)
		})
	}
	var cmd tea.Cmd
	a.chatIn, cmd = a.chatIn.Update(msg)
	return cmd
}

func (a *attendee) handleAction(msg tuimsg.ActionMsg) tea.Cmd {
	switch msg.Action {
	case actSubmit:
		switch {
		case msg.Err == nil:
			a.ask.Reset()
			a.asking = false
			a.ask.Blur()
			a.notice.success("Question submitted!")
			if a.questionSrc != nil {
				a.questionSrc.Refresh()
			}
		case errors.IsNetwork(msg.Err):
			a.notice.failure("Network error. Please try again.")
		default:
			a.notice.failure(actionError(msg.Err, "Submission failed."))
		}
	case actChat:
		if msg.Err != nil {
			a.chatError = actionError(msg.Err, "Failed to send message.")
			return nil
		}
		a.chatIn.Reset()
		a.chatError = ""
		// Through the source, so an older poll still in flight cannot land
		// after this snapshot.
		if a.chatSrc != nil {
			a.chatSrc.Refresh()
		}
	}
	return nil
}

func (a *attendee) View(width, height int) string {
	if a.sessionID() == "" {
		return a.events.view(width, true) + "\n\n" +
			styles.Muted.Render("Select an event to join.")
	}

	side := 28
	if width < 90 {
		side = 0
	}
	mainWidth := width - side - 2

	var b strings.Builder
	title := a.sessionID()
	if a.event != nil {
		title = a.event.DisplayTitle()
	}
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n")
	if a.event != nil && a.event.Description != "" {
		b.WriteString(styles.Subtitle.Render(a.event.Description))
		b.WriteString("\n")
	}

	b.WriteString(styles.SectionTitle.Render("Ask a question"))
	b.WriteString("\n")
	a.ask.SetWidth(max(mainWidth-4, 20))
	b.WriteString(a.ask.View())
	b.WriteString("\n")
	if s := a.notice.view(); s != "" {
		b.WriteString(s)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.SectionTitle.Render("Questions"))
	b.WriteString("\n")
	b.WriteString(a.questionsView(mainWidth))
	b.WriteString("\n\n")

	b.WriteString(styles.SectionTitle.Render("Chat"))
	b.WriteString("\n")
	b.WriteString(a.chat.view(a.base, mainWidth, a.pane == paneAttendeeChat))
	b.WriteString("\n")
	if a.chatting {
		b.WriteString(a.chatIn.View())
		b.WriteString("\n")
	}
	if a.chatError != "" {
		b.WriteString(styles.ErrorMsg.Render(a.chatError))
		b.WriteString("\n")
	}

	main := b.String()
	if side == 0 {
		return main
	}
	events := styles.ContentBox.Width(side).Render(a.events.view(side, a.pane == paneAttendeeEvents))
	return lipgloss.JoinHorizontal(lipgloss.Top, main, "  ", events)
}

func (a *attendee) questionsView(width int) string {
	switch {
	case a.qErr != "" && !a.qLoaded:
		return styles.ErrorMsg.Render(a.qErr)
	case !a.qLoaded:
		return styles.Muted.Render("Loading questions...")
	case len(a.questions) == 0:
		return styles.Muted.Render("No questions yet. Be the first to ask!")
	}
	rows := make([]string, len(a.questions))
	for i, q := range a.questions {
		rows[i] = fmt.Sprintf("%s %s %s", styles.Primary.Render("["+q.AuthorInitials()+"]"), q.Text, styles.Status(string(q.Status)))
		if ts := a.formatTime(q.Timestamp); ts != "" {
			rows[i] += styles.Badge.Render("  " + ts)
		}
	}
	out := strings.TrimRight(renderRows(rows, a.qCursor, a.pane == paneAttendeeQuestions, width), "\n")
	if a.qErr != "" {
		out += "\n" + styles.ErrorMsg.Render(a.qErr)
	}
	return out
}
