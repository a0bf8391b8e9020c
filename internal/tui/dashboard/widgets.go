package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quorix/quorix/internal/errors"
	"github.com/quorix/quorix/internal/model"
	"github.com/quorix/quorix/internal/tui/keymap"
	tuimsg "github.com/quorix/quorix/internal/tui/msg"
	"github.com/quorix/quorix/internal/tui/styles"
	"github.com/quorix/quorix/internal/util"
	"github.com/quorix/quorix/internal/view"
)

// moveCursor moves i by delta within [0, n-1].
func moveCursor(i, delta, n int) int {
	return clampCursor(i+delta, n)
}

func clampCursor(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// notice is the one-line status under a pane.
type notice struct {
	text string
	ok   bool
}

func (n *notice) success(text string) { *n = notice{text: text, ok: true} }
func (n *notice) failure(text string) { *n = notice{text: text} }
func (n *notice) clear()              { *n = notice{} }

func (n notice) view() string {
	switch {
	case n.text == "":
		return ""
	case n.ok:
		return styles.SuccessMsg.Render(n.text)
	default:
		return styles.ErrorMsg.Render(n.text)
	}
}

// renderRows renders a list with the row under cursor highlighted when the
// list has focus.
func renderRows(rows []string, cursor int, focused bool, width int) string {
	var b strings.Builder
	for i, row := range rows {
		row = util.Truncate(row, max(width-4, 10))
		if focused && i == cursor {
			b.WriteString(styles.ListItemActive.Render(row))
		} else {
			b.WriteString(styles.ListItem.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderTabs(names []string, active int) string {
	tabs := make([]string, len(names))
	for i, name := range names {
		if i == active {
			tabs[i] = styles.TabActive.Render(name)
		} else {
			tabs[i] = styles.TabInactive.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// formResult is what a key did to a form.
type formResult int

const (
	formEditing formResult = iota
	formSubmit
	formCancel
)

type field struct {
	label   string
	input   textinput.Model
	choices []string
	choice  int
}

// form is a small stack of text and choice fields.
type form struct {
	title  string
	fields []*field
	focus  int
	err    string
}

func newForm(title string) *form { return &form{title: title} }

func (f *form) text(label, placeholder string) *form {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 500
	in.Width = 40
	f.fields = append(f.fields, &field{label: label, input: in})
	return f
}

func (f *form) secret(label string) *form {
	f.text(label, "")
	in := &f.fields[len(f.fields)-1].input
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '•'
	return f
}

func (f *form) choice(label string, choices ...string) *form {
	f.fields = append(f.fields, &field{label: label, choices: choices})
	return f
}

// set prefills field i.
func (f *form) set(i int, v string) *form {
	fl := f.fields[i]
	if fl.choices == nil {
		fl.input.SetValue(v)
		return f
	}
	for n, c := range fl.choices {
		if c == v {
			fl.choice = n
		}
	}
	return f
}

func (f *form) value(i int) string {
	fl := f.fields[i]
	if fl.choices != nil {
		return fl.choices[fl.choice]
	}
	return strings.TrimSpace(fl.input.Value())
}

// start focuses the first field.
func (f *form) start() tea.Cmd {
	f.focus = 0
	return f.refocus()
}

func (f *form) refocus() tea.Cmd {
	var cmd tea.Cmd
	for i, fl := range f.fields {
		if fl.choices != nil {
			continue
		}
		if i == f.focus {
			cmd = fl.input.Focus()
		} else {
			fl.input.Blur()
		}
	}
	return cmd
}

func (f *form) update(msg tea.Msg) (formResult, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return formEditing, nil
	}
	cur := f.fields[f.focus]
	switch keyFor(key, keymap.ModeForm) {
	case keymap.CmdSubmit:
		return formSubmit, nil
	case keymap.CmdCancel:
		return formCancel, nil
	case keymap.CmdNextField:
		f.focus = (f.focus + 1) % len(f.fields)
		return formEditing, f.refocus()
	case keymap.CmdPrevField:
		f.focus = (f.focus + len(f.fields) - 1) % len(f.fields)
		return formEditing, f.refocus()
	}
	if cur.choices != nil {
		switch {
		case keymap.CycleForward.Matches(key):
			cur.choice = (cur.choice + 1) % len(cur.choices)
		case keymap.CycleBackward.Matches(key):
			cur.choice = (cur.choice + len(cur.choices) - 1) % len(cur.choices)
		}
		return formEditing, nil
	}
	var cmd tea.Cmd
	cur.input, cmd = cur.input.Update(key)
	return formEditing, cmd
}

func (f *form) view() string {
	var b strings.Builder
	b.WriteString(styles.SectionTitle.Render(f.title))
	b.WriteString("\n")
	for i, fl := range f.fields {
		label := styles.Muted.Render(fl.label)
		if i == f.focus {
			label = styles.HelpKey.Render(fl.label)
		}
		b.WriteString(label)
		b.WriteString(" ")
		if fl.choices != nil {
			b.WriteString("‹ " + fl.choices[fl.choice] + " ›")
		} else {
			b.WriteString(fl.input.View())
		}
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString(styles.ErrorMsg.Render(f.err))
		b.WriteString("\n")
	}
	return styles.Dialog.Render(strings.TrimRight(b.String(), "\n"))
}

// Ban dialog choices.
const (
	banPermanent = "Permanent"
	banTemporary = "Temporary"
)

func newBanForm(userID string) *form {
	return newForm("Ban User: "+userID).
		choice("Ban type:", banPermanent, banTemporary).
		text("Duration (hours):", "24")
}

// banFrom reads a ban out of a ban form.
func banFrom(f *form) (model.Ban, error) {
	if f.value(0) == banPermanent {
		return model.Ban{Type: model.BanPermanent}, nil
	}
	hours, err := strconv.Atoi(f.value(1))
	if err != nil || hours <= 0 {
		return model.Ban{}, errors.NewValidationError("Enter a ban duration in hours.").WithField("duration")
	}
	return model.Ban{Type: model.BanTemporary, Duration: hours}, nil
}

// picker lists events and opens one of them on Enter.
type picker struct {
	title  string
	target view.RouteKind
	events []model.Event
	cursor int
	loaded bool
	err    string
}

func (p *picker) apply(items []model.Event, err error) {
	if err != nil {
		p.err = "Could not load events."
		return
	}
	p.loaded, p.err = true, ""
	p.events = items
	p.cursor = clampCursor(p.cursor, len(items))
}

func (p *picker) selected() (model.Event, bool) {
	if len(p.events) == 0 {
		return model.Event{}, false
	}
	return p.events[p.cursor], true
}

// update handles a picker command, returning a navigation when an event
// was opened.
func (p *picker) update(cmd keymap.Command) tea.Cmd {
	switch cmd {
	case keymap.CmdUp:
		p.cursor = moveCursor(p.cursor, -1, len(p.events))
	case keymap.CmdDown:
		p.cursor = moveCursor(p.cursor, 1, len(p.events))
	case keymap.CmdOpen:
		if ev, ok := p.selected(); ok {
			return tuimsg.Navigate(view.SessionRoute(p.target, ev.Key()))
		}
	}
	return nil
}

func (p *picker) view(width int, focused bool) string {
	var b strings.Builder
	b.WriteString(styles.SectionTitle.Render(p.title))
	b.WriteString("\n")
	switch {
	case p.err != "":
		b.WriteString(styles.ErrorMsg.Render(p.err))
	case !p.loaded:
		b.WriteString(styles.Muted.Render("Loading events..."))
	case len(p.events) == 0:
		b.WriteString(styles.Muted.Render("No events."))
	default:
		rows := make([]string, len(p.events))
		for i, ev := range p.events {
			rows[i] = ev.DisplayTitle()
			if ev.Key() != ev.DisplayTitle() {
				rows[i] += styles.Badge.Render(fmt.Sprintf(" (%s)", ev.Key()))
			}
			if ev.Closed {
				rows[i] += styles.Badge.Render(" closed")
			}
		}
		b.WriteString(strings.TrimRight(renderRows(rows, p.cursor, focused, width), "\n"))
	}
	return b.String()
}

func unauthorizedView() string {
	return styles.ErrorMsg.Render("Unauthorized") + "\n" +
		styles.Muted.Render("Your session does not allow this view. Log in again with `quorix login`.")
}
