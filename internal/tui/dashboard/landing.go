package dashboard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quorix/quorix/internal/errors"
	"github.com/quorix/quorix/internal/state"
	"github.com/quorix/quorix/internal/tui/keymap"
	tuimsg "github.com/quorix/quorix/internal/tui/msg"
	"github.com/quorix/quorix/internal/tui/styles"
	"github.com/quorix/quorix/internal/view"
)

type landingForm int

const (
	landingNone landingForm = iota
	landingLogin
	landingRegister
	landingGoTo
	landingAttend
)

// landing is the anonymous root: welcome text, the backend's ping message
// and the login and register forms.
type landing struct {
	*base
	ping    string
	pingErr bool
	kind    landingForm
	form    *form
	busy    bool
	notice  notice
}

func newLanding(b *base) *landing { return &landing{base: b} }

func (l *landing) Init() tea.Cmd {
	return tuimsg.Ping(l.ctx, l.scope, l.deps.Client)
}

func (l *landing) Modes() []keymap.Mode {
	if l.form != nil {
		return []keymap.Mode{keymap.ModeForm}
	}
	return []keymap.Mode{keymap.ModeLanding, keymap.ModeGlobal}
}

func (l *landing) Capturing() bool { return l.form != nil }

func (l *landing) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tuimsg.PingMsg:
		l.ping, l.pingErr = msg.Message, msg.Err != nil
		if msg.Err != nil {
			l.logger.Debug("ping failed", "error", msg.Err.Error())
		}
	case tuimsg.AuthMsg:
		return l.handleAuth(msg)
	case tea.KeyMsg:
		if l.form != nil {
			return l.updateForm(msg)
		}
		return l.open(keyFor(msg, keymap.ModeLanding))
	}
	return nil
}

func (l *landing) open(cmd keymap.Command) tea.Cmd {
	switch cmd {
	case keymap.CmdLogin:
		l.kind, l.form = landingLogin, newForm("Login").text("Email:", "you@example.com").secret("Session code:")
	case keymap.CmdRegister:
		l.kind, l.form = landingRegister, newForm("Register").text("Email:", "you@example.com").secret("Password:")
	case keymap.CmdGoToEvent:
		l.kind, l.form = landingGoTo, newForm("Go to event").text("Event code:", "")
	case keymap.CmdOpen:
		l.kind, l.form = landingAttend, newForm("Attend event").text("Session id:", "")
	default:
		return nil
	}
	l.notice.clear()
	return l.form.start()
}

func (l *landing) updateForm(msg tea.KeyMsg) tea.Cmd {
	if l.busy {
		return nil
	}
	res, cmd := l.form.update(msg)
	switch res {
	case formCancel:
		l.form = nil
		return nil
	case formSubmit:
		return l.submit()
	}
	return cmd
}

func (l *landing) submit() tea.Cmd {
	switch l.kind {
	case landingLogin:
		l.busy = true
		return tuimsg.Login(l.ctx, l.scope, l.deps.Auth, l.form.value(0), l.form.value(1))
	case landingRegister:
		l.busy = true
		return tuimsg.Register(l.ctx, l.scope, l.deps.Auth, l.form.value(0), l.form.value(1))
	case landingGoTo, landingAttend:
		code := l.form.value(0)
		if code == "" {
			l.form.err = "Enter an event code."
			return nil
		}
		kind := view.RouteEventLanding
		if l.kind == landingAttend {
			kind = view.RouteSession
		}
		l.form = nil
		return tuimsg.Navigate(view.SessionRoute(kind, code))
	}
	return nil
}

func (l *landing) handleAuth(msg tuimsg.AuthMsg) tea.Cmd {
	l.busy = false
	if msg.Err != nil {
		fallback := "Login failed"
		if l.kind == landingRegister {
			fallback = "Registration failed"
		}
		if errors.IsNetwork(msg.Err) {
			fallback = "Network error"
		}
		if l.form != nil {
			l.form.err = actionError(msg.Err, fallback)
		}
		return nil
	}
	l.form = nil
	if msg.Registered {
		l.notice.success("Registration successful. Log in with your event session code.")
		return nil
	}
	if msg.Identity != nil && l.deps.Store != nil {
		l.notice.success(fmt.Sprintf("Logged in as %s (%s)", msg.Identity.DisplayName(), msg.Identity.Role))
		l.deps.Store.Dispatch(state.SignIn{Identity: *msg.Identity})
	}
	return nil
}

func (l *landing) View(width, height int) string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Welcome to Quorix Live Q&A!"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("Join an event to ask questions, chat, and participate live."))
	b.WriteString("\n\n")

	switch {
	case l.ping != "":
		b.WriteString(styles.Muted.Render("Backend says: " + l.ping))
	case l.pingErr:
		b.WriteString(styles.WarningMsg.Render("Backend unreachable."))
	default:
		b.WriteString(styles.Muted.Render("Contacting backend..."))
	}
	b.WriteString("\n\n")

	if l.res.LoginRequired {
		b.WriteString(styles.WarningMsg.Render("Log in to open " + l.res.Route.Path + "."))
		b.WriteString("\n\n")
	}
	if l.form != nil {
		b.WriteString(l.form.view())
		b.WriteString("\n")
	}
	if s := l.notice.view(); s != "" {
		b.WriteString(s)
		b.WriteString("\n")
	}
	return b.String()
}
