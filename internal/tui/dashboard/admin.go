package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quorix/quorix/internal/model"
	"github.com/quorix/quorix/internal/tui/keymap"
	tuimsg "github.com/quorix/quorix/internal/tui/msg"
	"github.com/quorix/quorix/internal/tui/styles"
	"github.com/quorix/quorix/internal/util"
	"github.com/quorix/quorix/internal/view"
)

// Admin action names.
const (
	actSetRole    = "set_role"
	actAdminBan   = "admin_ban"
	actAdminUnban = "admin_unban"
)

type adminPane int

const (
	paneUsers adminPane = iota
	paneAllQuestions
)

type adminForm int

const (
	adminFormNone adminForm = iota
	adminFormRole
	adminFormBan
)

// editableRoles are the roles an admin can hand out from the user table.
var editableRoles = []string{
	string(model.RoleAdmin),
	string(model.RoleOrganizer),
	string(model.RoleModerator),
	string(model.RoleSpeaker),
	string(model.RoleAttendee),
}

// admin manages users and browses every question across events.
type admin struct {
	*base
	pane adminPane

	users       []model.User
	usersLoaded bool
	usersErr    string
	userCursor  int

	events []model.Event
	// filter indexes events; -1 is "All Events".
	filter int

	questions []model.AdminQuestion
	qLoaded   bool
	qErr      string
	qCursor   int

	form     *form
	formKind adminForm
	target   string
	// newRole is the role of the in-flight role change.
	newRole model.Role
	notice  notice
}

func newAdmin(b *base) *admin {
	a := &admin{base: b, filter: -1}
	if !a.managesUsers() {
		a.pane = paneAllQuestions
	}
	return a
}

// managesUsers reports whether the admin panel, with its user table, is
// part of this mount. A role override away from admin drops it.
func (a *admin) managesUsers() bool { return a.res.HasPanel(view.PanelAdmin) }

func (a *admin) Init() tea.Cmd {
	return a.fetchAll()
}

func (a *admin) fetchAll() tea.Cmd {
	if !a.managesUsers() {
		return tea.Batch(a.fetchEvents(), a.fetchQuestions())
	}
	return tea.Batch(a.fetchUsers(), a.fetchEvents(), a.fetchQuestions())
}

func (a *admin) fetchUsers() tea.Cmd {
	return tuimsg.Fetch(a.ctx, a.scope, feedUsers, a.deps.Client.AdminUsers)
}

func (a *admin) fetchEvents() tea.Cmd {
	return tuimsg.Fetch(a.ctx, a.scope, feedAdminEvents, a.deps.Client.AdminEvents)
}

func (a *admin) fetchQuestions() tea.Cmd {
	c, ev := a.deps.Client, a.filterID()
	a.qLoaded = false
	return tuimsg.Fetch(a.ctx, a.scope, feedAdminQs, func(ctx context.Context) ([]model.AdminQuestion, error) {
		return c.AdminQuestions(ctx, ev)
	})
}

func (a *admin) filterID() string {
	if a.filter < 0 || a.filter >= len(a.events) {
		return ""
	}
	return a.events[a.filter].Key()
}

func (a *admin) filterLabel() string {
	if a.filter < 0 || a.filter >= len(a.events) {
		return "All Events"
	}
	return a.events[a.filter].DisplayTitle()
}

func (a *admin) Modes() []keymap.Mode {
	if a.form != nil {
		return []keymap.Mode{keymap.ModeForm}
	}
	return []keymap.Mode{keymap.ModeAdmin, keymap.ModeGlobal}
}

func (a *admin) Capturing() bool { return a.form != nil }

func (a *admin) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tuimsg.FeedMsg[model.User]:
		if msg.Err != nil {
			if !a.fail("/api/admin/users", msg.Err) {
				a.usersErr = "Could not load users."
			}
			return nil
		}
		a.users, a.usersLoaded, a.usersErr = msg.Items, true, ""
		a.userCursor = clampCursor(a.userCursor, len(a.users))
	case tuimsg.FeedMsg[model.Event]:
		if msg.Err != nil {
			if !a.fail("/api/admin/events", msg.Err) {
				a.qErr = "Could not load events."
			}
			return nil
		}
		a.events = msg.Items
		if a.filter >= len(a.events) {
			a.filter = -1
		}
	case tuimsg.FeedMsg[model.AdminQuestion]:
		a.qLoaded = true
		if msg.Err != nil {
			if !a.fail("/api/admin/questions", msg.Err) {
				a.qErr = "Could not load questions."
			}
			return nil
		}
		a.questions, a.qErr = msg.Items, ""
		a.qCursor = clampCursor(a.qCursor, len(a.questions))
	case tuimsg.ActionMsg:
		return a.handleAction(msg)
	case tea.KeyMsg:
		if a.unauthorized {
			return nil
		}
		if a.form != nil {
			return a.updateForm(msg)
		}
		return a.handleKey(msg)
	}
	return nil
}

func (a *admin) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch keyFor(msg, keymap.ModeAdmin) {
	case keymap.CmdNextPane, keymap.CmdPrevPane:
		if a.managesUsers() {
			a.pane = 1 - a.pane
		}
	case keymap.CmdUp:
		a.move(-1)
	case keymap.CmdDown:
		a.move(1)
	case keymap.CmdFilterNext:
		if len(a.events) > 0 {
			a.filter++
			if a.filter >= len(a.events) {
				a.filter = -1
			}
			return a.fetchQuestions()
		}
	case keymap.CmdFilterPrev:
		if len(a.events) > 0 {
			a.filter--
			if a.filter < -1 {
				a.filter = len(a.events) - 1
			}
			return a.fetchQuestions()
		}
	case keymap.CmdEdit:
		if u, ok := a.currentUser(); ok {
			f := newForm("Edit role: " + userLabel(u)).choice("Role:", editableRoles...).set(0, string(u.Role))
			return a.openForm(adminFormRole, u.ID, f)
		}
	case keymap.CmdBan:
		if u, ok := a.currentUser(); ok {
			return a.openForm(adminFormBan, u.ID, newBanForm(userLabel(u)))
		}
	case keymap.CmdUnban:
		if u, ok := a.currentUser(); ok {
			c := a.deps.Client
			return tuimsg.Do(a.ctx, a.scope, actAdminUnban, u.ID, func(ctx context.Context) error {
				return c.UnbanUser(ctx, u.ID)
			})
		}
	case keymap.CmdRefresh:
		return a.fetchAll()
	}
	return nil
}

func (a *admin) move(delta int) {
	if a.pane == paneUsers {
		a.userCursor = moveCursor(a.userCursor, delta, len(a.users))
		return
	}
	a.qCursor = moveCursor(a.qCursor, delta, len(a.questions))
}

func (a *admin) currentUser() (model.User, bool) {
	if a.pane != paneUsers || len(a.users) == 0 {
		return model.User{}, false
	}
	return a.users[a.userCursor], true
}

func (a *admin) openForm(kind adminForm, target string, f *form) tea.Cmd {
	a.form, a.formKind, a.target = f, kind, target
	a.notice.clear()
	return f.start()
}

func (a *admin) updateForm(msg tea.KeyMsg) tea.Cmd {
	res, cmd := a.form.update(msg)
	switch res {
	case formCancel:
		a.form = nil
		return nil
	case formSubmit:
		return a.submitForm()
	}
	return cmd
}

func (a *admin) submitForm() tea.Cmd {
	c, id := a.deps.Client, a.target
	switch a.formKind {
	case adminFormRole:
		role := model.ParseRole(a.form.value(0))
		a.newRole = role
		return tuimsg.Do(a.ctx, a.scope, actSetRole, id, func(ctx context.Context) error {
			return c.SetUserRole(ctx, id, role)
		})
	case adminFormBan:
		ban, err := banFrom(a.form)
		if err != nil {
			a.form.err = actionError(err, "Invalid ban.")
			return nil
		}
		return tuimsg.Do(a.ctx, a.scope, actAdminBan, id, func(ctx context.Context) error {
			return c.BanUser(ctx, id, ban)
		})
	}
	return nil
}

func (a *admin) handleAction(msg tuimsg.ActionMsg) tea.Cmd {
	if msg.Err != nil && a.fail("/api/admin/"+msg.Action, msg.Err) {
		return nil
	}
	switch msg.Action {
	case actSetRole:
		if msg.Err != nil {
			a.formFailure(actionError(msg.Err, "Failed to update user role."))
			return nil
		}
		for i := range a.users {
			if a.users[i].ID == msg.Target {
				a.users[i].Role = a.newRole
			}
		}
		a.form = nil
		a.notice.success("Role updated.")
	case actAdminBan:
		if msg.Err != nil {
			a.formFailure(actionError(msg.Err, "Failed to ban user."))
			return nil
		}
		a.form = nil
		a.notice.success("User banned.")
		return a.fetchUsers()
	case actAdminUnban:
		if msg.Err != nil {
			a.notice.failure(actionError(msg.Err, "Failed to unban user."))
			return nil
		}
		a.notice.success("User unbanned.")
		return a.fetchUsers()
	}
	return nil
}

func (a *admin) formFailure(text string) {
	if a.form != nil {
		a.form.err = text
		return
	}
	a.notice.failure(text)
}

func userLabel(u model.User) string {
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}

func (a *admin) View(width, height int) string {
	if a.unauthorized {
		return unauthorizedView()
	}
	var b strings.Builder
	b.WriteString(styles.Title.Render("Admin View"))
	b.WriteString("\n")
	if a.managesUsers() {
		b.WriteString(renderTabs([]string{"User Management", "All Questions"}, int(a.pane)))
	} else {
		b.WriteString(renderTabs([]string{"All Questions"}, 0))
	}
	b.WriteString("\n\n")
	if a.pane == paneUsers {
		b.WriteString(a.usersView(width))
	} else {
		b.WriteString(a.questionsView(width))
	}
	b.WriteString("\n")
	if s := a.notice.view(); s != "" {
		b.WriteString(s)
		b.WriteString("\n")
	}
	if a.form != nil {
		b.WriteString(a.form.view())
		b.WriteString("\n")
	}
	return b.String()
}

func (a *admin) usersView(width int) string {
	var b strings.Builder
	b.WriteString(styles.SectionTitle.Render("User Management"))
	b.WriteString("\n")
	switch {
	case a.usersErr != "":
		b.WriteString(styles.ErrorMsg.Render(a.usersErr))
		return b.String()
	case !a.usersLoaded:
		b.WriteString(styles.Muted.Render("Loading users..."))
		return b.String()
	case len(a.users) == 0:
		b.WriteString(styles.Muted.Render("No users."))
		return b.String()
	}
	b.WriteString(styles.Header.Render(fmt.Sprintf("  %-32s %-20s %-10s", "Email", "Name", "Role")))
	b.WriteString("\n")
	rows := make([]string, len(a.users))
	for i, u := range a.users {
		name := u.Name
		if name == "" {
			name = "-"
		}
		row := fmt.Sprintf("%s %s %-10s", util.Cell(u.Email, 32), util.Cell(name, 20), u.Role)
		if u.Banned {
			ban := "banned"
			if u.BanType == model.BanTemporary && u.BanDuration > 0 {
				ban = fmt.Sprintf("banned %dh", u.BanDuration)
			}
			row += " " + styles.WarningMsg.Render(ban)
		}
		rows[i] = row
	}
	b.WriteString(strings.TrimRight(renderRows(rows, a.userCursor, true, width), "\n"))
	return b.String()
}

func (a *admin) questionsView(width int) string {
	var b strings.Builder
	b.WriteString(styles.SectionTitle.Render("All Questions"))
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("Filter by Event: "))
	b.WriteString(styles.Text.Render("‹ " + a.filterLabel() + " ›"))
	b.WriteString("\n\n")
	switch {
	case a.qErr != "":
		b.WriteString(styles.ErrorMsg.Render(a.qErr))
		return b.String()
	case !a.qLoaded:
		b.WriteString(styles.Muted.Render("Loading questions..."))
		return b.String()
	case len(a.questions) == 0:
		b.WriteString(styles.Muted.Render("No questions."))
		return b.String()
	}
	textWidth := max(width-70, 20)
	b.WriteString(styles.Header.Render(fmt.Sprintf("  %-20s %-16s %-*s %-10s %s", "Event", "User", textWidth, "Text", "Status", "Timestamp")))
	b.WriteString("\n")
	rows := make([]string, len(a.questions))
	for i, q := range a.questions {
		rows[i] = fmt.Sprintf("%s %s %s %s %s",
			util.Cell(q.EventLabel(), 20),
			util.Cell(q.AuthorLabel(), 16),
			util.Cell(q.Text, textWidth),
			styles.Status(string(q.Status)),
			a.formatTime(q.Timestamp),
		)
	}
	b.WriteString(strings.TrimRight(renderRows(rows, a.qCursor, true, width), "\n"))
	return b.String()
}
