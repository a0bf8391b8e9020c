package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quorix/quorix/internal/errors"
	"github.com/quorix/quorix/internal/model"
	"github.com/quorix/quorix/internal/tui/keymap"
	tuimsg "github.com/quorix/quorix/internal/tui/msg"
	"github.com/quorix/quorix/internal/tui/styles"
	"github.com/quorix/quorix/internal/view"
)

// Organizer action names.
const (
	actSave       = "save_event"
	actAddRole    = "add_role"
	actRemoveRole = "remove_role"
)

// startTimeLayout is how start times are shown and edited.
const startTimeLayout = "2006-01-02T15:04"

type orgForm int

const (
	orgFormNone orgForm = iota
	orgFormEdit
	orgFormRole
)

// organizer manages one event's metadata and roles, with the moderator
// dashboard of the same event embedded below. ctrl+o moves the keyboard
// between the two.
type organizer struct {
	*base

	events *picker
	mod    *moderator
	// moderating is set while keys go to the embedded moderator.
	moderating bool

	event       *model.Event
	eventLoaded bool
	eventErr    string

	roles       []model.RoleAssignment
	rolesLoaded bool
	rolesErr    string
	cursor      int

	qr    string
	qrErr string

	form     *form
	formKind orgForm
	notice   notice
}

func newOrganizer(b *base) *organizer {
	return &organizer{
		base:   b,
		events: &picker{title: "Your Events", target: view.RouteOrganizer},
		mod:    newModerator(b, true),
	}
}

func (o *organizer) Init() tea.Cmd {
	id := o.sessionID()
	if id == "" {
		watch(o.base, feedEvents, "/api/mod/events", o.deps.Polling.Events(), o.deps.Client.ModEvents)
		o.group.Start()
		return nil
	}
	return tea.Batch(
		tuimsg.LoadEvent(o.ctx, o.scope, o.deps.Client, id),
		o.fetchRoles(),
		tuimsg.LoadQR(o.ctx, o.scope, o.deps.Client, id),
		o.mod.Init(),
	)
}

func (o *organizer) fetchRoles() tea.Cmd {
	c, id := o.deps.Client, o.sessionID()
	return tuimsg.Fetch(o.ctx, o.scope, feedRoles, func(ctx context.Context) ([]model.RoleAssignment, error) {
		return c.EventRoles(ctx, id)
	})
}

func (o *organizer) Modes() []keymap.Mode {
	switch {
	case o.form != nil:
		return []keymap.Mode{keymap.ModeForm}
	case o.sessionID() == "":
		return []keymap.Mode{keymap.ModePicker, keymap.ModeGlobal}
	case o.moderating:
		return o.mod.Modes()
	}
	return []keymap.Mode{keymap.ModeOrganizer, keymap.ModeGlobal}
}

func (o *organizer) Capturing() bool {
	return o.form != nil || (o.moderating && o.mod.Capturing())
}

func (o *organizer) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tuimsg.FeedMsg[model.Event]:
		if msg.Err != nil && o.fail("/api/mod/events", msg.Err) {
			return nil
		}
		o.events.apply(msg.Items, msg.Err)
		return nil
	case tuimsg.EventMsg:
		o.eventLoaded = true
		if msg.Err != nil {
			if !o.fail("/api/session", msg.Err) {
				o.eventErr = "Could not load event metadata."
			}
			return nil
		}
		o.event, o.eventErr = msg.Event, ""
		return nil
	case tuimsg.FeedMsg[model.RoleAssignment]:
		if msg.Err != nil {
			if !o.fail("/api/organizer/roles", msg.Err) {
				o.rolesErr = "Could not load event roles."
			}
			return nil
		}
		o.roles, o.rolesLoaded, o.rolesErr = msg.Items, true, ""
		o.cursor = clampCursor(o.cursor, len(o.roles))
		return nil
	case tuimsg.QRMsg:
		if msg.Err != nil {
			o.qrErr = "Could not load QR code."
			o.logger.Debug("qr failed", "error", msg.Err.Error())
			return nil
		}
		o.qr, o.qrErr = msg.Art, ""
		return nil
	case tuimsg.ActionMsg:
		switch msg.Action {
		case actSave, actAddRole, actRemoveRole:
			return o.handleAction(msg)
		}
	case tea.KeyMsg:
		return o.handleKey(msg)
	}
	return o.mod.Update(msg)
}

func (o *organizer) handleKey(msg tea.KeyMsg) tea.Cmd {
	if o.form != nil {
		return o.updateForm(msg)
	}
	if o.sessionID() == "" {
		return o.events.update(keyFor(msg, keymap.ModePicker))
	}
	if o.unauthorized {
		return nil
	}
	if !o.Capturing() && keyFor(msg, keymap.ModeOrganizer) == keymap.CmdSwitchRegion {
		o.moderating = !o.moderating
		return nil
	}
	if o.moderating {
		return o.mod.Update(msg)
	}

	switch keyFor(msg, keymap.ModeOrganizer) {
	case keymap.CmdUp:
		o.cursor = moveCursor(o.cursor, -1, len(o.roles))
	case keymap.CmdDown:
		o.cursor = moveCursor(o.cursor, 1, len(o.roles))
	case keymap.CmdEdit:
		if o.event == nil {
			return nil
		}
		start := ""
		if !o.event.StartTime.IsZero() {
			start = o.event.StartTime.Format(startTimeLayout)
		}
		f := newForm("Edit event").
			text("Title:", "").set(0, o.event.DisplayTitle()).
			text("Start time:", startTimeLayout).set(1, start).
			text("Description:", "").set(2, o.event.Description)
		return o.openForm(orgFormEdit, f)
	case keymap.CmdAddRole:
		f := newForm("Add role").
			text("Email:", "user@example.com").
			choice("Role:", string(model.RoleModerator), string(model.RoleSpeaker), string(model.RoleOrganizer))
		return o.openForm(orgFormRole, f)
	case keymap.CmdRemoveRole:
		return o.removeRole()
	case keymap.CmdRefresh:
		return tea.Batch(tuimsg.LoadEvent(o.ctx, o.scope, o.deps.Client, o.sessionID()), o.fetchRoles())
	}
	return nil
}

func (o *organizer) openForm(kind orgForm, f *form) tea.Cmd {
	o.form, o.formKind = f, kind
	o.notice.clear()
	return f.start()
}

func (o *organizer) updateForm(msg tea.KeyMsg) tea.Cmd {
	res, cmd := o.form.update(msg)
	switch res {
	case formCancel:
		o.form = nil
		return nil
	case formSubmit:
		return o.submitForm()
	}
	return cmd
}

// hasOrganizer reports whether the event already has an organizer. The
// backend does not enforce a single organizer; this check is advisory.
func (o *organizer) hasOrganizer() bool {
	for _, r := range o.roles {
		if r.Role == model.RoleOrganizer {
			return true
		}
	}
	return false
}

func (o *organizer) submitForm() tea.Cmd {
	c, id := o.deps.Client, o.sessionID()
	switch o.formKind {
	case orgFormEdit:
		edit := model.EventEdit{Title: o.form.value(0), StartTime: o.form.value(1), Description: o.form.value(2)}
		if edit.Title == "" {
			o.form.err = "Title is required."
			return nil
		}
		if edit.StartTime != "" {
			if _, ok := model.ParseTimestamp(edit.StartTime); !ok {
				o.form.err = "Start time must look like " + startTimeLayout + "."
				return nil
			}
		}
		return tuimsg.Do(o.ctx, o.scope, actSave, id, func(ctx context.Context) error {
			return c.EditEvent(ctx, id, edit)
		})
	case orgFormRole:
		email, role := o.form.value(0), model.ParseRole(o.form.value(1))
		if email == "" {
			o.form.err = "Email is required."
			return nil
		}
		if err := o.admit(role); err != nil {
			o.form.err = actionError(err, "Failed to add role.")
			return nil
		}
		return tuimsg.Do(o.ctx, o.scope, actAddRole, email, func(ctx context.Context) error {
			return c.AddRole(ctx, id, email, role)
		})
	}
	return nil
}

// admit applies the one-organizer rule to a role about to be added.
func (o *organizer) admit(role model.Role) error {
	if role == model.RoleOrganizer && o.hasOrganizer() {
		return errors.ErrOrganizerExists
	}
	return nil
}

func (o *organizer) removeRole() tea.Cmd {
	if len(o.roles) == 0 {
		return nil
	}
	row := o.roles[o.cursor]
	if row.Role == model.RoleOrganizer {
		o.notice.failure("Cannot remove the only organizer.")
		return nil
	}
	c, id := o.deps.Client, o.sessionID()
	o.notice.clear()
	return tuimsg.Do(o.ctx, o.scope, actRemoveRole, row.UserID, func(ctx context.Context) error {
		return c.RemoveRole(ctx, id, row.UserID, row.Role)
	})
}

func (o *organizer) handleAction(msg tuimsg.ActionMsg) tea.Cmd {
	if msg.Err != nil && o.fail("/api/organizer/"+msg.Action, msg.Err) {
		return nil
	}
	switch msg.Action {
	case actSave:
		if msg.Err != nil {
			o.setFailure(actionError(msg.Err, "Failed to save changes."))
			return nil
		}
		o.form = nil
		o.notice.success("Changes saved.")
		return tuimsg.LoadEvent(o.ctx, o.scope, o.deps.Client, o.sessionID())
	case actAddRole:
		if msg.Err != nil {
			o.setFailure(actionError(msg.Err, "Failed to add role."))
			return nil
		}
		o.form = nil
		o.notice.success("Role added for " + msg.Target + ".")
		return o.fetchRoles()
	case actRemoveRole:
		if msg.Err != nil {
			o.notice.failure(actionError(msg.Err, "Failed to remove role."))
			return nil
		}
		o.notice.success("Role removed.")
		return o.fetchRoles()
	}
	return nil
}

// summaryView is the inline overview the root route adds for organizers:
// how many events the user runs and which one starts next.
func (o *organizer) summaryView() string {
	if !o.events.loaded {
		return styles.SectionTitle.Render("Overview")
	}
	now := o.now()
	var next *model.Event
	open := 0
	for i, ev := range o.events.events {
		if !ev.Closed {
			open++
		}
		start := ev.StartTime.Time
		if ev.Closed || start.IsZero() || start.Before(now) {
			continue
		}
		if next == nil || start.Before(next.StartTime.Time) {
			next = &o.events.events[i]
		}
	}
	line := fmt.Sprintf("%d events, %d open", len(o.events.events), open)
	if next != nil {
		line += fmt.Sprintf("  next: %s (%s)", next.DisplayTitle(), o.formatTime(next.StartTime))
	}
	return styles.SectionTitle.Render("Overview") + "\n" + styles.Muted.Render(line)
}

func (o *organizer) setFailure(text string) {
	if o.form != nil {
		o.form.err = text
		return
	}
	o.notice.failure(text)
}

func (o *organizer) View(width, height int) string {
	switch {
	case o.unauthorized:
		return unauthorizedView()
	case o.sessionID() == "":
		var b strings.Builder
		b.WriteString(styles.Title.Render("Organizer Dashboard"))
		b.WriteString("\n")
		if o.res.HasPanel(view.PanelOrganizerSummary) {
			b.WriteString(o.summaryView())
			b.WriteString("\n\n")
		}
		b.WriteString(o.events.view(width, true))
		b.WriteString("\n\n")
		b.WriteString(styles.Muted.Render("Select an event to organize."))
		return b.String()
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render("Organizer Dashboard"))
	b.WriteString("\n")

	info := o.eventView(width)
	if o.qr != "" && width >= 100 {
		qr := lipgloss.JoinVertical(lipgloss.Center, o.qr, styles.Muted.Render("Scan to join"))
		info = lipgloss.JoinHorizontal(lipgloss.Top, info, "   ", qr)
	} else if o.qrErr != "" {
		info += "\n" + styles.Muted.Render(o.qrErr)
	}
	b.WriteString(info)
	b.WriteString("\n\n")
	b.WriteString(o.rolesView(width))
	b.WriteString("\n")
	if s := o.notice.view(); s != "" {
		b.WriteString(s)
		b.WriteString("\n")
	}
	if o.form != nil {
		b.WriteString(o.form.view())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	header := "Moderation"
	if o.moderating {
		header += styles.Badge.Render("  (active, ctrl+o to return)")
	} else {
		header += styles.Badge.Render("  (ctrl+o to moderate)")
	}
	b.WriteString(styles.Header.Render(header))
	b.WriteString("\n")
	b.WriteString(o.mod.View(width, height))
	return b.String()
}

func (o *organizer) eventView(width int) string {
	switch {
	case !o.eventLoaded:
		return styles.Muted.Render("Loading event info...")
	case o.eventErr != "":
		return styles.ErrorMsg.Render(o.eventErr)
	}
	var b strings.Builder
	b.WriteString(styles.SectionTitle.Render(o.event.DisplayTitle()))
	b.WriteString("\n")
	if !o.event.StartTime.IsZero() {
		b.WriteString(styles.Muted.Render("Starts: " + o.event.StartTime.Local().Format("Mon Jan 2 2006 15:04")))
		b.WriteString("\n")
	}
	if o.event.Description != "" {
		b.WriteString(styles.Text.Width(min(max(width-40, 30), 80)).Render(o.event.Description))
		b.WriteString("\n")
	}
	if o.event.Closed {
		b.WriteString(styles.WarningMsg.Render("Closed"))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (o *organizer) rolesView(width int) string {
	var b strings.Builder
	b.WriteString(styles.SectionTitle.Render("Manage Moderators & Speakers"))
	b.WriteString("\n")
	switch {
	case o.rolesErr != "":
		b.WriteString(styles.ErrorMsg.Render(o.rolesErr))
	case !o.rolesLoaded:
		b.WriteString(styles.Muted.Render("Loading roles..."))
	case len(o.roles) == 0:
		b.WriteString(styles.Muted.Render("No roles assigned."))
	default:
		rows := make([]string, len(o.roles))
		for i, r := range o.roles {
			who := r.Name
			if who == "" {
				who = r.Email
			}
			if who == "" {
				who = r.UserID
			}
			rows[i] = fmt.Sprintf("%-32s %s", who, styles.Badge.Render(string(r.Role)))
		}
		b.WriteString(strings.TrimRight(renderRows(rows, o.cursor, !o.moderating, width), "\n"))
	}
	return b.String()
}
