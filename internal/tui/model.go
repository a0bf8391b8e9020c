package tui

import (
	"github.com/charmbracelet/bubbles/help"

	"github.com/quorix/quorix/internal/auth"
	"github.com/quorix/quorix/internal/logging"
	"github.com/quorix/quorix/internal/model"
	"github.com/quorix/quorix/internal/state"
	"github.com/quorix/quorix/internal/tui/dashboard"
	"github.com/quorix/quorix/internal/tui/keymap"
	"github.com/quorix/quorix/internal/view"
)

// overrideCycle is the order ctrl+v walks an admin's viewed role through.
var overrideCycle = []model.Role{
	model.RoleOrganizer,
	model.RoleModerator,
	model.RoleSpeaker,
	model.RoleAttendee,
	model.RoleNone,
}

// Model is the root model: it resolves the view from the store and keeps
// exactly one dashboard mounted.
type Model struct {
	deps   dashboard.Deps
	store  *state.Store
	auth   *auth.Manager
	keys   *keymap.Keymap
	logger *logging.Logger

	// Mount state. mountID increases on every remount so messages from a
	// replaced dashboard can be recognised and dropped.
	dash    dashboard.Dashboard
	res     view.Resolution
	mountID uint64

	help     help.Model
	showHelp bool

	width    int
	height   int
	ready    bool
	quitting bool
	info     string
}

// NewModel creates the root model and mounts the dashboard for the store's
// current state. deps.Store must be set.
func NewModel(deps dashboard.Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	m := Model{
		deps:   deps,
		store:  deps.Store,
		auth:   deps.Auth,
		keys:   keymap.Default,
		logger: logger.WithView("root"),
		help:   help.New(),
	}
	m.mount(m.store.Resolve())
	return m
}

// Dashboard returns the mounted dashboard.
func (m Model) Dashboard() dashboard.Dashboard { return m.dash }

// Resolution returns what the mounted dashboard was resolved from.
func (m Model) Resolution() view.Resolution { return m.res }

// mount closes the current dashboard and builds the one for res. The
// caller runs the new dashboard's Init.
func (m *Model) mount(res view.Resolution) {
	if m.dash != nil {
		m.dash.Close()
	}
	m.mountID++
	m.res = res
	m.dash = dashboard.New(res, m.mountID, m.deps)
	m.logger.Debug("mounted dashboard",
		"variant", res.Variant.String(),
		"route", res.Route.Path,
		"mount", m.mountID,
	)
}

// Close unmounts the current dashboard.
func (m *Model) Close() {
	if m.dash != nil {
		m.dash.Close()
	}
}

// sameView reports whether a and b would mount the same dashboard.
func sameView(a, b view.Resolution) bool {
	if a.Variant != b.Variant || a.Role != b.Role || a.Overridden != b.Overridden ||
		a.SessionID != b.SessionID || a.LoginRequired != b.LoginRequired ||
		a.Route.Path != b.Route.Path || a.Route.Query.Encode() != b.Route.Query.Encode() ||
		len(a.Panels) != len(b.Panels) {
		return false
	}
	for i := range a.Panels {
		if a.Panels[i] != b.Panels[i] {
			return false
		}
	}
	return true
}
