package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/quorix/quorix/internal/event"
	"github.com/quorix/quorix/internal/model"
	"github.com/quorix/quorix/internal/state"
	"github.com/quorix/quorix/internal/tui/keymap"
	tuimsg "github.com/quorix/quorix/internal/tui/msg"
)

// Init initializes the mounted dashboard.
func (m Model) Init() tea.Cmd {
	return m.dash.Init()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if mm, ok := msg.(tuimsg.Mounted); ok && mm.MountID() != m.mountID {
		// From a dashboard that has since been replaced.
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height, m.ready = msg.Width, msg.Height, true
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeypress(msg)

	case tuimsg.NavigateMsg:
		m.store.Dispatch(state.Navigate{Route: msg.Route})
		return m.remount()

	case tuimsg.StateChangedMsg:
		switch msg.EventType {
		case event.TypeIdentityChanged, event.TypeOverrideChanged, event.TypeRouteChanged:
			return m.remount()
		}
		return m, nil

	case tuimsg.SessionChangedMsg:
		return m.handleSessionFile(msg)
	}

	return m, m.dash.Update(msg)
}

// remount re-resolves the view and mounts a new dashboard if the
// resolution changed.
func (m Model) remount() (tea.Model, tea.Cmd) {
	res := m.store.Resolve()
	if sameView(res, m.res) {
		return m, nil
	}
	m.mount(res)
	m.info = ""
	return m, m.dash.Init()
}

// handleSessionFile follows a login or logout made by another process.
func (m Model) handleSessionFile(msg tuimsg.SessionChangedMsg) (tea.Model, tea.Cmd) {
	if msg.Removed || m.auth == nil {
		m.logger.Info("session file removed, signing out")
		m.store.Dispatch(state.SignOut{})
		return m.remount()
	}
	sess, err := m.auth.Restore()
	if err != nil {
		m.logger.Warn("failed to reload session", "error", err.Error())
		m.store.Dispatch(state.SignOut{})
		return m.remount()
	}
	m.store.Dispatch(state.SignIn{Identity: sess.Identity()})
	return m.remount()
}

// handleKeypress routes a key to the dashboard unless it is a global key.
// A dashboard with a focused text field gets everything but ctrl+c.
func (m Model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	if m.dash.Capturing() {
		return m, m.dash.Update(msg)
	}

	var local []keymap.Mode
	for _, mode := range m.dash.Modes() {
		if mode != keymap.ModeGlobal {
			local = append(local, mode)
		}
	}
	if _, ok := m.keys.Lookup(msg, local...); ok {
		return m, m.dash.Update(msg)
	}

	cmd, ok := m.keys.GetBinding(msg, keymap.ModeGlobal)
	if !ok {
		return m, m.dash.Update(msg)
	}
	switch cmd {
	case keymap.CmdQuit:
		return m.quit()
	case keymap.CmdToggleHelp:
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	case keymap.CmdCycleView:
		return m.cycleOverride()
	case keymap.CmdResetView:
		if m.res.Overridden {
			m.store.Dispatch(state.SetOverride{})
			return m.remount()
		}
		return m, nil
	case keymap.CmdHome:
		return m, tuimsg.Navigate("/")
	}
	return m, m.dash.Update(msg)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.Close()
	return m, tea.Quit
}

// cycleOverride moves an admin's viewed role to the next one in
// overrideCycle. Anyone else gets a hint instead.
func (m Model) cycleOverride() (tea.Model, tea.Cmd) {
	snap := m.store.Snapshot()
	if snap.Identity == nil || snap.Identity.Role != model.RoleAdmin {
		m.info = "Only admins can switch the viewed role."
		return m, nil
	}
	next := overrideCycle[0]
	for i, r := range overrideCycle {
		if r == snap.Override {
			next = overrideCycle[(i+1)%len(overrideCycle)]
			break
		}
	}
	m.store.Dispatch(state.SetOverride{Role: next})
	return m.remount()
}
