package keymap

import tea "github.com/charmbracelet/bubbletea"

// Default is the keymap every dashboard reads from.
var Default = DefaultKeymap()

// DefaultKeymap returns the default keymap configuration.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name: "default",
		Modes: map[Mode]*ModeBindings{
			ModeGlobal:    defaultGlobalBindings(),
			ModeForm:      defaultFormBindings(),
			ModeLanding:   defaultLandingBindings(),
			ModeAttendee:  defaultAttendeeBindings(),
			ModeModerator: defaultModeratorBindings(),
			ModeOrganizer: defaultOrganizerBindings(),
			ModeSpeaker:   defaultSpeakerBindings(),
			ModeAdmin:     defaultAdminBindings(),
			ModePicker:    defaultPickerBindings(),
		},
	}
}

func r(ch rune, cmd Command, desc, cat string) KeyBinding {
	return KeyBinding{KeyType: tea.KeyRunes, Rune: ch, Command: cmd, Description: desc, Category: cat}
}

func k(t tea.KeyType, cmd Command, desc, cat string) KeyBinding {
	return KeyBinding{KeyType: t, Command: cmd, Description: desc, Category: cat}
}

func navigation() []KeyBinding {
	return []KeyBinding{
		r('j', CmdDown, "Down", "Navigation"),
		k(tea.KeyDown, CmdDown, "Down", "Navigation"),
		r('k', CmdUp, "Up", "Navigation"),
		k(tea.KeyUp, CmdUp, "Up", "Navigation"),
		k(tea.KeyTab, CmdNextPane, "Next pane", "Navigation"),
		k(tea.KeyShiftTab, CmdPrevPane, "Previous pane", "Navigation"),
	}
}

func defaultGlobalBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeGlobal,
		Bindings: []KeyBinding{
			k(tea.KeyCtrlC, CmdQuit, "Quit", "General"),
			r('q', CmdQuit, "Quit", "General"),
			r('?', CmdToggleHelp, "Toggle help", "General"),
			k(tea.KeyCtrlV, CmdCycleView, "Cycle viewed role (admin)", "General"),
			k(tea.KeyCtrlR, CmdResetView, "Reset viewed role (admin)", "General"),
			r('H', CmdHome, "Home", "General"),
		},
	}
}

func defaultFormBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeForm,
		Bindings: []KeyBinding{
			k(tea.KeyCtrlC, CmdQuit, "Quit", "General"),
			k(tea.KeyEnter, CmdSubmit, "Submit", "Form"),
			k(tea.KeyEsc, CmdCancel, "Cancel", "Form"),
			k(tea.KeyTab, CmdNextField, "Next field", "Form"),
			k(tea.KeyShiftTab, CmdPrevField, "Previous field", "Form"),
		},
	}
}

func defaultLandingBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeLanding,
		Bindings: []KeyBinding{
			r('l', CmdLogin, "Login", "Account"),
			r('r', CmdRegister, "Register", "Account"),
			r('g', CmdGoToEvent, "Go to event", "Events"),
			r('a', CmdOpen, "Attend event", "Events"),
		},
	}
}

func defaultAttendeeBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeAttendee,
		Bindings: append(navigation(),
			r('i', CmdFocusInput, "Ask a question", "Actions"),
			r('c', CmdSwitchRegion, "Write in chat", "Actions"),
			r('R', CmdRefresh, "Refresh", "Actions"),
			k(tea.KeyEnter, CmdOpen, "Open event", "Events"),
		),
	}
}

func defaultModeratorBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeModerator,
		Bindings: append(navigation(),
			r('a', CmdApprove, "Approve", "Questions"),
			r('d', CmdDelete, "Delete", "Questions"),
			r('f', CmdFlag, "Flag", "Questions"),
			r('r', CmdReject, "Reject synthesized", "Synthesized"),
			r('e', CmdEdit, "Edit synthesized", "Synthesized"),
			k(tea.KeySpace, CmdSelect, "Select for merge", "Questions"),
			r('m', CmdMerge, "Merge selected", "Questions"),
			r('s', CmdSynthesize, "Trigger synthesis", "Questions"),
			r('x', CmdExcludeAI, "Toggle exclude from AI", "Questions"),
			r('u', CmdMute, "Mute author", "Chat"),
			r('X', CmdExpel, "Expel author", "Chat"),
			r('b', CmdBan, "Ban author", "Chat"),
			r('U', CmdUnban, "Unban author", "Chat"),
			r('n', CmdNew, "Publish link", "Links"),
			r('C', CmdCloseEvent, "Close event", "Events"),
			k(tea.KeyEnter, CmdOpen, "Open event", "Events"),
			r('R', CmdRefresh, "Refresh", "Actions"),
		),
	}
}

func defaultOrganizerBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeOrganizer,
		Bindings: []KeyBinding{
			r('j', CmdDown, "Down", "Navigation"),
			k(tea.KeyDown, CmdDown, "Down", "Navigation"),
			r('k', CmdUp, "Up", "Navigation"),
			k(tea.KeyUp, CmdUp, "Up", "Navigation"),
			k(tea.KeyCtrlO, CmdSwitchRegion, "Switch to moderation", "Navigation"),
			r('e', CmdEdit, "Edit event", "Event"),
			r('+', CmdAddRole, "Add role", "Roles"),
			r('-', CmdRemoveRole, "Remove role", "Roles"),
			r('R', CmdRefresh, "Refresh", "Actions"),
		},
	}
}

func defaultSpeakerBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeSpeaker,
		Bindings: []KeyBinding{
			k(tea.KeyRight, CmdNext, "Next", "Presentation"),
			r('l', CmdNext, "Next", "Presentation"),
			r('n', CmdNext, "Next", "Presentation"),
			k(tea.KeyLeft, CmdPrev, "Previous", "Presentation"),
			r('h', CmdPrev, "Previous", "Presentation"),
			r('p', CmdPrev, "Previous", "Presentation"),
			r('d', CmdDismiss, "Dismiss", "Presentation"),
			k(tea.KeyDelete, CmdDismiss, "Dismiss", "Presentation"),
		},
	}
}

func defaultAdminBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeAdmin,
		Bindings: append(navigation(),
			r('e', CmdEdit, "Edit role", "Users"),
			r('b', CmdBan, "Ban user", "Users"),
			r('u', CmdUnban, "Unban user", "Users"),
			r(']', CmdFilterNext, "Next event filter", "Questions"),
			r('[', CmdFilterPrev, "Previous event filter", "Questions"),
			r('R', CmdRefresh, "Refresh", "Actions"),
		),
	}
}

func defaultPickerBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModePicker,
		Bindings: []KeyBinding{
			r('j', CmdDown, "Down", "Navigation"),
			k(tea.KeyDown, CmdDown, "Down", "Navigation"),
			r('k', CmdUp, "Up", "Navigation"),
			k(tea.KeyUp, CmdUp, "Up", "Navigation"),
			k(tea.KeyEnter, CmdOpen, "Open event", "Events"),
		},
	}
}

// Option cycling inside a form (role pickers, ban type) uses left/right.
var (
	CycleForward  = k(tea.KeyRight, CmdCycleOption, "Next option", "Form")
	CycleBackward = k(tea.KeyLeft, CmdCycleOptBack, "Previous option", "Form")
)
