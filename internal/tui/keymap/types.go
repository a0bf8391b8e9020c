// Package keymap provides key binding definitions and lookup for the TUI.
// Each dashboard context is a Mode with its own bindings, so a key can mean
// "approve" on the moderator queue and "previous" on the speaker deck.
package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode represents the input context the keys are read in.
type Mode string

const (
	ModeGlobal    Mode = "global"    // Always active unless a form has focus
	ModeForm      Mode = "form"      // A text input has focus
	ModeLanding   Mode = "landing"   // Anonymous landing page
	ModeAttendee  Mode = "attendee"  // Question form and chat
	ModeModerator Mode = "moderator" // Moderation queue and side panes
	ModeOrganizer Mode = "organizer" // Event metadata and roles
	ModeSpeaker   Mode = "speaker"   // Presentation deck
	ModeAdmin     Mode = "admin"     // User management and global questions
	ModePicker    Mode = "picker"    // Event list on the root route
)

// Command represents a named action that can be triggered by a key binding.
type Command string

// Global commands
const (
	CmdQuit         Command = "quit"
	CmdToggleHelp   Command = "toggle_help"
	CmdCycleView    Command = "cycle_view_override"
	CmdResetView    Command = "reset_view_override"
	CmdHome         Command = "home"
	CmdNextPane     Command = "next_pane"
	CmdPrevPane     Command = "prev_pane"
	CmdUp           Command = "up"
	CmdDown         Command = "down"
	CmdOpen         Command = "open"
	CmdRefresh      Command = "refresh"
	CmdFocusInput   Command = "focus_input"
	CmdSwitchRegion Command = "switch_region"
)

// Form commands
const (
	CmdSubmit    Command = "submit"
	CmdCancel    Command = "cancel"
	CmdNextField Command = "next_field"
	CmdPrevField Command = "prev_field"
)

// Landing commands
const (
	CmdLogin     Command = "login"
	CmdRegister  Command = "register"
	CmdGoToEvent Command = "go_to_event"
)

// Moderation commands
const (
	CmdApprove    Command = "approve"
	CmdDelete     Command = "delete"
	CmdFlag       Command = "flag"
	CmdReject     Command = "reject"
	CmdEdit       Command = "edit"
	CmdSelect     Command = "select"
	CmdMerge      Command = "merge"
	CmdSynthesize Command = "synthesize"
	CmdExcludeAI  Command = "exclude_ai"
	CmdMute       Command = "mute"
	CmdExpel      Command = "expel"
	CmdBan        Command = "ban"
	CmdUnban      Command = "unban"
	CmdNew        Command = "new"
	CmdCloseEvent Command = "close_event"
)

// Organizer and admin commands
const (
	CmdAddRole      Command = "add_role"
	CmdRemoveRole   Command = "remove_role"
	CmdFilterNext   Command = "filter_next"
	CmdFilterPrev   Command = "filter_prev"
	CmdCycleOption  Command = "cycle_option"
	CmdCycleOptBack Command = "cycle_option_back"
)

// Speaker commands
const (
	CmdNext    Command = "next"
	CmdPrev    Command = "prev"
	CmdDismiss Command = "dismiss"
)

// KeyBinding represents a single key binding configuration.
type KeyBinding struct {
	// KeyType is the key. For rune keys use tea.KeyRunes and set Rune.
	KeyType tea.KeyType

	// Rune is the character for rune-based keys.
	Rune rune

	// Alt requires the alt modifier.
	Alt bool

	// Command is the action to execute when this binding is triggered.
	Command Command

	// Description is a human-readable description for help display.
	Description string

	// Category groups related bindings together in help display.
	Category string
}

// Matches checks if a tea.KeyMsg matches this binding.
func (kb KeyBinding) Matches(msg tea.KeyMsg) bool {
	if msg.Alt != kb.Alt {
		return false
	}
	if kb.KeyType != tea.KeyRunes {
		return msg.Type == kb.KeyType
	}
	if msg.Type != tea.KeyRunes || len(msg.Runes) == 0 {
		return false
	}
	return msg.Runes[0] == kb.Rune
}

// String returns a human-readable representation of the key binding.
func (kb KeyBinding) String() string {
	prefix := ""
	if kb.Alt {
		prefix = "alt+"
	}
	if kb.KeyType != tea.KeyRunes {
		return prefix + kb.KeyType.String()
	}
	if kb.Rune == ' ' {
		return prefix + "space"
	}
	return prefix + string(kb.Rune)
}

// Binding converts kb for use with the bubbles help view.
func (kb KeyBinding) Binding() key.Binding {
	return key.NewBinding(key.WithKeys(kb.String()), key.WithHelp(kb.String(), kb.Description))
}

// ModeBindings holds all key bindings for a specific mode.
type ModeBindings struct {
	Mode     Mode
	Bindings []KeyBinding
}

// GetBinding looks up a command for a key in this mode.
func (mb *ModeBindings) GetBinding(msg tea.KeyMsg) (Command, bool) {
	for _, binding := range mb.Bindings {
		if binding.Matches(msg) {
			return binding.Command, true
		}
	}
	return "", false
}

// ShortHelp implements help.KeyMap: the first binding of each command.
func (mb *ModeBindings) ShortHelp() []key.Binding {
	seen := make(map[Command]bool)
	var out []key.Binding
	for _, b := range mb.Bindings {
		if seen[b.Command] {
			continue
		}
		seen[b.Command] = true
		out = append(out, b.Binding())
	}
	return out
}

// FullHelp implements help.KeyMap: one column per category.
func (mb *ModeBindings) FullHelp() [][]key.Binding {
	var order []string
	cols := make(map[string][]key.Binding)
	for _, b := range mb.Bindings {
		cat := b.Category
		if cat == "" {
			cat = "Other"
		}
		if _, ok := cols[cat]; !ok {
			order = append(order, cat)
		}
		cols[cat] = append(cols[cat], b.Binding())
	}
	out := make([][]key.Binding, 0, len(order))
	for _, cat := range order {
		out = append(out, cols[cat])
	}
	return out
}

// Keymap contains all key bindings organized by mode.
type Keymap struct {
	Name  string
	Modes map[Mode]*ModeBindings
}

// GetBinding looks up a command for a key in a specific mode.
func (km *Keymap) GetBinding(msg tea.KeyMsg, mode Mode) (Command, bool) {
	mb, ok := km.Modes[mode]
	if !ok {
		return "", false
	}
	return mb.GetBinding(msg)
}

// Lookup tries each mode in order and returns the first match.
func (km *Keymap) Lookup(msg tea.KeyMsg, modes ...Mode) (Command, bool) {
	for _, mode := range modes {
		if cmd, ok := km.GetBinding(msg, mode); ok {
			return cmd, true
		}
	}
	return "", false
}

// Help returns the bindings of the given modes merged into one help.KeyMap.
func (km *Keymap) Help(modes ...Mode) *ModeBindings {
	merged := &ModeBindings{Mode: Mode(joinModes(modes))}
	for _, mode := range modes {
		if mb, ok := km.Modes[mode]; ok {
			merged.Bindings = append(merged.Bindings, mb.Bindings...)
		}
	}
	return merged
}

func joinModes(modes []Mode) string {
	parts := make([]string, len(modes))
	for i, m := range modes {
		parts[i] = string(m)
	}
	return strings.Join(parts, "+")
}
