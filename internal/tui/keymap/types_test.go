package keymap

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestKeyBindingMatches(t *testing.T) {
	tests := []struct {
		name     string
		binding  KeyBinding
		msg      tea.KeyMsg
		expected bool
	}{
		{
			name:     "simple rune match",
			binding:  KeyBinding{KeyType: tea.KeyRunes, Rune: 'a'},
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}},
			expected: true,
		},
		{
			name:     "simple rune mismatch",
			binding:  KeyBinding{KeyType: tea.KeyRunes, Rune: 'a'},
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}},
			expected: false,
		},
		{
			name:     "rune is case sensitive",
			binding:  KeyBinding{KeyType: tea.KeyRunes, Rune: 'R'},
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}},
			expected: false,
		},
		{
			name:     "special key match",
			binding:  KeyBinding{KeyType: tea.KeyEnter},
			msg:      tea.KeyMsg{Type: tea.KeyEnter},
			expected: true,
		},
		{
			name:     "alt required",
			binding:  KeyBinding{KeyType: tea.KeyEnter, Alt: true},
			msg:      tea.KeyMsg{Type: tea.KeyEnter},
			expected: false,
		},
		{
			name:     "alt given but not bound",
			binding:  KeyBinding{KeyType: tea.KeyRunes, Rune: 'a'},
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}, Alt: true},
			expected: false,
		},
		{
			name:     "empty runes",
			binding:  KeyBinding{KeyType: tea.KeyRunes, Rune: 'a'},
			msg:      tea.KeyMsg{Type: tea.KeyRunes},
			expected: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.binding.Matches(tt.msg); got != tt.expected {
				t.Errorf("Matches() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestKeyBindingString(t *testing.T) {
	tests := []struct {
		binding KeyBinding
		want    string
	}{
		{KeyBinding{KeyType: tea.KeyRunes, Rune: 'j'}, "j"},
		{KeyBinding{KeyType: tea.KeyRunes, Rune: ' '}, "space"},
		{KeyBinding{KeyType: tea.KeyEnter}, "enter"},
		{KeyBinding{KeyType: tea.KeyCtrlV}, "ctrl+v"},
		{KeyBinding{KeyType: tea.KeyEnter, Alt: true}, "alt+enter"},
	}
	for _, tt := range tests {
		if got := tt.binding.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestDefaultKeymap_NoConflictsWithinMode(t *testing.T) {
	km := DefaultKeymap()
	for mode, mb := range km.Modes {
		seen := map[string]Command{}
		for _, b := range mb.Bindings {
			key := b.String()
			if prev, ok := seen[key]; ok && prev != b.Command {
				t.Errorf("mode %s: key %q bound to both %s and %s", mode, key, prev, b.Command)
			}
			seen[key] = b.Command
		}
	}
}

func TestDefaultKeymap_ModesDoNotShadowGlobalKeys(t *testing.T) {
	km := DefaultKeymap()
	global := map[string]bool{}
	for _, b := range km.Modes[ModeGlobal].Bindings {
		global[b.String()] = true
	}
	for mode, mb := range km.Modes {
		if mode == ModeGlobal || mode == ModeForm {
			continue
		}
		for _, b := range mb.Bindings {
			if global[b.String()] {
				t.Errorf("mode %s rebinds global key %q", mode, b.String())
			}
		}
	}
}

func TestKeymap_Lookup(t *testing.T) {
	km := DefaultKeymap()
	a := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}

	if cmd, ok := km.Lookup(a, ModeModerator, ModeGlobal); !ok || cmd != CmdApprove {
		t.Errorf("moderator a = %v %v, want approve", cmd, ok)
	}
	if cmd, ok := km.Lookup(a, ModeLanding, ModeGlobal); !ok || cmd != CmdOpen {
		t.Errorf("landing a = %v %v, want open", cmd, ok)
	}
	q := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
	if cmd, ok := km.Lookup(q, ModeSpeaker, ModeGlobal); !ok || cmd != CmdQuit {
		t.Errorf("q falls through to global: %v %v", cmd, ok)
	}
	if _, ok := km.Lookup(a, Mode("missing")); ok {
		t.Error("unknown mode should not match")
	}
}

func TestModeBindings_Help(t *testing.T) {
	km := DefaultKeymap()
	help := km.Help(ModeSpeaker, ModeGlobal)

	short := help.ShortHelp()
	commands := map[string]int{}
	for _, b := range short {
		commands[b.Help().Desc]++
	}
	if commands["Next"] != 1 {
		t.Errorf("short help should list Next once, got %d", commands["Next"])
	}

	full := help.FullHelp()
	if len(full) != 2 {
		t.Errorf("FullHelp() has %d columns, want Presentation and General", len(full))
	}
}
