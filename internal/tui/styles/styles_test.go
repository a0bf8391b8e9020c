package styles

import "testing"

func TestApply(t *testing.T) {
	t.Cleanup(func() { Apply(ThemeDefault) })

	tests := []struct {
		theme      string
		wantActive string
		wantError  string
	}{
		{ThemeDefault, ThemeDefault, "#F87171"},
		{ThemeHighContrast, ThemeHighContrast, "#FF5555"},
		{ThemeMono, ThemeMono, ""},
		{"solarized", ThemeDefault, "#F87171"},
	}
	for _, tt := range tests {
		t.Run(tt.theme, func(t *testing.T) {
			Apply(tt.theme)
			if Active() != tt.wantActive {
				t.Errorf("Active() = %q, want %q", Active(), tt.wantActive)
			}
			if string(ErrorColor) != tt.wantError {
				t.Errorf("ErrorColor = %q, want %q", ErrorColor, tt.wantError)
			}
		})
	}
}

func TestThemesMatchPalettes(t *testing.T) {
	for _, name := range Themes() {
		p := PaletteFor(name)
		if name == ThemeMono {
			if !p.Mono {
				t.Error("mono palette should be marked Mono")
			}
			continue
		}
		if p.Primary == "" || p.Text == "" {
			t.Errorf("theme %q has empty colors", name)
		}
	}
}

func TestStatusColor(t *testing.T) {
	Apply(ThemeDefault)
	tests := []struct {
		status   string
		expected string
	}{
		{"approved", "#10B981"},
		{"pending", "#9CA3AF"},
		{"flagged", "#F59E0B"},
		{"rejected", "#F87171"},
		{"merged", "#A78BFA"},
		{"mystery", "#9CA3AF"},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := StatusColor(tt.status); string(got) != tt.expected {
				t.Errorf("StatusColor(%q) = %q, want %q", tt.status, got, tt.expected)
			}
		})
	}
}

func TestStatusIcon(t *testing.T) {
	tests := []struct {
		status   string
		expected string
	}{
		{"approved", "✓"},
		{"pending", "○"},
		{"flagged", "⚑"},
		{"deleted", "✗"},
		{"merged", "⇉"},
		{"mystery", "●"},
	}
	for _, tt := range tests {
		if got := StatusIcon(tt.status); got != tt.expected {
			t.Errorf("StatusIcon(%q) = %q, want %q", tt.status, got, tt.expected)
		}
	}
}
