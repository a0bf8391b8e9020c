// Package styles holds the lipgloss styles shared by every dashboard.
//
// Styles are package variables so render code can use them directly. Apply
// rebuilds them from one of the built-in palettes; call it once before the
// program starts.
package styles

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors a theme defines.
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
	Surface   lipgloss.Color
	Text      lipgloss.Color
	Border    lipgloss.Color
	Selected  lipgloss.Color

	// Mono drops colors and relies on bold, underline and reverse only.
	Mono bool
}

// Built-in theme names.
const (
	ThemeDefault      = "default"
	ThemeHighContrast = "high_contrast"
	ThemeMono         = "mono"
)

// Themes lists the built-in themes.
func Themes() []string {
	return []string{ThemeDefault, ThemeHighContrast, ThemeMono}
}

// PaletteFor returns the palette of a built-in theme. Unknown names get the
// default palette.
func PaletteFor(name string) Palette {
	switch name {
	case ThemeHighContrast:
		return Palette{
			Primary:   lipgloss.Color("#FFFF00"),
			Secondary: lipgloss.Color("#00FF00"),
			Warning:   lipgloss.Color("#FFA500"),
			Error:     lipgloss.Color("#FF5555"),
			Muted:     lipgloss.Color("#D0D0D0"),
			Surface:   lipgloss.Color("#000000"),
			Text:      lipgloss.Color("#FFFFFF"),
			Border:    lipgloss.Color("#FFFFFF"),
			Selected:  lipgloss.Color("#0000AA"),
		}
	case ThemeMono:
		return Palette{Mono: true}
	default:
		// All colors meet WCAG AA contrast on dark terminals.
		return Palette{
			Primary:   lipgloss.Color("#A78BFA"),
			Secondary: lipgloss.Color("#10B981"),
			Warning:   lipgloss.Color("#F59E0B"),
			Error:     lipgloss.Color("#F87171"),
			Muted:     lipgloss.Color("#9CA3AF"),
			Surface:   lipgloss.Color("#1F2937"),
			Text:      lipgloss.Color("#F9FAFB"),
			Border:    lipgloss.Color("#6B7280"),
			Selected:  lipgloss.Color("#4C1D95"),
		}
	}
}

var (
	mu     sync.Mutex
	active = ThemeDefault

	// Colors of the active palette.
	PrimaryColor, SecondaryColor, WarningColor, ErrorColor lipgloss.Color
	MutedColor, SurfaceColor, TextColor, BorderColor       lipgloss.Color

	Primary, Secondary, Muted, Text lipgloss.Style

	// Base styles
	Title, Subtitle, Header, SectionTitle lipgloss.Style

	// Tabs
	TabActive, TabInactive lipgloss.Style

	// Boxes
	ContentBox, Card, Dialog lipgloss.Style

	// Lists
	ListItem, ListItemActive, ListItemSelected, Badge lipgloss.Style

	// Messages
	ErrorMsg, SuccessMsg, WarningMsg lipgloss.Style

	// Help bar
	HelpBar, HelpKey lipgloss.Style

	// Status bar
	StatusBar, Identity, OverrideBanner lipgloss.Style

	// Presentation
	Slide, SlideText, Position lipgloss.Style
)

func init() { Apply(ThemeDefault) }

// Active returns the name of the applied theme.
func Active() string {
	mu.Lock()
	defer mu.Unlock()
	return active
}

// Apply rebuilds every style from the named theme's palette.
func Apply(name string) {
	mu.Lock()
	defer mu.Unlock()
	p := PaletteFor(name)
	if name != ThemeHighContrast && name != ThemeMono {
		name = ThemeDefault
	}
	active = name
	build(p)
}

func build(p Palette) {
	PrimaryColor, SecondaryColor, WarningColor, ErrorColor = p.Primary, p.Secondary, p.Warning, p.Error
	MutedColor, SurfaceColor, TextColor, BorderColor = p.Muted, p.Surface, p.Text, p.Border

	fg := func(c lipgloss.Color) lipgloss.Style {
		s := lipgloss.NewStyle()
		if !p.Mono {
			s = s.Foreground(c)
		}
		return s
	}
	bg := func(s lipgloss.Style, c lipgloss.Color) lipgloss.Style {
		if p.Mono {
			return s.Reverse(true)
		}
		return s.Background(c)
	}
	border := func(s lipgloss.Style) lipgloss.Style {
		if p.Mono {
			return s
		}
		return s.BorderForeground(p.Border)
	}

	Primary = fg(p.Primary)
	Secondary = fg(p.Secondary)
	Muted = fg(p.Muted)
	Text = fg(p.Text)

	Title = fg(p.Primary).Bold(true).MarginBottom(1)
	Subtitle = fg(p.Muted).Italic(true)
	Header = border(fg(p.Primary).Bold(true).
		BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)).
		MarginBottom(1)
	SectionTitle = fg(p.Primary).Bold(true).Underline(p.Mono)

	TabActive = bg(fg(p.Text).Bold(true).Padding(0, 2), p.Primary)
	TabInactive = fg(p.Muted).Padding(0, 2)

	ContentBox = border(lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1))
	Card = border(lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2))
	Dialog = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(1, 2)
	if !p.Mono {
		Dialog = Dialog.BorderForeground(p.Warning)
	}

	ListItem = lipgloss.NewStyle().PaddingLeft(2)
	ListItemActive = bg(fg(p.Text).Bold(true).PaddingLeft(2), p.Selected)
	ListItemSelected = fg(p.Secondary).Bold(true)
	Badge = fg(p.Muted).Italic(true)

	ErrorMsg = fg(p.Error).Bold(true)
	SuccessMsg = fg(p.Secondary).Bold(true)
	WarningMsg = fg(p.Warning).Bold(true)

	HelpBar = fg(p.Muted).MarginTop(1)
	HelpKey = fg(p.Secondary).Bold(true)

	StatusBar = bg(fg(p.Text).Padding(0, 1), p.Surface)
	Identity = fg(p.Muted)
	OverrideBanner = bg(fg(p.Surface).Bold(true).Padding(0, 1), p.Warning)

	Slide = border(lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Padding(2, 4).Align(lipgloss.Center))
	SlideText = fg(p.Text).Bold(true)
	Position = fg(p.Muted).MarginTop(1)
}

// StatusColor returns the color for a question status.
func StatusColor(status string) lipgloss.Color {
	switch status {
	case "approved":
		return SecondaryColor
	case "pending":
		return MutedColor
	case "flagged":
		return WarningColor
	case "rejected", "deleted":
		return ErrorColor
	case "merged":
		return PrimaryColor
	default:
		return MutedColor
	}
}

// StatusIcon returns an icon for a question status.
func StatusIcon(status string) string {
	switch status {
	case "approved":
		return "✓"
	case "pending":
		return "○"
	case "flagged":
		return "⚑"
	case "rejected", "deleted":
		return "✗"
	case "merged":
		return "⇉"
	default:
		return "●"
	}
}

// Status renders a question status badge.
func Status(status string) string {
	if status == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(StatusColor(status)).Render("(" + status + ")")
}
