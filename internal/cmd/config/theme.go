package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	appconfig "github.com/quorix/quorix/internal/config"
	"github.com/quorix/quorix/internal/tui/styles"
	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Inspect color themes",
	Long: `Inspect the built-in color themes of the Quorix dashboards.

Select one with 'quorix config set tui.theme <name>'.`,
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available themes",
	RunE:  runThemeList,
}

var themeInfoCmd = &cobra.Command{
	Use:   "info <theme-name>",
	Short: "Show the palette of a theme",
	Args:  cobra.ExactArgs(1),
	RunE:  runThemeInfo,
}

func init() {
	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeInfoCmd)
	configCmd.AddCommand(themeCmd)
}

func runThemeList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	current := appconfig.Get().TUI.Theme

	fmt.Fprintln(out, "Available themes:")
	for _, name := range styles.Themes() {
		marker := " "
		if name == current {
			marker = "*"
		}
		fmt.Fprintf(out, "  %s %s\n", marker, name)
	}
	return nil
}

func runThemeInfo(cmd *cobra.Command, args []string) error {
	name := args[0]
	if !slices.Contains(styles.Themes(), name) {
		return fmt.Errorf("unknown theme: %s\n\nValid options: %s", name, strings.Join(styles.Themes(), ", "))
	}

	out := cmd.OutOrStdout()
	palette := styles.PaletteFor(name)
	fmt.Fprintf(out, "Theme: %s\n\n", name)
	if palette.Mono {
		fmt.Fprintln(out, "No colors; emphasis uses bold, underline and reverse video.")
		return nil
	}

	fmt.Fprintln(out, "Colors:")
	for _, c := range []struct {
		label string
		color lipgloss.Color
	}{
		{"Primary", palette.Primary},
		{"Secondary", palette.Secondary},
		{"Warning", palette.Warning},
		{"Error", palette.Error},
		{"Muted", palette.Muted},
		{"Surface", palette.Surface},
		{"Text", palette.Text},
		{"Border", palette.Border},
		{"Selected", palette.Selected},
	} {
		swatch := lipgloss.NewStyle().Background(c.color).Render("  ")
		fmt.Fprintf(out, "  %-10s %s %s\n", c.label+":", swatch, c.color)
	}
	return nil
}
