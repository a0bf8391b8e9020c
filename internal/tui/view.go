package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/quorix/quorix/internal/tui/styles"
)

// View renders the header, the mounted dashboard and the help footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)
	body := lipgloss.NewStyle().
		MaxHeight(bodyHeight).
		Render(m.dash.View(m.width, bodyHeight))

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader() string {
	left := styles.Primary.Bold(true).Render("Quorix")
	if path := m.res.Route.Path; path != "" {
		left += styles.Muted.Render("  " + path)
	}

	var right []string
	if m.res.Overridden {
		right = append(right, styles.OverrideBanner.Render(fmt.Sprintf("Viewing as %s · ctrl+r to reset", m.res.Role)))
	}
	if id := m.store.Snapshot().Identity; id != nil {
		right = append(right, styles.Identity.Render(fmt.Sprintf("%s (%s)", id.DisplayName(), id.Role)))
	} else {
		right = append(right, styles.Identity.Render("Not signed in"))
	}
	rightText := strings.Join(right, "  ")

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(rightText)-2, 1)
	return styles.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + rightText)
}

func (m Model) renderFooter() string {
	var b strings.Builder
	if m.info != "" {
		b.WriteString(styles.WarningMsg.Render(m.info))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys.Help(m.dash.Modes()...)))
	return styles.HelpBar.Render(b.String())
}
