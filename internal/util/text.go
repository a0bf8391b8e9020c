// Package util holds small text and time helpers shared by the dashboards.
package util

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// Truncate shortens s to at most width terminal columns, ending in an
// ellipsis when anything was cut. Escape sequences are kept intact.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, Ellipsis)
}

// Cell fits plain text into a table column of exactly width columns: runs
// of whitespace (including newlines in user text) become one space, long
// text is truncated and short text is padded.
func Cell(s string, width int) string {
	s = Truncate(strings.Join(strings.Fields(s), " "), width)
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
