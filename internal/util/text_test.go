package util

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{name: "fits", in: "hello", width: 5, want: "hello"},
		{name: "cut", in: "hello world", width: 8, want: "hello w…"},
		{name: "wide runes", in: "日本語のテキスト", width: 7, want: "日本語…"},
		{name: "zero width", in: "hello", width: 0, want: ""},
		{name: "styled", in: "\x1b[1mbold text\x1b[0m", width: 20, want: "\x1b[1mbold text\x1b[0m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.width); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestTruncateKeepsEscapes(t *testing.T) {
	in := "\x1b[31mred text that is long\x1b[0m"
	got := Truncate(in, 8)
	if w := lipgloss.Width(got); w != 8 {
		t.Errorf("width = %d, want 8 (%q)", w, got)
	}
	if got[:5] != "\x1b[31m" {
		t.Errorf("leading escape lost: %q", got)
	}
}

func TestCell(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{name: "pads", in: "ab", width: 5, want: "ab   "},
		{name: "collapses newlines", in: "two\nlines  here", width: 16, want: "two lines here  "},
		{name: "truncates", in: "a long question", width: 6, want: "a lon…"},
		{name: "wide runes pad by columns", in: "日本", width: 6, want: "日本  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cell(tt.in, tt.width)
			if got != tt.want {
				t.Errorf("Cell(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
			if w := lipgloss.Width(got); w != tt.width {
				t.Errorf("width = %d, want %d", w, tt.width)
			}
		})
	}
}
