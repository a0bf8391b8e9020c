package util

import (
	"testing"
	"time"
)

func TestFormatTime(t *testing.T) {
	now := time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		t      time.Time
		format string
		want   string
	}{
		{"zero", time.Time{}, RelativeTime, ""},
		{"just now", now, RelativeTime, "now"},
		{"minutes", now.Add(-3 * time.Minute), RelativeTime, "3 minutes ago"},
		{"hour", now.Add(-time.Hour), "", "1 hour ago"},
		{"future", now.Add(2 * time.Hour), RelativeTime, "2 hours from now"},
		{"layout", now, "2006", "2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTime(tt.t, tt.format, now); got != tt.want {
				t.Errorf("FormatTime() = %q, want %q", got, tt.want)
			}
		})
	}
}
