package util

import (
	"time"

	"github.com/dustin/go-humanize"
)

// RelativeTime is the time format that renders "3 minutes ago".
const RelativeTime = "relative"

// FormatTime renders t for a list row. With RelativeTime it is relative to
// now; any other format is used as a Go layout in local time. The zero time
// renders as "".
func FormatTime(t time.Time, format string, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	if format == "" || format == RelativeTime {
		return humanize.RelTime(t, now, "ago", "from now")
	}
	return t.Local().Format(format)
}
