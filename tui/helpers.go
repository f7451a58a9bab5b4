package tui

import (
	"fmt"
	"time"
)

// relativeTime formats a Unix timestamp relative to now (e.g. "3s ago").
// Zero means the consumer never announced itself.
func relativeTime(ts int64, now time.Time) string {
	if ts == 0 {
		return "-"
	}
	d := now.Sub(time.Unix(ts, 0))
	if d < 0 {
		return "just now"
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}
