// Package timeutil formats durations and timestamps for display.
package timeutil

import (
	"fmt"
	"time"
)

// Minutes renders a minute count as "2h 5m", "2h" or "45m".
func Minutes(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// Timer renders elapsed seconds as "HH:MM:SS".
func Timer(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Relative renders how long ago t was: "5m ago", "3h ago", "12d ago", "2mo ago".
func Relative(t, now time.Time) string {
	diff := now.Sub(t)
	if m := int(diff.Minutes()); m < 60 {
		return fmt.Sprintf("%dm ago", m)
	}
	if h := int(diff.Hours()); h < 24 {
		return fmt.Sprintf("%dh ago", h)
	}
	d := int(diff.Hours()) / 24
	if d < 30 {
		return fmt.Sprintf("%dd ago", d)
	}
	return fmt.Sprintf("%dmo ago", d/30)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// FormatDateTime renders t as "15:04" if today, "yesterday 15:04" if
// yesterday, otherwise "Jan 2 15:04".
func FormatDateTime(t, now time.Time) string {
	clock := t.Format("15:04")
	if sameDay(t, now) {
		return clock
	}
	if sameDay(t, now.AddDate(0, 0, -1)) {
		return "yesterday " + clock
	}
	return t.Format("Jan 2") + " " + clock
}
