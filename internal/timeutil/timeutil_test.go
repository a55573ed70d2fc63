package timeutil

import (
	"testing"
	"time"
)

func TestMinutes(t *testing.T) {
	tests := []struct {
		minutes  int
		expected string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h"},
		{125, "2h 5m"},
		{120, "2h"},
	}

	for _, tc := range tests {
		if got := Minutes(tc.minutes); got != tc.expected {
			t.Errorf("Minutes(%d) = %q, want %q", tc.minutes, got, tc.expected)
		}
	}
}

func TestTimer(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{3725, "01:02:05"},
	}

	for _, tc := range tests {
		if got := Timer(tc.seconds); got != tc.expected {
			t.Errorf("Timer(%d) = %q, want %q", tc.seconds, got, tc.expected)
		}
	}
}

func TestRelative(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)

	tests := []struct {
		t        time.Time
		expected string
	}{
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.AddDate(0, 0, -12), "12d ago"},
		{now.AddDate(0, 0, -65), "2mo ago"},
	}

	for _, tc := range tests {
		if got := Relative(tc.t, now); got != tc.expected {
			t.Errorf("Relative(%v) = %q, want %q", tc.t, got, tc.expected)
		}
	}
}

func TestFormatDateTime(t *testing.T) {
	now := time.Date(2024, 6, 15, 18, 0, 0, 0, time.Local)

	tests := []struct {
		name     string
		t        time.Time
		expected string
	}{
		{"today", time.Date(2024, 6, 15, 9, 5, 0, 0, time.Local), "09:05"},
		{"yesterday", time.Date(2024, 6, 14, 22, 30, 0, 0, time.Local), "yesterday 22:30"},
		{"older", time.Date(2024, 3, 2, 8, 0, 0, 0, time.Local), "Mar 2 08:00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatDateTime(tc.t, now); got != tc.expected {
				t.Errorf("FormatDateTime(%v) = %q, want %q", tc.t, got, tc.expected)
			}
		})
	}
}
