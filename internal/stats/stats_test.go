package stats

import (
	"testing"
	"time"
)

// now is a Wednesday mid-afternoon; all tests bucket relative to it.
var testNow = time.Date(2024, 1, 10, 15, 30, 0, 0, time.Local)

func day(offset int, hour int) time.Time {
	return time.Date(2024, 1, 10+offset, hour, 0, 0, 0, time.Local)
}

func TestStreak_ConsecutiveDays(t *testing.T) {
	tests := []struct {
		name     string
		starts   []time.Time
		expected int
	}{
		{
			"three consecutive days ending today",
			[]time.Time{day(-2, 9), day(-1, 14), day(0, 8)},
			3,
		},
		{
			"gap two days ago limits streak",
			[]time.Time{day(-3, 9), day(-1, 14), day(0, 8)},
			2,
		},
		{
			"no session today or yesterday breaks streak",
			[]time.Time{day(-3, 9)},
			0,
		},
		{
			"streak alive through yesterday",
			[]time.Time{day(-2, 9), day(-1, 23)},
			2,
		},
		{
			"multiple sessions per day count once",
			[]time.Time{day(0, 8), day(0, 12), day(0, 20), day(-1, 9)},
			2,
		},
		{
			"empty history",
			nil,
			0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Streak(tc.starts, testNow)
			if got != tc.expected {
				t.Errorf("Streak() = %d, want %d", got, tc.expected)
			}
		})
	}
}

func TestStreak_OrderIndependent(t *testing.T) {
	ordered := []time.Time{day(-2, 9), day(-1, 9), day(0, 9)}
	shuffled := []time.Time{day(0, 9), day(-2, 9), day(-1, 9)}

	if Streak(ordered, testNow) != Streak(shuffled, testNow) {
		t.Error("Streak should not depend on input order")
	}
}

func TestComputeGlobalStats_Windows(t *testing.T) {
	midnight := time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local)

	sessions := []Session{
		// Exactly at local midnight: counts as today.
		{Type: "CODING", StartedAt: midnight, DurationMinutes: 30, ContextName: "devtrack"},
		// One millisecond before midnight: yesterday.
		{Type: "CODING", StartedAt: midnight.Add(-time.Millisecond), DurationMinutes: 10, ContextName: "devtrack"},
		// Sunday Jan 7 is this week's start; Saturday Jan 6 is last week.
		{Type: "LEARNING", StartedAt: time.Date(2024, 1, 7, 0, 0, 0, 0, time.Local), DurationMinutes: 20},
		{Type: "LEARNING", StartedAt: time.Date(2024, 1, 6, 23, 59, 0, 0, time.Local), DurationMinutes: 40},
	}

	gs := ComputeGlobalStats(sessions, testNow)

	if gs.TodayMinutes != 30 {
		t.Errorf("TodayMinutes = %d, want 30", gs.TodayMinutes)
	}
	if gs.ThisWeekMinutes != 60 {
		t.Errorf("ThisWeekMinutes = %d, want 60", gs.ThisWeekMinutes)
	}
	if gs.TotalMinutes != 100 {
		t.Errorf("TotalMinutes = %d, want 100", gs.TotalMinutes)
	}
	if gs.SessionCount != 4 {
		t.Errorf("SessionCount = %d, want 4", gs.SessionCount)
	}
}

func TestComputeGlobalStats_Breakdowns(t *testing.T) {
	sessions := []Session{
		{Type: "CODING", StartedAt: day(0, 9), DurationMinutes: 25, ContextName: "devtrack"},
		{Type: "CODING", StartedAt: day(-1, 9), DurationMinutes: 35, ContextName: "devtrack"},
		{Type: "DEBUGGING", StartedAt: day(-1, 11), DurationMinutes: 15, ContextName: "Rust course"},
		{Type: "PLANNING", StartedAt: day(-2, 11), DurationMinutes: 5},
	}

	gs := ComputeGlobalStats(sessions, testNow)

	if gs.ByType["CODING"] != 60 {
		t.Errorf("ByType[CODING] = %d, want 60", gs.ByType["CODING"])
	}
	if gs.ByType["DEBUGGING"] != 15 {
		t.Errorf("ByType[DEBUGGING] = %d, want 15", gs.ByType["DEBUGGING"])
	}
	if _, ok := gs.ByType["REVIEWING"]; ok {
		t.Error("ByType should only contain types that occur")
	}

	if gs.ByProject["devtrack"] != 60 {
		t.Errorf("ByProject[devtrack] = %d, want 60", gs.ByProject["devtrack"])
	}
	if gs.ByProject["Rust course"] != 15 {
		t.Errorf("ByProject[Rust course] = %d, want 15", gs.ByProject["Rust course"])
	}
	if gs.ByProject[NoContextLabel] != 5 {
		t.Errorf("ByProject[%q] = %d, want 5", NoContextLabel, gs.ByProject[NoContextLabel])
	}
}

func TestComputeGlobalStats_Empty(t *testing.T) {
	gs := ComputeGlobalStats(nil, testNow)
	if gs.TotalMinutes != 0 || gs.SessionCount != 0 || gs.TotalHours != 0 {
		t.Errorf("empty history should produce zero stats, got %+v", gs)
	}
}

func TestComputeGlobalStats_TotalHours(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		want    float64
	}{
		{"exact half hours", 90, 1.5},
		{"45 minutes rounds up", 45, 0.8},
		{"44 minutes rounds down", 44, 0.7},
		{"sub-3 minutes rounds to zero", 2, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sessions := []Session{
				{Type: "CODING", StartedAt: day(0, 9), DurationMinutes: tc.minutes},
			}
			gs := ComputeGlobalStats(sessions, testNow)
			if gs.TotalHours != tc.want {
				t.Errorf("TotalHours = %v, want %v", gs.TotalHours, tc.want)
			}
		})
	}
}
