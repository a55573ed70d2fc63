package stats

import (
	"testing"
	"time"
)

func TestLevel_Tiers(t *testing.T) {
	tests := []struct {
		minutes int
		level   int
	}{
		{0, 0},
		{1, 1},
		{29, 1},
		{30, 2},
		{59, 2},
		{60, 3},
		{119, 3},
		{120, 4},
		{500, 4},
	}

	for _, tc := range tests {
		if got := Level(tc.minutes); got != tc.level {
			t.Errorf("Level(%d) = %d, want %d", tc.minutes, got, tc.level)
		}
	}
}

func TestBuildGraph_SingleActiveDay(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local)

	points := []Point{
		{StartedAt: time.Date(2024, 1, 3, 9, 0, 0, 0, time.Local), Minutes: 20},
		{StartedAt: time.Date(2024, 1, 3, 15, 0, 0, 0, time.Local), Minutes: 25},
	}

	g := BuildGraph(points, createdAt, now)

	// Jan 1 2024 is a Monday, so the grid starts Sunday Dec 31 and runs
	// through Saturday Jan 13: exactly two week columns.
	if len(g.Weeks) != 2 {
		t.Fatalf("expected 2 week columns, got %d", len(g.Weeks))
	}
	for i, w := range g.Weeks {
		if len(w) != 7 {
			t.Fatalf("week %d has %d days, want 7", i, len(w))
		}
	}

	if g.TotalMinutes != 45 {
		t.Errorf("TotalMinutes = %d, want 45", g.TotalMinutes)
	}
	if g.ActiveDays != 1 {
		t.Errorf("ActiveDays = %d, want 1", g.ActiveDays)
	}
	if g.MaxMinutes != 45 {
		t.Errorf("MaxMinutes = %d, want 45", g.MaxMinutes)
	}

	for _, w := range g.Weeks {
		for _, d := range w {
			wantLevel := 0
			if d.Date.Equal(time.Date(2024, 1, 3, 0, 0, 0, 0, time.Local)) {
				// 45 minutes lands in the [30,60) tier.
				wantLevel = 2
				if d.Minutes != 45 {
					t.Errorf("Jan 3 minutes = %d, want 45", d.Minutes)
				}
			}
			if d.Level != wantLevel {
				t.Errorf("%s: level = %d, want %d", d.Date.Format("2006-01-02"), d.Level, wantLevel)
			}
		}
	}
}

func TestBuildGraph_OutOfRangeCells(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local)

	g := BuildGraph(nil, createdAt, now)

	for _, w := range g.Weeks {
		for _, d := range w {
			beforeAccount := d.Date.Before(time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local))
			afterToday := d.Date.After(time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local))
			wantInRange := !beforeAccount && !afterToday
			if d.InRange != wantInRange {
				t.Errorf("%s: InRange = %v, want %v", d.Date.Format("2006-01-02"), d.InRange, wantInRange)
			}
		}
	}
}

func TestBuildGraph_MonthLabels(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

	g := BuildGraph(nil, createdAt, now)

	if len(g.MonthLabels) < 2 {
		t.Fatalf("expected labels for multiple months, got %v", g.MonthLabels)
	}
	if g.MonthLabels[0].Label != "Jan" || g.MonthLabels[0].Col != 0 {
		t.Errorf("first label = %+v, want Jan at col 0", g.MonthLabels[0])
	}
	for i := 1; i < len(g.MonthLabels); i++ {
		gap := g.MonthLabels[i].Col - g.MonthLabels[i-1].Col
		if gap < 3 {
			t.Errorf("labels %q and %q only %d columns apart", g.MonthLabels[i-1].Label, g.MonthLabels[i].Label, gap)
		}
	}
}

func TestBuildGraph_EmptyHistory(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.Local)

	g := BuildGraph(nil, createdAt, now)

	if g.TotalMinutes != 0 || g.ActiveDays != 0 {
		t.Errorf("empty history: total=%d active=%d, want 0/0", g.TotalMinutes, g.ActiveDays)
	}
	// MaxMinutes floors at 1 so clients can divide by it.
	if g.MaxMinutes != 1 {
		t.Errorf("MaxMinutes = %d, want 1", g.MaxMinutes)
	}
}

func TestBuildGraph_ActiveSessionContributesNothing(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	now := time.Date(2024, 1, 5, 12, 0, 0, 0, time.Local)

	points := []Point{
		{StartedAt: time.Date(2024, 1, 5, 11, 0, 0, 0, time.Local), Minutes: 0},
	}

	g := BuildGraph(points, createdAt, now)
	if g.ActiveDays != 0 {
		t.Errorf("a zero-minute point should not mark the day active, got ActiveDays=%d", g.ActiveDays)
	}
}
