// Package stats derives dashboard statistics from a user's session history.
// Everything here is pure: callers pass the sessions and the current time,
// and all bucketing happens on local calendar days in the timezone of the
// inputs. Week columns and the "this week" window both start on Sunday.
package stats

import (
	"math"
	"time"
)

// Session is one completed study session, reduced to what aggregation needs.
type Session struct {
	Type            string
	StartedAt       time.Time
	DurationMinutes int
	// ContextName is the project name, else the course title, else "No context".
	ContextName string
}

type GlobalStats struct {
	TotalMinutes    int            `json:"total_minutes"`
	TotalHours      float64        `json:"total_hours"`
	SessionCount    int            `json:"session_count"`
	TodayMinutes    int            `json:"today_minutes"`
	ThisWeekMinutes int            `json:"this_week_minutes"`
	ByType          map[string]int `json:"by_type"`
	ByProject       map[string]int `json:"by_project"`
}

// NoContextLabel groups sessions without a project or course.
const NoContextLabel = "No context"

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns local midnight of the Sunday on or before t.
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// ComputeGlobalStats aggregates total, today and this-week minutes plus the
// per-type and per-context breakdowns. "Today" is the local calendar day of
// now; "this week" begins at the most recent Sunday midnight.
func ComputeGlobalStats(sessions []Session, now time.Time) GlobalStats {
	todayStart := startOfDay(now)
	weekStart := startOfWeek(now)

	gs := GlobalStats{
		SessionCount: len(sessions),
		ByType:       make(map[string]int),
		ByProject:    make(map[string]int),
	}

	for _, s := range sessions {
		gs.TotalMinutes += s.DurationMinutes
		gs.ByType[s.Type] += s.DurationMinutes

		name := s.ContextName
		if name == "" {
			name = NoContextLabel
		}
		gs.ByProject[name] += s.DurationMinutes

		if !s.StartedAt.Before(todayStart) {
			gs.TodayMinutes += s.DurationMinutes
		}
		if !s.StartedAt.Before(weekStart) {
			gs.ThisWeekMinutes += s.DurationMinutes
		}
	}

	// Hours to one decimal, rounding half up (45m is 0.8h, not 0.7h).
	gs.TotalHours = math.Round(float64(gs.TotalMinutes)/6) / 10

	return gs
}

type dayKey struct {
	year  int
	month time.Month
	day   int
}

func keyOf(t time.Time) dayKey {
	return dayKey{t.Year(), t.Month(), t.Day()}
}

// Streak counts consecutive local calendar days with at least one session,
// walking backward from today, or from yesterday when today has none yet.
// A gap at both today and yesterday means the streak is 0.
func Streak(startTimes []time.Time, now time.Time) int {
	if len(startTimes) == 0 {
		return 0
	}

	days := make(map[dayKey]bool, len(startTimes))
	for _, t := range startTimes {
		days[keyOf(t)] = true
	}

	cursor := startOfDay(now)
	if !days[keyOf(cursor)] {
		cursor = cursor.AddDate(0, 0, -1)
		if !days[keyOf(cursor)] {
			return 0
		}
	}

	streak := 0
	for days[keyOf(cursor)] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}

	return streak
}
