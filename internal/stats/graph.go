package stats

import "time"

// Point is one session's contribution to the activity graph. Minutes is 0
// for a still-active session.
type Point struct {
	StartedAt time.Time
	Minutes   int
}

type GraphDay struct {
	Date    time.Time `json:"date"`
	Minutes int       `json:"minutes"`
	Level   int       `json:"level"`
	// InRange is false for grid cells before the account was created or
	// after today; the client renders those as blank.
	InRange bool `json:"in_range"`
}

type MonthLabel struct {
	Label string `json:"label"`
	Col   int    `json:"col"`
}

type Graph struct {
	Weeks        [][]GraphDay `json:"weeks"`
	MonthLabels  []MonthLabel `json:"month_labels"`
	TotalMinutes int          `json:"total_minutes"`
	ActiveDays   int          `json:"active_days"`
	MaxMinutes   int          `json:"max_minutes"`
}

// Level maps a day's minute total to its heatmap tier:
// 0, (0,30), [30,60), [60,120), [120,∞).
func Level(minutes int) int {
	switch {
	case minutes == 0:
		return 0
	case minutes < 30:
		return 1
	case minutes < 60:
		return 2
	case minutes < 120:
		return 3
	default:
		return 4
	}
}

// BuildGraph lays the user's session history onto a calendar grid of
// Sunday-first week columns, from the week of account creation through the
// week containing now.
func BuildGraph(points []Point, accountCreatedAt, now time.Time) Graph {
	accountDay := startOfDay(accountCreatedAt)
	today := startOfDay(now)

	start := startOfWeek(accountDay)
	end := today.AddDate(0, 0, 6-int(today.Weekday()))

	minutesByDay := make(map[dayKey]int)
	for _, p := range points {
		minutesByDay[keyOf(p.StartedAt)] += p.Minutes
	}

	g := Graph{MonthLabels: []MonthLabel{}}
	week := make([]GraphDay, 0, 7)

	for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 0, 1) {
		minutes := minutesByDay[keyOf(cursor)]
		day := GraphDay{
			Date:    cursor,
			Minutes: minutes,
			Level:   Level(minutes),
			InRange: !cursor.Before(accountDay) && !cursor.After(today),
		}
		week = append(week, day)

		if len(week) == 7 {
			g.Weeks = append(g.Weeks, week)
			week = make([]GraphDay, 0, 7)
		}

		if minutes > g.MaxMinutes {
			g.MaxMinutes = minutes
		}
	}
	if len(week) > 0 {
		g.Weeks = append(g.Weeks, week)
	}

	for _, m := range minutesByDay {
		if m > 0 {
			g.ActiveDays++
		}
	}
	for _, p := range points {
		g.TotalMinutes += p.Minutes
	}

	// Label the first column containing a 1st-of-month, skipping labels
	// that would land within 3 columns of the previous one.
	lastLabelCol := -4
	for i, w := range g.Weeks {
		for _, d := range w {
			if d.Date.Day() != 1 {
				continue
			}
			if i-lastLabelCol < 3 {
				break
			}
			g.MonthLabels = append(g.MonthLabels, MonthLabel{
				Label: d.Date.Format("Jan"),
				Col:   i,
			})
			lastLabelCol = i
			break
		}
	}

	if g.MaxMinutes == 0 {
		g.MaxMinutes = 1
	}

	return g
}
