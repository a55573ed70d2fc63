package models

import "time"

// ProfileStats extends the dashboard counters with the per-session
// aggregates the profile page shows.
type ProfileStats struct {
	TotalMinutes      int        `json:"total_minutes"`
	TotalSessions     int        `json:"total_sessions"`
	TotalProjects     int        `json:"total_projects"`
	TotalCourses      int        `json:"total_courses"`
	CompletedCourses  int        `json:"completed_courses"`
	Streak            int        `json:"streak"`
	LongestSession    int        `json:"longest_session"`
	AvgSessionMinutes int        `json:"avg_session_minutes"`
	LastSessionAt     *time.Time `json:"last_session_at"`
}

type ProfileData struct {
	User        User           `json:"user"`
	Stats       ProfileStats   `json:"stats"`
	AllSessions []SessionPoint `json:"all_sessions"`
}
