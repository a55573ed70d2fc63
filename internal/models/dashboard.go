package models

import "time"

type DashboardUser struct {
	Login     string    `json:"login"`
	Name      *string   `json:"name"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

type DashboardStats struct {
	TotalMinutes     int `json:"total_minutes"`
	TodayMinutes     int `json:"today_minutes"`
	ThisWeekMinutes  int `json:"this_week_minutes"`
	Streak           int `json:"streak"`
	TotalSessions    int `json:"total_sessions"`
	TotalProjects    int `json:"total_projects"`
	TotalCourses     int `json:"total_courses"`
	CompletedCourses int `json:"completed_courses"`
}

// DashboardData is the single read-optimized snapshot the dashboard page
// renders from. Pure assembly of the other services' outputs.
type DashboardData struct {
	User           DashboardUser  `json:"user"`
	Stats          DashboardStats `json:"stats"`
	RecentProjects []Project      `json:"recent_projects"`
	ActiveCourses  []Course       `json:"active_courses"`
	RecentSessions []SessionView  `json:"recent_sessions"`
	AllSessions    []SessionPoint `json:"all_sessions"`
}
