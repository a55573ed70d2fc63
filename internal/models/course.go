package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	CourseStatusNotStarted = "NOT_STARTED"
	CourseStatusInProgress = "IN_PROGRESS"
	CourseStatusCompleted  = "COMPLETED"
	CourseStatusDropped    = "DROPPED"
)

type Course struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Title        string    `json:"title"`
	Platform     *string   `json:"platform"`
	URL          *string   `json:"url"`
	TotalHours   *int      `json:"total_hours"`
	Status       string    `json:"status"`
	Progress     int       `json:"progress"`
	SessionCount int       `json:"session_count"`
	TotalMinutes int       `json:"total_minutes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateCourseRequest struct {
	Title      string  `json:"title"`
	Platform   *string `json:"platform"`
	URL        *string `json:"url"`
	TotalHours *int    `json:"total_hours"`
}

// UpdateCourseRequest is a partial update; nil fields are left unchanged.
// Platform and URL distinguish "clear" from "leave alone" via OptionalString.
type UpdateCourseRequest struct {
	Title      *string        `json:"title"`
	Platform   OptionalString `json:"platform"`
	URL        OptionalString `json:"url"`
	TotalHours OptionalInt    `json:"total_hours"`
	Status     *string        `json:"status"`
	Progress   *int           `json:"progress"`
}

func ValidCourseStatus(s string) bool {
	switch s {
	case CourseStatusNotStarted, CourseStatusInProgress, CourseStatusCompleted, CourseStatusDropped:
		return true
	}
	return false
}
