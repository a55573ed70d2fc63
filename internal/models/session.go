package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SessionTypeCoding    = "CODING"
	SessionTypeLearning  = "LEARNING"
	SessionTypeDebugging = "DEBUGGING"
	SessionTypeReviewing = "REVIEWING"
	SessionTypePlanning  = "PLANNING"
)

func ValidSessionType(t string) bool {
	switch t {
	case SessionTypeCoding, SessionTypeLearning, SessionTypeDebugging, SessionTypeReviewing, SessionTypePlanning:
		return true
	}
	return false
}

// SessionProject and SessionCourse are the resolved display fields of a
// session's context, joined in by the repository.
type SessionProject struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	GitHubOwner string    `json:"github_owner"`
	GitHubName  string    `json:"github_name"`
}

type SessionCourse struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type StudySession struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Type            string          `json:"type"`
	StartedAt       time.Time       `json:"started_at"`
	EndedAt         *time.Time      `json:"ended_at"`
	DurationMinutes *int            `json:"duration_minutes"`
	Note            *string         `json:"note"`
	ProjectID       *uuid.UUID      `json:"project_id"`
	CourseID        *uuid.UUID      `json:"course_id"`
	Project         *SessionProject `json:"project"`
	Course          *SessionCourse  `json:"course"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (s *StudySession) Active() bool {
	return s.EndedAt == nil
}

// SessionView is a StudySession plus the display strings session lists
// render: a "2h 5m" duration label and a "3h ago" start label.
type SessionView struct {
	StudySession
	DurationLabel string `json:"duration_label,omitempty"`
	StartedAgo    string `json:"started_ago"`
}

// SessionPoint is the minimal per-session shape the activity graph needs.
type SessionPoint struct {
	StartedAt       time.Time `json:"started_at"`
	DurationMinutes *int      `json:"duration_minutes"`
}

// EndedSession is the aggregation input: one row per completed session with
// its resolved context display name.
type EndedSession struct {
	Type            string    `json:"type"`
	StartedAt       time.Time `json:"started_at"`
	DurationMinutes int       `json:"duration_minutes"`
	ContextName     string    `json:"context_name"`
}

type StartSessionRequest struct {
	Type      string     `json:"type"`
	ProjectID *uuid.UUID `json:"project_id"`
	CourseID  *uuid.UUID `json:"course_id"`
}

type StopSessionRequest struct {
	Note *string `json:"note"`
}

// SessionContextPatch reassigns a session's project/course association.
// Each field may be omitted (unchanged), null (cleared) or an id (set).
type SessionContextPatch struct {
	ProjectID OptionalUUID `json:"project_id"`
	CourseID  OptionalUUID `json:"course_id"`
}

type ContextOptions struct {
	Projects []SessionProject `json:"projects"`
	Courses  []SessionCourse  `json:"courses"`
}
