package models

import (
	"time"

	"github.com/google/uuid"
)

type ProjectGoal struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	TargetDate  *time.Time `json:"target_date"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type CreateGoalRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	TargetDate  *time.Time `json:"target_date"`
}

type UpdateGoalRequest struct {
	Title       *string        `json:"title"`
	Description OptionalString `json:"description"`
	TargetDate  OptionalTime   `json:"target_date"`
	Completed   *bool          `json:"completed"`
}
