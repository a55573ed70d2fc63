package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ProjectStatusActive   = "ACTIVE"
	ProjectStatusArchived = "ARCHIVED"
)

type Project struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	Name           string     `json:"name"`
	Description    *string    `json:"description"`
	GitHubOwner    string     `json:"github_owner"`
	GitHubName     string     `json:"github_name"`
	HTMLURL        string     `json:"html_url"`
	Status         string     `json:"status"`
	Language       *string    `json:"language"`
	Stars          int        `json:"stars"`
	Forks          int        `json:"forks"`
	OpenIssues     int        `json:"open_issues"`
	LastCommitMsg  *string    `json:"last_commit_msg"`
	LastCommitDate *time.Time `json:"last_commit_date"`
	LastSyncedAt   *time.Time `json:"last_synced_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ProjectSync carries the GitHub metadata refreshed by the sync worker.
type ProjectSync struct {
	Language       *string
	Stars          int
	Forks          int
	OpenIssues     int
	LastCommitMsg  *string
	LastCommitDate *time.Time
}

type ImportProjectRequest struct {
	Owner       string  `json:"owner"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	HTMLURL     string  `json:"html_url"`
}
