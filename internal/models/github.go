package models

import "time"

// GitHubRepo mirrors the fields of GET /user/repos this app consumes.
type GitHubRepo struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	FullName    string     `json:"full_name"`
	Description *string    `json:"description"`
	HTMLURL     string     `json:"html_url"`
	Language    *string    `json:"language"`
	Stars       int        `json:"stargazers_count"`
	Forks       int        `json:"forks_count"`
	OpenIssues  int        `json:"open_issues_count"`
	Private     bool       `json:"private"`
	PushedAt    *time.Time `json:"pushed_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
}

type GitHubCommitSummary struct {
	SHA         string    `json:"sha"`
	Message     string    `json:"message"`
	AuthorLogin string    `json:"author_login"`
	Date        time.Time `json:"date"`
	HTMLURL     string    `json:"html_url"`
}

// GitHubRepoDetail is a repo plus its language breakdown and last commit.
type GitHubRepoDetail struct {
	GitHubRepo
	Languages  map[string]int       `json:"languages"`
	LastCommit *GitHubCommitSummary `json:"last_commit"`
}

type GitHubUser struct {
	ID        int64   `json:"id"`
	Login     string  `json:"login"`
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	AvatarURL *string `json:"avatar_url"`
}
