package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"devtrack-backend/internal/models"
)

const (
	githubAPIBase  = "https://api.github.com"
	githubCacheTTL = 60 * time.Second
)

// GitHubService is a thin read-only client for the GitHub REST API, with a
// short per-user response cache in Redis.
type GitHubService struct {
	httpClient *http.Client
	redis      *redis.Client
}

func NewGitHubService(redisClient *redis.Client) *GitHubService {
	return &GitHubService{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		redis:      redisClient,
	}
}

func (s *GitHubService) get(ctx context.Context, token, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, githubAPIBase+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &GitHubAuthError{}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github API error: %s %s", resp.Status, path)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// getCached serves the response from Redis when a fresh copy exists.
func (s *GitHubService) getCached(ctx context.Context, userID uuid.UUID, token, path string, out interface{}) error {
	key := fmt.Sprintf("github:%s:%s", userID, path)

	if cached, err := s.redis.Get(ctx, key).Result(); err == nil {
		if json.Unmarshal([]byte(cached), out) == nil {
			return nil
		}
	}

	if err := s.get(ctx, token, path, out); err != nil {
		return err
	}

	if raw, err := json.Marshal(out); err == nil {
		s.redis.Set(ctx, key, raw, githubCacheTTL)
	}
	return nil
}

// AuthenticatedUser fetches the profile of the token's owner (no cache:
// only called during sign-in).
func (s *GitHubService) AuthenticatedUser(ctx context.Context, token string) (*models.GitHubUser, error) {
	var user models.GitHubUser
	if err := s.get(ctx, token, "/user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Repos lists the user's repositories, most recently updated first.
func (s *GitHubService) Repos(ctx context.Context, userID uuid.UUID, token string) ([]models.GitHubRepo, error) {
	var repos []models.GitHubRepo
	if err := s.getCached(ctx, userID, token, "/user/repos?per_page=100&sort=updated", &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// RepoDetail fetches a repo plus its language breakdown and last commit.
func (s *GitHubService) RepoDetail(ctx context.Context, userID uuid.UUID, token, owner, name string) (*models.GitHubRepoDetail, error) {
	base := fmt.Sprintf("/repos/%s/%s", owner, name)

	var detail models.GitHubRepoDetail
	if err := s.getCached(ctx, userID, token, base, &detail.GitHubRepo); err != nil {
		return nil, err
	}

	if err := s.getCached(ctx, userID, token, base+"/languages", &detail.Languages); err != nil {
		return nil, err
	}

	var commits []struct {
		SHA    string `json:"sha"`
		Commit struct {
			Message string `json:"message"`
			Author  struct {
				Name string    `json:"name"`
				Date time.Time `json:"date"`
			} `json:"author"`
		} `json:"commit"`
		Author *struct {
			Login string `json:"login"`
		} `json:"author"`
		HTMLURL string `json:"html_url"`
	}
	if err := s.getCached(ctx, userID, token, base+"/commits?per_page=1", &commits); err != nil {
		// A freshly-created repo has no commits; treat that as absence.
		return &detail, nil
	}

	if len(commits) > 0 {
		c := commits[0]
		authorLogin := c.Commit.Author.Name
		if c.Author != nil {
			authorLogin = c.Author.Login
		}
		detail.LastCommit = &models.GitHubCommitSummary{
			SHA:         c.SHA,
			Message:     c.Commit.Message,
			AuthorLogin: authorLogin,
			Date:        c.Commit.Author.Date,
			HTMLURL:     c.HTMLURL,
		}
	}

	return &detail, nil
}
