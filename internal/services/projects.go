package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"devtrack-backend/internal/models"
	"devtrack-backend/internal/repository"
)

// SyncQueue is the Redis list the sync worker pool consumes.
const SyncQueue = "queue:project-sync"

type SyncJob struct {
	ProjectID uuid.UUID `json:"project_id"`
	UserID    uuid.UUID `json:"user_id"`
}

type ProjectService struct {
	projects *repository.ProjectRepo
	users    *repository.UserRepo
	github   *GitHubService
	redis    *redis.Client
}

func NewProjectService(projects *repository.ProjectRepo, users *repository.UserRepo, github *GitHubService, redisClient *redis.Client) *ProjectService {
	return &ProjectService{
		projects: projects,
		users:    users,
		github:   github,
		redis:    redisClient,
	}
}

func (s *ProjectService) owned(ctx context.Context, userID, projectID uuid.UUID) (*models.Project, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Message: "Project not found"}
	}
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, &UnauthorizedError{Message: "Project not found"}
	}
	return p, nil
}

// ImportableRepos lists the user's GitHub repos that are not yet projects.
func (s *ProjectService) ImportableRepos(ctx context.Context, userID uuid.UUID) ([]models.GitHubRepo, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	repos, err := s.github.Repos(ctx, userID, user.AccessToken)
	if err != nil {
		return nil, err
	}

	imported, err := s.projects.ImportedURLs(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]models.GitHubRepo, 0, len(repos))
	for _, repo := range repos {
		if !imported[repo.HTMLURL] {
			out = append(out, repo)
		}
	}
	return out, nil
}

// Import turns a GitHub repo into a tracked project and queues its first sync.
func (s *ProjectService) Import(ctx context.Context, userID uuid.UUID, req models.ImportProjectRequest) (*models.Project, error) {
	fields := make(map[string]string)
	if strings.TrimSpace(req.Owner) == "" {
		fields["owner"] = "Owner is required"
	}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "Name is required"
	}
	if strings.TrimSpace(req.HTMLURL) == "" {
		fields["html_url"] = "Repository URL is required"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	project := &models.Project{
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		GitHubOwner: strings.TrimSpace(req.Owner),
		GitHubName:  strings.TrimSpace(req.Name),
		HTMLURL:     strings.TrimSpace(req.HTMLURL),
	}

	if err := s.projects.Create(ctx, project); err != nil {
		if errors.Is(err, repository.ErrProjectExists) {
			return nil, &ConflictError{Message: "Repository already imported"}
		}
		return nil, err
	}

	s.EnqueueSync(ctx, project.ID, userID)
	return project, nil
}

func (s *ProjectService) List(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	projects, err := s.projects.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

func (s *ProjectService) Get(ctx context.Context, userID, projectID uuid.UUID) (*models.Project, error) {
	return s.owned(ctx, userID, projectID)
}

func (s *ProjectService) SetStatus(ctx context.Context, userID, projectID uuid.UUID, status string) (*models.Project, error) {
	if status != models.ProjectStatusActive && status != models.ProjectStatusArchived {
		return nil, &ValidationError{Fields: map[string]string{"status": "status must be ACTIVE or ARCHIVED"}}
	}

	p, err := s.owned(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	if err := s.projects.UpdateStatus(ctx, p.ID, status); err != nil {
		return nil, err
	}
	return s.projects.GetByID(ctx, p.ID)
}

func (s *ProjectService) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	p, err := s.owned(ctx, userID, projectID)
	if err != nil {
		return err
	}
	return s.projects.Delete(ctx, p.ID)
}

// RequestSync performs the ownership check then queues a resync job.
func (s *ProjectService) RequestSync(ctx context.Context, userID, projectID uuid.UUID) error {
	p, err := s.owned(ctx, userID, projectID)
	if err != nil {
		return err
	}
	s.EnqueueSync(ctx, p.ID, userID)
	return nil
}

func (s *ProjectService) EnqueueSync(ctx context.Context, projectID, userID uuid.UUID) {
	payload, err := json.Marshal(SyncJob{ProjectID: projectID, UserID: userID})
	if err != nil {
		return
	}
	s.redis.RPush(ctx, SyncQueue, payload)
}

// Sync fetches the project's GitHub metadata and persists it. Projects
// synced within the last 5 minutes are left alone.
func (s *ProjectService) Sync(ctx context.Context, projectID uuid.UUID) error {
	p, err := s.projects.GetByID(ctx, projectID)
	if errors.Is(err, pgx.ErrNoRows) {
		return &NotFoundError{Message: "Project not found"}
	}
	if err != nil {
		return err
	}

	if p.LastSyncedAt != nil && time.Since(*p.LastSyncedAt) < 5*time.Minute {
		return nil
	}

	user, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return err
	}

	detail, err := s.github.RepoDetail(ctx, p.UserID, user.AccessToken, p.GitHubOwner, p.GitHubName)
	if err != nil {
		return err
	}

	sync := models.ProjectSync{
		Language:   detail.Language,
		Stars:      detail.Stars,
		Forks:      detail.Forks,
		OpenIssues: detail.OpenIssues,
	}
	if detail.LastCommit != nil {
		// First line only; commit bodies don't belong on a dashboard card.
		msg, _, _ := strings.Cut(detail.LastCommit.Message, "\n")
		sync.LastCommitMsg = &msg
		date := detail.LastCommit.Date
		sync.LastCommitDate = &date
	}

	return s.projects.UpdateSync(ctx, p.ID, sync)
}
