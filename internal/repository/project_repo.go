package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"devtrack-backend/internal/models"
)

// ErrProjectExists is returned when the same repo is imported twice.
var ErrProjectExists = errors.New("project already imported")

type ProjectRepo struct {
	pool *pgxpool.Pool
}

func NewProjectRepo(pool *pgxpool.Pool) *ProjectRepo {
	return &ProjectRepo{pool: pool}
}

const projectColumns = `
	id, user_id, name, description, github_owner, github_name, html_url, status,
	language, stars, forks, open_issues, last_commit_msg, last_commit_date,
	last_synced_at, created_at, updated_at
`

func scanProject(row pgx.Row) (*models.Project, error) {
	p := &models.Project{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Description, &p.GitHubOwner, &p.GitHubName,
		&p.HTMLURL, &p.Status, &p.Language, &p.Stars, &p.Forks, &p.OpenIssues,
		&p.LastCommitMsg, &p.LastCommitDate, &p.LastSyncedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepo) Create(ctx context.Context, p *models.Project) error {
	query := `
		INSERT INTO projects (user_id, name, description, github_owner, github_name, html_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, status, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		p.UserID, p.Name, p.Description, p.GitHubOwner, p.GitHubName, p.HTMLURL,
	).Scan(&p.ID, &p.Status, &p.CreatedAt, &p.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrProjectExists
	}
	return err
}

func (r *ProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return scanProject(r.pool.QueryRow(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id = $1", id))
}

func (r *ProjectRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE user_id = $1 ORDER BY updated_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepo) RecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Project, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE user_id = $1 ORDER BY updated_at DESC LIMIT $2",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// ActiveRefs lists the user's ACTIVE projects as context-selector entries.
func (r *ProjectRepo) ActiveRefs(ctx context.Context, userID uuid.UUID) ([]models.SessionProject, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, github_owner, github_name
		FROM projects
		WHERE user_id = $1 AND status = 'ACTIVE'
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []models.SessionProject
	for rows.Next() {
		var ref models.SessionProject
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.GitHubOwner, &ref.GitHubName); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (r *ProjectRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM projects WHERE user_id = $1", userID).Scan(&count)
	return count, err
}

func (r *ProjectRepo) ImportedURLs(ctx context.Context, userID uuid.UUID) (map[string]bool, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT html_url FROM projects WHERE user_id = $1", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	urls := make(map[string]bool)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls[u] = true
	}
	return urls, rows.Err()
}

func (r *ProjectRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE projects SET status = $2, updated_at = NOW() WHERE id = $1", id, status)
	return err
}

// UpdateSync writes the metadata fetched from GitHub and stamps last_synced_at.
func (r *ProjectRepo) UpdateSync(ctx context.Context, id uuid.UUID, sync models.ProjectSync) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE projects
		SET language = $2, stars = $3, forks = $4, open_issues = $5,
		    last_commit_msg = $6, last_commit_date = $7,
		    last_synced_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`, id, sync.Language, sync.Stars, sync.Forks, sync.OpenIssues,
		sync.LastCommitMsg, sync.LastCommitDate)
	return err
}

func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM projects WHERE id = $1", id)
	return err
}

// StaleActive lists ACTIVE projects not synced since the cutoff, across all
// users, for the resync scheduler.
func (r *ProjectRepo) StaleActive(ctx context.Context, cutoff time.Time) ([]models.Project, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+projectColumns+` FROM projects
		WHERE status = 'ACTIVE' AND (last_synced_at IS NULL OR last_synced_at < $1)`,
		cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}
