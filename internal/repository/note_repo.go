package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"devtrack-backend/internal/models"
)

type NoteRepo struct {
	pool *pgxpool.Pool
}

func NewNoteRepo(pool *pgxpool.Pool) *NoteRepo {
	return &NoteRepo{pool: pool}
}

func (r *NoteRepo) Create(ctx context.Context, n *models.ProjectNote) error {
	query := `
		INSERT INTO project_notes (project_id, content)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`

	return r.pool.QueryRow(ctx, query, n.ProjectID, n.Content).
		Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
}

func (r *NoteRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ProjectNote, error) {
	n := &models.ProjectNote{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, project_id, content, created_at, updated_at
		FROM project_notes WHERE id = $1
	`, id).Scan(&n.ID, &n.ProjectID, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// OwnerOf returns the user owning the note's project.
func (r *NoteRepo) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var owner uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT p.user_id
		FROM project_notes n
		JOIN projects p ON p.id = n.project_id
		WHERE n.id = $1
	`, id).Scan(&owner)
	return owner, err
}

func (r *NoteRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.ProjectNote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, project_id, content, created_at, updated_at
		FROM project_notes
		WHERE project_id = $1
		ORDER BY created_at DESC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.ProjectNote
	for rows.Next() {
		var n models.ProjectNote
		if err := rows.Scan(&n.ID, &n.ProjectID, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *NoteRepo) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE project_notes SET content = $2, updated_at = NOW() WHERE id = $1", id, content)
	return err
}

func (r *NoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM project_notes WHERE id = $1", id)
	return err
}
