package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"devtrack-backend/internal/models"
)

type GoalRepo struct {
	pool *pgxpool.Pool
}

func NewGoalRepo(pool *pgxpool.Pool) *GoalRepo {
	return &GoalRepo{pool: pool}
}

const goalColumns = `id, project_id, title, description, target_date, completed, completed_at, created_at`

func scanGoal(row pgx.Row) (*models.ProjectGoal, error) {
	g := &models.ProjectGoal{}
	err := row.Scan(&g.ID, &g.ProjectID, &g.Title, &g.Description,
		&g.TargetDate, &g.Completed, &g.CompletedAt, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *GoalRepo) Create(ctx context.Context, g *models.ProjectGoal) error {
	query := `
		INSERT INTO project_goals (project_id, title, description, target_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, completed, created_at
	`

	return r.pool.QueryRow(ctx, query,
		g.ProjectID, g.Title, g.Description, g.TargetDate,
	).Scan(&g.ID, &g.Completed, &g.CreatedAt)
}

func (r *GoalRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ProjectGoal, error) {
	return scanGoal(r.pool.QueryRow(ctx,
		"SELECT "+goalColumns+" FROM project_goals WHERE id = $1", id))
}

// OwnerOf returns the user owning the goal's project.
func (r *GoalRepo) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var owner uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT p.user_id
		FROM project_goals g
		JOIN projects p ON p.id = g.project_id
		WHERE g.id = $1
	`, id).Scan(&owner)
	return owner, err
}

func (r *GoalRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.ProjectGoal, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+goalColumns+` FROM project_goals
		WHERE project_id = $1
		ORDER BY completed ASC, created_at DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.ProjectGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (r *GoalRepo) Update(ctx context.Context, g *models.ProjectGoal) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE project_goals
		SET title = $2, description = $3, target_date = $4, completed = $5, completed_at = $6
		WHERE id = $1
	`, g.ID, g.Title, g.Description, g.TargetDate, g.Completed, g.CompletedAt)
	return err
}

func (r *GoalRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM project_goals WHERE id = $1", id)
	return err
}
