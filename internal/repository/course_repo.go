package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"devtrack-backend/internal/models"
)

type CourseRepo struct {
	pool *pgxpool.Pool
}

func NewCourseRepo(pool *pgxpool.Pool) *CourseRepo {
	return &CourseRepo{pool: pool}
}

// courseSelect joins in the completed-session count and summed minutes.
const courseSelect = `
	SELECT c.id, c.user_id, c.title, c.platform, c.url, c.total_hours, c.status,
	       c.progress, c.created_at, c.updated_at,
	       COUNT(s.id) FILTER (WHERE s.ended_at IS NOT NULL),
	       COALESCE(SUM(s.duration_minutes) FILTER (WHERE s.ended_at IS NOT NULL), 0)
	FROM courses c
	LEFT JOIN study_sessions s ON s.course_id = c.id
`

const courseGroup = ` GROUP BY c.id`

func scanCourse(row pgx.Row) (*models.Course, error) {
	c := &models.Course{}
	err := row.Scan(
		&c.ID, &c.UserID, &c.Title, &c.Platform, &c.URL, &c.TotalHours,
		&c.Status, &c.Progress, &c.CreatedAt, &c.UpdatedAt,
		&c.SessionCount, &c.TotalMinutes,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CourseRepo) Create(ctx context.Context, c *models.Course) error {
	query := `
		INSERT INTO courses (user_id, title, platform, url, total_hours)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, progress, created_at, updated_at
	`

	return r.pool.QueryRow(ctx, query,
		c.UserID, c.Title, c.Platform, c.URL, c.TotalHours,
	).Scan(&c.ID, &c.Status, &c.Progress, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CourseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return scanCourse(r.pool.QueryRow(ctx,
		courseSelect+" WHERE c.id = $1"+courseGroup, id))
}

func (r *CourseRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Course, error) {
	rows, err := r.pool.Query(ctx,
		courseSelect+" WHERE c.user_id = $1"+courseGroup+" ORDER BY c.updated_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

func (r *CourseRepo) InProgressByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Course, error) {
	rows, err := r.pool.Query(ctx,
		courseSelect+" WHERE c.user_id = $1 AND c.status = 'IN_PROGRESS'"+courseGroup+
			" ORDER BY c.updated_at DESC LIMIT $2", userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

// InProgressRefs lists the user's IN_PROGRESS courses as context-selector entries.
func (r *CourseRepo) InProgressRefs(ctx context.Context, userID uuid.UUID) ([]models.SessionCourse, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title
		FROM courses
		WHERE user_id = $1 AND status = 'IN_PROGRESS'
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []models.SessionCourse
	for rows.Next() {
		var ref models.SessionCourse
		if err := rows.Scan(&ref.ID, &ref.Title); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (r *CourseRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM courses WHERE user_id = $1", userID).Scan(&count)
	return count, err
}

func (r *CourseRepo) CompletedCountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM courses WHERE user_id = $1 AND status = 'COMPLETED'", userID).Scan(&count)
	return count, err
}

func (r *CourseRepo) Update(ctx context.Context, c *models.Course) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE courses
		SET title = $2, platform = $3, url = $4, total_hours = $5,
		    status = $6, progress = $7, updated_at = NOW()
		WHERE id = $1
	`, c.ID, c.Title, c.Platform, c.URL, c.TotalHours, c.Status, c.Progress)
	return err
}

func (r *CourseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM courses WHERE id = $1", id)
	return err
}
