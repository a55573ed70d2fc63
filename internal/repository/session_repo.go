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

// ErrActiveSessionExists reports that the partial unique index rejected a
// second active session for the same user.
var ErrActiveSessionExists = errors.New("user already has an active session")

const uniqueViolation = "23505"

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

const sessionSelect = `
	SELECT s.id, s.user_id, s.type, s.started_at, s.ended_at, s.duration_minutes,
	       s.note, s.project_id, s.course_id, s.created_at,
	       p.id, p.name, p.github_owner, p.github_name,
	       c.id, c.title
	FROM study_sessions s
	LEFT JOIN projects p ON p.id = s.project_id
	LEFT JOIN courses c ON c.id = s.course_id
`

func scanSession(row pgx.Row) (*models.StudySession, error) {
	s := &models.StudySession{}
	var (
		projID    *uuid.UUID
		projName  *string
		projOwner *string
		projRepo  *string
		courseID  *uuid.UUID
		courseTit *string
	)

	err := row.Scan(
		&s.ID, &s.UserID, &s.Type, &s.StartedAt, &s.EndedAt, &s.DurationMinutes,
		&s.Note, &s.ProjectID, &s.CourseID, &s.CreatedAt,
		&projID, &projName, &projOwner, &projRepo,
		&courseID, &courseTit,
	)
	if err != nil {
		return nil, err
	}

	if projID != nil {
		s.Project = &models.SessionProject{
			ID:          *projID,
			Name:        *projName,
			GitHubOwner: *projOwner,
			GitHubName:  *projRepo,
		}
	}
	if courseID != nil {
		s.Course = &models.SessionCourse{ID: *courseID, Title: *courseTit}
	}

	return s, nil
}

// Create inserts a new active session. The one_active_session_per_user
// partial unique index is the authority on the single-active invariant;
// a violation surfaces as ErrActiveSessionExists.
func (r *SessionRepo) Create(ctx context.Context, s *models.StudySession) error {
	query := `
		INSERT INTO study_sessions (user_id, type, started_at, project_id, course_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		s.UserID, s.Type, s.StartedAt, s.ProjectID, s.CourseID,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "one_active_session_per_user" {
			return ErrActiveSessionExists
		}
		return err
	}
	return nil
}

func (r *SessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.StudySession, error) {
	return scanSession(r.pool.QueryRow(ctx, sessionSelect+" WHERE s.id = $1", id))
}

// Active returns the caller's running session, or nil when there is none.
func (r *SessionRepo) Active(ctx context.Context, userID uuid.UUID) (*models.StudySession, error) {
	s, err := scanSession(r.pool.QueryRow(ctx,
		sessionSelect+" WHERE s.user_id = $1 AND s.ended_at IS NULL", userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

func (r *SessionRepo) Finish(ctx context.Context, id uuid.UUID, endedAt time.Time, durationMinutes int, note *string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE study_sessions
		SET ended_at = $2, duration_minutes = $3, note = $4
		WHERE id = $1
	`, id, endedAt, durationMinutes, note)
	return err
}

func (r *SessionRepo) UpdateContext(ctx context.Context, id uuid.UUID, projectID, courseID *uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE study_sessions
		SET project_id = $2, course_id = $3
		WHERE id = $1
	`, id, projectID, courseID)
	return err
}

func (r *SessionRepo) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]models.StudySession, error) {
	rows, err := r.pool.Query(ctx,
		sessionSelect+" WHERE s.user_id = $1 ORDER BY s.started_at DESC LIMIT $2", userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.StudySession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// AllPoints returns every session (active included) as graph input, newest first.
func (r *SessionRepo) AllPoints(ctx context.Context, userID uuid.UUID) ([]models.SessionPoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT started_at, duration_minutes
		FROM study_sessions
		WHERE user_id = $1
		ORDER BY started_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []models.SessionPoint
	for rows.Next() {
		var p models.SessionPoint
		if err := rows.Scan(&p.StartedAt, &p.DurationMinutes); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// Ended returns all completed sessions with their resolved context name.
func (r *SessionRepo) Ended(ctx context.Context, userID uuid.UUID) ([]models.EndedSession, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.type, s.started_at, s.duration_minutes,
		       COALESCE(p.name, c.title, 'No context')
		FROM study_sessions s
		LEFT JOIN projects p ON p.id = s.project_id
		LEFT JOIN courses c ON c.id = s.course_id
		WHERE s.user_id = $1 AND s.ended_at IS NOT NULL
		ORDER BY s.started_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.EndedSession
	for rows.Next() {
		var s models.EndedSession
		if err := rows.Scan(&s.Type, &s.StartedAt, &s.DurationMinutes, &s.ContextName); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
