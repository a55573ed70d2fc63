package services

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"devtrack-backend/internal/models"
	"devtrack-backend/internal/repository"
	"devtrack-backend/internal/stats"
	"devtrack-backend/internal/timeutil"
)

// SessionStore is the persistence surface of the session lifecycle.
// repository.SessionRepo implements it; tests use an in-memory fake.
type SessionStore interface {
	Create(ctx context.Context, s *models.StudySession) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.StudySession, error)
	Active(ctx context.Context, userID uuid.UUID) (*models.StudySession, error)
	Finish(ctx context.Context, id uuid.UUID, endedAt time.Time, durationMinutes int, note *string) error
	UpdateContext(ctx context.Context, id uuid.UUID, projectID, courseID *uuid.UUID) error
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]models.StudySession, error)
	AllPoints(ctx context.Context, userID uuid.UUID) ([]models.SessionPoint, error)
	Ended(ctx context.Context, userID uuid.UUID) ([]models.EndedSession, error)
}

type ProjectRefStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ActiveRefs(ctx context.Context, userID uuid.UUID) ([]models.SessionProject, error)
}

type CourseRefStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	InProgressRefs(ctx context.Context, userID uuid.UUID) ([]models.SessionCourse, error)
}

// SessionNotifier fans session lifecycle events out to the user's other
// open clients. May be nil.
type SessionNotifier interface {
	SessionChanged(ctx context.Context, userID uuid.UUID, event string, session *models.StudySession)
}

type SessionService struct {
	sessions SessionStore
	projects ProjectRefStore
	courses  CourseRefStore
	notifier SessionNotifier
	now      func() time.Time
}

func NewSessionService(sessions SessionStore, projects ProjectRefStore, courses CourseRefStore, notifier SessionNotifier) *SessionService {
	return &SessionService{
		sessions: sessions,
		projects: projects,
		courses:  courses,
		notifier: notifier,
		now:      time.Now,
	}
}

// durationMinutes rounds the session length to whole minutes, half up, with
// a floor of 1 so a sub-minute session still counts as activity.
func durationMinutes(startedAt, endedAt time.Time) int {
	m := int(math.Round(endedAt.Sub(startedAt).Seconds() / 60.0))
	if m < 1 {
		return 1
	}
	return m
}

func (s *SessionService) ensureProject(ctx context.Context, userID, projectID uuid.UUID) error {
	p, err := s.projects.GetByID(ctx, projectID)
	if errors.Is(err, pgx.ErrNoRows) {
		return &NotFoundError{Message: "Project not found"}
	}
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return &NotFoundError{Message: "Project not found"}
	}
	return nil
}

func (s *SessionService) ensureCourse(ctx context.Context, userID, courseID uuid.UUID) error {
	c, err := s.courses.GetByID(ctx, courseID)
	if errors.Is(err, pgx.ErrNoRows) {
		return &NotFoundError{Message: "Course not found"}
	}
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return &NotFoundError{Message: "Course not found"}
	}
	return nil
}

// Start opens a new active session. The store's unique constraint decides
// the single-active-session race; a violation comes back as AlreadyActive.
func (s *SessionService) Start(ctx context.Context, userID uuid.UUID, req models.StartSessionRequest) (*models.StudySession, error) {
	if req.Type == "" {
		req.Type = models.SessionTypeCoding
	}
	if !models.ValidSessionType(req.Type) {
		return nil, &ValidationError{Fields: map[string]string{
			"type": "type must be CODING, LEARNING, DEBUGGING, REVIEWING or PLANNING",
		}}
	}

	if req.ProjectID != nil && req.CourseID != nil {
		return nil, &InvalidContextError{}
	}
	if req.ProjectID != nil {
		if err := s.ensureProject(ctx, userID, *req.ProjectID); err != nil {
			return nil, err
		}
	}
	if req.CourseID != nil {
		if err := s.ensureCourse(ctx, userID, *req.CourseID); err != nil {
			return nil, err
		}
	}

	session := &models.StudySession{
		UserID:    userID,
		Type:      req.Type,
		StartedAt: s.now(),
		ProjectID: req.ProjectID,
		CourseID:  req.CourseID,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		if errors.Is(err, repository.ErrActiveSessionExists) {
			return nil, &AlreadyActiveError{}
		}
		return nil, err
	}

	created, err := s.sessions.GetByID(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.SessionChanged(ctx, userID, "session_started", created)
	}
	return created, nil
}

func (s *SessionService) load(ctx context.Context, userID, sessionID uuid.UUID) (*models.StudySession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Message: "Session not found"}
	}
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, &UnauthorizedError{Message: "Session not found"}
	}
	return session, nil
}

// Stop ends an active session, computing its duration. Stopping an ended
// session fails with AlreadyEnded and leaves the stored duration untouched.
func (s *SessionService) Stop(ctx context.Context, userID, sessionID uuid.UUID, note *string) (*models.StudySession, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.EndedAt != nil {
		return nil, &AlreadyEndedError{}
	}

	endedAt := s.now()
	minutes := durationMinutes(session.StartedAt, endedAt)

	if note != nil {
		trimmed := strings.TrimSpace(*note)
		if trimmed == "" {
			note = nil
		} else {
			note = &trimmed
		}
	}

	if err := s.sessions.Finish(ctx, sessionID, endedAt, minutes, note); err != nil {
		return nil, err
	}

	stopped, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.SessionChanged(ctx, userID, "session_stopped", stopped)
	}
	return stopped, nil
}

// UpdateContext reassigns a session's project/course association. Each patch
// field may be omitted, null (clear) or an id (set after ownership check).
// Ended sessions may be corrected too; such edits are logged.
func (s *SessionService) UpdateContext(ctx context.Context, userID, sessionID uuid.UUID, patch models.SessionContextPatch) (*models.StudySession, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	projectID := session.ProjectID
	courseID := session.CourseID
	if patch.ProjectID.Set {
		projectID = patch.ProjectID.Value
	}
	if patch.CourseID.Set {
		courseID = patch.CourseID.Value
	}

	if projectID != nil && courseID != nil {
		return nil, &InvalidContextError{}
	}

	if patch.ProjectID.Set && projectID != nil {
		if err := s.ensureProject(ctx, userID, *projectID); err != nil {
			return nil, err
		}
	}
	if patch.CourseID.Set && courseID != nil {
		if err := s.ensureCourse(ctx, userID, *courseID); err != nil {
			return nil, err
		}
	}

	if err := s.sessions.UpdateContext(ctx, sessionID, projectID, courseID); err != nil {
		return nil, err
	}

	if session.EndedAt != nil {
		log.Printf("session %s: context changed on ended session by user %s", sessionID, userID)
	}

	return s.sessions.GetByID(ctx, sessionID)
}

// Active returns the caller's running session, or nil.
func (s *SessionService) Active(ctx context.Context, userID uuid.UUID) (*models.StudySession, error) {
	return s.sessions.Active(ctx, userID)
}

func (s *SessionService) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]models.SessionView, error) {
	if limit <= 0 {
		limit = 20
	}
	sessions, err := s.sessions.Recent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return SessionViews(sessions, s.now()), nil
}

// SessionViews decorates sessions with the display strings the list UIs
// show. Active sessions get no duration label; the client runs the timer.
func SessionViews(sessions []models.StudySession, now time.Time) []models.SessionView {
	views := make([]models.SessionView, len(sessions))
	for i, session := range sessions {
		views[i] = models.SessionView{
			StudySession: session,
			StartedAgo:   timeutil.Relative(session.StartedAt, now),
		}
		if session.DurationMinutes != nil {
			views[i].DurationLabel = timeutil.Minutes(*session.DurationMinutes)
		}
	}
	return views
}

func (s *SessionService) AllPoints(ctx context.Context, userID uuid.UUID) ([]models.SessionPoint, error) {
	return s.sessions.AllPoints(ctx, userID)
}

// GlobalStats recomputes the aggregate view from the full ended-session
// history on every call.
func (s *SessionService) GlobalStats(ctx context.Context, userID uuid.UUID) (stats.GlobalStats, error) {
	ended, err := s.sessions.Ended(ctx, userID)
	if err != nil {
		return stats.GlobalStats{}, err
	}
	return stats.ComputeGlobalStats(toStatSessions(ended), s.now()), nil
}

func (s *SessionService) ContextOptions(ctx context.Context, userID uuid.UUID) (*models.ContextOptions, error) {
	projects, err := s.projects.ActiveRefs(ctx, userID)
	if err != nil {
		return nil, err
	}
	courses, err := s.courses.InProgressRefs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []models.SessionProject{}
	}
	if courses == nil {
		courses = []models.SessionCourse{}
	}
	return &models.ContextOptions{Projects: projects, Courses: courses}, nil
}

func toStatSessions(ended []models.EndedSession) []stats.Session {
	out := make([]stats.Session, len(ended))
	for i, e := range ended {
		out[i] = stats.Session{
			Type:            e.Type,
			StartedAt:       e.StartedAt,
			DurationMinutes: e.DurationMinutes,
			ContextName:     e.ContextName,
		}
	}
	return out
}
