package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"devtrack-backend/internal/models"
	"devtrack-backend/internal/repository"
	"devtrack-backend/internal/stats"
)

type UserService struct {
	users    *repository.UserRepo
	projects *repository.ProjectRepo
	courses  *repository.CourseRepo
	sessions SessionStore
	now      func() time.Time
}

func NewUserService(users *repository.UserRepo, projects *repository.ProjectRepo, courses *repository.CourseRepo, sessions SessionStore) *UserService {
	return &UserService{
		users:    users,
		projects: projects,
		courses:  courses,
		sessions: sessions,
		now:      time.Now,
	}
}

func (s *UserService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Message: "User not found"}
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Profile assembles the profile page data: identity, counts, and the
// session aggregates (longest, average, last started) over the user's
// completed sessions.
func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*models.ProfileData, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	ended, err := s.sessions.Ended(ctx, userID)
	if err != nil {
		return nil, err
	}

	projectCount, err := s.projects.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	courseCount, err := s.courses.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	completedCourses, err := s.courses.CompletedCountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profileStats := sessionSummary(ended, s.now())
	profileStats.TotalProjects = projectCount
	profileStats.TotalCourses = courseCount
	profileStats.CompletedCourses = completedCourses

	allSessions := make([]models.SessionPoint, len(ended))
	for i, e := range ended {
		minutes := e.DurationMinutes
		allSessions[i] = models.SessionPoint{StartedAt: e.StartedAt, DurationMinutes: &minutes}
	}

	return &models.ProfileData{
		User:        *user,
		Stats:       profileStats,
		AllSessions: allSessions,
	}, nil
}

// sessionSummary derives the session aggregates of ProfileStats; the
// project/course counters are filled in by the caller.
func sessionSummary(ended []models.EndedSession, now time.Time) models.ProfileStats {
	st := models.ProfileStats{TotalSessions: len(ended)}

	startTimes := make([]time.Time, len(ended))
	for i, e := range ended {
		startTimes[i] = e.StartedAt
		st.TotalMinutes += e.DurationMinutes
		if e.DurationMinutes > st.LongestSession {
			st.LongestSession = e.DurationMinutes
		}
		if st.LastSessionAt == nil || e.StartedAt.After(*st.LastSessionAt) {
			started := e.StartedAt
			st.LastSessionAt = &started
		}
	}

	if len(ended) > 0 {
		st.AvgSessionMinutes = int(math.Round(float64(st.TotalMinutes) / float64(len(ended))))
	}
	st.Streak = stats.Streak(startTimes, now)

	return st
}

// Delete removes the account. Projects, courses, and sessions go with it
// via ON DELETE CASCADE.
func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.users.Delete(ctx, userID)
}
