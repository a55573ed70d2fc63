package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"devtrack-backend/internal/models"
	"devtrack-backend/internal/repository"
	"devtrack-backend/internal/stats"
)

type DashboardService struct {
	users    *repository.UserRepo
	projects *repository.ProjectRepo
	courses  *repository.CourseRepo
	sessions SessionStore
	now      func() time.Time
}

func NewDashboardService(users *repository.UserRepo, projects *repository.ProjectRepo, courses *repository.CourseRepo, sessions SessionStore) *DashboardService {
	return &DashboardService{
		users:    users,
		projects: projects,
		courses:  courses,
		sessions: sessions,
		now:      time.Now,
	}
}

// Data assembles the dashboard snapshot for one user. The stats subset comes
// from the same aggregation functions the stats endpoint uses, so the two
// can never disagree.
func (s *DashboardService) Data(ctx context.Context, userID uuid.UUID) (*models.DashboardData, error) {
	user, err := s.users.GetByID(ctx, userID)
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

	recentProjects, err := s.projects.RecentByUser(ctx, userID, 3)
	if err != nil {
		return nil, err
	}
	activeCourses, err := s.courses.InProgressByUser(ctx, userID, 3)
	if err != nil {
		return nil, err
	}
	recentSessions, err := s.sessions.Recent(ctx, userID, 5)
	if err != nil {
		return nil, err
	}

	now := s.now()
	gs := stats.ComputeGlobalStats(toStatSessions(ended), now)

	startTimes := make([]time.Time, len(ended))
	allSessions := make([]models.SessionPoint, len(ended))
	for i, e := range ended {
		startTimes[i] = e.StartedAt
		minutes := e.DurationMinutes
		allSessions[i] = models.SessionPoint{StartedAt: e.StartedAt, DurationMinutes: &minutes}
	}

	if recentProjects == nil {
		recentProjects = []models.Project{}
	}
	if activeCourses == nil {
		activeCourses = []models.Course{}
	}
	recentViews := SessionViews(recentSessions, now)

	return &models.DashboardData{
		User: models.DashboardUser{
			Login:     user.Login,
			Name:      user.Name,
			AvatarURL: user.AvatarURL,
			CreatedAt: user.CreatedAt,
		},
		Stats: models.DashboardStats{
			TotalMinutes:     gs.TotalMinutes,
			TodayMinutes:     gs.TodayMinutes,
			ThisWeekMinutes:  gs.ThisWeekMinutes,
			Streak:           stats.Streak(startTimes, now),
			TotalSessions:    gs.SessionCount,
			TotalProjects:    projectCount,
			TotalCourses:     courseCount,
			CompletedCourses: completedCourses,
		},
		RecentProjects: recentProjects,
		ActiveCourses:  activeCourses,
		RecentSessions: recentViews,
		AllSessions:    allSessions,
	}, nil
}

// Graph renders the activity heatmap server-side from the full session
// history and the account creation date.
func (s *DashboardService) Graph(ctx context.Context, userID uuid.UUID) (stats.Graph, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return stats.Graph{}, err
	}

	points, err := s.sessions.AllPoints(ctx, userID)
	if err != nil {
		return stats.Graph{}, err
	}

	graphPoints := make([]stats.Point, len(points))
	for i, p := range points {
		minutes := 0
		if p.DurationMinutes != nil {
			minutes = *p.DurationMinutes
		}
		graphPoints[i] = stats.Point{StartedAt: p.StartedAt, Minutes: minutes}
	}

	return stats.BuildGraph(graphPoints, user.CreatedAt, s.now()), nil
}
