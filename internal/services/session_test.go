package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"devtrack-backend/internal/models"
	"devtrack-backend/internal/repository"
)

// ─── In-memory fakes ───

type fakeSessionStore struct {
	sessions map[uuid.UUID]*models.StudySession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[uuid.UUID]*models.StudySession)}
}

func (f *fakeSessionStore) Create(ctx context.Context, s *models.StudySession) error {
	for _, existing := range f.sessions {
		if existing.UserID == s.UserID && existing.EndedAt == nil {
			return repository.ErrActiveSessionExists
		}
	}
	s.ID = uuid.New()
	s.CreatedAt = s.StartedAt
	cp := *s
	f.sessions[s.ID] = &cp
	return nil
}

func (f *fakeSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*models.StudySession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionStore) Active(ctx context.Context, userID uuid.UUID) (*models.StudySession, error) {
	for _, s := range f.sessions {
		if s.UserID == userID && s.EndedAt == nil {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionStore) Finish(ctx context.Context, id uuid.UUID, endedAt time.Time, durationMinutes int, note *string) error {
	s, ok := f.sessions[id]
	if !ok {
		return pgx.ErrNoRows
	}
	s.EndedAt = &endedAt
	s.DurationMinutes = &durationMinutes
	s.Note = note
	return nil
}

func (f *fakeSessionStore) UpdateContext(ctx context.Context, id uuid.UUID, projectID, courseID *uuid.UUID) error {
	s, ok := f.sessions[id]
	if !ok {
		return pgx.ErrNoRows
	}
	s.ProjectID = projectID
	s.CourseID = courseID
	return nil
}

func (f *fakeSessionStore) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]models.StudySession, error) {
	var out []models.StudySession
	for _, s := range f.sessions {
		if s.UserID == userID && len(out) < limit {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) AllPoints(ctx context.Context, userID uuid.UUID) ([]models.SessionPoint, error) {
	var out []models.SessionPoint
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, models.SessionPoint{StartedAt: s.StartedAt, DurationMinutes: s.DurationMinutes})
		}
	}
	return out, nil
}

func (f *fakeSessionStore) Ended(ctx context.Context, userID uuid.UUID) ([]models.EndedSession, error) {
	var out []models.EndedSession
	for _, s := range f.sessions {
		if s.UserID == userID && s.EndedAt != nil {
			out = append(out, models.EndedSession{
				Type:            s.Type,
				StartedAt:       s.StartedAt,
				DurationMinutes: *s.DurationMinutes,
				ContextName:     "No context",
			})
		}
	}
	return out, nil
}

type fakeProjectStore struct {
	projects map[uuid.UUID]*models.Project
}

func (f *fakeProjectStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakeProjectStore) ActiveRefs(ctx context.Context, userID uuid.UUID) ([]models.SessionProject, error) {
	var out []models.SessionProject
	for _, p := range f.projects {
		if p.UserID == userID && p.Status != models.ProjectStatusArchived {
			out = append(out, models.SessionProject{ID: p.ID, Name: p.Name})
		}
	}
	return out, nil
}

type fakeCourseStore struct {
	courses map[uuid.UUID]*models.Course
}

func (f *fakeCourseStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeCourseStore) InProgressRefs(ctx context.Context, userID uuid.UUID) ([]models.SessionCourse, error) {
	var out []models.SessionCourse
	for _, c := range f.courses {
		if c.UserID == userID && c.Status == models.CourseStatusInProgress {
			out = append(out, models.SessionCourse{ID: c.ID, Title: c.Title})
		}
	}
	return out, nil
}

func newTestSessionService() (*SessionService, *fakeSessionStore, *fakeProjectStore, *fakeCourseStore) {
	store := newFakeSessionStore()
	projects := &fakeProjectStore{projects: make(map[uuid.UUID]*models.Project)}
	courses := &fakeCourseStore{courses: make(map[uuid.UUID]*models.Course)}
	svc := NewSessionService(store, projects, courses, nil)
	return svc, store, projects, courses
}

// ─── Session lifecycle tests ───

func TestStartSession_OnlyOneActive(t *testing.T) {
	svc, _, _, _ := newTestSessionService()
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.Start(ctx, userID, models.StartSessionRequest{Type: models.SessionTypeCoding})
	if err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	if !first.Active() {
		t.Error("Expected first session to be active")
	}

	_, err = svc.Start(ctx, userID, models.StartSessionRequest{Type: models.SessionTypeLearning})
	var alreadyActive *AlreadyActiveError
	if !errors.As(err, &alreadyActive) {
		t.Fatalf("Expected AlreadyActiveError, got %v", err)
	}

	// A different user is unaffected
	otherID := uuid.New()
	if _, err := svc.Start(ctx, otherID, models.StartSessionRequest{}); err != nil {
		t.Errorf("Other user's Start failed: %v", err)
	}
}

func TestStartSession_DefaultsToCoding(t *testing.T) {
	svc, _, _, _ := newTestSessionService()

	session, err := svc.Start(context.Background(), uuid.New(), models.StartSessionRequest{})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if session.Type != models.SessionTypeCoding {
		t.Errorf("Expected type CODING, got %q", session.Type)
	}
}

func TestStartSession_InvalidType(t *testing.T) {
	svc, _, _, _ := newTestSessionService()

	_, err := svc.Start(context.Background(), uuid.New(), models.StartSessionRequest{Type: "NAPPING"})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
}

func TestStartSession_ProjectAndCourseMutuallyExclusive(t *testing.T) {
	svc, _, projects, courses := newTestSessionService()
	userID := uuid.New()

	projectID := uuid.New()
	courseID := uuid.New()
	projects.projects[projectID] = &models.Project{ID: projectID, UserID: userID, Name: "api", Status: models.ProjectStatusActive}
	courses.courses[courseID] = &models.Course{ID: courseID, UserID: userID, Title: "Go course", Status: models.CourseStatusInProgress}

	_, err := svc.Start(context.Background(), userID, models.StartSessionRequest{
		ProjectID: &projectID,
		CourseID:  &courseID,
	})
	var invalid *InvalidContextError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected InvalidContextError, got %v", err)
	}
}

func TestStartSession_ForeignProjectRejected(t *testing.T) {
	svc, _, projects, _ := newTestSessionService()

	projectID := uuid.New()
	projects.projects[projectID] = &models.Project{ID: projectID, UserID: uuid.New(), Name: "theirs"}

	_, err := svc.Start(context.Background(), uuid.New(), models.StartSessionRequest{ProjectID: &projectID})
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected NotFoundError for foreign project, got %v", err)
	}
}

func TestStopSession_DurationRounding(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"sub-minute floors to one", 20 * time.Second, 1},
		{"89 seconds rounds down", 89 * time.Second, 1},
		{"90 seconds rounds up", 90 * time.Second, 2},
		{"25 minutes exact", 25 * time.Minute, 25},
		{"25.5 minutes rounds up", 25*time.Minute + 30*time.Second, 26},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _, _ := newTestSessionService()
			ctx := context.Background()
			userID := uuid.New()

			start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)
			svc.now = func() time.Time { return start }

			session, err := svc.Start(ctx, userID, models.StartSessionRequest{})
			if err != nil {
				t.Fatalf("Start failed: %v", err)
			}

			svc.now = func() time.Time { return start.Add(tc.elapsed) }
			stopped, err := svc.Stop(ctx, userID, session.ID, nil)
			if err != nil {
				t.Fatalf("Stop failed: %v", err)
			}

			if stopped.DurationMinutes == nil {
				t.Fatal("Expected duration to be set")
			}
			if *stopped.DurationMinutes != tc.want {
				t.Errorf("Expected %d minutes, got %d", tc.want, *stopped.DurationMinutes)
			}
		})
	}
}

func TestStopSession_Twice(t *testing.T) {
	svc, _, _, _ := newTestSessionService()
	ctx := context.Background()
	userID := uuid.New()

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)
	svc.now = func() time.Time { return start }

	session, err := svc.Start(ctx, userID, models.StartSessionRequest{})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	svc.now = func() time.Time { return start.Add(10 * time.Minute) }
	stopped, err := svc.Stop(ctx, userID, session.ID, nil)
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	svc.now = func() time.Time { return start.Add(50 * time.Minute) }
	_, err = svc.Stop(ctx, userID, session.ID, nil)
	var alreadyEnded *AlreadyEndedError
	if !errors.As(err, &alreadyEnded) {
		t.Fatalf("Expected AlreadyEndedError, got %v", err)
	}

	// Stored duration is untouched by the failed second stop
	reloaded, err := svc.sessions.GetByID(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if *reloaded.DurationMinutes != *stopped.DurationMinutes {
		t.Errorf("Expected duration %d to survive, got %d", *stopped.DurationMinutes, *reloaded.DurationMinutes)
	}
}

func TestStopSession_BlankNoteDropped(t *testing.T) {
	svc, _, _, _ := newTestSessionService()
	ctx := context.Background()
	userID := uuid.New()

	session, err := svc.Start(ctx, userID, models.StartSessionRequest{})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	blank := "   "
	stopped, err := svc.Stop(ctx, userID, session.ID, &blank)
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if stopped.Note != nil {
		t.Errorf("Expected blank note to be dropped, got %q", *stopped.Note)
	}
}

func TestStopSession_WrongUser(t *testing.T) {
	svc, _, _, _ := newTestSessionService()
	ctx := context.Background()
	userID := uuid.New()

	session, err := svc.Start(ctx, userID, models.StartSessionRequest{})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	_, err = svc.Stop(ctx, uuid.New(), session.ID, nil)
	var unauthorized *UnauthorizedError
	if !errors.As(err, &unauthorized) {
		t.Fatalf("Expected UnauthorizedError, got %v", err)
	}
}

func TestActive_NilWhenNothingRunning(t *testing.T) {
	svc, _, _, _ := newTestSessionService()
	ctx := context.Background()
	userID := uuid.New()

	session, err := svc.Active(ctx, userID)
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if session != nil {
		t.Errorf("Expected nil session, got %+v", session)
	}

	started, err := svc.Start(ctx, userID, models.StartSessionRequest{})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	active, err := svc.Active(ctx, userID)
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if active == nil || active.ID != started.ID {
		t.Error("Expected the started session to be active")
	}

	if _, err := svc.Stop(ctx, userID, started.ID, nil); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	after, err := svc.Active(ctx, userID)
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if after != nil {
		t.Error("Expected no active session after stop")
	}
}

// ─── Context reassignment tests ───

func TestUpdateContext_SetAndClear(t *testing.T) {
	svc, _, projects, _ := newTestSessionService()
	ctx := context.Background()
	userID := uuid.New()

	projectID := uuid.New()
	projects.projects[projectID] = &models.Project{ID: projectID, UserID: userID, Name: "api", Status: models.ProjectStatusActive}

	session, err := svc.Start(ctx, userID, models.StartSessionRequest{})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	updated, err := svc.UpdateContext(ctx, userID, session.ID, models.SessionContextPatch{
		ProjectID: models.OptionalUUID{Set: true, Value: &projectID},
	})
	if err != nil {
		t.Fatalf("UpdateContext failed: %v", err)
	}
	if updated.ProjectID == nil || *updated.ProjectID != projectID {
		t.Error("Expected project to be set")
	}

	cleared, err := svc.UpdateContext(ctx, userID, session.ID, models.SessionContextPatch{
		ProjectID: models.OptionalUUID{Set: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("UpdateContext clear failed: %v", err)
	}
	if cleared.ProjectID != nil {
		t.Error("Expected project to be cleared")
	}
}

func TestUpdateContext_OmittedFieldUnchanged(t *testing.T) {
	svc, _, projects, _ := newTestSessionService()
	ctx := context.Background()
	userID := uuid.New()

	projectID := uuid.New()
	projects.projects[projectID] = &models.Project{ID: projectID, UserID: userID, Name: "api", Status: models.ProjectStatusActive}

	session, err := svc.Start(ctx, userID, models.StartSessionRequest{ProjectID: &projectID})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Empty patch: both fields omitted
	updated, err := svc.UpdateContext(ctx, userID, session.ID, models.SessionContextPatch{})
	if err != nil {
		t.Fatalf("UpdateContext failed: %v", err)
	}
	if updated.ProjectID == nil || *updated.ProjectID != projectID {
		t.Error("Expected omitted project field to leave assignment unchanged")
	}
}

func TestUpdateContext_RejectsBoth(t *testing.T) {
	svc, _, projects, courses := newTestSessionService()
	ctx := context.Background()
	userID := uuid.New()

	projectID := uuid.New()
	courseID := uuid.New()
	projects.projects[projectID] = &models.Project{ID: projectID, UserID: userID, Name: "api", Status: models.ProjectStatusActive}
	courses.courses[courseID] = &models.Course{ID: courseID, UserID: userID, Title: "Go course", Status: models.CourseStatusInProgress}

	session, err := svc.Start(ctx, userID, models.StartSessionRequest{ProjectID: &projectID})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Adding a course while the project stays assigned must fail
	_, err = svc.UpdateContext(ctx, userID, session.ID, models.SessionContextPatch{
		CourseID: models.OptionalUUID{Set: true, Value: &courseID},
	})
	var invalid *InvalidContextError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected InvalidContextError, got %v", err)
	}
}

func TestUpdateContext_EndedSessionAllowed(t *testing.T) {
	svc, _, projects, _ := newTestSessionService()
	ctx := context.Background()
	userID := uuid.New()

	projectID := uuid.New()
	projects.projects[projectID] = &models.Project{ID: projectID, UserID: userID, Name: "api", Status: models.ProjectStatusActive}

	session, err := svc.Start(ctx, userID, models.StartSessionRequest{})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := svc.Stop(ctx, userID, session.ID, nil); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	updated, err := svc.UpdateContext(ctx, userID, session.ID, models.SessionContextPatch{
		ProjectID: models.OptionalUUID{Set: true, Value: &projectID},
	})
	if err != nil {
		t.Fatalf("UpdateContext on ended session failed: %v", err)
	}
	if updated.ProjectID == nil || *updated.ProjectID != projectID {
		t.Error("Expected historical correction to apply")
	}
}

func TestRecent_DisplayLabels(t *testing.T) {
	svc, _, _, _ := newTestSessionService()
	ctx := context.Background()
	userID := uuid.New()

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)
	svc.now = func() time.Time { return start }

	session, err := svc.Start(ctx, userID, models.StartSessionRequest{})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	svc.now = func() time.Time { return start.Add(125 * time.Minute) }
	if _, err := svc.Stop(ctx, userID, session.ID, nil); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	svc.now = func() time.Time { return start.Add(3 * time.Hour) }
	views, err := svc.Recent(ctx, userID, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(views))
	}

	if views[0].DurationLabel != "2h 5m" {
		t.Errorf("Expected duration label '2h 5m', got %q", views[0].DurationLabel)
	}
	if views[0].StartedAgo != "3h ago" {
		t.Errorf("Expected started ago '3h ago', got %q", views[0].StartedAgo)
	}
}

func TestRecent_ActiveSessionHasNoDurationLabel(t *testing.T) {
	svc, _, _, _ := newTestSessionService()
	ctx := context.Background()
	userID := uuid.New()

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)
	svc.now = func() time.Time { return start }

	if _, err := svc.Start(ctx, userID, models.StartSessionRequest{}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	svc.now = func() time.Time { return start.Add(5 * time.Minute) }
	views, err := svc.Recent(ctx, userID, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(views))
	}
	if views[0].DurationLabel != "" {
		t.Errorf("Expected no duration label for active session, got %q", views[0].DurationLabel)
	}
	if views[0].StartedAgo != "5m ago" {
		t.Errorf("Expected started ago '5m ago', got %q", views[0].StartedAgo)
	}
}

func TestContextOptions_EmptyNotNil(t *testing.T) {
	svc, _, _, _ := newTestSessionService()

	options, err := svc.ContextOptions(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ContextOptions failed: %v", err)
	}
	if options.Projects == nil || options.Courses == nil {
		t.Error("Expected empty slices, not nil")
	}
}

func TestContextOptions_FiltersByState(t *testing.T) {
	svc, _, projects, courses := newTestSessionService()
	userID := uuid.New()

	activeID := uuid.New()
	archivedID := uuid.New()
	projects.projects[activeID] = &models.Project{ID: activeID, UserID: userID, Name: "live", Status: models.ProjectStatusActive}
	projects.projects[archivedID] = &models.Project{ID: archivedID, UserID: userID, Name: "done", Status: models.ProjectStatusArchived}

	inProgressID := uuid.New()
	completedID := uuid.New()
	courses.courses[inProgressID] = &models.Course{ID: inProgressID, UserID: userID, Title: "current", Status: models.CourseStatusInProgress}
	courses.courses[completedID] = &models.Course{ID: completedID, UserID: userID, Title: "finished", Status: models.CourseStatusCompleted}

	options, err := svc.ContextOptions(context.Background(), userID)
	if err != nil {
		t.Fatalf("ContextOptions failed: %v", err)
	}

	if len(options.Projects) != 1 || options.Projects[0].ID != activeID {
		t.Errorf("Expected only the active project, got %+v", options.Projects)
	}
	if len(options.Courses) != 1 || options.Courses[0].ID != inProgressID {
		t.Errorf("Expected only the in-progress course, got %+v", options.Courses)
	}
}
