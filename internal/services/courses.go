package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"devtrack-backend/internal/models"
	"devtrack-backend/internal/repository"
)

type CourseService struct {
	courses *repository.CourseRepo
}

func NewCourseService(courses *repository.CourseRepo) *CourseService {
	return &CourseService{courses: courses}
}

func (s *CourseService) owned(ctx context.Context, userID, courseID uuid.UUID) (*models.Course, error) {
	c, err := s.courses.GetByID(ctx, courseID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Message: "Course not found"}
	}
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, &UnauthorizedError{Message: "Course not found"}
	}
	return c, nil
}

func clampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

func (s *CourseService) Create(ctx context.Context, userID uuid.UUID, req models.CreateCourseRequest) (*models.Course, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, &ValidationError{Fields: map[string]string{"title": "Title is required"}}
	}
	if req.TotalHours != nil && *req.TotalHours <= 0 {
		return nil, &ValidationError{Fields: map[string]string{"total_hours": "total_hours must be positive"}}
	}

	course := &models.Course{
		UserID:     userID,
		Title:      title,
		Platform:   req.Platform,
		URL:        req.URL,
		TotalHours: req.TotalHours,
		Status:     models.CourseStatusNotStarted,
		Progress:   0,
	}

	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	return s.courses.GetByID(ctx, course.ID)
}

func (s *CourseService) List(ctx context.Context, userID uuid.UUID) ([]models.Course, error) {
	courses, err := s.courses.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

func (s *CourseService) Get(ctx context.Context, userID, courseID uuid.UUID) (*models.Course, error) {
	return s.owned(ctx, userID, courseID)
}

func (s *CourseService) Update(ctx context.Context, userID, courseID uuid.UUID, req models.UpdateCourseRequest) (*models.Course, error) {
	c, err := s.owned(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, &ValidationError{Fields: map[string]string{"title": "Title cannot be empty"}}
		}
		c.Title = title
	}
	if req.Platform.Set {
		c.Platform = req.Platform.Value
	}
	if req.URL.Set {
		c.URL = req.URL.Value
	}
	if req.TotalHours.Set {
		if req.TotalHours.Value != nil && *req.TotalHours.Value <= 0 {
			return nil, &ValidationError{Fields: map[string]string{"total_hours": "total_hours must be positive"}}
		}
		c.TotalHours = req.TotalHours.Value
	}
	if req.Status != nil {
		if !models.ValidCourseStatus(*req.Status) {
			return nil, &ValidationError{Fields: map[string]string{"status": "status must be NOT_STARTED, IN_PROGRESS, COMPLETED, or DROPPED"}}
		}
		c.Status = *req.Status
	}
	if req.Progress != nil {
		c.Progress = clampProgress(*req.Progress)
		// Reaching 100% completes the course unless the caller set a
		// status explicitly in the same request.
		if c.Progress == 100 && req.Status == nil {
			c.Status = models.CourseStatusCompleted
		}
	}

	if err := s.courses.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.courses.GetByID(ctx, c.ID)
}

func (s *CourseService) Delete(ctx context.Context, userID, courseID uuid.UUID) error {
	c, err := s.owned(ctx, userID, courseID)
	if err != nil {
		return err
	}
	return s.courses.Delete(ctx, c.ID)
}
