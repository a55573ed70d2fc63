package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"devtrack-backend/internal/models"
	"devtrack-backend/internal/repository"
)

type GoalService struct {
	goals    *repository.GoalRepo
	projects *repository.ProjectRepo
	now      func() time.Time
}

func NewGoalService(goals *repository.GoalRepo, projects *repository.ProjectRepo) *GoalService {
	return &GoalService{goals: goals, projects: projects, now: time.Now}
}

// projectOwned verifies the project exists and belongs to the user.
func (s *GoalService) projectOwned(ctx context.Context, userID, projectID uuid.UUID) error {
	p, err := s.projects.GetByID(ctx, projectID)
	if errors.Is(err, pgx.ErrNoRows) {
		return &NotFoundError{Message: "Project not found"}
	}
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return &UnauthorizedError{Message: "Project not found"}
	}
	return nil
}

func (s *GoalService) owned(ctx context.Context, userID, goalID uuid.UUID) (*models.ProjectGoal, error) {
	owner, err := s.goals.OwnerOf(ctx, goalID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Message: "Goal not found"}
	}
	if err != nil {
		return nil, err
	}
	if owner != userID {
		return nil, &UnauthorizedError{Message: "Goal not found"}
	}
	return s.goals.GetByID(ctx, goalID)
}

func (s *GoalService) Create(ctx context.Context, userID, projectID uuid.UUID, req models.CreateGoalRequest) (*models.ProjectGoal, error) {
	if err := s.projectOwned(ctx, userID, projectID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, &ValidationError{Fields: map[string]string{"title": "Title is required"}}
	}

	goal := &models.ProjectGoal{
		ProjectID:   projectID,
		Title:       title,
		Description: req.Description,
		TargetDate:  req.TargetDate,
	}
	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) List(ctx context.Context, userID, projectID uuid.UUID) ([]models.ProjectGoal, error) {
	if err := s.projectOwned(ctx, userID, projectID); err != nil {
		return nil, err
	}

	goals, err := s.goals.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if goals == nil {
		goals = []models.ProjectGoal{}
	}
	return goals, nil
}

func (s *GoalService) Update(ctx context.Context, userID, goalID uuid.UUID, req models.UpdateGoalRequest) (*models.ProjectGoal, error) {
	g, err := s.owned(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, &ValidationError{Fields: map[string]string{"title": "Title cannot be empty"}}
		}
		g.Title = title
	}
	if req.Description.Set {
		g.Description = req.Description.Value
	}
	if req.TargetDate.Set {
		g.TargetDate = req.TargetDate.Value
	}
	if req.Completed != nil && *req.Completed != g.Completed {
		g.Completed = *req.Completed
		if g.Completed {
			now := s.now()
			g.CompletedAt = &now
		} else {
			g.CompletedAt = nil
		}
	}

	if err := s.goals.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *GoalService) Delete(ctx context.Context, userID, goalID uuid.UUID) error {
	g, err := s.owned(ctx, userID, goalID)
	if err != nil {
		return err
	}
	return s.goals.Delete(ctx, g.ID)
}
