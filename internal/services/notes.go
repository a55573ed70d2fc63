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

type NoteService struct {
	notes    *repository.NoteRepo
	projects *repository.ProjectRepo
}

func NewNoteService(notes *repository.NoteRepo, projects *repository.ProjectRepo) *NoteService {
	return &NoteService{notes: notes, projects: projects}
}

func (s *NoteService) projectOwned(ctx context.Context, userID, projectID uuid.UUID) error {
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

func (s *NoteService) owned(ctx context.Context, userID, noteID uuid.UUID) (*models.ProjectNote, error) {
	owner, err := s.notes.OwnerOf(ctx, noteID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Message: "Note not found"}
	}
	if err != nil {
		return nil, err
	}
	if owner != userID {
		return nil, &UnauthorizedError{Message: "Note not found"}
	}
	return s.notes.GetByID(ctx, noteID)
}

func (s *NoteService) Create(ctx context.Context, userID, projectID uuid.UUID, req models.NoteRequest) (*models.ProjectNote, error) {
	if err := s.projectOwned(ctx, userID, projectID); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, &ValidationError{Fields: map[string]string{"content": "Content is required"}}
	}

	note := &models.ProjectNote{
		ProjectID: projectID,
		Content:   content,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) List(ctx context.Context, userID, projectID uuid.UUID) ([]models.ProjectNote, error) {
	if err := s.projectOwned(ctx, userID, projectID); err != nil {
		return nil, err
	}

	notes, err := s.notes.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []models.ProjectNote{}
	}
	return notes, nil
}

func (s *NoteService) Update(ctx context.Context, userID, noteID uuid.UUID, req models.NoteRequest) (*models.ProjectNote, error) {
	n, err := s.owned(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, &ValidationError{Fields: map[string]string{"content": "Content is required"}}
	}

	if err := s.notes.UpdateContent(ctx, n.ID, content); err != nil {
		return nil, err
	}
	return s.notes.GetByID(ctx, n.ID)
}

func (s *NoteService) Delete(ctx context.Context, userID, noteID uuid.UUID) error {
	n, err := s.owned(ctx, userID, noteID)
	if err != nil {
		return err
	}
	return s.notes.Delete(ctx, n.ID)
}
