package app

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"sitedocs/internal/authz"
	"sitedocs/internal/model"
	"sitedocs/internal/repository"
)

type NoteService struct {
	notes    *repository.NoteRepository
	projects *repository.ProjectRepository
}

func NewNoteService(notes *repository.NoteRepository, projects *repository.ProjectRepository) *NoteService {
	return &NoteService{
		notes:    notes,
		projects: projects,
	}
}

// Add creates a note on a project the actor leads or belongs to. The note
// insert and the acting user's upsert commit atomically.
func (s *NoteService) Add(actor model.Identity, projectID uuid.UUID, content string) (*NoteView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrInvalidInput
	}

	project, err := s.projects.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	if !authz.CanAddNote(actor, project) {
		return nil, ErrForbidden
	}

	note := &model.Note{
		Content:   content,
		ProjectID: projectID,
		UserID:    actor.ID,
	}
	if err := s.notes.CreateWithAuthor(note, actor); err != nil {
		return nil, err
	}
	view := noteView(note)
	return &view, nil
}

// Update edits a note; author only, regardless of project role.
func (s *NoteService) Update(actor model.Identity, noteID uuid.UUID, content string) (*NoteView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrInvalidInput
	}

	note, err := s.notes.UpdateByAuthor(noteID, actor.ID, content)
	if err != nil {
		return nil, translateNoteErr(err)
	}
	view := noteView(note)
	return &view, nil
}

// Remove deletes a note; author only.
func (s *NoteService) Remove(actor model.Identity, noteID uuid.UUID) error {
	if err := s.notes.DeleteByAuthor(noteID, actor.ID); err != nil {
		return translateNoteErr(err)
	}
	return nil
}

func translateNoteErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrNotAuthor):
		return ErrForbidden
	default:
		return err
	}
}
