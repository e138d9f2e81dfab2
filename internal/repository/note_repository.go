package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sitedocs/internal/model"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// CreateWithAuthor inserts the note and upserts its author's user row in
// one transaction, so a note never references a missing user and a
// failure leaves neither row behind.
func (r *NoteRepository) CreateWithAuthor(note *model.Note, author model.Identity) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.
			Where(model.User{ID: author.ID}).
			Attrs(model.User{Email: author.Email, Name: author.Name, Role: model.RoleEngineer}).
			FirstOrCreate(&user).Error; err != nil {
			return err
		}
		note.UserID = user.ID
		return tx.Create(note).Error
	})
	if err != nil {
		return fmt.Errorf("create note failed: %w", err)
	}

	if err := r.db.Preload("User").First(note, "id = ?", note.ID).Error; err != nil {
		return fmt.Errorf("reload note failed: %w", err)
	}
	return nil
}

func (r *NoteRepository) GetByID(id uuid.UUID) (*model.Note, error) {
	var note model.Note
	if err := r.db.Preload("User").First(&note, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query note failed: %w", err)
	}
	return &note, nil
}

// UpdateByAuthor edits a note after checking authorship inside the same
// transaction, so a concurrent delete either fully precedes or fully
// follows the check.
func (r *NoteRepository) UpdateByAuthor(noteID, authorID uuid.UUID, content string) (*model.Note, error) {
	var note model.Note
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&note, "id = ?", noteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if note.UserID != authorID {
			return ErrNotAuthor
		}
		return tx.Model(&note).Update("content", content).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotAuthor) {
			return nil, err
		}
		return nil, fmt.Errorf("update note failed: %w", err)
	}

	if err := r.db.Preload("User").First(&note, "id = ?", noteID).Error; err != nil {
		return nil, fmt.Errorf("reload note failed: %w", err)
	}
	return &note, nil
}

// DeleteByAuthor removes a note under the same transactional authorship
// check as UpdateByAuthor.
func (r *NoteRepository) DeleteByAuthor(noteID, authorID uuid.UUID) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var note model.Note
		if err := tx.First(&note, "id = ?", noteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if note.UserID != authorID {
			return ErrNotAuthor
		}
		return tx.Delete(&note).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotAuthor) {
			return err
		}
		return fmt.Errorf("delete note failed: %w", err)
	}
	return nil
}
