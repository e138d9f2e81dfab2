package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sitedocs/internal/model"
)

// membershipFilter matches projects where the user is the team lead or
// appears in the member join table.
const membershipFilter = "team_lead_id = ? OR id IN (SELECT project_id FROM project_members WHERE user_id = ?)"

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(project *model.Project) error {
	if err := r.db.Create(project).Error; err != nil {
		return fmt.Errorf("create project failed: %w", err)
	}
	return nil
}

// GetByID loads a project with its lead and members, which every
// authorization check needs.
func (r *ProjectRepository) GetByID(id uuid.UUID) (*model.Project, error) {
	var project model.Project
	err := r.db.
		Preload("TeamLead").
		Preload("TeamMembers").
		First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query project failed: %w", err)
	}
	return &project, nil
}

// GetDetail loads the full detail-view shape: lead, members, documents and
// notes with their authors, notes newest first.
func (r *ProjectRepository) GetDetail(id uuid.UUID) (*model.Project, error) {
	var project model.Project
	err := r.db.
		Preload("TeamLead").
		Preload("TeamMembers").
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("upload_date DESC")
		}).
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Notes.User").
		First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query project detail failed: %w", err)
	}
	return &project, nil
}

// ListForUser returns the projects the user leads or belongs to.
func (r *ProjectRepository) ListForUser(userID uuid.UUID) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.
		Preload("TeamLead").
		Preload("TeamMembers").
		Where(membershipFilter, userID, userID).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("list projects failed: %w", err)
	}
	return projects, nil
}

// CountDocumentsByProject returns per-project document counts for the
// given ids in a single grouped query. Projects without documents are
// absent from the map.
func (r *ProjectRepository) CountDocumentsByProject(ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	var rows []struct {
		ProjectID uuid.UUID
		Total     int64
	}
	err := r.db.Model(&model.Document{}).
		Select("project_id, COUNT(*) AS total").
		Where("project_id IN ?", ids).
		Group("project_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count project documents failed: %w", err)
	}
	for _, row := range rows {
		counts[row.ProjectID] = row.Total
	}
	return counts, nil
}

// UpdateFields applies a partial update; fields is a column->value map so
// zero values (empty description, pending status) still overwrite.
func (r *ProjectRepository) UpdateFields(id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	err := r.db.Model(&model.Project{}).Where("id = ?", id).Updates(fields).Error
	if err != nil {
		return fmt.Errorf("update project failed: %w", err)
	}
	return nil
}

// ReplaceMembers swaps the team member set.
func (r *ProjectRepository) ReplaceMembers(project *model.Project, members []model.User) error {
	if err := r.db.Model(project).Association("TeamMembers").Replace(members); err != nil {
		return fmt.Errorf("replace team members failed: %w", err)
	}
	return nil
}

// Delete removes the project and everything scoped to it in one
// transaction: annotations of its documents, the documents, the notes,
// the membership rows, then the project row itself.
func (r *ProjectRepository) Delete(id uuid.UUID) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM annotations WHERE document_id IN (SELECT id FROM documents WHERE project_id = ?)", id,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Document{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Note{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM project_members WHERE project_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Project{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("delete project failed: %w", err)
	}
	return nil
}
