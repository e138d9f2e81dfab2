package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sitedocs/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

// GetByID loads the document with its owning project (members included,
// for the access check), uploader and annotations oldest-first.
func (r *DocumentRepository) GetByID(id uuid.UUID) (*model.Document, error) {
	var doc model.Document
	err := r.db.
		Preload("Project").
		Preload("Project.TeamLead").
		Preload("Project.TeamMembers").
		Preload("UploadedBy").
		Preload("Annotations", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Annotations.User").
		First(&doc, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query document failed: %w", err)
	}
	return &doc, nil
}

// ListForUser returns documents whose owning project has the user as lead
// or member, newest upload first.
func (r *DocumentRepository) ListForUser(userID uuid.UUID) ([]model.Document, error) {
	var docs []model.Document
	err := r.db.
		Preload("Project").
		Preload("UploadedBy").
		Where("project_id IN (SELECT id FROM projects WHERE "+membershipFilter+")", userID, userID).
		Order("upload_date DESC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return docs, nil
}

// FilePathsForProject returns the storage keys of every document in the
// project, so a project delete can reclaim the blobs behind the rows.
func (r *DocumentRepository) FilePathsForProject(projectID uuid.UUID) ([]string, error) {
	var paths []string
	err := r.db.Model(&model.Document{}).
		Where("project_id = ?", projectID).
		Pluck("file_path", &paths).Error
	if err != nil {
		return nil, fmt.Errorf("query document file paths failed: %w", err)
	}
	return paths, nil
}

// SaveExtractedInfo overwrites the three extraction columns, including
// with empty strings.
func (r *DocumentRepository) SaveExtractedInfo(id uuid.UUID, info model.ExtractedInfo) error {
	err := r.db.Model(&model.Document{}).Where("id = ?", id).Updates(map[string]interface{}{
		"extracted_material_schedules":       info.MaterialSchedules,
		"extracted_equipment_specifications": info.EquipmentSpecifications,
		"extracted_spatial_dimensions":       info.SpatialDimensions,
	}).Error
	if err != nil {
		return fmt.Errorf("save extracted info failed: %w", err)
	}
	return nil
}

// Delete removes the document and its annotations in one transaction.
func (r *DocumentRepository) Delete(id uuid.UUID) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&model.Annotation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Document{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("delete document failed: %w", err)
	}
	return nil
}

// CreateAnnotation appends an annotation and returns it with its author
// loaded.
func (r *DocumentRepository) CreateAnnotation(annotation *model.Annotation) (*model.Annotation, error) {
	if err := r.db.Create(annotation).Error; err != nil {
		return nil, fmt.Errorf("create annotation failed: %w", err)
	}
	var created model.Annotation
	if err := r.db.Preload("User").First(&created, "id = ?", annotation.ID).Error; err != nil {
		return nil, fmt.Errorf("reload annotation failed: %w", err)
	}
	return &created, nil
}
