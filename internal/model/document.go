package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Classification is the category assigned to a document. Unknown is only
// ever an AI result; persisted documents always carry one of the three
// concrete categories.
type Classification string

const (
	ClassificationConstruction Classification = "Construction"
	ClassificationMEP          Classification = "MEP"
	ClassificationCodeSpec     Classification = "Code/Specification"
	ClassificationUnknown      Classification = "Unknown"
)

func (c Classification) Valid() bool {
	switch c {
	case ClassificationConstruction, ClassificationMEP, ClassificationCodeSpec:
		return true
	}
	return false
}

type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusReviewed DocumentStatus = "reviewed"
	DocumentStatusApproved DocumentStatus = "approved"
	DocumentStatusRejected DocumentStatus = "rejected"
)

// ExtractedInfo holds the free-text fields the AI extraction call
// produces. Fields stay empty when extraction was skipped or failed.
type ExtractedInfo struct {
	MaterialSchedules       string `gorm:"type:text" json:"materialSchedules"`
	EquipmentSpecifications string `gorm:"type:text" json:"equipmentSpecifications"`
	SpatialDimensions       string `gorm:"type:text" json:"spatialDimensions"`
}

type Document struct {
	ID             uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	Name           string         `gorm:"size:256;not null" json:"name"`
	FilePath       string         `gorm:"size:512;not null" json:"filePath"`
	FileType       string         `gorm:"size:128" json:"fileType"`
	Size           int64          `json:"size"`
	Classification Classification `gorm:"type:varchar(32);not null;default:'Construction'" json:"classification"`
	ExtractedInfo  ExtractedInfo  `gorm:"embedded;embeddedPrefix:extracted_" json:"extractedInfo"`
	Status         DocumentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Reviewers      string         `gorm:"type:text" json:"-"` // JSON array of user ids
	UploadDate     time.Time      `gorm:"index" json:"uploadDate"`
	ProjectID      uuid.UUID      `gorm:"type:char(36);not null;index" json:"projectId"`
	Project        *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UploadedByID   uuid.UUID      `gorm:"type:char(36);not null;index" json:"uploadedById"`
	UploadedBy     *User          `gorm:"foreignKey:UploadedByID" json:"uploadedBy,omitempty"`
	Annotations    []Annotation   `gorm:"foreignKey:DocumentID" json:"annotations,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.UploadDate.IsZero() {
		d.UploadDate = time.Now()
	}
	return nil
}

// ReviewerIDs returns the parsed reviewer list; empty on parse error.
func (d *Document) ReviewerIDs() []string {
	if d.Reviewers == "" {
		return nil
	}
	var ids []string
	_ = json.Unmarshal([]byte(d.Reviewers), &ids)
	return ids
}

// SetReviewerIDs stores the reviewer list as JSON.
func (d *Document) SetReviewerIDs(ids []string) {
	if len(ids) == 0 {
		d.Reviewers = "[]"
		return
	}
	b, _ := json.Marshal(ids)
	d.Reviewers = string(b)
}

type Annotation struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	DocumentID uuid.UUID `gorm:"type:char(36);not null;index" json:"documentId"`
	UserID     uuid.UUID `gorm:"type:char(36);not null;index" json:"userId"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (a *Annotation) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
