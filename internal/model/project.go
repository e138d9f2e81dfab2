package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusPending    ProjectStatus = "pending"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusPending, ProjectStatusInProgress, ProjectStatusCompleted:
		return true
	}
	return false
}

type Project struct {
	ID          uuid.UUID     `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string        `gorm:"size:256;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	StartDate   time.Time     `json:"startDate"`
	EndDate     time.Time     `json:"endDate"`
	Status      ProjectStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TeamLeadID  uuid.UUID     `gorm:"type:char(36);not null;index" json:"teamLeadId"`
	TeamLead    *User         `gorm:"foreignKey:TeamLeadID" json:"teamLead,omitempty"`
	TeamMembers []User        `gorm:"many2many:project_members" json:"teamMembers,omitempty"`
	Documents   []Document    `gorm:"foreignKey:ProjectID" json:"documents,omitempty"`
	Notes       []Note        `gorm:"foreignKey:ProjectID" json:"notes,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// HasMember reports whether the user is the team lead or a team member.
// TeamMembers must be loaded for the member half of the check.
func (p *Project) HasMember(userID uuid.UUID) bool {
	if p.TeamLeadID == userID {
		return true
	}
	for _, m := range p.TeamMembers {
		if m.ID == userID {
			return true
		}
	}
	return false
}
