package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole is a closed set of labels. Roles are informational: access
// rights derive from team-lead/member relations, never from the role.
type UserRole string

const (
	RoleEngineer  UserRole = "engineer"
	RoleArchitect UserRole = "architect"
	RoleForeman   UserRole = "foreman"
	RoleManager   UserRole = "manager"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleEngineer, RoleArchitect, RoleForeman, RoleManager:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Email        string    `gorm:"size:128;not null;uniqueIndex" json:"email"`
	Name         string    `gorm:"size:128;not null" json:"name"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'engineer'" json:"role"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleEngineer
	}
	return nil
}

// Identity is the resolved caller of a request. Every service operation
// takes one explicitly; nothing reads ambient session state.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}
