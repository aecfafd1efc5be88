package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

type User struct {
	Base
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash   string     `gorm:"not null" json:"-"`
	Name           string     `json:"name"`
	Role           string     `gorm:"not null;default:'team_member';index" json:"role"`
	Status         string     `gorm:"not null;default:'active'" json:"status"`
	OrganizationID *uuid.UUID `gorm:"type:uuid;index" json:"organization_id"`
	CreatedBy      *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	LastLogin      *time.Time `json:"last_login,omitempty"`

	// Relationships
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
