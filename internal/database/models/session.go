package models

import (
	"time"

	"github.com/google/uuid"
)

// UserSession is the source of truth for token validity. A token that
// verifies cryptographically but has no matching unexpired row is rejected.
type UserSession struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}

func (s *UserSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
