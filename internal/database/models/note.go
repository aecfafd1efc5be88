package models

import "github.com/google/uuid"

const (
	NoteTypeInternal     = "Internal"
	NoteTypeStudentComm  = "Student Communication"
	NoteTypeSystemUpdate = "System Update"
)

// Note is append-only: no update or delete path exists outside ticket deletion.
type Note struct {
	Base
	TicketID uuid.UUID `gorm:"type:uuid;not null;index" json:"ticket_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	NoteType string    `gorm:"not null;default:'Internal'" json:"note_type"`

	Author *User `gorm:"foreignKey:UserID" json:"author,omitempty"`
}

func (Note) TableName() string {
	return "notes"
}

func ValidNoteType(t string) bool {
	switch t {
	case NoteTypeInternal, NoteTypeStudentComm, NoteTypeSystemUpdate:
		return true
	}
	return false
}
