package models

import "github.com/google/uuid"

// Attachment metadata is immutable once created.
type Attachment struct {
	Base
	TicketID   uuid.UUID `gorm:"type:uuid;not null;index" json:"ticket_id"`
	Filename   string    `gorm:"not null" json:"filename"`
	FilePath   string    `gorm:"not null" json:"file_path"`
	FileSize   int64     `json:"file_size"`
	UploadedBy uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by"`
}

func (Attachment) TableName() string {
	return "attachments"
}
