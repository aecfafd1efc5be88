package models

import (
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusPending    TicketStatus = "Pending"
	TicketStatusClosed     TicketStatus = "Closed"
)

type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
	TicketPriorityUrgent TicketPriority = "Urgent"
)

const (
	TicketCategoryAcademic  = "Academic Support"
	TicketCategoryTechnical = "Technical Issue"
	TicketCategoryCourseReg = "Course Registration"
	TicketCategoryFinancial = "Financial Aid"
	TicketCategoryGeneral   = "General Inquiry"
)

type Ticket struct {
	Base
	StudentName  string         `gorm:"not null" json:"student_name"`
	StudentEmail string         `gorm:"not null" json:"student_email"`
	StudentID    string         `json:"student_id,omitempty"`
	Course       string         `json:"course"`
	Category     string         `gorm:"not null" json:"category"`
	Title        string         `gorm:"not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Priority     TicketPriority `gorm:"not null;default:'Medium'" json:"priority"`
	Status       TicketStatus   `gorm:"not null;default:'Open';index" json:"status"`
	AssignedTo   *uuid.UUID     `gorm:"type:uuid;index" json:"assigned_to"`
	CreatedBy    uuid.UUID      `gorm:"type:uuid;not null;index" json:"created_by"`
	DueDate      *time.Time     `json:"due_date,omitempty"`

	// Relationships
	Assignee    *User        `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	Creator     *User        `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Notes       []Note       `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE" json:"-"`
	Attachments []Attachment `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Ticket) TableName() string {
	return "tickets"
}

func ValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusPending, TicketStatusClosed:
		return true
	}
	return false
}

func ValidTicketPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

func ValidTicketCategory(c string) bool {
	switch c {
	case TicketCategoryAcademic, TicketCategoryTechnical, TicketCategoryCourseReg,
		TicketCategoryFinancial, TicketCategoryGeneral:
		return true
	}
	return false
}
