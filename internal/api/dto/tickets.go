package dto

import (
	"time"

	"github.com/campusdesk/campusdesk/internal/api/validation"
	"github.com/campusdesk/campusdesk/internal/database/models"
)

type CreateTicketRequest struct {
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
	StudentID    string `json:"student_id,omitempty"`
	Course       string `json:"course,omitempty"`
	Category     string `json:"category"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Priority     string `json:"priority,omitempty"`
	AssignedTo   string `json:"assigned_to,omitempty"`
	DueDate      string `json:"due_date,omitempty"`
}

func (r CreateTicketRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.StudentName == "" {
		errors["student_name"] = "Student name is required"
	}
	if r.StudentEmail == "" {
		errors["student_email"] = "Student email is required"
	} else if !validation.IsValidEmail(r.StudentEmail) {
		errors["student_email"] = "Student email format is invalid"
	}
	if r.Title == "" {
		errors["title"] = "Title is required"
	}
	if r.Category == "" {
		errors["category"] = "Category is required"
	} else if !models.ValidTicketCategory(r.Category) {
		errors["category"] = "Unknown category"
	}
	if r.Priority != "" && !models.ValidTicketPriority(models.TicketPriority(r.Priority)) {
		errors["priority"] = "Unknown priority"
	}
	if r.AssignedTo != "" && !validation.IsValidUUID(r.AssignedTo) {
		errors["assigned_to"] = "Invalid assignee ID"
	}
	if r.DueDate != "" {
		if _, err := time.Parse(time.RFC3339, r.DueDate); err != nil {
			errors["due_date"] = "Due date must be RFC3339"
		}
	}

	return errors
}

type UpdateTicketRequest struct {
	Course      *string `json:"course,omitempty"`
	Category    *string `json:"category,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Status      *string `json:"status,omitempty"`
	AssignedTo  *string `json:"assigned_to,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}

func (r UpdateTicketRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title != nil && *r.Title == "" {
		errors["title"] = "Title cannot be empty"
	}
	if r.Category != nil && !models.ValidTicketCategory(*r.Category) {
		errors["category"] = "Unknown category"
	}
	if r.Priority != nil && !models.ValidTicketPriority(models.TicketPriority(*r.Priority)) {
		errors["priority"] = "Unknown priority"
	}
	if r.Status != nil && !models.ValidTicketStatus(models.TicketStatus(*r.Status)) {
		errors["status"] = "Unknown status"
	}
	if r.AssignedTo != nil && *r.AssignedTo != "" && !validation.IsValidUUID(*r.AssignedTo) {
		errors["assigned_to"] = "Invalid assignee ID"
	}
	if r.DueDate != nil && *r.DueDate != "" {
		if _, err := time.Parse(time.RFC3339, *r.DueDate); err != nil {
			errors["due_date"] = "Due date must be RFC3339"
		}
	}

	return errors
}

type CreateNoteRequest struct {
	Content  string `json:"content"`
	NoteType string `json:"note_type,omitempty"`
}

func (r CreateNoteRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Content == "" {
		errors["content"] = "Content is required"
	}
	if r.NoteType != "" && !models.ValidNoteType(r.NoteType) {
		errors["note_type"] = "Unknown note type"
	}

	return errors
}
