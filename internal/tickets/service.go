package tickets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/campusdesk/campusdesk/internal/authz"
	"github.com/campusdesk/campusdesk/internal/database/models"
	"github.com/campusdesk/campusdesk/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("ticket not found")
	ErrForbidden        = errors.New("not allowed to modify this ticket")
	ErrAssigneeNotFound = errors.New("assignee not found")
	ErrNotClosed        = errors.New("ticket is not closed")
)

type Service struct {
	db     *gorm.DB
	store  storage.Store
	logger *slog.Logger
}

func NewService(db *gorm.DB, store storage.Store, logger *slog.Logger) *Service {
	return &Service{db: db, store: store, logger: logger}
}

type CreateInput struct {
	StudentName  string
	StudentEmail string
	StudentID    string
	Course       string
	Category     string
	Title        string
	Description  string
	Priority     models.TicketPriority
	AssignedTo   *uuid.UUID
	DueDate      *time.Time
}

type UpdateInput struct {
	Course        *string
	Category      *string
	Title         *string
	Description   *string
	Priority      *models.TicketPriority
	Status        *models.TicketStatus
	AssignedTo    *uuid.UUID
	ClearAssignee bool
	DueDate       *time.Time
}

type ListFilter struct {
	Status     string
	Priority   string
	Category   string
	AssignedTo *uuid.UUID
}

func (s *Service) List(ctx context.Context, actor authz.Actor, filter ListFilter, offset, limit int) ([]models.Ticket, int64, error) {
	query := authz.ScopeTickets(actor, s.db.WithContext(ctx).Model(&models.Ticket{}))

	if filter.Status != "" {
		query = query.Where("tickets.status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("tickets.priority = ?", filter.Priority)
	}
	if filter.Category != "" {
		query = query.Where("tickets.category = ?", filter.Category)
	}
	if filter.AssignedTo != nil {
		query = query.Where("tickets.assigned_to = ?", *filter.AssignedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ticketList []models.Ticket
	if err := query.
		Order("tickets.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&ticketList).Error; err != nil {
		return nil, 0, err
	}

	return ticketList, total, nil
}

// Get returns a ticket by id. Any authenticated caller may read any ticket;
// listings are narrowed by ScopeTickets and mutation by CanMutateTicket, so
// a non-participant reaching for a write gets a forbidden answer rather than
// a phantom not-found.
func (s *Service) Get(ctx context.Context, actor authz.Actor, id uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	err := s.db.WithContext(ctx).First(&ticket, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (s *Service) Create(ctx context.Context, actor authz.Actor, input CreateInput) (*models.Ticket, error) {
	if input.AssignedTo != nil {
		if err := s.checkAssignee(ctx, *input.AssignedTo); err != nil {
			return nil, err
		}
	}

	priority := input.Priority
	if priority == "" {
		priority = models.TicketPriorityMedium
	}

	ticket := models.Ticket{
		StudentName:  input.StudentName,
		StudentEmail: input.StudentEmail,
		StudentID:    input.StudentID,
		Course:       input.Course,
		Category:     input.Category,
		Title:        input.Title,
		Description:  input.Description,
		Priority:     priority,
		Status:       models.TicketStatusOpen,
		AssignedTo:   input.AssignedTo,
		CreatedBy:    actor.UserID,
		DueDate:      input.DueDate,
	}

	if err := s.db.WithContext(ctx).Create(&ticket).Error; err != nil {
		return nil, err
	}

	return &ticket, nil
}

// Update mutates a ticket. Status transitions are free-form over the
// enumerated values; the only dedicated action is Reopen.
func (s *Service) Update(ctx context.Context, actor authz.Actor, id uuid.UUID, input UpdateInput) (*models.Ticket, error) {
	ticket, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if !authz.CanMutateTicket(actor, ticket) {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if input.Course != nil {
		updates["course"] = *input.Course
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Priority != nil {
		updates["priority"] = *input.Priority
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.ClearAssignee {
		updates["assigned_to"] = nil
	} else if input.AssignedTo != nil {
		if err := s.checkAssignee(ctx, *input.AssignedTo); err != nil {
			return nil, err
		}
		updates["assigned_to"] = *input.AssignedTo
	}
	if input.DueDate != nil {
		updates["due_date"] = *input.DueDate
	}

	if len(updates) == 0 {
		return ticket, nil
	}
	updates["updated_at"] = time.Now()

	if err := s.db.WithContext(ctx).Model(ticket).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.Get(ctx, actor, id)
}

// Reopen transitions a closed ticket back to Open.
func (s *Service) Reopen(ctx context.Context, actor authz.Actor, id uuid.UUID) (*models.Ticket, error) {
	ticket, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if !authz.CanMutateTicket(actor, ticket) {
		return nil, ErrForbidden
	}
	if ticket.Status != models.TicketStatusClosed {
		return nil, ErrNotClosed
	}

	updates := map[string]interface{}{
		"status":     models.TicketStatusOpen,
		"updated_at": time.Now(),
	}
	if err := s.db.WithContext(ctx).Model(ticket).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.Get(ctx, actor, id)
}

// Delete removes a ticket with its notes and attachments in a single
// transaction, so a fault mid-sequence cannot leave orphaned rows. Blob
// removal happens after commit and is best-effort.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	ticket, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}

	if !authz.CanDeleteTicket(actor, ticket) {
		return ErrForbidden
	}

	var attachments []models.Attachment
	if err := s.db.WithContext(ctx).Where("ticket_id = ?", id).Find(&attachments).Error; err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("ticket_id = ?", id).Delete(&models.Note{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("ticket_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Ticket{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("deleting ticket: %w", err)
	}

	for _, att := range attachments {
		if err := s.store.Delete(ctx, att.FilePath); err != nil {
			s.logger.Warn("failed to remove attachment blob",
				"ticket_id", id, "path", att.FilePath, "error", err)
		}
	}

	return nil
}

// AddNote appends a note; notes have no update or delete path.
func (s *Service) AddNote(ctx context.Context, actor authz.Actor, ticketID uuid.UUID, content, noteType string) (*models.Note, error) {
	ticket, err := s.Get(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	if !authz.CanMutateTicket(actor, ticket) {
		return nil, ErrForbidden
	}

	if noteType == "" {
		noteType = models.NoteTypeInternal
	}

	note := models.Note{
		TicketID: ticket.ID,
		UserID:   actor.UserID,
		Content:  content,
		NoteType: noteType,
	}

	if err := s.db.WithContext(ctx).Create(&note).Error; err != nil {
		return nil, err
	}

	return &note, nil
}

func (s *Service) ListNotes(ctx context.Context, actor authz.Actor, ticketID uuid.UUID) ([]models.Note, error) {
	if _, err := s.Get(ctx, actor, ticketID); err != nil {
		return nil, err
	}

	var noteList []models.Note
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&noteList).Error
	if err != nil {
		return nil, err
	}
	return noteList, nil
}

// AddAttachment validates the file against the allow-list and size ceiling,
// stores the blob, and records the immutable metadata row.
func (s *Service) AddAttachment(ctx context.Context, actor authz.Actor, ticketID uuid.UUID, filename string, size, maxBytes int64, body io.Reader) (*models.Attachment, error) {
	ticket, err := s.Get(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	if !authz.CanMutateTicket(actor, ticket) {
		return nil, ErrForbidden
	}

	contentType, err := storage.ValidateFilename(filename)
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && size > maxBytes {
		return nil, storage.ErrFileTooLarge
	}

	key := storage.ObjectKey(ticket.ID, filename)
	if err := s.store.Put(ctx, key, contentType, io.LimitReader(body, size)); err != nil {
		return nil, fmt.Errorf("storing attachment: %w", err)
	}

	att := models.Attachment{
		TicketID:   ticket.ID,
		Filename:   filename,
		FilePath:   key,
		FileSize:   size,
		UploadedBy: actor.UserID,
	}

	if err := s.db.WithContext(ctx).Create(&att).Error; err != nil {
		// Roll the blob back so store and table stay in step.
		_ = s.store.Delete(ctx, key)
		return nil, err
	}

	return &att, nil
}

func (s *Service) ListAttachments(ctx context.Context, actor authz.Actor, ticketID uuid.UUID) ([]models.Attachment, error) {
	if _, err := s.Get(ctx, actor, ticketID); err != nil {
		return nil, err
	}

	var attList []models.Attachment
	err := s.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&attList).Error
	if err != nil {
		return nil, err
	}
	return attList, nil
}

// OpenAttachment returns the metadata row and a reader over the blob.
func (s *Service) OpenAttachment(ctx context.Context, actor authz.Actor, ticketID, attachmentID uuid.UUID) (*models.Attachment, io.ReadCloser, error) {
	if _, err := s.Get(ctx, actor, ticketID); err != nil {
		return nil, nil, err
	}

	var att models.Attachment
	err := s.db.WithContext(ctx).
		Where("id = ? AND ticket_id = ?", attachmentID, ticketID).
		First(&att).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	body, err := s.store.Get(ctx, att.FilePath)
	if err != nil {
		return nil, nil, err
	}
	return &att, body, nil
}

func (s *Service) checkAssignee(ctx context.Context, id uuid.UUID) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND status = ?", id, models.UserStatusActive).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrAssigneeNotFound
	}
	return nil
}
