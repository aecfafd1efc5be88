package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campusdesk/campusdesk/internal/database/models"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeOverdueSweep, h.HandleOverdueSweep)
	mux.HandleFunc(TypeSessionPurge, h.HandleSessionPurge)
}

// HandleOverdueSweep appends a System Update note to every non-closed ticket
// past its due date, at most once per 24h per ticket.
func (h *Handler) HandleOverdueSweep(ctx context.Context, t *asynq.Task) error {
	now := time.Now()

	var overdue []models.Ticket
	err := h.db.WithContext(ctx).
		Where("due_date IS NOT NULL AND due_date < ? AND status <> ?", now, models.TicketStatusClosed).
		Find(&overdue).Error
	if err != nil {
		return fmt.Errorf("listing overdue tickets: %w", err)
	}

	swept := 0
	for _, ticket := range overdue {
		var recent int64
		err := h.db.WithContext(ctx).Model(&models.Note{}).
			Where("ticket_id = ? AND note_type = ? AND content LIKE ? AND created_at > ?",
				ticket.ID, models.NoteTypeSystemUpdate, "Ticket is overdue%", now.Add(-24*time.Hour)).
			Count(&recent).Error
		if err != nil {
			return err
		}
		if recent > 0 {
			continue
		}

		note := models.Note{
			TicketID: ticket.ID,
			UserID:   ticket.CreatedBy,
			Content: fmt.Sprintf("Ticket is overdue (due %s, priority %s)",
				ticket.DueDate.Format("2006-01-02"), ticket.Priority),
			NoteType: models.NoteTypeSystemUpdate,
		}
		if err := h.db.WithContext(ctx).Create(&note).Error; err != nil {
			return fmt.Errorf("appending overdue note: %w", err)
		}
		swept++
	}

	h.logger.Info("overdue sweep completed", "overdue", len(overdue), "notes_added", swept)
	return nil
}

// HandleSessionPurge removes expired session rows. Expired sessions are
// already rejected at auth time; this keeps the table from growing forever.
func (h *Handler) HandleSessionPurge(ctx context.Context, t *asynq.Task) error {
	res := h.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.UserSession{})
	if res.Error != nil {
		return fmt.Errorf("purging sessions: %w", res.Error)
	}

	h.logger.Info("session purge completed", "deleted", res.RowsAffected)
	return nil
}
