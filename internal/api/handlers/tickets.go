package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/campusdesk/campusdesk/internal/api/dto"
	"github.com/campusdesk/campusdesk/internal/api/middleware"
	"github.com/campusdesk/campusdesk/internal/database/models"
	"github.com/campusdesk/campusdesk/internal/tickets"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type TicketHandler struct {
	service *tickets.Service
}

func NewTicketHandler(service *tickets.Service) *TicketHandler {
	return &TicketHandler{service: service}
}

// List handles GET /api/tickets
func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := dto.PaginationParams{Page: page, PerPage: perPage}
	pagination.Normalize()

	filter := tickets.ListFilter{
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
		Category: r.URL.Query().Get("category"),
	}
	if assigned := r.URL.Query().Get("assigned_to"); assigned != "" {
		id, err := uuid.Parse(assigned)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.Invalid(map[string]string{"assigned_to": "Invalid assignee ID"}))
			return
		}
		filter.AssignedTo = &id
	}

	ticketList, total, err := h.service.List(r.Context(), actor, filter, pagination.Offset(), pagination.PerPage)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OK(dto.PaginatedData{
		Items:      ticketList,
		Total:      total,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		TotalPages: pagination.TotalPages(total),
	}))
}

// Create handles POST /api/tickets
func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	var req dto.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Err("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.Invalid(errs))
		return
	}

	input := tickets.CreateInput{
		StudentName:  req.StudentName,
		StudentEmail: req.StudentEmail,
		StudentID:    req.StudentID,
		Course:       req.Course,
		Category:     req.Category,
		Title:        req.Title,
		Description:  req.Description,
		Priority:     models.TicketPriority(req.Priority),
	}
	if req.AssignedTo != "" {
		id, _ := uuid.Parse(req.AssignedTo)
		input.AssignedTo = &id
	}
	if req.DueDate != "" {
		due, _ := time.Parse(time.RFC3339, req.DueDate)
		input.DueDate = &due
	}

	ticket, err := h.service.Create(r.Context(), actor, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.OK(ticket))
}

// Get handles GET /api/tickets/:id
func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	ticketID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Err("Invalid ticket ID"))
		return
	}

	ticket, err := h.service.Get(r.Context(), actor, ticketID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OK(ticket))
}

// Update handles PUT /api/tickets/:id
func (h *TicketHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	ticketID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Err("Invalid ticket ID"))
		return
	}

	var req dto.UpdateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Err("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.Invalid(errs))
		return
	}

	input := tickets.UpdateInput{
		Course:      req.Course,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	}
	if req.Priority != nil {
		p := models.TicketPriority(*req.Priority)
		input.Priority = &p
	}
	if req.Status != nil {
		s := models.TicketStatus(*req.Status)
		input.Status = &s
	}
	if req.AssignedTo != nil {
		if *req.AssignedTo == "" {
			input.ClearAssignee = true
		} else {
			id, _ := uuid.Parse(*req.AssignedTo)
			input.AssignedTo = &id
		}
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, _ := time.Parse(time.RFC3339, *req.DueDate)
		input.DueDate = &due
	}

	ticket, err := h.service.Update(r.Context(), actor, ticketID, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OK(ticket))
}

// Reopen handles POST /api/tickets/:id/reopen (Closed -> Open)
func (h *TicketHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	ticketID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Err("Invalid ticket ID"))
		return
	}

	ticket, err := h.service.Reopen(r.Context(), actor, ticketID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OK(ticket))
}

// Delete handles DELETE /api/tickets/:id
func (h *TicketHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	ticketID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Err("Invalid ticket ID"))
		return
	}

	if err := h.service.Delete(r.Context(), actor, ticketID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Msg("Ticket deleted"))
}
