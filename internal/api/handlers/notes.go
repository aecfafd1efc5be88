package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/campusdesk/campusdesk/internal/api/dto"
	"github.com/campusdesk/campusdesk/internal/api/middleware"
	"github.com/campusdesk/campusdesk/internal/tickets"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type NoteHandler struct {
	service *tickets.Service
}

func NewNoteHandler(service *tickets.Service) *NoteHandler {
	return &NoteHandler{service: service}
}

// List handles GET /api/tickets/:id/notes
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	ticketID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Err("Invalid ticket ID"))
		return
	}

	notes, err := h.service.ListNotes(r.Context(), actor, ticketID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OK(notes))
}

// Create handles POST /api/tickets/:id/notes. Notes are append-only; there
// is no update or delete route.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	ticketID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Err("Invalid ticket ID"))
		return
	}

	var req dto.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Err("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.Invalid(errs))
		return
	}

	note, err := h.service.AddNote(r.Context(), actor, ticketID, req.Content, req.NoteType)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.OK(note))
}
