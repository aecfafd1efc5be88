package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/campusdesk/campusdesk/internal/api/dto"
	"github.com/campusdesk/campusdesk/internal/api/middleware"
	"github.com/campusdesk/campusdesk/internal/tickets"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type AttachmentHandler struct {
	service  *tickets.Service
	maxBytes int64
}

func NewAttachmentHandler(service *tickets.Service, maxBytes int64) *AttachmentHandler {
	return &AttachmentHandler{service: service, maxBytes: maxBytes}
}

// List handles GET /api/tickets/:id/attachments
func (h *AttachmentHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	ticketID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Err("Invalid ticket ID"))
		return
	}

	attachments, err := h.service.ListAttachments(r.Context(), actor, ticketID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OK(attachments))
}

// Upload handles POST /api/tickets/:id/attachments (multipart, field "file")
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	ticketID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Err("Invalid ticket ID"))
		return
	}

	// Cap the whole request body one level above the configured ceiling so
	// multipart overhead does not reject a file exactly at the limit.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1<<20)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Err("File exceeds size limit"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Invalid(map[string]string{"file": "File is required"}))
		return
	}
	defer file.Close()

	att, err := h.service.AddAttachment(r.Context(), actor, ticketID,
		header.Filename, header.Size, h.maxBytes, file)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.OK(att))
}

// Download handles GET /api/tickets/:id/attachments/:attachmentID
func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	ticketID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Err("Invalid ticket ID"))
		return
	}
	attachmentID, err := uuid.Parse(chi.URLParam(r, "attachmentID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Err("Invalid attachment ID"))
		return
	}

	att, body, err := h.service.OpenAttachment(r.Context(), actor, ticketID, attachmentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Disposition", `attachment; filename="`+att.Filename+`"`)
	w.Header().Set("Content-Length", strconv.FormatInt(att.FileSize, 10))
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = io.Copy(w, body)
}
