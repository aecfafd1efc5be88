package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/campusdesk/campusdesk/internal/api/dto"
	"github.com/campusdesk/campusdesk/internal/authz"
	"github.com/campusdesk/campusdesk/internal/orgs"
	"github.com/campusdesk/campusdesk/internal/storage"
	"github.com/campusdesk/campusdesk/internal/tickets"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps service errors onto the response envelope. Scope
// violations surface as 404 so out-of-scope records look nonexistent.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tickets.ErrNotFound),
		errors.Is(err, orgs.ErrUserNotFound),
		errors.Is(err, orgs.ErrOrgNotFound),
		errors.Is(err, authz.ErrOutOfScope),
		errors.Is(err, storage.ErrObjectNotFound):
		writeJSON(w, http.StatusNotFound, dto.Err("Not found"))
	case errors.Is(err, tickets.ErrForbidden),
		errors.Is(err, orgs.ErrForbidden),
		errors.Is(err, authz.ErrForbidden):
		writeJSON(w, http.StatusForbidden, dto.Err("Forbidden"))
	case errors.Is(err, orgs.ErrEmailTaken):
		writeJSON(w, http.StatusBadRequest, dto.Err("Email already in use"))
	case errors.Is(err, orgs.ErrOrgHasUsers):
		writeJSON(w, http.StatusBadRequest, dto.Err("Organization still has active users"))
	case errors.Is(err, orgs.ErrInvalidRole):
		writeJSON(w, http.StatusBadRequest, dto.Invalid(map[string]string{"role": "Unknown role"}))
	case errors.Is(err, tickets.ErrAssigneeNotFound):
		writeJSON(w, http.StatusBadRequest, dto.Invalid(map[string]string{"assigned_to": "Assignee not found"}))
	case errors.Is(err, tickets.ErrNotClosed):
		writeJSON(w, http.StatusBadRequest, dto.Err("Only closed tickets can be reopened"))
	case errors.Is(err, storage.ErrFileTooLarge):
		writeJSON(w, http.StatusBadRequest, dto.Err("File exceeds size limit"))
	case errors.Is(err, storage.ErrDisallowedType):
		writeJSON(w, http.StatusBadRequest, dto.Err("File type not allowed"))
	default:
		writeJSON(w, http.StatusInternalServerError, dto.Err("Internal server error"))
	}
}
