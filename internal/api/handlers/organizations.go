package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/campusdesk/campusdesk/internal/api/dto"
	"github.com/campusdesk/campusdesk/internal/api/middleware"
	"github.com/campusdesk/campusdesk/internal/database/models"
	"github.com/campusdesk/campusdesk/internal/orgs"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type OrganizationHandler struct {
	service *orgs.Service
}

func NewOrganizationHandler(service *orgs.Service) *OrganizationHandler {
	return &OrganizationHandler{service: service}
}

// List handles GET /api/organizational/organizations
func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := dto.PaginationParams{Page: page, PerPage: perPage}
	pagination.Normalize()

	orgList, total, err := h.service.ListOrganizations(r.Context(), actor, pagination.Offset(), pagination.PerPage)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	items := make([]dto.OrganizationDTO, len(orgList))
	for i := range orgList {
		items[i] = orgToDTO(&orgList[i])
	}

	writeJSON(w, http.StatusOK, dto.OK(dto.PaginatedData{
		Items:      items,
		Total:      total,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		TotalPages: pagination.TotalPages(total),
	}))
}

// Create handles POST /api/organizational/organizations
func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	var req dto.CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Err("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.Invalid(errs))
		return
	}

	input := orgs.CreateOrganizationInput{
		Name:     req.Name,
		Type:     req.Type,
		Settings: string(req.Settings),
	}
	if req.ParentOrganizationID != "" {
		id, _ := uuid.Parse(req.ParentOrganizationID)
		input.ParentOrganizationID = &id
	}

	org, err := h.service.CreateOrganization(r.Context(), actor, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.OK(orgToDTO(org)))
}

// Delete handles DELETE /api/organizational/organizations/:id
func (h *OrganizationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	orgID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Err("Invalid organization ID"))
		return
	}

	if err := h.service.DeleteOrganization(r.Context(), actor, orgID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Msg("Organization deleted"))
}

func orgToDTO(org *models.Organization) dto.OrganizationDTO {
	out := dto.OrganizationDTO{
		ID:        org.ID.String(),
		Name:      org.Name,
		Type:      org.Type,
		Status:    org.Status,
		CreatedBy: org.CreatedBy.String(),
		Settings:  json.RawMessage(org.Settings),
		CreatedAt: org.CreatedAt.Format(time.RFC3339),
	}
	if org.ParentOrganizationID != nil {
		out.ParentOrganizationID = org.ParentOrganizationID.String()
	}
	return out
}
