package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/campusdesk/campusdesk/internal/api/dto"
	"github.com/campusdesk/campusdesk/internal/api/middleware"
	"github.com/campusdesk/campusdesk/internal/orgs"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// UserHandler serves both the organization-scoped /api/admin/users routes
// and the /api/organizational/users routes; the policy layer decides what a
// caller's role lets them see.
type UserHandler struct {
	service *orgs.Service
}

func NewUserHandler(service *orgs.Service) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /api/admin/users and GET /api/organizational/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := dto.PaginationParams{Page: page, PerPage: perPage}
	pagination.Normalize()

	users, total, err := h.service.ListUsers(r.Context(), actor, pagination.Offset(), pagination.PerPage)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	items := make([]dto.UserDTO, len(users))
	for i := range users {
		items[i] = userToDTO(&users[i])
	}

	writeJSON(w, http.StatusOK, dto.OK(dto.PaginatedData{
		Items:      items,
		Total:      total,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		TotalPages: pagination.TotalPages(total),
	}))
}

// Create handles POST /api/admin/users and POST /api/organizational/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Err("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.Invalid(errs))
		return
	}

	input := orgs.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	}
	if req.OrganizationID != "" {
		id, err := uuid.Parse(req.OrganizationID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.Err("Invalid organization ID"))
			return
		}
		input.OrganizationID = &id
	}

	user, err := h.service.CreateUser(r.Context(), actor, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.OK(userToDTO(user)))
}

// Get handles GET /api/admin/users/:id
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Err("Invalid user ID"))
		return
	}

	user, err := h.service.GetUser(r.Context(), actor, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OK(userToDTO(user)))
}

// Update handles PUT /api/admin/users/:id
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Err("Invalid user ID"))
		return
	}

	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Err("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.Invalid(errs))
		return
	}

	user, err := h.service.UpdateUser(r.Context(), actor, userID, orgs.UpdateUserInput{
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
		Status:   req.Status,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OK(userToDTO(user)))
}

// Delete handles DELETE /api/admin/users/:id and the organizational variant
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())

	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Err("Invalid user ID"))
		return
	}

	if err := h.service.DeleteUser(r.Context(), actor, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Msg("User deleted"))
}
