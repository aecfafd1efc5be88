package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/campusdesk/campusdesk/internal/api/dto"
	"github.com/campusdesk/campusdesk/internal/api/middleware"
	"github.com/campusdesk/campusdesk/internal/auth"
	"github.com/campusdesk/campusdesk/internal/database/models"
)

type AuthHandler struct {
	authService *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Err("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.Invalid(errs))
		return
	}

	resp, err := h.authService.Login(r.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})

	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, dto.Err("Invalid credentials"))
		case errors.Is(err, auth.ErrInactiveUser):
			writeJSON(w, http.StatusForbidden, dto.Err("Account is inactive"))
		default:
			writeJSON(w, http.StatusInternalServerError, dto.Err("Login failed"))
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.OK(dto.AuthData{
		Token: resp.Token,
		User:  userToDTO(resp.User),
	}))
}

// Logout deletes the caller's session row; the token is dead immediately
// even though its signature stays valid until the encoded expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetToken(r.Context())

	if err := h.authService.Logout(r.Context(), token); err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) {
			writeJSON(w, http.StatusUnauthorized, dto.Err("Unauthorized"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.Err("Logout failed"))
		return
	}

	writeJSON(w, http.StatusOK, dto.Msg("Logged out"))
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.Err("Not found"))
		return
	}

	writeJSON(w, http.StatusOK, dto.OK(userToDTO(user)))
}

func userToDTO(u *models.User) dto.UserDTO {
	out := dto.UserDTO{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
	if u.OrganizationID != nil {
		out.OrganizationID = u.OrganizationID.String()
	}
	if u.Organization != nil {
		out.OrgName = u.Organization.Name
	}
	if u.LastLogin != nil {
		out.LastLogin = u.LastLogin.Format(time.RFC3339)
	}
	return out
}
