package dto

import (
	"github.com/campusdesk/campusdesk/internal/api/validation"
	"github.com/campusdesk/campusdesk/internal/authz"
)

type CreateUserRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	OrganizationID string `json:"organization_id,omitempty"`
}

func (r CreateUserRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Email format is invalid"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if len(r.Password) < 8 {
		errors["password"] = "Password must be at least 8 characters"
	}
	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.Role == "" {
		errors["role"] = "Role is required"
	} else if _, ok := authz.NormalizeRole(r.Role); !ok {
		errors["role"] = "Unknown role"
	}
	if r.OrganizationID != "" && !validation.IsValidUUID(r.OrganizationID) {
		errors["organization_id"] = "Invalid organization ID"
	}

	return errors
}

type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
	Status   *string `json:"status,omitempty"`
}

func (r UpdateUserRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name != nil && *r.Name == "" {
		errors["name"] = "Name cannot be empty"
	}
	if r.Password != nil && len(*r.Password) < 8 {
		errors["password"] = "Password must be at least 8 characters"
	}
	if r.Role != nil {
		if _, ok := authz.NormalizeRole(*r.Role); !ok {
			errors["role"] = "Unknown role"
		}
	}
	if r.Status != nil && *r.Status != "active" && *r.Status != "inactive" {
		errors["status"] = "Status must be active or inactive"
	}

	return errors
}
