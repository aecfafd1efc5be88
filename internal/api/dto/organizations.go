package dto

import (
	"encoding/json"

	"github.com/campusdesk/campusdesk/internal/api/validation"
	"github.com/campusdesk/campusdesk/internal/database/models"
)

type CreateOrganizationRequest struct {
	Name                 string          `json:"name"`
	Type                 string          `json:"type"`
	ParentOrganizationID string          `json:"parent_organization_id,omitempty"`
	Settings             json.RawMessage `json:"settings,omitempty"`
}

func (r CreateOrganizationRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.Type == "" {
		errors["type"] = "Type is required"
	} else if !models.ValidOrgType(r.Type) {
		errors["type"] = "Unknown organization type"
	}
	if r.ParentOrganizationID != "" && !validation.IsValidUUID(r.ParentOrganizationID) {
		errors["parent_organization_id"] = "Invalid parent organization ID"
	}
	if len(r.Settings) > 0 && !json.Valid(r.Settings) {
		errors["settings"] = "Settings must be valid JSON"
	}

	return errors
}

type OrganizationDTO struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Type                 string          `json:"type"`
	Status               string          `json:"status"`
	CreatedBy            string          `json:"created_by"`
	ParentOrganizationID string          `json:"parent_organization_id,omitempty"`
	Settings             json.RawMessage `json:"settings,omitempty"`
	CreatedAt            string          `json:"created_at"`
}
