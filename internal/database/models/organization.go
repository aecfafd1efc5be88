package models

import "github.com/google/uuid"

const (
	OrgTypeCompany    = "company"
	OrgTypeUniversity = "university"
	OrgTypeDepartment = "department"
	OrgTypeGovernment = "government"
	OrgTypeNonProfit  = "non-profit"
)

type Organization struct {
	Base
	Name                 string     `gorm:"not null" json:"name"`
	Type                 string     `gorm:"not null;default:'company'" json:"type"`
	Status               string     `gorm:"not null;default:'active'" json:"status"`
	CreatedBy            uuid.UUID  `gorm:"type:uuid" json:"created_by"`
	ParentOrganizationID *uuid.UUID `gorm:"type:uuid;index" json:"parent_organization_id"`

	// Free-form metadata: description, address, contact info; for
	// universities also founding year, accreditation, departments, campuses.
	Settings string `gorm:"type:jsonb;default:'{}'" json:"settings"`

	// Relationships
	Users    []User         `gorm:"foreignKey:OrganizationID" json:"-"`
	Children []Organization `gorm:"foreignKey:ParentOrganizationID" json:"-"`
}

func (Organization) TableName() string {
	return "organizations"
}

func ValidOrgType(t string) bool {
	switch t {
	case OrgTypeCompany, OrgTypeUniversity, OrgTypeDepartment, OrgTypeGovernment, OrgTypeNonProfit:
		return true
	}
	return false
}
