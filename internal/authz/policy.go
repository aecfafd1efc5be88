package authz

import (
	"errors"

	"github.com/campusdesk/campusdesk/internal/database/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrForbidden means the caller's role does not permit the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrOutOfScope means the target exists but is outside the caller's
	// organization scope. Handlers report it as not found so callers cannot
	// probe for records they are not allowed to see.
	ErrOutOfScope = errors.New("record out of scope")
)

// Actor is the authenticated caller, extracted from verified claims.
type Actor struct {
	UserID         uuid.UUID
	Role           Role
	OrganizationID *uuid.UUID
}

func (a Actor) sameOrg(orgID *uuid.UUID) bool {
	if a.OrganizationID == nil || orgID == nil {
		return false
	}
	return *a.OrganizationID == *orgID
}

// CanManageRole reports whether the actor may create, update, or delete a
// user holding the target role. Nobody manages supreme_admin users.
func CanManageRole(actor Actor, target Role) bool {
	if target == RoleSupremeAdmin {
		return false
	}
	switch actor.Role {
	case RoleSupremeAdmin:
		return true
	case RoleAdmin:
		return adminManaged[target]
	default:
		return false
	}
}

// CanTouchUser decides whether the actor may mutate the target user record.
// Scope violations are distinguished from privilege violations so the
// handler layer can disguise the former as not-found.
func CanTouchUser(actor Actor, target *models.User) error {
	targetRole, ok := NormalizeRole(target.Role)
	if !ok {
		return ErrForbidden
	}
	if targetRole == RoleSupremeAdmin {
		// Immutable regardless of caller.
		return ErrForbidden
	}
	switch actor.Role {
	case RoleSupremeAdmin:
		return nil
	case RoleAdmin:
		if !actor.sameOrg(target.OrganizationID) {
			return ErrOutOfScope
		}
		if !adminManaged[targetRole] {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}

// CanTouchOrganization decides whether the actor may mutate the target
// organization.
func CanTouchOrganization(actor Actor, org *models.Organization) error {
	switch actor.Role {
	case RoleSupremeAdmin:
		return nil
	case RoleAdmin:
		if actor.sameOrg(&org.ID) || org.CreatedBy == actor.UserID {
			return nil
		}
		return ErrOutOfScope
	default:
		return ErrForbidden
	}
}

// ScopeUsers narrows a users query to the rows the actor may see. Applied in
// one place so every listing endpoint enforces the same invariant. Admin-level
// rows never appear in an admin's scope, their own row included; an admin
// reaches their own profile through /auth/me.
func ScopeUsers(actor Actor, q *gorm.DB) *gorm.DB {
	switch actor.Role {
	case RoleSupremeAdmin:
		return q
	case RoleAdmin:
		q = q.Where("users.role NOT IN ?", []string{string(RoleAdmin), string(RoleSupremeAdmin)})
		if actor.OrganizationID == nil {
			return q.Where("users.created_by = ?", actor.UserID)
		}
		return q.Where("users.organization_id = ?", *actor.OrganizationID)
	default:
		return q.Where("1 = 0")
	}
}

// ScopeOrganizations narrows an organizations query to the actor's scope.
func ScopeOrganizations(actor Actor, q *gorm.DB) *gorm.DB {
	switch actor.Role {
	case RoleSupremeAdmin:
		return q
	case RoleAdmin:
		if actor.OrganizationID == nil {
			return q.Where("organizations.created_by = ?", actor.UserID)
		}
		return q.Where("organizations.id = ? OR organizations.created_by = ?",
			*actor.OrganizationID, actor.UserID)
	default:
		return q.Where("1 = 0")
	}
}

// ScopeTickets narrows a ticket listing: admins see their organization's
// traffic, everyone else only tickets they created or are assigned to.
// Reading a single ticket by id is not narrowed; any authenticated caller
// may look one up, and CanMutateTicket gates changes.
func ScopeTickets(actor Actor, q *gorm.DB) *gorm.DB {
	switch actor.Role {
	case RoleSupremeAdmin:
		return q
	case RoleAdmin:
		if actor.OrganizationID == nil {
			return q.Where("tickets.created_by = ? OR tickets.assigned_to = ?",
				actor.UserID, actor.UserID)
		}
		return q.Joins("JOIN users creators ON creators.id = tickets.created_by").
			Where("creators.organization_id = ?", *actor.OrganizationID)
	default:
		return q.Where("tickets.created_by = ? OR tickets.assigned_to = ?",
			actor.UserID, actor.UserID)
	}
}

// CanMutateTicket: the assignee, the creator, or an admin-level role.
func CanMutateTicket(actor Actor, t *models.Ticket) bool {
	if actor.Role.IsAdmin() {
		return true
	}
	if t.CreatedBy == actor.UserID {
		return true
	}
	return t.AssignedTo != nil && *t.AssignedTo == actor.UserID
}

// CanDeleteTicket: only an admin-level role or the creator.
func CanDeleteTicket(actor Actor, t *models.Ticket) bool {
	return actor.Role.IsAdmin() || t.CreatedBy == actor.UserID
}
