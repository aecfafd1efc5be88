package orgs

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusdesk/campusdesk/internal/auth"
	"github.com/campusdesk/campusdesk/internal/authz"
	"github.com/campusdesk/campusdesk/internal/database/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrOrgNotFound  = errors.New("organization not found")
	ErrForbidden    = errors.New("forbidden")
	ErrEmailTaken   = errors.New("email already in use")
	ErrInvalidRole  = errors.New("invalid role")
	// ErrOrgHasUsers guards organization deletion: the schema's foreign key
	// alone does not enforce this business rule.
	ErrOrgHasUsers = errors.New("organization still has active users")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type CreateUserInput struct {
	Email          string
	Password       string
	Name           string
	Role           string
	OrganizationID *uuid.UUID
}

type UpdateUserInput struct {
	Name     *string
	Password *string
	Role     *string
	Status   *string
}

type CreateOrganizationInput struct {
	Name                 string
	Type                 string
	ParentOrganizationID *uuid.UUID
	Settings             string
}

func (s *Service) ListUsers(ctx context.Context, actor authz.Actor, offset, limit int) ([]models.User, int64, error) {
	query := authz.ScopeUsers(actor, s.db.WithContext(ctx).Model(&models.User{}))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var userList []models.User
	if err := query.
		Preload("Organization").
		Order("users.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&userList).Error; err != nil {
		return nil, 0, err
	}

	return userList, total, nil
}

// CreateUser creates a user within the actor's scope. Admins can only mint
// the restricted role subset, and the new user always lands in the admin's
// own organization.
func (s *Service) CreateUser(ctx context.Context, actor authz.Actor, input CreateUserInput) (*models.User, error) {
	role, ok := authz.NormalizeRole(input.Role)
	if !ok {
		return nil, ErrInvalidRole
	}
	if !authz.CanManageRole(actor, role) {
		return nil, ErrForbidden
	}

	orgID := input.OrganizationID
	if actor.Role == authz.RoleAdmin {
		// Scope is not negotiable for admins.
		if orgID != nil && (actor.OrganizationID == nil || *orgID != *actor.OrganizationID) {
			return nil, ErrOrgNotFound
		}
		orgID = actor.OrganizationID
	}
	if orgID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Organization{}).
			Where("id = ?", *orgID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrOrgNotFound
		}
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", input.Email).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	creator := actor.UserID
	user := models.User{
		Email:          input.Email,
		PasswordHash:   hash,
		Name:           input.Name,
		Role:           string(role),
		Status:         models.UserStatusActive,
		OrganizationID: orgID,
		CreatedBy:      &creator,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// UpdateUser mutates a user record under policy. Out-of-scope targets come
// back as not-found.
func (s *Service) UpdateUser(ctx context.Context, actor authz.Actor, id uuid.UUID, input UpdateUserInput) (*models.User, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authz.CanTouchUser(actor, user); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Password != nil {
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = hash
	}
	if input.Role != nil {
		role, ok := authz.NormalizeRole(*input.Role)
		if !ok {
			return nil, ErrInvalidRole
		}
		// The actor must be allowed to hand out the new role too.
		if !authz.CanManageRole(actor, role) {
			return nil, ErrForbidden
		}
		updates["role"] = string(role)
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.loadUser(ctx, id)
}

// DeleteUser removes a user and their sessions in one transaction.
func (s *Service) DeleteUser(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return err
	}

	if err := authz.CanTouchUser(actor, user); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.UserSession{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
}

func (s *Service) GetUser(ctx context.Context, actor authz.Actor, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := authz.ScopeUsers(actor, s.db.WithContext(ctx).Model(&models.User{})).
		Preload("Organization").
		Where("users.id = ?", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Service) ListOrganizations(ctx context.Context, actor authz.Actor, offset, limit int) ([]models.Organization, int64, error) {
	query := authz.ScopeOrganizations(actor, s.db.WithContext(ctx).Model(&models.Organization{}))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orgList []models.Organization
	if err := query.
		Order("organizations.created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&orgList).Error; err != nil {
		return nil, 0, err
	}

	return orgList, total, nil
}

func (s *Service) CreateOrganization(ctx context.Context, actor authz.Actor, input CreateOrganizationInput) (*models.Organization, error) {
	if !actor.Role.IsAdmin() {
		return nil, ErrForbidden
	}

	if input.ParentOrganizationID != nil {
		var parent models.Organization
		err := s.db.WithContext(ctx).First(&parent, *input.ParentOrganizationID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrOrgNotFound
			}
			return nil, err
		}
		if err := authz.CanTouchOrganization(actor, &parent); err != nil {
			return nil, ErrOrgNotFound
		}
	}

	settings := input.Settings
	if settings == "" {
		settings = "{}"
	}

	org := models.Organization{
		Name:                 input.Name,
		Type:                 input.Type,
		Status:               "active",
		CreatedBy:            actor.UserID,
		ParentOrganizationID: input.ParentOrganizationID,
		Settings:             settings,
	}

	if err := s.db.WithContext(ctx).Create(&org).Error; err != nil {
		return nil, err
	}

	return &org, nil
}

// DeleteOrganization refuses to remove an organization while any active user
// still references it.
func (s *Service) DeleteOrganization(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	var org models.Organization
	if err := s.db.WithContext(ctx).First(&org, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrgNotFound
		}
		return err
	}

	if err := authz.CanTouchOrganization(actor, &org); err != nil {
		return err
	}

	var active int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("organization_id = ? AND status = ?", id, models.UserStatusActive).
		Count(&active).Error
	if err != nil {
		return err
	}
	if active > 0 {
		return fmt.Errorf("%w: %d", ErrOrgHasUsers, active)
	}

	return s.db.WithContext(ctx).Delete(&org).Error
}

func (s *Service) loadUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
