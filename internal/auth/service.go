package auth

import (
	"context"
	"errors"
	"time"

	"github.com/campusdesk/campusdesk/internal/database/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

type Service struct {
	db              *gorm.DB
	jwt             *JWTService
	sessionLifetime time.Duration
}

func NewService(db *gorm.DB, jwt *JWTService, sessionLifetime time.Duration) *Service {
	return &Service{db: db, jwt: jwt, sessionLifetime: sessionLifetime}
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login verifies credentials and records a session row. The row, not the
// token's encoded expiry, is authoritative for revocation.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Preload("Organization").
		Where("email = ?", input.Email).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive() {
		return nil, ErrInactiveUser
	}

	if !CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	orgID := uuid.Nil
	if user.OrganizationID != nil {
		orgID = *user.OrganizationID
	}

	token, err := s.jwt.GenerateToken(user.ID, orgID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := models.UserSession{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: now.Add(s.sessionLifetime),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		return tx.Model(&user).Update("last_login", now).Error
	})
	if err != nil {
		return nil, err
	}

	user.LastLogin = &now

	return &AuthResponse{
		Token: token,
		User:  &user,
	}, nil
}

// Logout deletes the session row. The signed token stays cryptographically
// valid until its encoded expiry, but it is unusable from this point on.
func (s *Service) Logout(ctx context.Context, token string) error {
	res := s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.UserSession{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ValidateSession checks the session row for a token that already passed
// cryptographic verification, and resolves the user behind it. All three
// conditions (row present, row unexpired, user active) must hold.
func (s *Service) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	var session models.UserSession
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if session.Expired(time.Now()) {
		return nil, ErrSessionExpired
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, session.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !user.IsActive() {
		return nil, ErrInactiveUser
	}

	return &user, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Preload("Organization").
		First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
