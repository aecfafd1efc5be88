package auth

import (
	"context"

	"github.com/campusdesk/campusdesk/internal/database/models"
	"github.com/google/uuid"
)

// Authenticator defines the interface for session-backed authentication.
type Authenticator interface {
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)
	Logout(ctx context.Context, token string) error
	ValidateSession(ctx context.Context, token string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// TokenService defines the interface for JWT token operations.
type TokenService interface {
	GenerateToken(userID, orgID uuid.UUID, email, role string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Compile-time interface satisfaction checks
var (
	_ Authenticator = (*Service)(nil)
	_ TokenService  = (*JWTService)(nil)
)
