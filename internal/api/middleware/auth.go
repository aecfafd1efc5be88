package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/campusdesk/campusdesk/internal/auth"
	"github.com/campusdesk/campusdesk/internal/authz"
	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey         contextKey = "user_id"
	OrganizationIDKey contextKey = "organization_id"
	UserEmailKey      contextKey = "user_email"
	UserRoleKey       contextKey = "user_role"
	TokenKey          contextKey = "token"
)

// Auth authenticates a request. The bearer token must verify against the
// server secret AND have a live row in user_sessions referencing an active
// user; the session table is the revocation authority, token expiry alone is
// not trusted.
func Auth(jwtService *auth.JWTService, authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			authHeader := r.Header.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimPrefix(authHeader, "Bearer ")
			}

			if token == "" {
				unauthorized(w)
				return
			}

			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := authService.ValidateSession(r.Context(), token)
			if err != nil {
				unauthorized(w)
				return
			}

			// The user row is fresher than the claims; role or org may have
			// changed since the token was issued.
			role, ok := authz.NormalizeRole(user.Role)
			if !ok {
				unauthorized(w)
				return
			}

			orgID := uuid.Nil
			if user.OrganizationID != nil {
				orgID = *user.OrganizationID
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, user.ID)
			ctx = context.WithValue(ctx, OrganizationIDKey, orgID)
			ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
			ctx = context.WithValue(ctx, UserRoleKey, string(role))
			ctx = context.WithValue(ctx, TokenKey, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"success":false,"message":"Unauthorized"}`))
}

func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"success":false,"message":"Forbidden"}`))
}

// Helper functions to extract values from context
func GetUserID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

func GetOrganizationID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(OrganizationIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

func GetUserEmail(ctx context.Context) string {
	if email, ok := ctx.Value(UserEmailKey).(string); ok {
		return email
	}
	return ""
}

func GetUserRole(ctx context.Context) authz.Role {
	if role, ok := ctx.Value(UserRoleKey).(string); ok {
		return authz.Role(role)
	}
	return ""
}

func GetToken(ctx context.Context) string {
	if token, ok := ctx.Value(TokenKey).(string); ok {
		return token
	}
	return ""
}

// GetActor assembles the policy actor from request context.
func GetActor(ctx context.Context) authz.Actor {
	actor := authz.Actor{
		UserID: GetUserID(ctx),
		Role:   GetUserRole(ctx),
	}
	if orgID := GetOrganizationID(ctx); orgID != uuid.Nil {
		actor.OrganizationID = &orgID
	}
	return actor
}

// RequireRole ensures the caller holds one of the given roles.
func RequireRole(roles ...authz.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole := GetUserRole(r.Context())

			for _, role := range roles {
				if userRole == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			forbidden(w)
		})
	}
}

// RequireAdmin gates organization-management endpoints.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(authz.RoleAdmin, authz.RoleSupremeAdmin)
}

// RequireSupremeAdmin gates system-wide endpoints.
func RequireSupremeAdmin() func(http.Handler) http.Handler {
	return RequireRole(authz.RoleSupremeAdmin)
}
