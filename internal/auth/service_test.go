package auth_test

import (
	"testing"
	"time"

	"github.com/campusdesk/campusdesk/internal/auth"
	"github.com/campusdesk/campusdesk/internal/database/models"
	"github.com/campusdesk/campusdesk/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthService(t *testing.T) (*auth.Service, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t, "admin")
	svc := auth.NewService(tc.DB, tc.JWTService, 24*time.Hour)
	return svc, tc
}

func TestService_Login(t *testing.T) {
	svc, tc := setupAuthService(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	t.Run("successful login records a session", func(t *testing.T) {
		resp, err := svc.Login(ctx, auth.LoginInput{
			Email:    tc.User.Email,
			Password: "testpassword123",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, tc.User.Email, resp.User.Email)
		assert.NotNil(t, resp.User.LastLogin)

		var session models.UserSession
		err = tc.DB.Where("token = ?", resp.Token).First(&session).Error
		require.NoError(t, err)
		assert.Equal(t, tc.User.ID, session.UserID)
		assert.True(t, session.ExpiresAt.After(time.Now()))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginInput{
			Email:    tc.User.Email,
			Password: "wrongpassword",
		})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginInput{
			Email:    "nobody@example.com",
			Password: "testpassword123",
		})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("inactive user cannot log in", func(t *testing.T) {
		inactive := testutil.CreateTestUser(t, tc.DB, tc.Org, "team_member")
		require.NoError(t, tc.DB.Model(inactive).Update("status", models.UserStatusInactive).Error)

		_, err := svc.Login(ctx, auth.LoginInput{
			Email:    inactive.Email,
			Password: "testpassword123",
		})
		assert.ErrorIs(t, err, auth.ErrInactiveUser)
	})
}

func TestService_Logout(t *testing.T) {
	svc, tc := setupAuthService(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	t.Run("logout deletes the session row", func(t *testing.T) {
		resp, err := svc.Login(ctx, auth.LoginInput{
			Email:    tc.User.Email,
			Password: "testpassword123",
		})
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, resp.Token))

		var count int64
		tc.DB.Model(&models.UserSession{}).Where("token = ?", resp.Token).Count(&count)
		assert.EqualValues(t, 0, count)
	})

	t.Run("token is rejected after logout even though unexpired", func(t *testing.T) {
		resp, err := svc.Login(ctx, auth.LoginInput{
			Email:    tc.User.Email,
			Password: "testpassword123",
		})
		require.NoError(t, err)
		require.NoError(t, svc.Logout(ctx, resp.Token))

		// Cryptographic verification would still pass
		_, err = tc.JWTService.ValidateToken(resp.Token)
		require.NoError(t, err)

		// But the session check must fail
		_, err = svc.ValidateSession(ctx, resp.Token)
		assert.ErrorIs(t, err, auth.ErrSessionNotFound)
	})

	t.Run("logout of unknown token", func(t *testing.T) {
		err := svc.Logout(ctx, "never-issued")
		assert.ErrorIs(t, err, auth.ErrSessionNotFound)
	})
}

func TestService_ValidateSession(t *testing.T) {
	svc, tc := setupAuthService(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	t.Run("valid session resolves user", func(t *testing.T) {
		resp, err := svc.Login(ctx, auth.LoginInput{
			Email:    tc.User.Email,
			Password: "testpassword123",
		})
		require.NoError(t, err)

		user, err := svc.ValidateSession(ctx, resp.Token)
		require.NoError(t, err)
		assert.Equal(t, tc.User.ID, user.ID)
	})

	t.Run("expired session row is rejected", func(t *testing.T) {
		token, err := tc.JWTService.GenerateToken(tc.User.ID, tc.Org.ID, tc.User.Email, tc.User.Role)
		require.NoError(t, err)

		session := models.UserSession{
			ID:        uuid.New(),
			UserID:    tc.User.ID,
			Token:     token,
			ExpiresAt: time.Now().Add(-time.Minute),
		}
		require.NoError(t, tc.DB.Create(&session).Error)

		_, err = svc.ValidateSession(ctx, token)
		assert.ErrorIs(t, err, auth.ErrSessionExpired)
	})

	t.Run("session of deactivated user is rejected", func(t *testing.T) {
		victim := testutil.CreateTestUser(t, tc.DB, tc.Org, "team_member")
		token := testutil.GenerateTestToken(t, tc.DB, tc.JWTService, victim)

		require.NoError(t, tc.DB.Model(victim).Update("status", models.UserStatusInactive).Error)

		_, err := svc.ValidateSession(ctx, token)
		assert.ErrorIs(t, err, auth.ErrInactiveUser)
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	assert.True(t, auth.CheckPassword("hunter2hunter2", hash))
	assert.False(t, auth.CheckPassword("wrong", hash))
}
