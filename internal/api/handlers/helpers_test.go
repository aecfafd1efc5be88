package handlers_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/campusdesk/campusdesk/internal/api"
	"github.com/campusdesk/campusdesk/internal/auth"
	"github.com/campusdesk/campusdesk/internal/orgs"
	"github.com/campusdesk/campusdesk/internal/storage"
	"github.com/campusdesk/campusdesk/internal/tickets"
	"github.com/campusdesk/campusdesk/internal/testutil"
	"github.com/stretchr/testify/require"
)

// setupRouter assembles the full HTTP surface against the test database, the
// same way cmd/server does, minus Redis and rate limiting.
func setupRouter(t *testing.T, tc *testutil.TestSetup) *api.Router {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	authService := auth.NewService(tc.DB, tc.JWTService, 24*time.Hour)
	ticketService := tickets.NewService(tc.DB, store, logger)
	orgService := orgs.NewService(tc.DB)

	return api.NewRouter(api.RouterConfig{
		DB:             tc.DB,
		Logger:         logger,
		JWTService:     tc.JWTService,
		AuthService:    authService,
		TicketService:  ticketService,
		OrgService:     orgService,
		UploadMaxBytes: 10 << 20,
	})
}
