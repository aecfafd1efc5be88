package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campusdesk/campusdesk/internal/api/dto"
	"github.com/campusdesk/campusdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserHandler_Create(t *testing.T) {
	tc := testutil.NewTestContext(t, "admin")
	defer tc.Cleanup()
	router := setupRouter(t, tc)

	t.Run("admin creates a managed user", func(t *testing.T) {
		body := map[string]string{
			"email":    "newdean@example.com",
			"password": "securepassword123",
			"name":     "New Dean",
			"role":     "dean",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/admin/users", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp struct {
			Data dto.UserDTO `json:"data"`
		}
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "dean", resp.Data.Role)
		assert.Equal(t, tc.Org.ID.String(), resp.Data.OrganizationID)
	})

	t.Run("admin cannot create a peer admin", func(t *testing.T) {
		body := map[string]string{
			"email":    "peer@example.com",
			"password": "securepassword123",
			"name":     "Peer",
			"role":     "admin",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/admin/users", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		body := map[string]string{
			"email":    "newdean@example.com",
			"password": "securepassword123",
			"name":     "Duplicate",
			"role":     "manager",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/admin/users", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed organization id is rejected", func(t *testing.T) {
		body := map[string]string{
			"email":           "placed@example.com",
			"password":        "securepassword123",
			"name":            "Placed",
			"role":            "manager",
			"organization_id": "not-a-uuid",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/admin/users", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("non-admin is blocked at the route", func(t *testing.T) {
		member := testutil.CreateTestUser(t, tc.DB, tc.Org, "team_member")
		token := testutil.GenerateTestToken(t, tc.DB, tc.JWTService, member)

		req := testutil.AuthenticatedRequest(t, "GET", "/api/admin/users", nil, token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestUserHandler_CrossOrgDisguise(t *testing.T) {
	tc := testutil.NewTestContext(t, "admin")
	defer tc.Cleanup()
	router := setupRouter(t, tc)

	foreignOrg := testutil.CreateTestOrg(t, tc.DB)
	foreignUser := testutil.CreateTestUser(t, tc.DB, foreignOrg, "dean")

	t.Run("cross-org user reads as 404 on GET", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/admin/users/"+foreignUser.ID.String(), nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("cross-org user reads as 404 on PUT", func(t *testing.T) {
		body := map[string]string{"name": "Renamed"}
		req := testutil.AuthenticatedRequest(t, "PUT", "/api/admin/users/"+foreignUser.ID.String(), body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("cross-org user reads as 404 on DELETE", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "DELETE", "/api/admin/users/"+foreignUser.ID.String(), nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("same-org peer admin reads as 403 on PUT", func(t *testing.T) {
		peer := testutil.CreateTestUser(t, tc.DB, tc.Org, "admin")
		body := map[string]string{"name": "Renamed"}
		req := testutil.AuthenticatedRequest(t, "PUT", "/api/admin/users/"+peer.ID.String(), body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("same-org peer admin is invisible on GET", func(t *testing.T) {
		peer := testutil.CreateTestUser(t, tc.DB, tc.Org, "admin")
		req := testutil.AuthenticatedRequest(t, "GET", "/api/admin/users/"+peer.ID.String(), nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestUserHandler_ListAndUpdate(t *testing.T) {
	tc := testutil.NewTestContext(t, "admin")
	defer tc.Cleanup()
	router := setupRouter(t, tc)

	dean := testutil.CreateTestUser(t, tc.DB, tc.Org, "dean")

	t.Run("list is scoped to managed roles in the admin's org", func(t *testing.T) {
		testutil.CreateTestUser(t, tc.DB, testutil.CreateTestOrg(t, tc.DB), "manager")

		req := testutil.AuthenticatedRequest(t, "GET", "/api/admin/users", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Data struct {
				Total int64 `json:"total"`
			} `json:"data"`
		}
		testutil.ParseJSONResponse(t, rr, &resp)
		// The dean only; the admin's own row is not part of the managed set.
		assert.EqualValues(t, 1, resp.Data.Total)
	})

	t.Run("deactivate a user", func(t *testing.T) {
		body := map[string]string{"status": "inactive"}
		req := testutil.AuthenticatedRequest(t, "PUT", "/api/admin/users/"+dean.ID.String(), body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Data dto.UserDTO `json:"data"`
		}
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "inactive", resp.Data.Status)
	})

	t.Run("invalid role in update", func(t *testing.T) {
		body := map[string]string{"role": "wizard"}
		req := testutil.AuthenticatedRequest(t, "PUT", "/api/admin/users/"+dean.ID.String(), body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
