package orgs_test

import (
	"testing"

	"github.com/campusdesk/campusdesk/internal/authz"
	"github.com/campusdesk/campusdesk/internal/database/models"
	"github.com/campusdesk/campusdesk/internal/orgs"
	"github.com/campusdesk/campusdesk/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrgService(t *testing.T) (*orgs.Service, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	return orgs.NewService(db), db
}

func actorFor(u *models.User) authz.Actor {
	role, _ := authz.NormalizeRole(u.Role)
	return authz.Actor{
		UserID:         u.ID,
		Role:           role,
		OrganizationID: u.OrganizationID,
	}
}

func TestService_CreateUser(t *testing.T) {
	svc, db := setupOrgService(t)
	ctx := testutil.TestContext(t)

	orgA := testutil.CreateTestOrg(t, db)
	orgB := testutil.CreateTestOrg(t, db)
	supreme := testutil.CreateTestUser(t, db, nil, "supreme_admin")
	admin := testutil.CreateTestUser(t, db, orgA, "admin")

	t.Run("admin creates managed role in own org", func(t *testing.T) {
		user, err := svc.CreateUser(ctx, actorFor(admin), orgs.CreateUserInput{
			Email:    "dean@example.com",
			Password: "securepassword123",
			Name:     "New Dean",
			Role:     "dean",
		})
		require.NoError(t, err)
		assert.Equal(t, "dean", user.Role)
		require.NotNil(t, user.OrganizationID)
		assert.Equal(t, orgA.ID, *user.OrganizationID)
		require.NotNil(t, user.CreatedBy)
		assert.Equal(t, admin.ID, *user.CreatedBy)
	})

	t.Run("admin cannot mint another admin", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, actorFor(admin), orgs.CreateUserInput{
			Email:    "peer@example.com",
			Password: "securepassword123",
			Name:     "Peer Admin",
			Role:     "admin",
		})
		assert.ErrorIs(t, err, orgs.ErrForbidden)
	})

	t.Run("nobody mints supreme_admin", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, actorFor(supreme), orgs.CreateUserInput{
			Email:    "god@example.com",
			Password: "securepassword123",
			Name:     "Another Supreme",
			Role:     "supreme_admin",
		})
		assert.ErrorIs(t, err, orgs.ErrForbidden)
	})

	t.Run("admin cannot place a user in a foreign org", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, actorFor(admin), orgs.CreateUserInput{
			Email:          "elsewhere@example.com",
			Password:       "securepassword123",
			Name:           "Elsewhere",
			Role:           "manager",
			OrganizationID: &orgB.ID,
		})
		assert.ErrorIs(t, err, orgs.ErrOrgNotFound)
	})

	t.Run("supreme_admin places users anywhere", func(t *testing.T) {
		user, err := svc.CreateUser(ctx, actorFor(supreme), orgs.CreateUserInput{
			Email:          "anywhere@example.com",
			Password:       "securepassword123",
			Name:           "Anywhere",
			Role:           "admin",
			OrganizationID: &orgB.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, orgB.ID, *user.OrganizationID)
	})

	t.Run("legacy staff role is stored canonically", func(t *testing.T) {
		user, err := svc.CreateUser(ctx, actorFor(admin), orgs.CreateUserInput{
			Email:    "legacy@example.com",
			Password: "securepassword123",
			Name:     "Legacy Staff",
			Role:     "staff",
		})
		require.NoError(t, err)
		assert.Equal(t, "team_member", user.Role)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, actorFor(admin), orgs.CreateUserInput{
			Email:    "dean@example.com",
			Password: "securepassword123",
			Name:     "Duplicate",
			Role:     "manager",
		})
		assert.ErrorIs(t, err, orgs.ErrEmailTaken)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, actorFor(admin), orgs.CreateUserInput{
			Email:    "weird@example.com",
			Password: "securepassword123",
			Name:     "Weird",
			Role:     "warlock",
		})
		assert.ErrorIs(t, err, orgs.ErrInvalidRole)
	})

	t.Run("unknown target org is rejected", func(t *testing.T) {
		ghost := uuid.New()
		_, err := svc.CreateUser(ctx, actorFor(supreme), orgs.CreateUserInput{
			Email:          "ghostorg@example.com",
			Password:       "securepassword123",
			Name:           "Ghost Org",
			Role:           "manager",
			OrganizationID: &ghost,
		})
		assert.ErrorIs(t, err, orgs.ErrOrgNotFound)
	})
}

func TestService_UpdateUser(t *testing.T) {
	svc, db := setupOrgService(t)
	ctx := testutil.TestContext(t)

	orgA := testutil.CreateTestOrg(t, db)
	orgB := testutil.CreateTestOrg(t, db)
	admin := testutil.CreateTestUser(t, db, orgA, "admin")
	dean := testutil.CreateTestUser(t, db, orgA, "dean")
	foreign := testutil.CreateTestUser(t, db, orgB, "dean")
	peer := testutil.CreateTestUser(t, db, orgA, "admin")

	t.Run("admin updates a managed user", func(t *testing.T) {
		name := "Renamed Dean"
		updated, err := svc.UpdateUser(ctx, actorFor(admin), dean.ID, orgs.UpdateUserInput{
			Name: &name,
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed Dean", updated.Name)
	})

	t.Run("role change must also be manageable", func(t *testing.T) {
		role := "admin"
		_, err := svc.UpdateUser(ctx, actorFor(admin), dean.ID, orgs.UpdateUserInput{
			Role: &role,
		})
		assert.ErrorIs(t, err, orgs.ErrForbidden)
	})

	t.Run("cross-org target reads as out of scope", func(t *testing.T) {
		name := "Nope"
		_, err := svc.UpdateUser(ctx, actorFor(admin), foreign.ID, orgs.UpdateUserInput{
			Name: &name,
		})
		assert.ErrorIs(t, err, authz.ErrOutOfScope)
	})

	t.Run("admin cannot touch a peer admin", func(t *testing.T) {
		name := "Nope"
		_, err := svc.UpdateUser(ctx, actorFor(admin), peer.ID, orgs.UpdateUserInput{
			Name: &name,
		})
		assert.ErrorIs(t, err, authz.ErrForbidden)
	})

	t.Run("peer admin is outside an admin's read scope", func(t *testing.T) {
		_, err := svc.GetUser(ctx, actorFor(admin), peer.ID)
		assert.ErrorIs(t, err, orgs.ErrUserNotFound)
	})

	t.Run("deactivation sticks", func(t *testing.T) {
		status := models.UserStatusInactive
		updated, err := svc.UpdateUser(ctx, actorFor(admin), dean.ID, orgs.UpdateUserInput{
			Status: &status,
		})
		require.NoError(t, err)
		assert.False(t, updated.IsActive())
	})
}

func TestService_DeleteUser(t *testing.T) {
	svc, db := setupOrgService(t)
	ctx := testutil.TestContext(t)

	orgA := testutil.CreateTestOrg(t, db)
	admin := testutil.CreateTestUser(t, db, orgA, "admin")
	member := testutil.CreateTestUser(t, db, orgA, "team_member")

	jwtService := testutil.CreateTestJWTService()
	testutil.GenerateTestToken(t, db, jwtService, member)

	t.Run("delete removes the user and their sessions", func(t *testing.T) {
		require.NoError(t, svc.DeleteUser(ctx, actorFor(admin), member.ID))

		var sessions int64
		db.Model(&models.UserSession{}).Where("user_id = ?", member.ID).Count(&sessions)
		assert.EqualValues(t, 0, sessions)

		_, err := svc.GetUser(ctx, actorFor(admin), member.ID)
		assert.ErrorIs(t, err, orgs.ErrUserNotFound)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := svc.DeleteUser(ctx, actorFor(admin), uuid.New())
		assert.ErrorIs(t, err, orgs.ErrUserNotFound)
	})
}

func TestService_Organizations(t *testing.T) {
	svc, db := setupOrgService(t)
	ctx := testutil.TestContext(t)

	orgA := testutil.CreateTestOrg(t, db)
	testutil.CreateTestOrg(t, db)
	supreme := testutil.CreateTestUser(t, db, nil, "supreme_admin")
	admin := testutil.CreateTestUser(t, db, orgA, "admin")

	t.Run("supreme_admin lists all organizations", func(t *testing.T) {
		_, total, err := svc.ListOrganizations(ctx, actorFor(supreme), 0, 50)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})

	t.Run("admin sees own organization only", func(t *testing.T) {
		list, total, err := svc.ListOrganizations(ctx, actorFor(admin), 0, 50)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, orgA.ID, list[0].ID)
	})

	t.Run("admin creates a child organization and sees it", func(t *testing.T) {
		created, err := svc.CreateOrganization(ctx, actorFor(admin), orgs.CreateOrganizationInput{
			Name:                 "Engineering Faculty",
			Type:                 models.OrgTypeDepartment,
			ParentOrganizationID: &orgA.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, admin.ID, created.CreatedBy)
		assert.Equal(t, "{}", created.Settings)

		_, total, err := svc.ListOrganizations(ctx, actorFor(admin), 0, 50)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})

	t.Run("parent outside scope reads as not found", func(t *testing.T) {
		foreign := testutil.CreateTestOrg(t, db)
		_, err := svc.CreateOrganization(ctx, actorFor(admin), orgs.CreateOrganizationInput{
			Name:                 "Sneaky Child",
			Type:                 models.OrgTypeDepartment,
			ParentOrganizationID: &foreign.ID,
		})
		assert.ErrorIs(t, err, orgs.ErrOrgNotFound)
	})

	t.Run("non-admin cannot create organizations", func(t *testing.T) {
		member := testutil.CreateTestUser(t, db, orgA, "team_member")
		_, err := svc.CreateOrganization(ctx, actorFor(member), orgs.CreateOrganizationInput{
			Name: "Shadow Org",
			Type: models.OrgTypeCompany,
		})
		assert.ErrorIs(t, err, orgs.ErrForbidden)
	})
}

func TestService_DeleteOrganization(t *testing.T) {
	svc, db := setupOrgService(t)
	ctx := testutil.TestContext(t)

	supreme := testutil.CreateTestUser(t, db, nil, "supreme_admin")

	t.Run("refuses while active users remain", func(t *testing.T) {
		org := testutil.CreateTestOrg(t, db)
		testutil.CreateTestUser(t, db, org, "team_member")

		err := svc.DeleteOrganization(ctx, actorFor(supreme), org.ID)
		assert.ErrorIs(t, err, orgs.ErrOrgHasUsers)
	})

	t.Run("deletes once users are deactivated", func(t *testing.T) {
		org := testutil.CreateTestOrg(t, db)
		member := testutil.CreateTestUser(t, db, org, "team_member")
		require.NoError(t, db.Model(member).Update("status", models.UserStatusInactive).Error)

		require.NoError(t, svc.DeleteOrganization(ctx, actorFor(supreme), org.ID))

		err := svc.DeleteOrganization(ctx, actorFor(supreme), org.ID)
		assert.ErrorIs(t, err, orgs.ErrOrgNotFound)
	})
}
