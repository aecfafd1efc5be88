package authz_test

import (
	"testing"

	"github.com/campusdesk/campusdesk/internal/authz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRole(t *testing.T) {
	t.Run("accepts canonical roles", func(t *testing.T) {
		for _, r := range authz.Roles() {
			got, ok := authz.NormalizeRole(string(r))
			require.True(t, ok, "role %s should normalize", r)
			assert.Equal(t, r, got)
		}
	})

	t.Run("maps legacy staff to team_member", func(t *testing.T) {
		got, ok := authz.NormalizeRole("staff")
		require.True(t, ok)
		assert.Equal(t, authz.RoleTeamMember, got)
	})

	t.Run("legacy admin is already canonical", func(t *testing.T) {
		got, ok := authz.NormalizeRole("admin")
		require.True(t, ok)
		assert.Equal(t, authz.RoleAdmin, got)
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		for _, s := range []string{"", "root", "superuser", "Admin", "STAFF"} {
			_, ok := authz.NormalizeRole(s)
			assert.False(t, ok, "role %q should be rejected", s)
		}
	})
}

func TestRoleHierarchy(t *testing.T) {
	t.Run("roles are strictly ordered", func(t *testing.T) {
		ordered := authz.Roles()
		for i := 1; i < len(ordered); i++ {
			assert.Greater(t, ordered[i-1].Privilege(), ordered[i].Privilege(),
				"%s should outrank %s", ordered[i-1], ordered[i])
		}
	})

	t.Run("AtLeast is reflexive", func(t *testing.T) {
		for _, r := range authz.Roles() {
			assert.True(t, r.AtLeast(r))
		}
	})

	t.Run("supreme_admin outranks everything", func(t *testing.T) {
		for _, r := range authz.Roles() {
			assert.True(t, authz.RoleSupremeAdmin.AtLeast(r))
		}
	})

	t.Run("team_member outranks nothing but itself", func(t *testing.T) {
		for _, r := range authz.Roles() {
			if r == authz.RoleTeamMember {
				continue
			}
			assert.False(t, authz.RoleTeamMember.AtLeast(r))
		}
	})
}

func TestRoleIsAdmin(t *testing.T) {
	assert.True(t, authz.RoleSupremeAdmin.IsAdmin())
	assert.True(t, authz.RoleAdmin.IsAdmin())
	assert.False(t, authz.RoleUniversityAdmin.IsAdmin())
	assert.False(t, authz.RoleSeniorLeadership.IsAdmin())
	assert.False(t, authz.RoleDean.IsAdmin())
	assert.False(t, authz.RoleManager.IsAdmin())
	assert.False(t, authz.RoleTeamMember.IsAdmin())
}

func TestCanManageRole(t *testing.T) {
	supreme := authz.Actor{Role: authz.RoleSupremeAdmin}
	admin := authz.Actor{Role: authz.RoleAdmin}
	dean := authz.Actor{Role: authz.RoleDean}

	t.Run("nobody manages supreme_admin", func(t *testing.T) {
		assert.False(t, authz.CanManageRole(supreme, authz.RoleSupremeAdmin))
		assert.False(t, authz.CanManageRole(admin, authz.RoleSupremeAdmin))
	})

	t.Run("supreme_admin manages every other role", func(t *testing.T) {
		for _, r := range authz.Roles() {
			if r == authz.RoleSupremeAdmin {
				continue
			}
			assert.True(t, authz.CanManageRole(supreme, r), "supreme should manage %s", r)
		}
	})

	t.Run("admin manages only the restricted subset", func(t *testing.T) {
		managed := []authz.Role{
			authz.RoleUniversityAdmin,
			authz.RoleSeniorLeadership,
			authz.RoleDean,
			authz.RoleManager,
			authz.RoleTeamMember,
		}
		for _, r := range managed {
			assert.True(t, authz.CanManageRole(admin, r), "admin should manage %s", r)
		}
		assert.False(t, authz.CanManageRole(admin, authz.RoleAdmin))
	})

	t.Run("non-admins manage nobody", func(t *testing.T) {
		for _, r := range authz.Roles() {
			assert.False(t, authz.CanManageRole(dean, r))
		}
	})
}
