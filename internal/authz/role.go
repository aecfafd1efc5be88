package authz

// Role is an enumerated privilege level attached to a user. Every
// scope/privilege decision in the service goes through this package.
type Role string

const (
	RoleSupremeAdmin     Role = "supreme_admin"
	RoleAdmin            Role = "admin"
	RoleUniversityAdmin  Role = "university_admin"
	RoleSeniorLeadership Role = "senior_leadership"
	RoleDean             Role = "dean"
	RoleManager          Role = "manager"
	RoleTeamMember       Role = "team_member"
)

// rolePrivilege orders the hierarchy; higher value, higher privilege.
var rolePrivilege = map[Role]int{
	RoleSupremeAdmin:     70,
	RoleAdmin:            60,
	RoleUniversityAdmin:  50,
	RoleSeniorLeadership: 40,
	RoleDean:             30,
	RoleManager:          20,
	RoleTeamMember:       10,
}

// legacyRoles maps the older two-role scheme onto the canonical hierarchy.
// Legacy "admin" already matches the canonical value.
var legacyRoles = map[string]Role{
	"staff": RoleTeamMember,
}

// Roles lists the canonical enumeration, highest privilege first.
func Roles() []Role {
	return []Role{
		RoleSupremeAdmin,
		RoleAdmin,
		RoleUniversityAdmin,
		RoleSeniorLeadership,
		RoleDean,
		RoleManager,
		RoleTeamMember,
	}
}

// NormalizeRole converts an incoming role string to its canonical form.
// Legacy values are translated here, at the boundary, so the rest of the
// service only ever sees the canonical set. Returns false for unknown values.
func NormalizeRole(s string) (Role, bool) {
	if mapped, ok := legacyRoles[s]; ok {
		return mapped, true
	}
	r := Role(s)
	if r.Valid() {
		return r, true
	}
	return "", false
}

func (r Role) Valid() bool {
	_, ok := rolePrivilege[r]
	return ok
}

func (r Role) Privilege() int {
	return rolePrivilege[r]
}

// AtLeast reports whether r has privilege greater than or equal to other.
func (r Role) AtLeast(other Role) bool {
	return rolePrivilege[r] >= rolePrivilege[other]
}

// IsAdmin reports whether r carries organization-management privileges.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSupremeAdmin
}

// adminManaged is the restricted subset an admin may create, update, or
// delete. admin and supreme_admin are explicitly excluded.
var adminManaged = map[Role]bool{
	RoleUniversityAdmin:  true,
	RoleSeniorLeadership: true,
	RoleDean:             true,
	RoleManager:          true,
	RoleTeamMember:       true,
}
