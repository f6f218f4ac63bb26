package model

// Role is the single role an Account holds.
type Role string

const (
	RoleStudent    Role = "student"
	RoleAlumni     Role = "alumni"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// AllRoles lists every valid role in display order.
var AllRoles = []Role{RoleStudent, RoleAlumni, RoleAdmin, RoleSuperAdmin}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAlumni, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsStaff reports whether r may use the admin surface.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Season is the academic intake or graduation season.
type Season string

const (
	SeasonSpring Season = "Spring"
	SeasonFall   Season = "Fall"
)

// Valid reports whether s is Spring or Fall.
func (s Season) Valid() bool {
	return s == SeasonSpring || s == SeasonFall
}

// Academic year bounds shared by registration and profile updates.
const (
	MinAcademicYear = 2010
	MaxAcademicYear = 2025
)
