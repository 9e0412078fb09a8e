package domain

// Role classifies a caller for authorization checks. The guard layer only
// distinguishes elevated (admin) from non-elevated callers; the finer roles
// exist because invitations carry them and user records store them.
type Role string

const (
	RoleViewer   Role = "viewer"
	RoleStandard Role = "standard"
	RoleAdmin    Role = "admin"
)

var roleRank = map[Role]int{
	RoleViewer:   1,
	RoleStandard: 2,
	RoleAdmin:    3,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r meets or exceeds the given minimum role.
// Unknown roles rank below every valid role.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}
