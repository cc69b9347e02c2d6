package domain

import "time"

// Back-office modules gated by the permission matrix.
const (
	ModuleBookings = "bookings"
	ModuleCleaning = "cleaning"
	ModuleLoans    = "loans"
	ModuleStock    = "stock"
	ModuleStaff    = "staff"
	ModulePayments = "payments"
	ModuleRoles    = "roles"
)

// Built-in roles. The matrix may define others.
const (
	RoleAdmin    = "admin"
	RoleGestor   = "gestor"
	RoleLimpieza = "limpieza"
)

// PermissionMatrix maps role -> module -> allowed.
type PermissionMatrix map[string]map[string]bool

// Clone returns a deep copy so callers can mutate without aliasing a cached
// matrix.
func (m PermissionMatrix) Clone() PermissionMatrix {
	out := make(PermissionMatrix, len(m))
	for role, mods := range m {
		cp := make(map[string]bool, len(mods))
		for k, v := range mods {
			cp[k] = v
		}
		out[role] = cp
	}
	return out
}

type UserAccount struct {
	Username     string
	PasswordHash string
	Role         string
	Active       bool
	CreatedAt    time.Time
}

// Actor is the authenticated caller attached to a request context.
type Actor struct {
	Username string
	Role     string
}
