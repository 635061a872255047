package auth

import "workops/internal/core/domain"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	PolicyRead  = "read"
	PolicyWrite = "write"
	PolicyAdmin = "admin"
)

// Allowed maps a named policy onto the principal's normalized roles.
// Callers only reach this with an authenticated principal, so the read
// policy always passes.
func Allowed(policy string, principal domain.Principal) bool {
	switch policy {
	case PolicyRead:
		return true
	case PolicyWrite:
		return principal.HasRole(RoleAdmin) || principal.HasRole(RoleUser)
	case PolicyAdmin:
		return principal.HasRole(RoleAdmin)
	}
	return false
}
