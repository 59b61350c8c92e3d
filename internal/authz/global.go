package authz

import "github.com/mkoval/cms-auth/internal/model"

// GlobalPermission enumerates subject-less actions.
type GlobalPermission int

const (
	// GlobalAddUser guards account creation through the management API.
	GlobalAddUser GlobalPermission = iota
)

// CanGlobal decides a subject-less permission.
func CanGlobal(perm GlobalPermission, principal *model.User) bool {
	if principal == nil {
		return false
	}
	switch perm {
	case GlobalAddUser:
		return principal.HasAnyRole(model.RoleAdmin, model.RoleUsersManager)
	}
	return false
}
