package authz

import "github.com/mkoval/cms-auth/internal/model"

// UserPermission enumerates actions on a user subject.
type UserPermission int

const (
	UserView UserPermission = iota
	UserUpdate
	UserRemove
	UserRestore
	UserErase
	UserBan
)

// CanUser decides a user-subject permission. Self-targeting destructive
// actions (remove, ban, erase) are denied even for administrators, and no
// mutation ever touches an erased user.
func CanUser(perm UserPermission, subject *model.User, principal *model.User) bool {
	if subject == nil {
		return false
	}

	manager := hasAnyRole(principal, model.RoleAdmin, model.RoleUsersManager)

	if perm == UserView {
		return !subject.IsErased && (!subject.IsRemoved || manager)
	}

	if principal == nil {
		return false
	}
	self := principal.ID == subject.ID

	switch perm {
	case UserUpdate:
		return !subject.IsErased && !subject.IsRemoved && (self || manager)
	case UserRemove:
		return !subject.IsErased && !subject.IsRemoved && manager && !self
	case UserRestore:
		return !subject.IsErased && subject.IsRemoved && manager
	case UserErase:
		return !subject.IsErased && manager && !self
	case UserBan:
		return !subject.IsErased && manager && !self
	}
	return false
}
