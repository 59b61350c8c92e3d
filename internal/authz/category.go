package authz

import "github.com/mkoval/cms-auth/internal/model"

// CategoryPermission enumerates actions on a category subject.
type CategoryPermission int

const (
	CategoryView CategoryPermission = iota
	CategoryUpdate
	CategoryDelete
)

// CanCategory decides a category-subject permission. Inactive categories are
// visible to blog staff only.
func CanCategory(perm CategoryPermission, subject *model.Category, principal *model.User) bool {
	if subject == nil {
		return false
	}

	switch perm {
	case CategoryView:
		return subject.IsActive ||
			hasAnyRole(principal, model.RoleAdmin, model.RoleBlogAuthor, model.RoleBlogManager)
	case CategoryUpdate, CategoryDelete:
		return hasAnyRole(principal, model.RoleAdmin, model.RoleBlogManager)
	}
	return false
}
