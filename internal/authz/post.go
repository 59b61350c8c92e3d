package authz

import "github.com/mkoval/cms-auth/internal/model"

// PostPermission enumerates actions on a blog post subject.
type PostPermission int

const (
	PostView PostPermission = iota
	PostUpdate
	PostRemove
	PostRestore
	PostDelete
	PostCreateComment
)

// CanPost decides a post-subject permission. Anonymous principals may only
// view, and only published, not-removed posts; managers and the recorded
// author bypass the visibility gate.
func CanPost(perm PostPermission, subject *model.Post, principal *model.User) bool {
	if subject == nil {
		return false
	}

	if perm == PostView {
		return canViewPost(subject, principal)
	}

	if principal == nil {
		return false
	}

	switch perm {
	case PostUpdate, PostRemove:
		return !subject.IsRemoved && canManagePost(subject, principal)
	case PostRestore:
		return subject.IsRemoved && canManagePost(subject, principal)
	case PostDelete:
		return canManagePost(subject, principal)
	case PostCreateComment:
		return !principal.IsCommunicationBanned && canViewPost(subject, principal)
	}
	return false
}

func canViewPost(p *model.Post, principal *model.User) bool {
	return (p.IsPublished && !p.IsRemoved) || canManagePost(p, principal)
}

// canManagePost grants blog managers and, for their own posts, blog authors.
func canManagePost(p *model.Post, principal *model.User) bool {
	if hasAnyRole(principal, model.RoleAdmin, model.RoleBlogManager) {
		return true
	}
	return principal != nil && principal.HasRole(model.RoleBlogAuthor) &&
		p.AuthorID != 0 && p.AuthorID == principal.ID
}
