package authz

import "github.com/mkoval/cms-auth/internal/model"

// CommentPermission enumerates actions on a comment subject.
type CommentPermission int

const (
	CommentView CommentPermission = iota
	CommentReply
	CommentUpdate
	CommentRemove
	CommentRestore
	CommentDelete
)

// CanComment decides a comment-subject permission. Hard deletion stays with
// blog managers; authors may update and soft-remove their own comments.
func CanComment(perm CommentPermission, subject *model.Comment, principal *model.User) bool {
	if subject == nil {
		return false
	}

	if perm == CommentView {
		return canViewComment(subject, principal)
	}

	if principal == nil {
		return false
	}

	switch perm {
	case CommentReply:
		return !principal.IsCommunicationBanned && !subject.IsRemoved
	case CommentUpdate, CommentRemove:
		return !subject.IsRemoved && canManageComment(subject, principal)
	case CommentRestore:
		return subject.IsRemoved && canManageComment(subject, principal)
	case CommentDelete:
		return principal.HasAnyRole(model.RoleAdmin, model.RoleBlogManager)
	}
	return false
}

func canViewComment(c *model.Comment, principal *model.User) bool {
	return !c.IsRemoved || canManageComment(c, principal)
}

func canManageComment(c *model.Comment, principal *model.User) bool {
	if hasAnyRole(principal, model.RoleAdmin, model.RoleBlogManager) {
		return true
	}
	return principal != nil && c.AuthorID != 0 && c.AuthorID == principal.ID
}
