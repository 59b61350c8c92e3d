// Package authz decides whether a principal may perform an action on a
// subject. Decisions are pure functions of the subject and principal
// snapshots passed in; nothing here reads storage or clocks. Permission sets
// are closed per subject type, so an unknown action cannot exist at compile
// time. A nil principal is an anonymous request: only view-class permissions
// ever consider it, every mutation fails closed.
package authz

import "github.com/mkoval/cms-auth/internal/model"

func hasAnyRole(principal *model.User, roles ...string) bool {
	return principal != nil && principal.HasAnyRole(roles...)
}
