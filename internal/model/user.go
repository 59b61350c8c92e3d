package model

import "time"

// Role names stored in the users.roles column.  ROLE_USER is the default
// role and every non-erased user carries it.
const (
	RoleTech         = "ROLE_TECH"
	RoleAdmin        = "ROLE_ADMIN"
	RoleUsersManager = "ROLE_USERS_MANAGER"
	RoleBlogManager  = "ROLE_BLOG_MANAGER"
	RoleBlogAuthor   = "ROLE_BLOG_AUTHOR"
	RoleUser         = "ROLE_USER"
)

// DefaultRole is implied for every user until erasure.
const DefaultRole = RoleUser

// AllRoles lists every role the service knows about, highest first.
var AllRoles = []string{
	RoleTech,
	RoleAdmin,
	RoleUsersManager,
	RoleBlogManager,
	RoleBlogAuthor,
	RoleUser,
}

// roleWeights drives the derived Sorting rank.  Roles without a weight
// contribute nothing; the rank of a plain user is 1.
var roleWeights = map[string]int{
	RoleAdmin:        100,
	RoleUsersManager: 90,
	RoleBlogManager:  10,
	RoleBlogAuthor:   9,
}

// User mirrors the 'users' table. Roles are stored comma-joined in a single
// column; Sorting is a cached rank derived from the role set.
type User struct {
	ID                    uint64
	Username              string
	Alias                 string
	Email                 string
	PasswordHash          string
	FirstUseragent        string
	FirstIP               string
	IsBanned              bool
	IsCommunicationBanned bool
	IsRemoved             bool
	IsErased              bool
	Roles                 []string
	Sorting               int
	CreatedAt             time.Time
	UpdatedAt             *time.Time
	RemovedAt             *time.Time
	ErasedAt              *time.Time
}

// NewUser returns a user carrying the default role.
func NewUser() *User {
	return &User{
		Roles:     []string{DefaultRole},
		Sorting:   1,
		CreatedAt: time.Now().UTC(),
	}
}

// HasRole reports whether the user holds the exact role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the user holds at least one of the given roles.
func (u *User) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if u.HasRole(r) {
			return true
		}
	}
	return false
}

// SetRoles replaces the role set. The default role is merged back in unless
// the user is erased, duplicates are dropped, and the cached rank is rebuilt.
func (u *User) SetRoles(roles []string) {
	if !contains(roles, DefaultRole) && !u.IsErased {
		roles = append([]string{DefaultRole}, roles...)
	}
	seen := make(map[string]bool, len(roles))
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	u.Roles = out
	u.recalcSorting()
}

// AddRole grants a role if not already held.
func (u *User) AddRole(role string) {
	if !u.HasRole(role) {
		u.Roles = append(u.Roles, role)
	}
	u.recalcSorting()
}

// RemoveRole drops a role. The default role cannot be dropped from a
// non-erased user.
func (u *User) RemoveRole(role string) {
	if role == DefaultRole && !u.IsErased {
		return
	}
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		if r != role {
			out = append(out, r)
		}
	}
	u.Roles = out
	u.recalcSorting()
}

// Erase anonymizes the user in place. The row survives for referential
// integrity but identity fields, credentials and extra roles are gone for
// good. Erasure is terminal: erasing an erased user is a no-op, and erasure
// implies removal.
func (u *User) Erase() {
	if u.IsErased {
		return
	}
	now := time.Now().UTC()

	u.Username = ""
	u.Alias = ""
	u.Email = ""
	u.PasswordHash = ""
	u.FirstUseragent = ""
	u.FirstIP = ""
	u.IsBanned = false
	u.IsCommunicationBanned = false
	u.IsRemoved = true
	u.IsErased = true
	u.Roles = []string{DefaultRole}
	u.Sorting = 0
	u.ErasedAt = &now
	if u.RemovedAt == nil {
		u.RemovedAt = &now
	}
}

// recalcSorting sets the rank to the highest weight among held roles, 1 at
// minimum, 0 once erased.
func (u *User) recalcSorting() {
	if u.IsErased {
		u.Sorting = 0
		return
	}
	u.Sorting = 1
	for _, r := range u.Roles {
		if w, ok := roleWeights[r]; ok && w > u.Sorting {
			u.Sorting = w
		}
	}
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
