package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserCarriesDefaultRole(t *testing.T) {
	u := NewUser()
	assert.Equal(t, []string{RoleUser}, u.Roles)
	assert.Equal(t, 1, u.Sorting)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestSetRolesMergesDefaultAndDedupes(t *testing.T) {
	u := NewUser()
	u.SetRoles([]string{RoleBlogAuthor, RoleBlogAuthor, ""})

	assert.Equal(t, []string{RoleUser, RoleBlogAuthor}, u.Roles)
	assert.Equal(t, 9, u.Sorting)
}

func TestSortingTracksHighestWeight(t *testing.T) {
	cases := []struct {
		name  string
		roles []string
		want  int
	}{
		{"plain user", nil, 1},
		{"blog author", []string{RoleBlogAuthor}, 9},
		{"blog manager", []string{RoleBlogManager}, 10},
		{"users manager", []string{RoleUsersManager}, 90},
		{"admin", []string{RoleAdmin}, 100},
		{"admin beats manager", []string{RoleBlogManager, RoleAdmin}, 100},
		{"unweighted role", []string{RoleTech}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := NewUser()
			u.SetRoles(tc.roles)
			assert.Equal(t, tc.want, u.Sorting)
		})
	}
}

func TestRemoveRoleKeepsDefault(t *testing.T) {
	u := NewUser()
	u.AddRole(RoleBlogManager)

	u.RemoveRole(RoleUser)
	assert.True(t, u.HasRole(RoleUser), "the default role cannot be dropped")

	u.RemoveRole(RoleBlogManager)
	assert.False(t, u.HasRole(RoleBlogManager))
	assert.Equal(t, 1, u.Sorting)
}

func TestEraseWipesIdentity(t *testing.T) {
	u := NewUser()
	u.ID = 3
	u.Username = "alice"
	u.Alias = "ali"
	u.Email = "alice@example.com"
	u.PasswordHash = "$2a$10$hash"
	u.FirstUseragent = "ua"
	u.FirstIP = "10.0.0.1"
	u.IsBanned = true
	u.SetRoles([]string{RoleAdmin})

	u.Erase()

	assert.Empty(t, u.Username)
	assert.Empty(t, u.Alias)
	assert.Empty(t, u.Email)
	assert.Empty(t, u.PasswordHash)
	assert.Empty(t, u.FirstUseragent)
	assert.Empty(t, u.FirstIP)
	assert.False(t, u.IsBanned)
	assert.True(t, u.IsRemoved, "erasure implies removal")
	assert.True(t, u.IsErased)
	assert.Equal(t, []string{RoleUser}, u.Roles)
	assert.Equal(t, 0, u.Sorting)
	require.NotNil(t, u.ErasedAt)
	require.NotNil(t, u.RemovedAt)
}

func TestEraseIsTerminal(t *testing.T) {
	u := NewUser()
	u.Erase()
	firstErasedAt := *u.ErasedAt

	u.Erase()
	assert.Equal(t, firstErasedAt, *u.ErasedAt, "re-erasing must be a no-op")

	u.SetRoles([]string{RoleAdmin})
	assert.Equal(t, 0, u.Sorting, "an erased user keeps rank zero")
}

func TestHasAnyRole(t *testing.T) {
	u := NewUser()
	u.AddRole(RoleBlogAuthor)

	assert.True(t, u.HasAnyRole(RoleAdmin, RoleBlogAuthor))
	assert.False(t, u.HasAnyRole(RoleAdmin, RoleUsersManager))
}
