package main

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoval/cms-auth/internal/model"
)

// fakeUserSource mirrors the repository's cutoff semantics: only users
// soft-removed at or before the cutoff and not yet erased are candidates.
type fakeUserSource struct {
	users map[uint64]*model.User
}

func (s *fakeUserSource) ListRemovedBefore(ctx context.Context, cutoff time.Time) ([]model.User, error) {
	var out []model.User
	for _, u := range s.users {
		if u.IsRemoved && !u.IsErased && u.RemovedAt != nil && !u.RemovedAt.After(cutoff) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeUserSource) Erase(ctx context.Context, id uint64) error {
	s.users[id].Erase()
	return nil
}

type fakeRevoker struct {
	revoked []uint64
}

func (r *fakeRevoker) DeleteForUser(ctx context.Context, userID uint64) error {
	r.revoked = append(r.revoked, userID)
	return nil
}

func removedUser(id uint64, removedAt time.Time) *model.User {
	u := model.NewUser()
	u.ID = id
	u.Username = "u"
	u.IsRemoved = true
	u.RemovedAt = &removedAt
	return u
}

func TestSweepErasesOnlyPastRetention(t *testing.T) {
	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -30)

	old := removedUser(1, cutoff.Add(-time.Hour))
	recent := removedUser(2, cutoff.Add(time.Hour))
	active := model.NewUser()
	active.ID = 3
	alreadyErased := removedUser(4, cutoff.Add(-24*time.Hour))
	alreadyErased.Erase()

	source := &fakeUserSource{users: map[uint64]*model.User{
		1: old, 2: recent, 3: active, 4: alreadyErased,
	}}
	revoker := &fakeRevoker{}

	erased, err := sweep(context.Background(), source, revoker, cutoff, false)
	require.NoError(t, err)

	assert.Equal(t, 1, erased)
	assert.True(t, old.IsErased, "user removed past retention must be erased")
	assert.False(t, recent.IsErased, "user inside the retention window must survive")
	assert.False(t, active.IsErased)
	assert.Equal(t, []uint64{1}, revoker.revoked, "erasure revokes the user's refresh tokens")
}

func TestSweepDryRunTouchesNothing(t *testing.T) {
	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -30)
	old := removedUser(1, cutoff.Add(-time.Hour))

	source := &fakeUserSource{users: map[uint64]*model.User{1: old}}
	revoker := &fakeRevoker{}

	erased, err := sweep(context.Background(), source, revoker, cutoff, true)
	require.NoError(t, err)

	assert.Equal(t, 0, erased)
	assert.False(t, old.IsErased)
	assert.Empty(t, revoker.revoked)
}
