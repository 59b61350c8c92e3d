package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoval/cms-auth/internal/model"
)

type stubSigner struct {
	token string
	err   error
}

func (s stubSigner) Issue(userID uint64, ttl time.Duration) (string, error) {
	return s.token, s.err
}

type stubRefreshSource struct {
	token string
	err   error
	meta  ClientMeta
}

func (s *stubRefreshSource) Create(ctx context.Context, userID uint64, ttl time.Duration, meta ClientMeta) (*model.RefreshToken, error) {
	s.meta = meta
	if s.err != nil {
		return nil, s.err
	}
	return &model.RefreshToken{UserID: userID, Token: s.token}, nil
}

func TestIssuePairSuccess(t *testing.T) {
	store := &stubRefreshSource{token: "refresh-raw"}
	iss := NewIssuer(stubSigner{token: "access-raw"}, store, time.Minute, time.Hour)

	pair := iss.IssuePair(context.Background(), &model.User{ID: 5},
		ClientMeta{Useragent: "ua", IP: "10.0.0.1"})

	require.NotNil(t, pair.AccessToken)
	require.NotNil(t, pair.RefreshToken)
	assert.Equal(t, "access-raw", *pair.AccessToken)
	assert.Equal(t, "refresh-raw", *pair.RefreshToken)
	assert.Equal(t, "ua", store.meta.Useragent)
	assert.Equal(t, "10.0.0.1", store.meta.IP)
}

func TestIssuePairAccessFailureYieldsEmptyPair(t *testing.T) {
	store := &stubRefreshSource{token: "refresh-raw"}
	iss := NewIssuer(stubSigner{err: ErrNoPrivateKey}, store, time.Minute, time.Hour)

	pair := iss.IssuePair(context.Background(), &model.User{ID: 5}, ClientMeta{})

	assert.Nil(t, pair.AccessToken)
	assert.Nil(t, pair.RefreshToken, "refresh issuance is skipped once access signing failed")
}

func TestIssuePairRefreshFailureKeepsAccessToken(t *testing.T) {
	store := &stubRefreshSource{err: errors.New("connection refused")}
	iss := NewIssuer(stubSigner{token: "access-raw"}, store, time.Minute, time.Hour)

	pair := iss.IssuePair(context.Background(), &model.User{ID: 5}, ClientMeta{})

	require.NotNil(t, pair.AccessToken)
	assert.Equal(t, "access-raw", *pair.AccessToken)
	assert.Nil(t, pair.RefreshToken)
}
