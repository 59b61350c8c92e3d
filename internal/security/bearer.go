package security

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/mkoval/cms-auth/internal/model"
	"github.com/mkoval/cms-auth/internal/token"
)

// BearerStrategy authenticates ordinary requests carrying an access token in
// the Authorization header. It claims a request only when the header holds a
// cryptographically verifiable token; a missing or unverifiable header means
// the request proceeds anonymously instead.
type BearerStrategy struct {
	codec *token.Codec
	users UserStore
}

func NewBearerStrategy(codec *token.Codec, users UserStore) *BearerStrategy {
	return &BearerStrategy{codec: codec, users: users}
}

// Supports reports whether the request carries a verifiable bearer token.
func (s *BearerStrategy) Supports(r *http.Request) bool {
	raw, ok := token.ExtractFromRequest(r)
	if !ok {
		return false
	}
	_, ok = s.codec.VerifyAndDecode(raw)
	return ok
}

// Authenticate verifies the request's token and resolves its subject. It is
// only called for requests Supports claimed, but re-verifies regardless.
func (s *BearerStrategy) Authenticate(ctx context.Context, r *http.Request) (*model.User, error) {
	raw, ok := token.ExtractFromRequest(r)
	if !ok {
		return nil, NewFailure(MsgTokenInvalidPayload)
	}
	claims, ok := s.codec.VerifyAndDecode(raw)
	if !ok || claims.UserID == 0 {
		return nil, NewFailure(MsgTokenInvalidPayload)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewFailure(MsgUserNotFound)
	}
	if err != nil {
		return nil, err
	}

	if user.IsBanned {
		return nil, NewFailure(MsgUserBanned)
	}
	return user, nil
}
