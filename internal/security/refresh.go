package security

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mkoval/cms-auth/internal/model"
)

// RefreshCredentials is the refresh request body. Both snake_case and
// camelCase spellings are accepted.
type RefreshCredentials struct {
	RefreshToken      string `json:"refresh_token"`
	RefreshTokenCamel string `json:"refreshToken"`
}

// Token returns whichever spelling the client used.
func (c RefreshCredentials) Token() string {
	if t := strings.TrimSpace(c.RefreshToken); t != "" {
		return t
	}
	return strings.TrimSpace(c.RefreshTokenCamel)
}

// RefreshStrategy authenticates the refresh route: the token string is
// redeemed (single use) and resolves to its owning principal.
type RefreshStrategy struct {
	tokens RefreshTokenStore
	users  UserStore
}

func NewRefreshStrategy(tokens RefreshTokenStore, users UserStore) *RefreshStrategy {
	return &RefreshStrategy{tokens: tokens, users: users}
}

// Authenticate redeems the token and loads its owner. A missing, unknown,
// already used or expired token and a vanished owner all reject; redemption
// happens before any further check, so a rejected-for-ban redemption still
// burns the token.
func (s *RefreshStrategy) Authenticate(ctx context.Context, creds RefreshCredentials) (*model.User, error) {
	tokenString := creds.Token()
	if tokenString == "" {
		return nil, NewFailure(MsgRefreshMissedToken)
	}

	rt, err := s.tokens.Redeem(ctx, tokenString)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewFailure(MsgRefreshInvalidToken)
	}
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, rt.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewFailure(MsgRefreshInvalidToken)
	}
	if err != nil {
		return nil, err
	}

	if user.IsBanned {
		return nil, NewFailure(MsgUserBanned)
	}
	return user, nil
}
