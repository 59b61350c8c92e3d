package security

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mkoval/cms-auth/internal/model"
	"github.com/mkoval/cms-auth/internal/utils"
)

// PasswordCredentials is the login request body.
type PasswordCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordStrategy authenticates the login route: principal by email,
// credential by bcrypt comparison, banned accounts rejected.
type PasswordStrategy struct {
	users UserStore
}

func NewPasswordStrategy(users UserStore) *PasswordStrategy {
	return &PasswordStrategy{users: users}
}

// Authenticate resolves and validates the principal. Rejections are always
// *Failure values; any other error is a storage fault.
func (s *PasswordStrategy) Authenticate(ctx context.Context, creds PasswordCredentials) (*model.User, error) {
	email := strings.TrimSpace(creds.Email)
	if email == "" {
		return nil, NewFailure(MsgPasswordInvalidCredentials)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewFailure(MsgUserNotFound)
	}
	if err != nil {
		return nil, err
	}

	if creds.Password == "" {
		return nil, NewFailure(MsgPasswordEmpty)
	}
	if user.PasswordHash == "" || !utils.VerifyPassword(user.PasswordHash, creds.Password) {
		return nil, NewFailure(MsgPasswordNotVerified)
	}
	if user.IsBanned {
		return nil, NewFailure(MsgUserBanned)
	}
	return user, nil
}
