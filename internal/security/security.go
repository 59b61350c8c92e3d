// Package security implements the three request authentication strategies:
// password login, refresh token redemption and bearer token verification.
// Each strategy resolves a principal from injected stores and validates
// credentials and account state; every rejection is a Failure carrying a
// translatable message key, never a transport-level error.
package security

import (
	"context"

	"github.com/mkoval/cms-auth/internal/model"
)

// Failure is an expected per-request credential rejection. The key is the
// whole payload; it doubles as the error string.
type Failure struct {
	Key string
}

func (f *Failure) Error() string { return f.Key }

// NewFailure wraps a message key into a rejection.
func NewFailure(key string) *Failure { return &Failure{Key: key} }

// UserStore resolves principals. Implemented by repository.UserRepo.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// RefreshTokenStore redeems refresh tokens at most once per token string.
// Implemented by repository.RefreshTokenRepo.
type RefreshTokenStore interface {
	Redeem(ctx context.Context, tokenString string) (*model.RefreshToken, error)
}
