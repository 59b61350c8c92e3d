package token

import (
	"context"
	"log"
	"time"

	"github.com/mkoval/cms-auth/internal/model"
)

// ClientMeta is informational device metadata bound to a refresh token.
type ClientMeta struct {
	Useragent string
	IP        string
}

// RefreshSource persists new refresh tokens. Implemented by
// repository.RefreshTokenRepo.
type RefreshSource interface {
	Create(ctx context.Context, userID uint64, ttl time.Duration, meta ClientMeta) (*model.RefreshToken, error)
}

// AccessSigner signs access tokens. Implemented by Codec.
type AccessSigner interface {
	Issue(userID uint64, ttl time.Duration) (string, error)
}

// Pair carries both tokens of a login or refresh response. Fields are nil
// when the corresponding issuance step failed; clients must check for
// absence.
type Pair struct {
	AccessToken  *string `json:"access_token"`
	RefreshToken *string `json:"refresh_token"`
}

// Issuer composes the access token codec and the refresh token store into
// token pair issuance.
type Issuer struct {
	signer     AccessSigner
	refresh    RefreshSource
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer wires an issuer with both token TTLs.
func NewIssuer(signer AccessSigner, refresh RefreshSource, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{signer: signer, refresh: refresh, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// IssuePair attempts to produce both tokens for the user. A failed step
// leaves its field nil instead of failing the request: the response contract
// tolerates absent tokens, so a broken key configuration or a storage outage
// must not turn a successful authentication into an error. Failures are
// logged so they cannot pass unnoticed.
func (i *Issuer) IssuePair(ctx context.Context, user *model.User, meta ClientMeta) Pair {
	var pair Pair

	access, err := i.signer.Issue(user.ID, i.accessTTL)
	if err != nil {
		log.Printf("token: issuing access token for user %d failed: %v", user.ID, err)
		return pair
	}
	pair.AccessToken = &access

	rt, err := i.refresh.Create(ctx, user.ID, i.refreshTTL, meta)
	if err != nil {
		log.Printf("token: persisting refresh token for user %d failed: %v", user.ID, err)
		return pair
	}
	pair.RefreshToken = &rt.Token

	return pair
}
