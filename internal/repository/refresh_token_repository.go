package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/mkoval/cms-auth/internal/model"
	"github.com/mkoval/cms-auth/internal/token"
	"github.com/mkoval/cms-auth/internal/utils"
)

// tokenEntropyBytes is the randomness behind a refresh token string; hex
// encoding doubles it to 256 characters. Collisions are ruled out by the
// unique column, retries are pointless at this entropy.
const tokenEntropyBytes = 128

// RefreshTokenRepo persists the single-use refresh tokens from the
// `users_refresh_tokens` table.
type RefreshTokenRepo struct{ DB *sql.DB }

func NewRefreshTokenRepo(db *sql.DB) *RefreshTokenRepo { return &RefreshTokenRepo{DB: db} }

const refreshColumns = "id,user_id,token,useragent,ip,created_at,expires_at,used_at,is_used"

// Create generates a fresh token bound to the user and persists it
// immediately, so it is redeemable as soon as this call returns.
func (r *RefreshTokenRepo) Create(ctx context.Context, userID uint64, ttl time.Duration, meta token.ClientMeta) (*model.RefreshToken, error) {
	raw, err := utils.RandomHex(tokenEntropyBytes)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	rt := &model.RefreshToken{
		UserID:    userID,
		Token:     raw,
		Useragent: meta.Useragent,
		IP:        meta.IP,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users_refresh_tokens (user_id, token, useragent, ip, created_at, expires_at) VALUES (?,?,?,?,?,?)",
		rt.UserID, rt.Token, rt.Useragent, rt.IP, rt.CreatedAt, rt.ExpiresAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	rt.ID = uint64(id)
	return rt, nil
}

// Redeem consumes a token by exact string match. It returns sql.ErrNoRows
// when the token is unknown, already used or expired. The conditional UPDATE
// makes redemption single-use under concurrency: of any number of racing
// calls for the same string, exactly one observes an affected row. The
// expiry is collapsed to the redemption instant at the same time, so even a
// clock-skewed re-read cannot consider the row live.
func (r *RefreshTokenRepo) Redeem(ctx context.Context, tokenString string) (*model.RefreshToken, error) {
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users_refresh_tokens SET is_used=1, used_at=?, expires_at=? WHERE token=? AND is_used=0 AND expires_at>?",
		now, now, tokenString, now)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, sql.ErrNoRows
	}

	var (
		rt     model.RefreshToken
		usedAt sql.NullTime
	)
	err = r.DB.QueryRowContext(ctx,
		"SELECT "+refreshColumns+" FROM users_refresh_tokens WHERE token=? LIMIT 1",
		tokenString).Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.Useragent, &rt.IP,
		&rt.CreatedAt, &rt.ExpiresAt, &usedAt, &rt.IsUsed)
	if err != nil {
		return nil, err
	}
	rt.UsedAt = nullTime(usedAt)
	return &rt, nil
}

// DeleteForUser drops every token owned by the user. The schema also
// cascades on user deletion; this path serves erasure, where the user row
// survives.
func (r *RefreshTokenRepo) DeleteForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM users_refresh_tokens WHERE user_id=?", userID)
	return err
}
