package model

import "time"

// RefreshToken models a row in the `users_refresh_tokens` table. The token
// string is a 256-character hex blob, unique across the table. A token
// authenticates exactly once: redemption flips IsUsed and collapses
// ExpiresAt to the redemption instant. Rows are cascade-deleted with the
// owning user.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	Token     string
	Useragent string
	IP        string
	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
	IsUsed    bool
}

// Redeemable reports whether the token can still authenticate at the given
// instant.
func (t *RefreshToken) Redeemable(now time.Time) bool {
	return !t.IsUsed && now.Before(t.ExpiresAt)
}
