package repository

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/mkoval/cms-auth/internal/model"
	"github.com/mkoval/cms-auth/internal/utils"
)

// UserRepo persists users. Roles live comma-joined in a single column; the
// sorting rank is recomputed from the role set on every role mutation.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,alias,email,password_hash,first_useragent,first_ip," +
	"is_banned,is_communication_banned,is_removed,is_erased,roles,sorting," +
	"created_at,updated_at,removed_at,erased_at"

// Create inserts the user with a freshly hashed password and returns its ID.
func (r *UserRepo) Create(ctx context.Context, u *model.User, password string, cost int) (uint64, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if len(u.Roles) == 0 {
		u.SetRoles(nil)
	}

	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, alias, email, password_hash, first_useragent, first_ip, roles, sorting, created_at) "+
			"VALUES (?,?,?,?,?,?,?,?,UTC_TIMESTAMP())",
		u.Username, nullable(u.Alias), nullable(u.Email), hash,
		u.FirstUseragent, u.FirstIP, strings.Join(u.Roles, ","), u.Sorting)
	if err != nil {
		// 1062 = duplicate entry on a unique column
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			if strings.Contains(err.Error(), "alias") {
				return 0, ErrAliasExists
			}
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = uint64(id)
	u.PasswordHash = hash
	return u.ID, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.one(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.one(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// GetByIDOrAlias resolves a path segment that is either a numeric id or an
// alias.
func (r *UserRepo) GetByIDOrAlias(ctx context.Context, ref string) (*model.User, error) {
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		return r.GetByID(ctx, id)
	}
	return r.one(ctx, "SELECT "+userColumns+" FROM users WHERE alias=? LIMIT 1", ref)
}

// SetBanned toggles the ban flag. Erased users are immutable.
func (r *UserRepo) SetBanned(ctx context.Context, id uint64, banned bool) error {
	return r.guarded(ctx, id,
		"UPDATE users SET is_banned=?, updated_at=UTC_TIMESTAMP() WHERE id=? AND is_erased=0",
		banned, id)
}

// Remove soft-deletes the user. Reversible via Restore while not erased.
func (r *UserRepo) Remove(ctx context.Context, id uint64) error {
	return r.guarded(ctx, id,
		"UPDATE users SET is_removed=1, removed_at=UTC_TIMESTAMP(), updated_at=UTC_TIMESTAMP() WHERE id=? AND is_erased=0",
		id)
}

// Restore clears the soft-delete state.
func (r *UserRepo) Restore(ctx context.Context, id uint64) error {
	return r.guarded(ctx, id,
		"UPDATE users SET is_removed=0, removed_at=NULL, updated_at=UTC_TIMESTAMP() WHERE id=? AND is_erased=0",
		id)
}

// Erase wipes the user's identity fields in place and marks the row erased.
// The WHERE guard makes erasure terminal at the storage level: an erased row
// can never be erased again, and no other mutation here touches erased rows.
func (r *UserRepo) Erase(ctx context.Context, id uint64) error {
	return r.guarded(ctx, id,
		"UPDATE users SET username='', alias=NULL, email=NULL, password_hash='', "+
			"first_useragent='', first_ip='', is_banned=0, is_communication_banned=0, "+
			"is_removed=1, is_erased=1, roles=?, sorting=0, "+
			"removed_at=COALESCE(removed_at, UTC_TIMESTAMP()), erased_at=UTC_TIMESTAMP(), updated_at=UTC_TIMESTAMP() "+
			"WHERE id=? AND is_erased=0",
		model.DefaultRole, id)
}

// UpdateRoles replaces the role set and the derived sorting rank.
func (r *UserRepo) UpdateRoles(ctx context.Context, id uint64, roles []string) error {
	u := model.User{}
	u.SetRoles(roles)
	return r.guarded(ctx, id,
		"UPDATE users SET roles=?, sorting=?, updated_at=UTC_TIMESTAMP() WHERE id=? AND is_erased=0",
		strings.Join(u.Roles, ","), u.Sorting, id)
}

// ListRemovedBefore returns users soft-removed at or before the cutoff and
// not yet erased. Used by the erase-removed maintenance command.
func (r *UserRepo) ListRemovedBefore(ctx context.Context, cutoff time.Time) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE is_removed=1 AND is_erased=0 AND removed_at<=? ORDER BY id",
		cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *UserRepo) one(ctx context.Context, query string, args ...interface{}) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, query, args...))
}

// guarded runs a mutation carrying the is_erased=0 guard. Zero affected rows
// is ambiguous: the row may have been deleted or erased concurrently, or the
// driver counted no changed rows for an idempotent update. A follow-up read
// on the id disambiguates: sql.ErrNoRows for a vanished row, ErrErased for an
// erased one, success otherwise.
func (r *UserRepo) guarded(ctx context.Context, id uint64, query string, args ...interface{}) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var erased bool
		if err := r.DB.QueryRowContext(ctx,
			"SELECT is_erased FROM users WHERE id=?", id).Scan(&erased); err != nil {
			return err
		}
		if erased {
			return ErrErased
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u         model.User
		alias     sql.NullString
		email     sql.NullString
		roles     string
		updatedAt sql.NullTime
		removedAt sql.NullTime
		erasedAt  sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Username, &alias, &email, &u.PasswordHash,
		&u.FirstUseragent, &u.FirstIP,
		&u.IsBanned, &u.IsCommunicationBanned, &u.IsRemoved, &u.IsErased,
		&roles, &u.Sorting, &u.CreatedAt, &updatedAt, &removedAt, &erasedAt)
	if err != nil {
		return nil, err
	}
	u.Alias = alias.String
	u.Email = email.String
	if roles != "" {
		u.Roles = strings.Split(roles, ",")
	}
	u.UpdatedAt = nullTime(updatedAt)
	u.RemovedAt = nullTime(removedAt)
	u.ErasedAt = nullTime(erasedAt)
	return &u, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
