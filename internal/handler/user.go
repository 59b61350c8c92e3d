package handler

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mkoval/cms-auth/internal/authz"
	"github.com/mkoval/cms-auth/internal/event"
	"github.com/mkoval/cms-auth/internal/middleware"
	"github.com/mkoval/cms-auth/internal/model"
	"github.com/mkoval/cms-auth/internal/repository"
	"github.com/mkoval/cms-auth/internal/response"
)

// passwordMinLength applies to accounts created through the management API.
const passwordMinLength = 5

// UserStore is the persistence surface of the user management endpoints.
// Implemented by repository.UserRepo.
type UserStore interface {
	Create(ctx context.Context, u *model.User, password string, cost int) (uint64, error)
	GetByIDOrAlias(ctx context.Context, ref string) (*model.User, error)
	SetBanned(ctx context.Context, id uint64, banned bool) error
	Remove(ctx context.Context, id uint64) error
	Restore(ctx context.Context, id uint64) error
	Erase(ctx context.Context, id uint64) error
	UpdateRoles(ctx context.Context, id uint64, roles []string) error
}

// TokenRevoker drops a user's refresh tokens. Implemented by
// repository.RefreshTokenRepo.
type TokenRevoker interface {
	DeleteForUser(ctx context.Context, userID uint64) error
}

// UserHandler exposes the user management endpoints. Every mutation goes
// through the permission checks in internal/authz against fresh snapshots.
type UserHandler struct {
	Users  UserStore
	Tokens TokenRevoker
	Cfg    BcryptConfig
}

// BcryptConfig narrows config.Config to what this handler needs.
type BcryptConfig struct {
	BcryptCost int
}

func NewUserHandler(users UserStore, tokens TokenRevoker, cfg BcryptConfig) *UserHandler {
	return &UserHandler{Users: users, Tokens: tokens, Cfg: cfg}
}

// Get handles GET /users/:id (numeric id or alias). The status reflects why
// the subject is not viewable: 404 unknown, 410 erased or removed, 403/401
// otherwise.
func (h *UserHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	subject, err := h.find(ctx, c)
	if err != nil {
		return h.missing(c, err)
	}

	principal := middleware.CurrentUser(c)
	if !authz.CanUser(authz.UserView, subject, principal) {
		switch {
		case subject.IsErased:
			return response.Gone(c, "users.messages.user.erased")
		case subject.IsRemoved:
			return response.Gone(c, "users.messages.user.removed")
		default:
			return response.AccessDenied(c, "users.messages.user.access_denied", principal == nil)
		}
	}

	return response.Success(c, "", echo.Map{"user": userView(subject)})
}

type createUserReq struct {
	Username string   `json:"username"`
	Alias    string   `json:"alias"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// Create handles POST /users, guarded by the global add-user permission.
func (h *UserHandler) Create(c echo.Context) error {
	principal := middleware.CurrentUser(c)
	if !authz.CanGlobal(authz.GlobalAddUser, principal) {
		return response.AccessDenied(c, "users.messages.user_create.access_denied", principal == nil)
	}

	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return response.Failure(c, "users.messages.user_create.failed", nil)
	}
	if errs := validateCreate(req); len(errs) > 0 {
		return response.Failure(c, "users.messages.user_create.failed", errs)
	}

	user := model.NewUser()
	user.Username = strings.TrimSpace(req.Username)
	user.Alias = strings.TrimSpace(req.Alias)
	user.Email = req.Email
	user.FirstUseragent = c.Request().UserAgent()
	user.FirstIP = c.RealIP()
	user.SetRoles(req.Roles)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Users.Create(ctx, user, req.Password, h.Cfg.BcryptCost); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return response.Failure(c, "users.messages.user_create.failed",
				echo.Map{"email": "users.errors.email.exists"})
		case errors.Is(err, repository.ErrAliasExists):
			return response.Failure(c, "users.messages.user_create.failed",
				echo.Map{"alias": "users.errors.alias.exists"})
		}
		c.Logger().Errorf("user create: %v", err)
		return response.Failure(c, response.MsgFailed, nil)
	}

	h.auditUser(c, event.KindUserCreated, user.ID, principal.ID)

	return response.Success(c, "users.messages.user_create.created", echo.Map{"user": userView(user)})
}

// Remove handles POST /users/:id/remove (reversible soft delete).
func (h *UserHandler) Remove(c echo.Context) error {
	return h.mutate(c, mutation{
		perm:      authz.UserRemove,
		deniedKey: "users.messages.user_remove.access_denied",
		okKey:     "users.messages.user_remove.removed",
		kind:      event.KindUserRemoved,
		apply: func(ctx context.Context, id uint64) error {
			return h.Users.Remove(ctx, id)
		},
	})
}

// Restore handles POST /users/:id/restore.
func (h *UserHandler) Restore(c echo.Context) error {
	return h.mutate(c, mutation{
		perm:      authz.UserRestore,
		deniedKey: "users.messages.user_restore.access_denied",
		okKey:     "users.messages.user_restore.restored",
		apply: func(ctx context.Context, id uint64) error {
			return h.Users.Restore(ctx, id)
		},
	})
}

// Erase handles POST /users/:id/erase: terminal anonymization. Outstanding
// refresh tokens die with the identity.
func (h *UserHandler) Erase(c echo.Context) error {
	return h.mutate(c, mutation{
		perm:      authz.UserErase,
		deniedKey: "users.messages.user_erase.access_denied",
		okKey:     "users.messages.user_erase.erased",
		kind:      event.KindUserErased,
		apply: func(ctx context.Context, id uint64) error {
			if err := h.Users.Erase(ctx, id); err != nil {
				return err
			}
			return h.Tokens.DeleteForUser(ctx, id)
		},
	})
}

type banReq struct {
	Banned *bool `json:"banned"`
}

// Ban handles POST /users/:id/ban. The body may carry {"banned": false} to
// lift a ban; absent it defaults to banning.
func (h *UserHandler) Ban(c echo.Context) error {
	var req banReq
	_ = c.Bind(&req)
	banned := req.Banned == nil || *req.Banned

	return h.mutate(c, mutation{
		perm:      authz.UserBan,
		deniedKey: "users.messages.user_ban.access_denied",
		okKey:     "users.messages.user_ban.updated",
		kind:      event.KindUserBanned,
		apply: func(ctx context.Context, id uint64) error {
			return h.Users.SetBanned(ctx, id, banned)
		},
	})
}

type rolesReq struct {
	Roles []string `json:"roles"`
}

// Roles handles POST /users/:id/roles, replacing the role set. Guarded by
// the update permission plus a manager role: ordinary users cannot grant
// themselves anything.
func (h *UserHandler) Roles(c echo.Context) error {
	principal := middleware.CurrentUser(c)
	if principal == nil || !principal.HasAnyRole(model.RoleAdmin, model.RoleUsersManager) {
		return response.AccessDenied(c, "users.messages.user_roles.access_denied", principal == nil)
	}

	var req rolesReq
	if err := c.Bind(&req); err != nil {
		return response.Failure(c, "users.messages.user_roles.failed", nil)
	}
	for _, r := range req.Roles {
		if !contains(model.AllRoles, r) {
			return response.Failure(c, "users.messages.user_roles.failed",
				echo.Map{"roles": "users.errors.roles.unknown"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	subject, err := h.find(ctx, c)
	if err != nil {
		return h.missing(c, err)
	}
	if !authz.CanUser(authz.UserUpdate, subject, principal) {
		return response.AccessDenied(c, "users.messages.user_roles.access_denied", false)
	}

	if err := h.Users.UpdateRoles(ctx, subject.ID, req.Roles); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return response.NotFound(c, "users.messages.user.not_found")
		}
		if errors.Is(err, repository.ErrErased) {
			return response.Gone(c, "users.messages.user.erased")
		}
		c.Logger().Errorf("user roles: %v", err)
		return response.Failure(c, response.MsgFailed, nil)
	}
	return response.Success(c, "users.messages.user_roles.updated", nil)
}

// mutation describes one voter-guarded state change.
type mutation struct {
	perm      authz.UserPermission
	deniedKey string
	okKey     string
	kind      string // audit event kind, empty for none
	apply     func(ctx context.Context, id uint64) error
}

func (h *UserHandler) mutate(c echo.Context, m mutation) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	subject, err := h.find(ctx, c)
	if err != nil {
		return h.missing(c, err)
	}

	principal := middleware.CurrentUser(c)
	if !authz.CanUser(m.perm, subject, principal) {
		return response.AccessDenied(c, m.deniedKey, principal == nil)
	}

	if err := m.apply(ctx, subject.ID); err != nil {
		// The subject can vanish or be erased between the snapshot read and
		// the update; the status must reflect the row's actual fate.
		if errors.Is(err, sql.ErrNoRows) {
			return response.NotFound(c, "users.messages.user.not_found")
		}
		if errors.Is(err, repository.ErrErased) {
			return response.Gone(c, "users.messages.user.erased")
		}
		c.Logger().Errorf("user mutation: %v", err)
		return response.Failure(c, response.MsgFailed, nil)
	}

	if m.kind != "" {
		h.auditUser(c, m.kind, subject.ID, principal.ID)
	}
	return response.Success(c, m.okKey, nil)
}

func (h *UserHandler) find(ctx context.Context, c echo.Context) (*model.User, error) {
	return h.Users.GetByIDOrAlias(ctx, c.Param("id"))
}

func (h *UserHandler) missing(c echo.Context, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return response.NotFound(c, "users.messages.user.not_found")
	}
	c.Logger().Errorf("user lookup: %v", err)
	return response.Failure(c, response.MsgFailed, nil)
}

func (h *UserHandler) auditUser(c echo.Context, kind string, userID, actorID uint64) {
	ev := event.NewAuditEvent(kind, userID, actorID)
	ev.IP = c.RealIP()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()
		_ = event.Publish(ctx, ev)
	}()
}

func validateCreate(req createUserReq) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(req.Email) == "" {
		errs["email"] = "users.errors.email.required"
	}
	if len(req.Password) < passwordMinLength {
		errs["password"] = "users.errors.password.minlength"
	}
	return errs
}

// userView is the public projection of a user.
func userView(u *model.User) echo.Map {
	return echo.Map{
		"id":         u.ID,
		"username":   u.Username,
		"alias":      u.Alias,
		"roles":      u.Roles,
		"sorting":    u.Sorting,
		"is_banned":  u.IsBanned,
		"is_removed": u.IsRemoved,
		"is_erased":  u.IsErased,
		"created_at": u.CreatedAt,
	}
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
