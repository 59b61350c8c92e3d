package handler

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkoval/cms-auth/internal/event"
	"github.com/mkoval/cms-auth/internal/middleware"
	"github.com/mkoval/cms-auth/internal/response"
	"github.com/mkoval/cms-auth/internal/security"
	"github.com/mkoval/cms-auth/internal/token"
)

const dbTimeout = 5 * time.Second

// AuthHandler bundles the authentication strategies and the token issuer
// behind the /auth endpoints.
type AuthHandler struct {
	Password *security.PasswordStrategy
	Refresh  *security.RefreshStrategy
	Issuer   *token.Issuer
}

func NewAuthHandler(p *security.PasswordStrategy, r *security.RefreshStrategy, i *token.Issuer) *AuthHandler {
	return &AuthHandler{Password: p, Refresh: r, Issuer: i}
}

// Login handles POST /auth: password authentication followed by token pair
// issuance. Failed issuance still answers success with absent token fields;
// the issuer has already logged the cause.
func (h *AuthHandler) Login(c echo.Context) error {
	var creds security.PasswordCredentials
	if err := c.Bind(&creds); err != nil {
		return response.Failure(c, security.MsgPasswordInvalidCredentials, nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	user, err := h.Password.Authenticate(ctx, creds)
	if err != nil {
		return h.reject(c, err)
	}

	pair := h.Issuer.IssuePair(ctx, user, middleware.ClientMeta(c))
	h.audit(c, event.KindLogin, user.ID)

	return response.Success(c, security.MsgPasswordAuthenticated, pair)
}

// RefreshTokens handles POST /auth/refresh: single-use redemption of a
// refresh token for a brand-new pair.
func (h *AuthHandler) RefreshTokens(c echo.Context) error {
	var creds security.RefreshCredentials
	if err := c.Bind(&creds); err != nil {
		return response.Failure(c, security.MsgRefreshMissedToken, nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	user, err := h.Refresh.Authenticate(ctx, creds)
	if err != nil {
		return h.reject(c, err)
	}

	pair := h.Issuer.IssuePair(ctx, user, middleware.ClientMeta(c))
	h.audit(c, event.KindRefresh, user.ID)

	return response.Success(c, security.MsgRefreshAuthenticated, pair)
}

// User handles GET /auth/user: introspection of the current principal.
func (h *AuthHandler) User(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return response.NeedAuth(c, security.MsgUserNeedAuth)
	}
	return response.Success(c, "", echo.Map{
		"user": echo.Map{
			"id":       user.ID,
			"username": user.Username,
		},
	})
}

// reject converts a strategy error into the wire failure. Credential
// rejections keep their message key; storage faults are masked behind the
// generic key and logged.
func (h *AuthHandler) reject(c echo.Context, err error) error {
	var failure *security.Failure
	if errors.As(err, &failure) {
		return response.Failure(c, failure.Key, nil)
	}
	c.Logger().Errorf("authentication: %v", err)
	return response.Failure(c, response.MsgFailed, nil)
}

// audit publishes fire-and-forget; a broker outage must not fail a login.
func (h *AuthHandler) audit(c echo.Context, kind string, userID uint64) {
	ev := event.NewAuditEvent(kind, userID, 0)
	ev.IP = c.RealIP()
	ev.Useragent = c.Request().UserAgent()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()
		_ = event.Publish(ctx, ev)
	}()
}
