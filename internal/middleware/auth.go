package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/mkoval/cms-auth/internal/model"
	"github.com/mkoval/cms-auth/internal/response"
	"github.com/mkoval/cms-auth/internal/security"
	"github.com/mkoval/cms-auth/internal/token"
)

// principalKey is the echo context key holding the authenticated *model.User.
const principalKey = "principal"

// Principal resolves the bearer access token, when one is present, and
// attaches the authenticated user to the request context. A request without
// a verifiable token proceeds anonymously; downstream authorization decides
// whether anonymous is enough. A token that verifies but resolves to a
// missing or banned user is rejected here with its message key.
func Principal(bearer *security.BearerStrategy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()
			if !bearer.Supports(r) {
				return next(c)
			}

			user, err := bearer.Authenticate(r.Context(), r)
			if err != nil {
				var failure *security.Failure
				if errors.As(err, &failure) {
					return response.Failure(c, failure.Key, nil)
				}
				c.Logger().Errorf("bearer authentication: %v", err)
				return response.Failure(c, response.MsgFailed, nil)
			}

			c.Set(principalKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated principal, or nil for anonymous
// requests.
func CurrentUser(c echo.Context) *model.User {
	if u, ok := c.Get(principalKey).(*model.User); ok {
		return u
	}
	return nil
}

// ClientMeta collects the device metadata recorded with refresh tokens.
func ClientMeta(c echo.Context) token.ClientMeta {
	return token.ClientMeta{
		Useragent: c.Request().UserAgent(),
		IP:        c.RealIP(),
	}
}
