// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mkoval/cms-auth/internal/handler"
)

// RegisterRoutes registers the unauthenticated service routes.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. The rate limiter
// covers login and refresh, the credential-guessing surface; introspection
// is cheap and stays outside it.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/auth")
	g.POST("", a.Login, limiter)
	g.POST("/refresh", a.RefreshTokens, limiter)
	g.GET("/user", a.User)
}

// RegisterUsers registers the user management endpoints. Authorization is
// decided per handler by the permission checks; anonymous requests reach the
// handlers and are denied there, which keeps the 401/403/404/410 split in
// one place.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler) {
	g := e.Group("/users")
	g.POST("", u.Create)
	g.GET("/:id", u.Get)
	g.POST("/:id/remove", u.Remove)
	g.POST("/:id/restore", u.Restore)
	g.POST("/:id/erase", u.Erase)
	g.POST("/:id/ban", u.Ban)
	g.POST("/:id/roles", u.Roles)
}

// RegisterBlog registers the read-only blog subject endpoints.
func RegisterBlog(e *echo.Echo, b *handler.BlogHandler) {
	g := e.Group("/blog")
	g.GET("/posts/:id", b.GetPost)
	g.GET("/categories/:id", b.GetCategory)
	g.GET("/comments/:id", b.GetComment)
}
