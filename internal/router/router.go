package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/ziad540/Order-Processing-System-sub000/internal/handler"
	"github.com/ziad540/Order-Processing-System-sub000/internal/middleware"
	"github.com/ziad540/Order-Processing-System-sub000/internal/repository"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check,
// used by load balancers and monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Signup and
// signin live under /v1/auth and need no session; signout and the
// whoami probe require a live, unrevoked token, so they sit behind
// JWTAuth with the revocation check.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, tokens *repository.TokenRepo) {
	g := e.Group("/v1/auth")
	g.POST("/signup", a.Signup)
	g.POST("/signin", a.Signin)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret, tokens))
	auth.POST("/auth/signout", a.Signout)
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated catalog browse
// endpoints. The optional middlewares slot takes the response cache
// and rate limiter when Redis is available; these routes never serve
// per-user state, which is what makes them safe to cache.
func RegisterPublic(e *echo.Echo, cat *handler.CatalogHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/books", cat.List)
	g.GET("/books/:isbn", cat.Get)
}
