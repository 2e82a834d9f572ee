package middleware

import (
    "context"
    "database/sql"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"
)

// RoleResolver looks up a principal's current role in the identity
// store. *repository.UserRepo satisfies it.
type RoleResolver interface {
    RoleByID(ctx context.Context, id uint64) (string, error)
}

// RequireRole returns a middleware that enforces that the
// authenticated user holds one of the allowed roles. The role is
// re-resolved from the identity store on EVERY request rather than
// read from the token payload: a role assignment can change between
// token issuance and use, and a token must not grant yesterday's
// role. It assumes JWTAuth already placed "user_id" in the context.
// A user that no longer exists or was deactivated gets 401; a live
// user with the wrong role gets 403.
func RequireRole(resolver RoleResolver, roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            uid, ok := c.Get("user_id").(uint64)
            if !ok || uid == 0 {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication", "message": "unauthorized"})
            }
            role, err := resolver.RoleByID(c.Request().Context(), uid)
            if err != nil {
                if errors.Is(err, sql.ErrNoRows) {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication", "message": "unknown user"})
                }
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "role lookup failed"})
            }
            if !allowed[role] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "authorization", "message": "forbidden"})
            }
            // Overwrite the claim-derived role with the fresh one so
            // handlers see the authoritative value.
            c.Set("role", role)
            return next(c)
        }
    }
}
