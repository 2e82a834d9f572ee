package middleware

// identity.go holds helpers shared across middleware files for
// extracting the authenticated user from the Echo context. JWTAuth
// stores the subject as a uint64 under "user_id"; anonymous traffic
// (public catalog routes) has no entry.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user id as a string for use
// in rate-limit bucket keys, or "anon" when the request carries no
// identity.
func currentUserID(c echo.Context) string {
    switch v := c.Get("user_id").(type) {
    case uint64:
        return strconv.FormatUint(v, 10)
    case string:
        if v != "" {
            return v
        }
    }
    return "anon"
}
