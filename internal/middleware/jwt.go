package middleware // middleware contains reusable HTTP middleware functions

import (
    "context"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/ziad540/Order-Processing-System-sub000/internal/utils"
)

// TokenChecker answers whether a token identifier has been revoked.
// *repository.TokenRepo satisfies it; tests substitute a fake.
type TokenChecker interface {
    IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// JWTAuth returns an Echo middleware that authenticates a Bearer
// access token. Authentication is two checks, both mandatory: the
// signature/expiry validation of the JWT itself, and a lookup of the
// token's jti against the durable revocation set. A token that was
// signed out is rejected with 401 even when its expiry has not
// passed. On success the subject id, role claim and token identifier
// are injected into the request context under "user_id", "role" and
// "token_id"; the revocation result is never cached past the request.
func JWTAuth(secret string, tokens TokenChecker) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication", "message": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            claims, err := utils.ParseAccessToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication", "message": "invalid or expired token"})
            }

            revoked, err := tokens.IsRevoked(c.Request().Context(), claims.TokenID)
            if err != nil {
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "revocation check failed"})
            }
            if revoked {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication", "message": "token revoked"})
            }

            c.Set("user_id", claims.UserID)
            c.Set("role", claims.Role)
            c.Set("token_id", claims.TokenID)
            return next(c)
        }
    }
}
