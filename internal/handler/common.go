package handler // handler defines http handlers

import (
    "errors"
    "strconv"

    "github.com/labstack/echo/v4"
)

// getUserID extracts the user_id that JWTAuth stored in the context
// and converts it to uint64. Mutation endpoints always act on this
// resolved id; a client-supplied customer id is never accepted.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// getTokenID extracts the jti of the presented access token from the
// context. Signout revokes exactly this identifier.
func getTokenID(c echo.Context) (string, error) {
    if s, ok := c.Get("token_id").(string); ok && s != "" {
        return s, nil
    }
    return "", errors.New("invalid token_id in context")
}
