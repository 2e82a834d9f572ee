package handler

import (
    "context"
    "database/sql"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/ziad540/Order-Processing-System-sub000/internal/config"
    "github.com/ziad540/Order-Processing-System-sub000/internal/model"
    "github.com/ziad540/Order-Processing-System-sub000/internal/repository"
    "github.com/ziad540/Order-Processing-System-sub000/internal/utils"
)

// AuthHandler bundles dependencies for the auth endpoints: signup,
// signin, signout and the whoami probe. Signout needs the cart
// repository because the store's policy clears a customer's cart when
// they sign out.
type AuthHandler struct {
    Cfg    config.Config
    Users  *repository.UserRepo
    Tokens *repository.TokenRepo
    Carts  *repository.CartRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo, ca *repository.CartRepo) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Carts: ca}
}

// ----- DTOs -----

type signupReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}
type signinReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

type userPart struct {
    ID    uint64 `json:"id"`
    Email string `json:"email"`
    Role  string `json:"role"`
}
type authResp struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
    User    userPart  `json:"user"`
}

// Signup creates a customer account. The public endpoint always
// grants the CUSTOMER role; admin principals are provisioned out of
// band, so a principal carries exactly one role and clients cannot
// self-promote.
func (h *AuthHandler) Signup(c echo.Context) error {
    var req signupReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "email/password required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    uid, err := h.Users.Create(ctx, req.Email, req.Password, model.RoleCustomer, h.Cfg.BcryptCost)
    if err != nil {
        if err == repository.ErrEmailExists {
            return c.JSON(http.StatusConflict, echo.Map{"error": "conflict", "message": "email already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "create user failed"})
    }

    return c.JSON(http.StatusCreated, echo.Map{
        "user": userPart{ID: uid, Email: req.Email, Role: model.RoleCustomer},
    })
}

// Signin verifies credentials and returns a fresh bearer token. Token
// issuance is stateless: nothing is persisted until the token is
// revoked at signout.
func (h *AuthHandler) Signin(c echo.Context) error {
    var req signinReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "email/password required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByEmail(ctx, req.Email)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication", "message": "invalid credentials"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "query failed"})
    }
    if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication", "message": "invalid credentials"})
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "issue token failed"})
    }

    return c.JSON(http.StatusOK, authResp{
        Token:   access.Token,
        Expires: access.Exp,
        User:    userPart{ID: u.ID, Email: u.Email, Role: u.Role},
    })
}

// Signout revokes the presented token and clears the customer's cart.
// Revocation appends the token's jti to the durable revocation set:
// every future request bearing this token is rejected on any server
// instance, regardless of remaining lifetime. Revoking an
// already-revoked token stays a success, so retried signouts are
// harmless. The endpoint runs behind JWTAuth, which put user_id and
// token_id into the context.
func (h *AuthHandler) Signout(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication", "message": "unauthorized"})
    }
    jti, err := getTokenID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication", "message": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Tokens.Revoke(ctx, jti, uid); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "signout failed"})
    }
    // Store policy: a signout abandons the session's shopping, so the
    // cart is emptied along with the session. The cart row itself
    // survives for the next signin.
    if err := h.Carts.Clear(ctx, uid); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "clear cart failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{})
}

// Me is a simple protected endpoint returning the caller's identity.
func (h *AuthHandler) Me(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "user_id": c.Get("user_id"),
        "role":    c.Get("role"),
    })
}
