package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rand"  // secure random number generation for token identifiers
    "encoding/hex" // hex encoding of random bytes
    "errors"       // sentinel errors for token validation failures
    "strconv"      // numeric string parsing for the sub claim
    "time"         // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry
// and unique identifier.  The Token field contains the serialized JWT
// string handed to the client.  TokenID is the jti claim; it is what
// the revocation set stores when the token is signed out.  Exp stores
// the expiration timestamp as a time.Time.
type AccessToken struct {
    Token   string    // the serialized JWT string
    TokenID string    // the jti claim embedded in the token
    Exp     time.Time // the UTC expiration time
}

// TokenClaims holds the fields extracted from a validated access
// token: the subject user ID, the role claim recorded at issue time,
// and the unique token identifier used for revocation checks.  The
// role claim is informational only; authorization re-resolves the
// role from the identity store on every request.
type TokenClaims struct {
    UserID  uint64 // sub claim
    Role    string // role claim as issued
    TokenID string // jti claim
}

// ErrInvalidToken is returned by ParseAccessToken when the token is
// malformed, carries a bad signature, uses an unexpected signing
// method, or has expired.  Callers translate it into HTTP 401.
var ErrInvalidToken = errors.New("invalid or expired token")

// NewAccessToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the user ID, the user's role, and a TTL in minutes.
// The JWT includes standard claims: subject (sub), role, a unique token
// identifier (jti), expiration (exp) and issued at (iat).  Issuing is
// stateless; nothing is persisted until the token is revoked.
func NewAccessToken(secret string, userID uint64, role string, ttlMin int) (AccessToken, error) {
    // A fresh random jti per token gives the revocation set a stable
    // identifier that survives even if the same user/role pair signs
    // in twice in the same second.
    jti, err := randomHex(16)
    if err != nil {
        return AccessToken{}, err
    }
    exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  userID,
        "role": role,
        "jti":  jti,
        "exp":  exp.Unix(),
        "iat":  time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, TokenID: jti, Exp: exp}, nil
}

// ParseAccessToken verifies the signature and expiry of a serialized
// access token and returns its claims.  It rejects tokens signed with
// anything other than HMAC to prevent algorithm-substitution tricks.
// Revocation is NOT checked here: callers must consult the revocation
// set after a successful parse, and only the two checks together
// constitute an authenticated request.
func ParseAccessToken(secret, raw string) (TokenClaims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return TokenClaims{}, ErrInvalidToken
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return TokenClaims{}, ErrInvalidToken
    }
    var out TokenClaims
    // JWT numeric values decode as float64; some encoders emit the
    // subject as a numeric string instead.
    switch sub := claims["sub"].(type) {
    case float64:
        out.UserID = uint64(sub)
    case string:
        n, perr := strconv.ParseUint(sub, 10, 64)
        if perr != nil {
            return TokenClaims{}, ErrInvalidToken
        }
        out.UserID = n
    default:
        return TokenClaims{}, ErrInvalidToken
    }
    if role, ok := claims["role"].(string); ok {
        out.Role = role
    }
    jti, ok := claims["jti"].(string)
    if !ok || jti == "" {
        return TokenClaims{}, ErrInvalidToken
    }
    out.TokenID = jti
    return out, nil
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.  It is used to produce token
// identifiers.  If the random number generator fails, an error is
// returned.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
