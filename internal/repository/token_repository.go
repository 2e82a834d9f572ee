package repository

import (
    "context"
    "database/sql"
)

// TokenRepo maintains the revocation set for access tokens in the
// `revoked_tokens` table. The set is append-only: a token identifier,
// once inserted, is never removed, so a revoked token stays invalid
// for the remainder of its natural lifetime no matter which server
// instance handles the request.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Revoke adds a token identifier to the revocation set. Revoking an
// identifier that is already present is a no-op success, which makes
// repeated signout calls with the same token harmless.
func (r *TokenRepo) Revoke(ctx context.Context, tokenID string, userID uint64) error {
    _, err := r.DB.ExecContext(ctx,
        "INSERT IGNORE INTO revoked_tokens (token_id, user_id) VALUES (?,?)",
        tokenID, userID)
    return err
}

// IsRevoked reports whether a token identifier is present in the
// revocation set. It is consulted on every authenticated request
// after the signature check; the result is never cached past the
// request.
func (r *TokenRepo) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
    var one int
    err := r.DB.QueryRowContext(ctx,
        "SELECT 1 FROM revoked_tokens WHERE token_id=? LIMIT 1",
        tokenID).Scan(&one)
    if err == sql.ErrNoRows {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}
