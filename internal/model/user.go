package model

import "time"

// Role names stored in the `users` table.  A user carries exactly one
// role; there is no separate admin table and no role inheritance.
// Admin accounts are provisioned by seed data or operations tooling,
// never through the public signup endpoint.
const (
    RoleCustomer = "CUSTOMER"
    RoleAdmin    = "ADMIN"
)

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – role name (CUSTOMER or ADMIN).
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Role         string    // users.role
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// RevokedToken models an entry in the `revoked_tokens` table.  The
// table is the durable revocation set: a token identifier (the JWT
// jti claim), once inserted, is never removed, so a signed-out token
// stays dead even before its natural expiry.
//
// Fields:
//  TokenID   – the jti claim of the revoked access token.
//  UserID    – owner of the token at revocation time.
//  RevokedAt – when the token was revoked.
type RevokedToken struct {
    TokenID   string    // revoked_tokens.token_id
    UserID    uint64    // revoked_tokens.user_id
    RevokedAt time.Time // revoked_tokens.revoked_at
}
