package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/ziad540/Order-Processing-System-sub000/internal/model"
    "github.com/ziad540/Order-Processing-System-sub000/internal/utils"
)

// UserRepo provides access to the `users` table. A user record is the
// single principal type of the system: role is a tag on the row
// (CUSTOMER or ADMIN), not a subclass, and every authorization
// decision re-reads it from here rather than trusting token claims.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts a user and returns its ID. The password is hashed
// with bcrypt before it touches the database.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO users (email, password_hash, role) VALUES (?,?,?)",
        email, hash, role)
    if err != nil {
        if isDuplicateKey(err) {
            return 0, ErrEmailExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    var u model.User
    err := r.DB.QueryRowContext(ctx,
        "SELECT id,email,password_hash,role,is_active,created_at,updated_at FROM users WHERE email=? LIMIT 1",
        email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
    return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
    var u model.User
    err := r.DB.QueryRowContext(ctx,
        "SELECT id,email,password_hash,role,is_active,created_at,updated_at FROM users WHERE id=? LIMIT 1",
        id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
    return u, err
}

// RoleByID returns the current role of an active user. It is the
// per-request lookup behind the authorization gate: role assignment
// can change between token issuance and use, so the stored role wins
// over whatever the token claims. sql.ErrNoRows is returned for
// unknown or deactivated users.
func (r *UserRepo) RoleByID(ctx context.Context, id uint64) (string, error) {
    var role string
    err := r.DB.QueryRowContext(ctx,
        "SELECT role FROM users WHERE id=? AND is_active=1 LIMIT 1",
        id).Scan(&role)
    return role, err
}
