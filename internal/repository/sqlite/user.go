package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/songbook/internal/apperror"
	"github.com/sakif/songbook/internal/model"
	"github.com/sakif/songbook/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, name, email, password_hash, created_at, updated_at`

// CreateUser inserts a new account. The email column is UNIQUE COLLATE
// NOCASE, so a second registration with the same address in any casing
// fails with apperror.ErrConflict.
func (db *DB) CreateUser(ctx context.Context, u *model.User) error {
	u.ID = xid.New().String()
	u.Email = strings.TrimSpace(u.Email)
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := db.conn.NamedExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (:id, :name, :email, :password_hash, :created_at, :updated_at)`,
		u,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user with email", u.Email)
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", u.Email, err)
	}
	return nil
}

// GetUserByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := db.conn.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	)
	if err != nil {
		return nil, notFoundIfNoRows(err, "user", id, "getting user "+id)
	}
	return &u, nil
}

// GetUserByEmail looks a user up by email, ignoring case.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.TrimSpace(email)

	var u model.User
	err := db.conn.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, email,
	)
	if err != nil {
		return nil, notFoundIfNoRows(err, "user", email, "getting user by email")
	}
	return &u, nil
}
