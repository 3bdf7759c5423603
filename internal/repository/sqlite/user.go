package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sakif/fantasy-forward/internal/apperror"
	"github.com/sakif/fantasy-forward/internal/model"
	"github.com/sakif/fantasy-forward/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new user row. The caller supplies the ID (a UUID);
// CreatedAt is set here.
//
// The UNIQUE constraint on email is our duplicate check — we let the
// insert race instead of doing a SELECT-then-INSERT, so two concurrent
// registrations for the same email cannot both succeed. The constraint
// violation is translated to apperror.ErrConflict.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email already registered")
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Email, err)
	}

	return nil
}

// GetUserByID retrieves a user by primary key.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `SELECT id, email, password_hash, created_at
		FROM users WHERE id = ?`, id)
}

// GetUserByEmail retrieves a user by email.
// Returns apperror.ErrNotFound if the email is unknown.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `SELECT id, email, password_hash, created_at
		FROM users WHERE email = ?`, email)
}

func (db *DB) getUser(ctx context.Context, query, arg string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", arg)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", arg, err)
	}

	return &u, nil
}

// UpsertUser inserts or refreshes a user keyed on the provider-issued ID.
//
// First verification of an identity inserts the row (empty password hash —
// the provider owns the credentials). Later verifications hit the
// ON CONFLICT branch and refresh the mirrored email, so a change at the
// provider propagates here on the next request rather than drifting
// forever. The row is read back afterwards so the caller gets the stored
// CreatedAt and hash.
func (db *DB) UpsertUser(ctx context.Context, user *model.User) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET email = excluded.email`,
		user.ID,
		user.Email,
		user.PasswordHash,
		time.Now(),
	)
	if err != nil {
		// ON CONFLICT(id) leaves the UNIQUE(email) constraint live: the
		// refreshed email can collide with a different user's row. Name
		// that case instead of burying it in a generic error.
		if isUniqueViolation(err) {
			return apperror.Conflict("email already registered to another user")
		}
		return fmt.Errorf("sqlite: upserting user %s: %w", user.ID, err)
	}

	stored, err := db.GetUserByID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("sqlite: reading back user %s: %w", user.ID, err)
	}
	*user = *stored

	return nil
}

// isUniqueViolation reports whether err came from a UNIQUE constraint.
// The modernc driver surfaces these as plain errors carrying the SQLite
// message, so string matching is the available check.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
