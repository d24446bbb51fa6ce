package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/repforge/repforge/internal/errors"
)

// ErrUsernameTaken is returned when registering an already-used username.
var ErrUsernameTaken = errors.NewSentinel("username already taken")

// UserRepository stores accounts for the sync backend.
type UserRepository struct {
	baseRepository
}

// Create registers a new user with a precomputed password hash.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string) (User, error) {
	user := User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, created_at)
		VALUES (?, ?, ?)`,
		user.Username, user.PasswordHash, user.CreatedAt.Format(dateFormat))
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return User{}, ErrUsernameTaken
	}
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return User{}, fmt.Errorf("user insert id: %w", err)
	}
	user.ID = int(id)
	return user, nil
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (User, error) {
	var (
		user      User
		createdAt string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = ?`, username).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("query user: %w", err)
	}
	if user.CreatedAt, err = time.Parse(dateFormat, createdAt); err != nil {
		return User{}, fmt.Errorf("parse user created at: %w", err)
	}
	return user, nil
}
