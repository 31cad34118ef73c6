package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRepository defines the interface for account persistence.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]User, error)
	SetBlocked(ctx context.Context, id string, blocked bool) error
	Upsert(ctx context.Context, user *User) error
}

// SQLiteUserRepository implements UserRepository using SQLite.
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed user repository.
func NewUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

// Create inserts a new account. The ID is generated if empty.
// Returns ErrDuplicateUser if the username is taken.
func (r *SQLiteUserRepository) Create(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	now := time.Now().UTC().Format(time.RFC3339)
	user.CreatedAt, _ = time.Parse(time.RFC3339, now)
	user.UpdatedAt = user.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, blocked, admin, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.PasswordHash,
		boolToInt(user.Blocked), boolToInt(user.Admin), now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its unique ID.
func (r *SQLiteUserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getUser(ctx,
		"SELECT id, username, password_hash, blocked, admin, created_at, updated_at FROM users WHERE id = ?", id)
}

// GetByUsername retrieves an account by its username.
func (r *SQLiteUserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getUser(ctx,
		"SELECT id, username, password_hash, blocked, admin, created_at, updated_at FROM users WHERE username = ?", username)
}

// List returns all accounts ordered by creation date.
func (r *SQLiteUserRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, username, password_hash, blocked, admin, created_at, updated_at FROM users ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUserFrom(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}

	if users == nil {
		users = []User{}
	}
	return users, nil
}

// SetBlocked updates an account's blocked flag. The replay detector is the
// only caller that sets it to true.
func (r *SQLiteUserRepository) SetBlocked(ctx context.Context, id string, blocked bool) error {
	now := time.Now().UTC().Format(time.RFC3339)

	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET blocked = ?, updated_at = ? WHERE id = ?",
		boolToInt(blocked), now, id,
	)
	if err != nil {
		return fmt.Errorf("updating blocked flag: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrUnknownUser
	}
	return nil
}

// Upsert inserts an account, or updates its password hash and admin flag if
// the username already exists. Used by the admin bootstrap; the blocked flag
// of an existing account is left untouched.
func (r *SQLiteUserRepository) Upsert(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	now := time.Now().UTC().Format(time.RFC3339)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, blocked, admin, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(username) DO UPDATE SET
		   password_hash = excluded.password_hash,
		   admin = excluded.admin,
		   updated_at = excluded.updated_at`,
		user.ID, user.Username, user.PasswordHash,
		boolToInt(user.Blocked), boolToInt(user.Admin), now, now,
	)
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}

	return nil
}

// getUser executes a query and scans a single user result.
func (r *SQLiteUserRepository) getUser(ctx context.Context, query string, args ...any) (*User, error) {
	return scanUserFrom(r.db.QueryRowContext(ctx, query, args...))
}

// scanner is an interface for sql.Row and sql.Rows Scan methods.
type scanner interface {
	Scan(dest ...any) error
}

// scanUserFrom scans a user from any scanner (Row or Rows).
func scanUserFrom(s scanner) (*User, error) {
	var u User
	var blocked, admin int
	var createdAt, updatedAt string

	err := s.Scan(&u.ID, &u.Username, &u.PasswordHash, &blocked, &admin, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	u.Blocked = blocked != 0
	u.Admin = admin != 0
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	u.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return &u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
