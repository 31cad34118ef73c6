package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// TokenRepository defines the interface for refresh token persistence.
type TokenRepository interface {
	Insert(ctx context.Context, token *RefreshToken) error

	// GetWithUser retrieves a refresh token and its owning account in one
	// lookup. Returns ErrUnknownToken if no record matches the hash.
	GetWithUser(ctx context.Context, tokenHash string) (*RefreshToken, *User, error)

	// StampUsed marks the token as redeemed, but only if it has not been
	// redeemed yet. Returns stamped=false when the token was already
	// stamped - including by a concurrent redemption that won the race.
	StampUsed(ctx context.Context, tokenHash string, at time.Time) (bool, error)

	// DeleteExpired removes tokens past their expiry, returning the number
	// of deleted rows.
	DeleteExpired(ctx context.Context) (int64, error)
}

// SQLiteTokenRepository implements TokenRepository using SQLite.
type SQLiteTokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new SQLite-backed token repository.
func NewTokenRepository(db *sql.DB) *SQLiteTokenRepository {
	return &SQLiteTokenRepository{db: db}
}

// Insert stores a new refresh token record.
func (r *SQLiteTokenRepository) Insert(ctx context.Context, token *RefreshToken) error {
	now := time.Now().UTC().Format(time.RFC3339)
	token.CreatedAt, _ = time.Parse(time.RFC3339, now)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (token_hash, user_id, expires_at, last_used_at, created_at)
		 VALUES (?, ?, ?, NULL, ?)`,
		token.TokenHash, token.UserID,
		token.ExpiresAt.UTC().Format(time.RFC3339), now,
	)
	if err != nil {
		return fmt.Errorf("inserting refresh token: %w", err)
	}

	return nil
}

// GetWithUser retrieves a refresh token joined to its owning account.
func (r *SQLiteTokenRepository) GetWithUser(ctx context.Context, tokenHash string) (*RefreshToken, *User, error) {
	var t RefreshToken
	var u User
	var lastUsedAt sql.NullString
	var expiresAt, tokenCreatedAt string
	var blocked, admin int
	var userCreatedAt, userUpdatedAt string

	err := r.db.QueryRowContext(ctx,
		`SELECT t.token_hash, t.user_id, t.expires_at, t.last_used_at, t.created_at,
		        u.id, u.username, u.password_hash, u.blocked, u.admin, u.created_at, u.updated_at
		 FROM refresh_tokens t
		 JOIN users u ON u.id = t.user_id
		 WHERE t.token_hash = ?`, tokenHash,
	).Scan(&t.TokenHash, &t.UserID, &expiresAt, &lastUsedAt, &tokenCreatedAt,
		&u.ID, &u.Username, &u.PasswordHash, &blocked, &admin, &userCreatedAt, &userUpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrUnknownToken
		}
		return nil, nil, fmt.Errorf("getting refresh token: %w", err)
	}

	t.ExpiresAt, _ = time.Parse(time.RFC3339, expiresAt)
	t.CreatedAt, _ = time.Parse(time.RFC3339, tokenCreatedAt)
	if lastUsedAt.Valid {
		used, _ := time.Parse(time.RFC3339, lastUsedAt.String)
		t.LastUsedAt = &used
	}

	u.Blocked = blocked != 0
	u.Admin = admin != 0
	u.CreatedAt, _ = time.Parse(time.RFC3339, userCreatedAt)
	u.UpdatedAt, _ = time.Parse(time.RFC3339, userUpdatedAt)

	return &t, &u, nil
}

// StampUsed sets last_used_at in a single conditional UPDATE. The WHERE
// clause on last_used_at IS NULL makes the check-and-set atomic: of two
// concurrent redemptions of the same token, exactly one observes a row
// change. A plain read-then-write here would reopen the replay window.
func (r *SQLiteTokenRepository) StampUsed(ctx context.Context, tokenHash string, at time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET last_used_at = ?
		 WHERE token_hash = ? AND last_used_at IS NULL`,
		at.UTC().Format(time.RFC3339), tokenHash,
	)
	if err != nil {
		return false, fmt.Errorf("stamping refresh token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("stamping refresh token: %w", err)
	}

	return rows == 1, nil
}

// DeleteExpired removes tokens past their expiry, freeing storage. A purged
// token becomes indistinguishable from one that never existed.
func (r *SQLiteTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	result, err := r.db.ExecContext(ctx,
		"DELETE FROM refresh_tokens WHERE expires_at <= ?", now)
	if err != nil {
		return 0, fmt.Errorf("deleting expired tokens: %w", err)
	}

	count, _ := result.RowsAffected()
	return count, nil
}
