package auth

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// testSecret is a signing secret used across auth tests.
const testSecret = "0123456789abcdef0123456789abcdef"

// testDB creates a temporary SQLite database with the auth schema applied.
// The database file is cleaned up when the test completes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "auth-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	migrationSQL := `
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			blocked INTEGER NOT NULL DEFAULT 0,
			admin INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;

		CREATE UNIQUE INDEX idx_users_username ON users(username);

		CREATE TABLE refresh_tokens (
			token_hash TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			expires_at TEXT NOT NULL,
			last_used_at TEXT,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		) STRICT;

		CREATE INDEX idx_refresh_tokens_user ON refresh_tokens(user_id);
		CREATE INDEX idx_refresh_tokens_expires ON refresh_tokens(expires_at);
	`
	if _, err := db.Exec(migrationSQL); err != nil {
		t.Fatalf("applying auth migration: %v", err)
	}

	return db
}

// seedTestUser inserts a user with the given password and returns it.
func seedTestUser(t *testing.T, db *sql.DB, username, password string, admin bool) *User {
	t.Helper()

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	repo := NewUserRepository(db)
	user := &User{
		Username:     username,
		PasswordHash: hash,
		Admin:        admin,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("creating test user %s: %v", username, err)
	}
	return user
}

// testService builds a Service over a test database with short TTLs.
func testService(t *testing.T, db *sql.DB) *Service {
	t.Helper()

	return NewService(
		NewUserRepository(db),
		NewTokenRepository(db),
		ServiceConfig{
			Secret:           testSecret,
			SessionTTL:       10 * time.Minute,
			RefreshTTL:       time.Hour,
			RefreshTokenSize: 64,
		},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}
