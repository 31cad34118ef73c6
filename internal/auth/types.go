package auth

import (
	"errors"
	"time"
)

// User represents an account in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // never serialised
	Blocked      bool      `json:"blocked"`
	Admin        bool      `json:"admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RefreshToken represents a stored refresh token. The raw token bytes are
// never persisted; TokenHash is the SHA-256 of the raw bytes. LastUsedAt is
// nil until the token is redeemed, after which the token is dead.
type RefreshToken struct {
	TokenHash  string     `json:"-"`
	UserID     string     `json:"user_id"`
	ExpiresAt  time.Time  `json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TokenPair is the result of a login or a refresh: a signed session token and
// the transport-encoded refresh token that obtains the next pair.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// Sentinel errors for credential and token operations.
var (
	// ErrUnknownUser means no account exists with the given username.
	ErrUnknownUser = errors.New("unknown user")

	// ErrBlockedUser means the account is blocked and can never pass
	// credential verification, regardless of password correctness.
	ErrBlockedUser = errors.New("user is blocked")

	// ErrInvalidPassword covers both a wrong password and a corrupt stored
	// digest; callers must not distinguish the two.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUnauthorized means a session token is missing, malformed, or its
	// signature does not verify.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenExpired means a session or refresh token is past its expiry.
	ErrTokenExpired = errors.New("token has expired")

	// ErrMalformedToken means a refresh token failed transport decoding.
	ErrMalformedToken = errors.New("malformed refresh token")

	// ErrUnknownToken means no refresh token record matches; it covers both
	// never-existed and already-purged tokens.
	ErrUnknownToken = errors.New("unknown refresh token")

	// ErrReplayedToken means a refresh token was redeemed a second time.
	// The owning account is blocked when this is returned.
	ErrReplayedToken = errors.New("refresh token has already been used")

	// ErrTokenPersist means a token store write failed. No token pair is
	// returned when this happens.
	ErrTokenPersist = errors.New("persisting token failed")

	// ErrDuplicateUser means an account with the username already exists.
	ErrDuplicateUser = errors.New("user already exists")
)
