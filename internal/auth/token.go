package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of a signed session token. It carries the
// account identity and role at issuance time; role changes take effect on
// the next login or refresh, not on already-issued sessions.
type SessionClaims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
	jwt.RegisteredClaims
}

// SignSessionToken builds and signs a session token for a user with
// expiry = now + ttl, using HMAC-SHA256 under the server secret.
func SignSessionToken(user *User, secret string, ttl time.Duration, now time.Time) (string, error) {
	claims := SessionClaims{
		ID:       user.ID,
		Username: user.Username,
		Admin:    user.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// ParseSessionToken validates a session token's signature and expiry and
// returns its claims. An expired token returns ErrTokenExpired; any other
// failure (bad signature, wrong algorithm, garbage input) returns
// ErrUnauthorized. The distinction lets clients tell "log in again" apart
// from "malformed request".
func ParseSessionToken(tokenString, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrUnauthorized
	}

	if claims.ID == "" || claims.Username == "" {
		return nil, fmt.Errorf("%w: missing identity claims", ErrUnauthorized)
	}

	return claims, nil
}

// GenerateRefreshToken creates size cryptographically random bytes. The raw
// bytes act as both identifier and secret; they leave the process only in
// transport encoding and only their hash is stored.
func GenerateRefreshToken(size int) ([]byte, error) {
	raw := make([]byte, size)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generating refresh token: %w", err)
	}
	return raw, nil
}

// HashToken computes the SHA-256 hash of raw token bytes for storage and
// lookup. Raw tokens are never stored.
func HashToken(raw []byte) string {
	h := sha256.Sum256(raw)
	return hex.EncodeToString(h[:])
}
