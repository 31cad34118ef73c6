package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"
)

// Service implements credential verification, token pair issuance, and
// refresh token rotation over the user and token repositories.
//
// The secret and TTLs are immutable after construction; Service holds no
// other state and is safe for concurrent use.
type Service struct {
	users  UserRepository
	tokens TokenRepository
	logger *slog.Logger

	secret           string
	sessionTTL       time.Duration
	refreshTTL       time.Duration
	refreshTokenSize int

	// now is replaceable in tests.
	now func() time.Time
}

// ServiceConfig contains the immutable parameters of a Service.
type ServiceConfig struct {
	Secret           string
	SessionTTL       time.Duration
	RefreshTTL       time.Duration
	RefreshTokenSize int
}

// Default token parameters, applied when the corresponding config value is zero.
const (
	defaultSessionTTL       = 600 * time.Second
	defaultRefreshTTL       = 7 * 24 * time.Hour
	defaultRefreshTokenSize = 64
)

// NewService creates an auth service.
func NewService(users UserRepository, tokens TokenRepository, cfg ServiceConfig, logger *slog.Logger) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	if cfg.RefreshTokenSize <= 0 {
		cfg.RefreshTokenSize = defaultRefreshTokenSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		users:            users,
		tokens:           tokens,
		logger:           logger,
		secret:           cfg.Secret,
		sessionTTL:       cfg.SessionTTL,
		refreshTTL:       cfg.RefreshTTL,
		refreshTokenSize: cfg.RefreshTokenSize,
		now:              time.Now,
	}
}

// VerifyCredentials checks a username/password pair and returns the account.
//
// A blocked account never passes, regardless of password correctness. Wrong
// password and corrupt stored digest are indistinguishable to the caller.
func (s *Service) VerifyCredentials(ctx context.Context, username, password string) (*User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if user.Blocked {
		return nil, ErrBlockedUser
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidPassword
	}

	return user, nil
}

// IssueTokenPair mints a signed session token and a fresh refresh token for
// an account, persisting the refresh token record before returning.
//
// If the store write fails no pair is returned: an unpersisted refresh token
// would be unredeemable and its theft undetectable.
func (s *Service) IssueTokenPair(ctx context.Context, user *User) (*TokenPair, error) {
	now := s.now()

	sessionToken, err := SignSessionToken(user, s.secret, s.sessionTTL, now)
	if err != nil {
		return nil, fmt.Errorf("issuing session token: %w", err)
	}

	raw, err := GenerateRefreshToken(s.refreshTokenSize)
	if err != nil {
		return nil, fmt.Errorf("issuing refresh token: %w", err)
	}

	record := &RefreshToken{
		TokenHash: HashToken(raw),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.refreshTTL),
	}
	if err := s.tokens.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenPersist, err)
	}

	return &TokenPair{
		Token:        sessionToken,
		RefreshToken: base64.StdEncoding.EncodeToString(raw),
	}, nil
}

// Redeem exchanges a refresh token for a new token pair.
//
// Validity is exists AND unused AND unexpired. Every successful redemption
// invalidates the presented token and produces exactly one successor pair.
// A second redemption of the same token is a replay: the owning account is
// blocked and the redemption fails, even if the blocking write itself fails.
// The accepted risk there is an unblocked account, never a silently granted
// duplicate session.
func (s *Service) Redeem(ctx context.Context, refreshToken string) (*TokenPair, error) {
	raw, err := base64.StdEncoding.DecodeString(refreshToken)
	if err != nil {
		return nil, ErrMalformedToken
	}
	tokenHash := HashToken(raw)

	record, user, err := s.tokens.GetWithUser(ctx, tokenHash)
	if err != nil {
		return nil, err
	}

	if record.LastUsedAt != nil {
		return nil, s.handleReplay(ctx, user)
	}

	now := s.now()
	if record.ExpiresAt.Before(now) {
		// Plain expiry is not evidence of compromise; no blocking.
		return nil, ErrTokenExpired
	}

	// The stamp must land before any successor is issued. Zero rows
	// affected means a concurrent redemption won the race on this token,
	// which is a replay like any other.
	stamped, err := s.tokens.StampUsed(ctx, tokenHash, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenPersist, err)
	}
	if !stamped {
		return nil, s.handleReplay(ctx, user)
	}

	return s.IssueTokenPair(ctx, user)
}

// handleReplay blocks the account that owns a replayed token and returns
// ErrReplayedToken. A failed blocking write is logged but does not change
// the outcome: the redemption fails either way.
func (s *Service) handleReplay(ctx context.Context, user *User) error {
	s.logger.Warn("refresh token replay detected, blocking account",
		"user_id", user.ID,
		"username", user.Username,
	)

	if err := s.users.SetBlocked(ctx, user.ID, true); err != nil {
		s.logger.Error("failed to block account after token replay",
			"user_id", user.ID,
			"error", err,
		)
	}

	return ErrReplayedToken
}

// EnsureAdmin creates or updates the administrative account. It hashes the
// password and upserts by username with the admin flag set; safe to run on
// every process start. This is the only code path that sets the admin flag
// directly.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	admin := &User{
		Username:     username,
		PasswordHash: hash,
		Admin:        true,
	}
	if err := s.users.Upsert(ctx, admin); err != nil {
		return fmt.Errorf("ensuring admin account: %w", err)
	}

	return nil
}
