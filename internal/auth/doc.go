// Package auth implements credential verification and token lifecycle
// management for Inkwell.
//
// It covers:
//   - Argon2id password hashing in PHC string format
//   - HMAC-SHA256 signed session tokens carrying identity and role claims
//   - Single-use refresh token rotation with replay detection: a redeemed
//     token that is presented again blocks the owning account
//   - A staged request guard chain (bearer extraction, signature check,
//     expiry check, admin check) with forward/reject/authenticated outcomes
//   - Idempotent admin account bootstrap
//
// Refresh tokens are opaque random bytes; only their SHA-256 hash is stored.
// The redeemed-marker write uses a conditional UPDATE so that two concurrent
// redemptions of the same token can never both succeed.
package auth
