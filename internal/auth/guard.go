package auth

import (
	"strings"
	"time"
)

// Outcome is the tri-state result of a guard stage.
type Outcome int

const (
	// OutcomeForward means the stage does not apply (no credential present,
	// or role too low for an admin route); a lower-ranked route may still
	// serve the request.
	OutcomeForward Outcome = iota

	// OutcomeReject means a credential was presented and is invalid; the
	// request fails outright.
	OutcomeReject

	// OutcomeAuthenticated means the chain produced trusted claims.
	OutcomeAuthenticated
)

// Decision is the output of the guard chain. Claims is set only when
// Outcome is OutcomeAuthenticated; Err is set only on OutcomeReject.
type Decision struct {
	Outcome Outcome
	Claims  *SessionClaims
	Err     error
}

// bearerPrefix is the expected Authorization scheme, including the space.
const bearerPrefix = "Bearer "

// BearerToken extracts the token from an Authorization header value.
//
// An absent header forwards, so routes without auth requirements can still
// match. A present header with the wrong scheme or an empty token rejects.
func BearerToken(header string) (string, Decision) {
	if header == "" {
		return "", Decision{Outcome: OutcomeForward}
	}

	if !strings.HasPrefix(header, bearerPrefix) {
		return "", Decision{Outcome: OutcomeReject, Err: ErrUnauthorized}
	}

	token := header[len(bearerPrefix):]
	if token == "" {
		return "", Decision{Outcome: OutcomeReject, Err: ErrUnauthorized}
	}

	return token, Decision{Outcome: OutcomeAuthenticated}
}

// Authenticate runs the bearer-extraction, signature, and expiry stages over
// an Authorization header value. It is a pure function of the header, the
// server secret, and the current time (the expiry stage is evaluated inside
// token parsing against the token's exp claim).
func Authenticate(header, secret string) Decision {
	token, d := BearerToken(header)
	if d.Outcome != OutcomeAuthenticated {
		return d
	}

	claims, err := ParseSessionToken(token, secret)
	if err != nil {
		return Decision{Outcome: OutcomeReject, Err: err}
	}

	return Decision{Outcome: OutcomeAuthenticated, Claims: claims}
}

// RequireAdmin runs the role stage over an authenticated decision.
//
// A non-admin forwards rather than rejecting, so a route can be registered
// twice - once admin-only, once as a lower-ranked public fallback - without
// authenticated non-admins being locked out of the fallback.
func RequireAdmin(d Decision) Decision {
	if d.Outcome != OutcomeAuthenticated {
		return d
	}
	if !d.Claims.Admin {
		return Decision{Outcome: OutcomeForward}
	}
	return d
}

// Expired reports whether claims are past their expiry at the given time.
// ParseSessionToken already rejects expired tokens; this exists for callers
// that hold decoded claims across a boundary and need to re-check.
func (c *SessionClaims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return now.After(c.ExpiresAt.Time)
}
