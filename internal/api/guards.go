package api

import (
	"context"
	"net/http"

	"github.com/inkwell-cms/inkwell/internal/auth"
)

// requireUser gates a route on a valid session token.
//
// The guard chain runs in stages: bearer extraction, signature, expiry.
// A forwarded decision (no credential at all) becomes 401 here because
// protected routes have no lower-ranked anonymous fallback. A rejected
// decision maps to its specific status, keeping "token expired" visible
// to clients that can refresh.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := auth.Authenticate(r.Header.Get("Authorization"), s.cfg.Security.JWT.Secret)
		switch d.Outcome {
		case auth.OutcomeAuthenticated:
			ctx := context.WithValue(r.Context(), ctxKeyClaims, d.Claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		case auth.OutcomeReject:
			writeAuthError(w, d.Err)
		default:
			writeUnauthorized(w, "authentication required")
		}
	})
}

// requireAdmin gates a route on a valid session token whose claims carry
// the admin flag.
//
// A valid non-admin session forwards out of the admin stage; with no
// lower-ranked route registered underneath, the result is 404. Admin
// routes are not discoverable by non-admins.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := auth.RequireAdmin(auth.Authenticate(r.Header.Get("Authorization"), s.cfg.Security.JWT.Secret))
		switch {
		case d.Outcome == auth.OutcomeAuthenticated:
			ctx := context.WithValue(r.Context(), ctxKeyClaims, d.Claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		case d.Outcome == auth.OutcomeReject:
			writeAuthError(w, d.Err)
		case r.Header.Get("Authorization") == "":
			writeUnauthorized(w, "authentication required")
		default:
			// Valid session, wrong role: indistinguishable from a
			// route that does not exist.
			writeNotFound(w, "not found")
		}
	})
}

// claimsFromContext returns the authenticated session claims stored by the
// guard middleware, or nil when the route was not guarded.
func claimsFromContext(ctx context.Context) *auth.SessionClaims {
	claims, _ := ctx.Value(ctxKeyClaims).(*auth.SessionClaims)
	return claims
}
