package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/inkwell-cms/inkwell/internal/audit"
	"github.com/inkwell-cms/inkwell/internal/auth"
)

// loginRequest is the request body for POST /api/auth/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// refreshRequest is the request body for POST /api/auth/refresh.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// handleLogin verifies credentials and returns a fresh token pair.
//
// A request that already carries a valid session token short-circuits
// without touching the stored credentials; clients holding a live session
// are told so instead of being re-verified.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if d := auth.Authenticate(r.Header.Get("Authorization"), s.cfg.Security.JWT.Secret); d.Outcome == auth.OutcomeAuthenticated {
		writeJSON(w, http.StatusOK, map[string]any{
			"message":  "already logged in",
			"username": d.Claims.Username,
		})
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeBadRequest(w, "username and password are required")
		return
	}

	user, err := s.authService.VerifyCredentials(r.Context(), req.Username, req.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	pair, err := s.authService.IssueTokenPair(r.Context(), user)
	if err != nil {
		s.logger.Error("issuing token pair failed", "username", user.Username, "error", err)
		writeInternalError(w, "failed to issue tokens")
		return
	}

	s.auditEvent(audit.ActionLogin, audit.EntityUser, user.ID, user.ID, nil)
	writeJSON(w, http.StatusOK, pair)
}

// handleRefresh redeems a refresh token for a new token pair. Each token
// redeems at most once; a replay blocks the owning account.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.RefreshToken == "" {
		writeBadRequest(w, "refreshToken is required")
		return
	}

	pair, err := s.authService.Redeem(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrReplayedToken) {
			s.auditEvent(audit.ActionReplay, audit.EntityUser, "", "", nil)
		}
		writeAuthError(w, err)
		return
	}

	s.auditEvent(audit.ActionRefresh, audit.EntityUser, "", "", nil)
	writeJSON(w, http.StatusOK, pair)
}

// handleMe returns the account behind the presented session token.
//
// The lookup goes back to the store rather than echoing claims, so a block
// or role change applied after issuance is visible here immediately.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	user, err := s.userRepo.GetByID(r.Context(), claims.ID)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
