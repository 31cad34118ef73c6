package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-cms/inkwell/internal/audit"
	"github.com/inkwell-cms/inkwell/internal/auth"
)

// minPasswordLength is the minimum accepted password length for new accounts.
const minPasswordLength = 8

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleListUsers returns all accounts.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.userRepo.List(r.Context())
	if err != nil {
		s.logger.Error("list users failed", "error", err)
		writeInternalError(w, "failed to list users")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users": users,
		"count": len(users),
	})
}

// handleCreateUser creates a non-admin account. The admin flag is only ever
// set by the bootstrap; there is no API route that grants it.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeBadRequest(w, "username and password are required")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeBadRequest(w, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("hashing password failed", "error", err)
		writeInternalError(w, "failed to create user")
		return
	}

	user := &auth.User{
		Username:     req.Username,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(r.Context(), user); err != nil {
		if errors.Is(err, auth.ErrDuplicateUser) {
			writeConflict(w, "username already taken")
			return
		}
		s.logger.Error("creating user failed", "error", err)
		writeInternalError(w, "failed to create user")
		return
	}

	claims := claimsFromContext(r.Context())
	s.auditEvent(audit.ActionCreate, audit.EntityUser, user.ID, claims.ID,
		map[string]any{"username": user.Username})

	writeJSON(w, http.StatusCreated, user)
}

// handleGetUser returns a single account by ID.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := s.userRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, auth.ErrUnknownUser) {
			writeNotFound(w, "user not found")
			return
		}
		s.logger.Error("getting user failed", "id", id, "error", err)
		writeInternalError(w, "failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}
