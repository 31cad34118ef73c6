package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/inkwell-cms/inkwell/internal/auth"
	"github.com/inkwell-cms/inkwell/internal/content"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeNotFound     = "not_found"
	ErrCodeUnauthorized = "unauthorised"
	ErrCodeTokenExpired = "token_expired"
	ErrCodeForbidden    = "forbidden"
	ErrCodeConflict     = "conflict"
	ErrCodeInternal     = "internal_error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // best-effort write; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeUnauthorized writes a 401 error response.
func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// writeForbidden writes a 403 error response.
func writeForbidden(w http.ResponseWriter, message string) {
	writeError(w, http.StatusForbidden, ErrCodeForbidden, message)
}

// writeConflict writes a 409 error response.
func writeConflict(w http.ResponseWriter, message string) {
	writeError(w, http.StatusConflict, ErrCodeConflict, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeAuthError maps an auth domain error to its HTTP response. Messages
// are kind-derived generics; internal detail never reaches the client.
func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrUnknownUser):
		writeNotFound(w, "user not found")
	case errors.Is(err, auth.ErrBlockedUser):
		writeForbidden(w, "account blocked")
	case errors.Is(err, auth.ErrInvalidPassword):
		writeUnauthorized(w, "invalid credentials")
	case errors.Is(err, auth.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, ErrCodeTokenExpired, "token expired")
	case errors.Is(err, auth.ErrMalformedToken):
		writeBadRequest(w, "malformed token")
	case errors.Is(err, auth.ErrUnknownToken):
		writeNotFound(w, "token not found")
	case errors.Is(err, auth.ErrReplayedToken):
		writeForbidden(w, "token already used")
	case errors.Is(err, auth.ErrDuplicateUser):
		writeConflict(w, "username already taken")
	case errors.Is(err, auth.ErrUnauthorized):
		writeUnauthorized(w, "invalid credentials")
	default:
		writeInternalError(w, "internal server error")
	}
}

// writeContentError maps a content domain error to its HTTP response.
func writeContentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, content.ErrSectionNotFound):
		writeNotFound(w, "section not found")
	case errors.Is(err, content.ErrPostNotFound):
		writeNotFound(w, "post not found")
	default:
		writeInternalError(w, "internal server error")
	}
}
