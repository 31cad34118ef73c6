package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-cms/inkwell/internal/audit"
	"github.com/inkwell-cms/inkwell/internal/content"
)

type createSectionRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	IsDefault   bool    `json:"isDefault"`
	HasTitles   bool    `json:"hasTitles"`
}

// handleListSections returns all sections, default first.
func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := s.sectionRepo.List(r.Context())
	if err != nil {
		s.logger.Error("list sections failed", "error", err)
		writeInternalError(w, "failed to list sections")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sections": sections,
		"count":    len(sections),
	})
}

// handleCreateSection creates a section.
func (s *Server) handleCreateSection(w http.ResponseWriter, r *http.Request) {
	var req createSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Title == "" {
		writeBadRequest(w, "title is required")
		return
	}

	section := &content.Section{
		Title:       req.Title,
		Description: req.Description,
		IsDefault:   req.IsDefault,
		HasTitles:   req.HasTitles,
	}
	if err := s.sectionRepo.Create(r.Context(), section); err != nil {
		s.logger.Error("creating section failed", "error", err)
		writeInternalError(w, "failed to create section")
		return
	}

	claims := claimsFromContext(r.Context())
	s.auditEvent(audit.ActionCreate, audit.EntitySection, section.ID, claims.ID,
		map[string]any{"title": section.Title})

	writeJSON(w, http.StatusCreated, section)
}

// handleDeleteSection removes a section and, through the schema cascade,
// its posts.
func (s *Server) handleDeleteSection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.sectionRepo.Delete(r.Context(), id); err != nil {
		writeContentError(w, err)
		return
	}

	claims := claimsFromContext(r.Context())
	s.auditEvent(audit.ActionDelete, audit.EntitySection, id, claims.ID, nil)

	writeJSON(w, http.StatusNoContent, nil)
}
