package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-cms/inkwell/internal/audit"
	"github.com/inkwell-cms/inkwell/internal/content"
)

type createPostRequest struct {
	SectionID   string     `json:"sectionId"`
	Title       *string    `json:"title,omitempty"`
	PublishDate *time.Time `json:"publishDate,omitempty"`
	Content     string     `json:"content"`
}

type updatePostRequest struct {
	SectionID   *string    `json:"sectionId,omitempty"`
	Title       *string    `json:"title,omitempty"`
	PublishDate *time.Time `json:"publishDate,omitempty"`
	Content     *string    `json:"content,omitempty"`
}

// handleListPosts returns a page of posts, newest first.
//
// Query parameters:
//   - section: filter to one section's posts
//   - offset: pagination offset
//   - limit: max results (default 20, max 100)
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var offset, limit int
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeBadRequest(w, "offset must be a non-negative integer")
			return
		}
		offset = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeBadRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	posts, err := s.postRepo.List(r.Context(), q.Get("section"), offset, limit)
	if err != nil {
		s.logger.Error("list posts failed", "error", err)
		writeInternalError(w, "failed to list posts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"posts":  posts,
		"count":  len(posts),
		"offset": offset,
	})
}

// handleGetPost returns a single post by ID.
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	post, err := s.postRepo.GetByID(r.Context(), id)
	if err != nil {
		writeContentError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// handleCreatePost creates a post in a section.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.SectionID == "" || req.Content == "" {
		writeBadRequest(w, "sectionId and content are required")
		return
	}

	// Reject posts into sections that do not exist; the foreign key would
	// catch it anyway, but this gives the client a real status.
	if _, err := s.sectionRepo.GetByID(r.Context(), req.SectionID); err != nil {
		writeContentError(w, err)
		return
	}

	post := &content.Post{
		SectionID: req.SectionID,
		Title:     req.Title,
		Content:   req.Content,
	}
	if req.PublishDate != nil {
		post.PublishDate = *req.PublishDate
	}

	if err := s.postRepo.Create(r.Context(), post); err != nil {
		s.logger.Error("creating post failed", "error", err)
		writeInternalError(w, "failed to create post")
		return
	}

	claims := claimsFromContext(r.Context())
	s.auditEvent(audit.ActionCreate, audit.EntityPost, post.ID, claims.ID,
		map[string]any{"section_id": post.SectionID})

	writeJSON(w, http.StatusCreated, post)
}

// handleUpdatePost applies a partial update to a post. Absent fields keep
// their stored values.
func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	post, err := s.postRepo.GetByID(r.Context(), id)
	if err != nil {
		writeContentError(w, err)
		return
	}

	if req.SectionID != nil {
		if _, err := s.sectionRepo.GetByID(r.Context(), *req.SectionID); err != nil {
			writeContentError(w, err)
			return
		}
		post.SectionID = *req.SectionID
	}
	if req.Title != nil {
		post.Title = req.Title
	}
	if req.PublishDate != nil {
		post.PublishDate = *req.PublishDate
	}
	if req.Content != nil {
		post.Content = *req.Content
	}

	if err := s.postRepo.Update(r.Context(), post); err != nil {
		if errors.Is(err, content.ErrPostNotFound) {
			writeNotFound(w, "post not found")
			return
		}
		s.logger.Error("updating post failed", "id", id, "error", err)
		writeInternalError(w, "failed to update post")
		return
	}

	claims := claimsFromContext(r.Context())
	s.auditEvent(audit.ActionUpdate, audit.EntityPost, post.ID, claims.ID, nil)

	writeJSON(w, http.StatusOK, post)
}

// handleDeletePost removes a post.
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.postRepo.Delete(r.Context(), id); err != nil {
		writeContentError(w, err)
		return
	}

	claims := claimsFromContext(r.Context())
	s.auditEvent(audit.ActionDelete, audit.EntityPost, id, claims.ID, nil)

	writeJSON(w, http.StatusNoContent, nil)
}
