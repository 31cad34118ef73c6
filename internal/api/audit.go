package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/inkwell-cms/inkwell/internal/audit"
)

// auditChanSize is the buffer size for the async audit event channel.
// Entries beyond this are dropped (best-effort) to avoid back-pressure on
// requests.
const auditChanSize = 256

// auditEvent enqueues an audit event for asynchronous write (best-effort).
// If the channel is full the event is dropped and a warning is logged.
func (s *Server) auditEvent(action, entityType, entityID, userID string, details map[string]any) {
	if s.auditRepo == nil || s.auditCh == nil {
		return
	}

	event := &audit.Event{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     userID,
		Source:     "api",
		Details:    details,
	}

	select {
	case s.auditCh <- event:
	default:
		s.logger.Warn("audit event channel full, dropping entry",
			"action", action,
			"entity_type", entityType,
		)
	}
}

// drainAuditEvents reads events from the audit channel and writes them
// serially, which avoids unbounded goroutine creation and suits SQLite's
// single-writer model. It runs until the context is cancelled, then drains
// remaining events.
func (s *Server) drainAuditEvents(ctx context.Context) {
	for {
		select {
		case event := <-s.auditCh:
			if err := s.auditRepo.Create(context.Background(), event); err != nil {
				s.logger.Error("audit event write failed",
					"action", event.Action,
					"entity_type", event.EntityType,
					"error", err,
				)
			}
		case <-ctx.Done():
			for {
				select {
				case event := <-s.auditCh:
					if err := s.auditRepo.Create(context.Background(), event); err != nil {
						s.logger.Error("audit event write failed during shutdown",
							"action", event.Action,
							"error", err,
						)
					}
				default:
					return
				}
			}
		}
	}
}

// handleListAuditEvents returns paginated audit events with optional filters.
//
// Query parameters:
//   - action: filter by action (login, refresh, replay, create, update, delete)
//   - entity_type: filter by entity type (user, section, post)
//   - entity_id: filter by specific entity ID
//   - limit: max results (default 50, max 200)
//   - offset: pagination offset
func (s *Server) handleListAuditEvents(w http.ResponseWriter, r *http.Request) {
	if s.auditRepo == nil {
		writeInternalError(w, "audit trail not configured")
		return
	}

	q := r.URL.Query()
	filter := audit.Filter{
		Action:     q.Get("action"),
		EntityType: q.Get("entity_type"),
		EntityID:   q.Get("entity_id"),
	}

	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	result, err := s.auditRepo.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("failed to list audit events", "error", err)
		writeInternalError(w, "failed to list audit events")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
