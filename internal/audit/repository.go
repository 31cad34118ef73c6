// Package audit records security-relevant events: logins, token refreshes,
// replay detections and admin mutations. Writes are best-effort; the trail
// supports investigation, it does not gate requests.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Actions recorded in the trail.
const (
	ActionLogin   = "login"
	ActionRefresh = "refresh"
	ActionReplay  = "replay"
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
)

// Entity types events attach to.
const (
	EntityUser    = "user"
	EntitySection = "section"
	EntityPost    = "post"
)

// Event is a single audit trail entry.
type Event struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id,omitempty"`
	UserID     string         `json:"user_id,omitempty"`
	Source     string         `json:"source"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Filter controls which events to return.
type Filter struct {
	Action     string
	EntityType string
	EntityID   string
	Limit      int // default 50, max 200
	Offset     int
}

// ListResult contains a page of events with the total match count.
type ListResult struct {
	Events []Event `json:"events"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

// Default and maximum page sizes for event listing.
const (
	defaultLimit = 50
	maxLimit     = 200
)

// Repository defines the interface for audit event persistence.
type Repository interface {
	Create(ctx context.Context, event *Event) error
	List(ctx context.Context, filter Filter) (*ListResult, error)
}

// SQLiteRepository stores audit events in SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new audit event repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts an event. ID and CreatedAt are generated if empty.
func (r *SQLiteRepository) Create(ctx context.Context, event *Event) error {
	if event.ID == "" {
		event.ID = "aud-" + uuid.NewString()[:8]
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	var detailsJSON any
	if event.Details != nil {
		b, err := json.Marshal(event.Details)
		if err != nil {
			return fmt.Errorf("marshalling audit details: %w", err)
		}
		detailsJSON = string(b)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, action, entity_type, entity_id, user_id, source, details, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Action, event.EntityType,
		nullableString(event.EntityID), nullableString(event.UserID),
		event.Source, detailsJSON,
		event.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting audit event: %w", err)
	}

	return nil
}

// nullableString returns nil for empty strings, for nullable TEXT columns.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// List returns events matching the filter, most recent first.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) (*ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	var conditions []string
	var args []any

	if filter.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, filter.Action)
	}
	if filter.EntityType != "" {
		conditions = append(conditions, "entity_type = ?")
		args = append(args, filter.EntityType)
	}
	if filter.EntityID != "" {
		conditions = append(conditions, "entity_id = ?")
		args = append(args, filter.EntityID)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM audit_logs " + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting audit events: %w", err)
	}

	query := "SELECT id, action, entity_type, entity_id, user_id, source, details, created_at FROM audit_logs " +
		where + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		var entityID, userID, detailsJSON sql.NullString
		var createdAt string

		if err := rows.Scan(&event.ID, &event.Action, &event.EntityType,
			&entityID, &userID, &event.Source, &detailsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning audit event: %w", err)
		}

		if entityID.Valid {
			event.EntityID = entityID.String
		}
		if userID.Valid {
			event.UserID = userID.String
		}
		if detailsJSON.Valid && detailsJSON.String != "" {
			var details map[string]any
			if json.Unmarshal([]byte(detailsJSON.String), &details) == nil {
				event.Details = details
			}
		}

		event.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing audit event timestamp %q: %w", createdAt, err)
		}

		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit events: %w", err)
	}

	if events == nil {
		events = []Event{}
	}

	return &ListResult{
		Events: events,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}
