package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// SectionRepository defines the interface for section persistence.
type SectionRepository interface {
	Create(ctx context.Context, section *Section) error
	GetByID(ctx context.Context, id string) (*Section, error)
	List(ctx context.Context) ([]Section, error)
	Delete(ctx context.Context, id string) error
}

// SQLiteSectionRepository implements SectionRepository using SQLite.
type SQLiteSectionRepository struct {
	db *sql.DB
}

// NewSectionRepository creates a new SQLite-backed section repository.
func NewSectionRepository(db *sql.DB) *SQLiteSectionRepository {
	return &SQLiteSectionRepository{db: db}
}

// Create stores a new section, assigning an ID if none is set.
func (r *SQLiteSectionRepository) Create(ctx context.Context, section *Section) error {
	if section.ID == "" {
		section.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sections (id, title, description, is_default, has_titles)
		 VALUES (?, ?, ?, ?, ?)`,
		section.ID, section.Title, section.Description,
		boolToInt(section.IsDefault), boolToInt(section.HasTitles),
	)
	if err != nil {
		return fmt.Errorf("creating section: %w", err)
	}

	return nil
}

// GetByID retrieves a section by its ID.
func (r *SQLiteSectionRepository) GetByID(ctx context.Context, id string) (*Section, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, title, description, is_default, has_titles FROM sections WHERE id = ?", id)

	section, err := scanSection(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("getting section: %w", err)
	}
	return section, nil
}

// List returns all sections, default section first, then by title.
func (r *SQLiteSectionRepository) List(ctx context.Context) ([]Section, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title, description, is_default, has_titles FROM sections ORDER BY is_default DESC, title ASC")
	if err != nil {
		return nil, fmt.Errorf("listing sections: %w", err)
	}
	defer rows.Close()

	var sections []Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning section: %w", err)
		}
		sections = append(sections, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sections: %w", err)
	}

	if sections == nil {
		sections = []Section{}
	}
	return sections, nil
}

// Delete removes a section. Posts in the section are removed by the
// schema's ON DELETE CASCADE.
func (r *SQLiteSectionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM sections WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting section: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrSectionNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSection(s scanner) (*Section, error) {
	var section Section
	var description sql.NullString
	var isDefault, hasTitles int

	if err := s.Scan(&section.ID, &section.Title, &description, &isDefault, &hasTitles); err != nil {
		return nil, err
	}

	if description.Valid {
		section.Description = &description.String
	}
	section.IsDefault = isDefault != 0
	section.HasTitles = hasTitles != 0

	return &section, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
