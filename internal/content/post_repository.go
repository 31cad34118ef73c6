package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Default and maximum page sizes for post listing.
const (
	DefaultPostLimit = 20
	MaxPostLimit     = 100
)

// PostRepository defines the interface for post persistence.
type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id string) (*Post, error)

	// List returns posts newest first. An empty sectionID lists across all
	// sections. Offset and limit page the result; limit is clamped to
	// MaxPostLimit and defaults to DefaultPostLimit when zero or negative.
	List(ctx context.Context, sectionID string, offset, limit int) ([]Post, error)

	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id string) error
}

// SQLitePostRepository implements PostRepository using SQLite.
type SQLitePostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new SQLite-backed post repository.
func NewPostRepository(db *sql.DB) *SQLitePostRepository {
	return &SQLitePostRepository{db: db}
}

// Create stores a new post, assigning an ID and timestamps.
func (r *SQLitePostRepository) Create(ctx context.Context, post *Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.PublishDate.IsZero() {
		post.PublishDate = time.Now().UTC()
	}

	now := time.Now().UTC().Format(time.RFC3339)
	post.CreatedAt, _ = time.Parse(time.RFC3339, now)
	post.UpdatedAt = post.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, section_id, title, publish_date, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.SectionID, post.Title,
		post.PublishDate.UTC().Format(time.RFC3339), post.Content, now, now,
	)
	if err != nil {
		return fmt.Errorf("creating post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by its ID.
func (r *SQLitePostRepository) GetByID(ctx context.Context, id string) (*Post, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, section_id, title, publish_date, content, created_at, updated_at
		 FROM posts WHERE id = ?`, id)

	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("getting post: %w", err)
	}
	return post, nil
}

// List returns a page of posts ordered by publish date, newest first.
func (r *SQLitePostRepository) List(ctx context.Context, sectionID string, offset, limit int) ([]Post, error) {
	if limit <= 0 {
		limit = DefaultPostLimit
	}
	if limit > MaxPostLimit {
		limit = MaxPostLimit
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT id, section_id, title, publish_date, content, created_at, updated_at
	          FROM posts`
	args := []any{}
	if sectionID != "" {
		query += " WHERE section_id = ?"
		args = append(args, sectionID)
	}
	query += " ORDER BY publish_date DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating posts: %w", err)
	}

	if posts == nil {
		posts = []Post{}
	}
	return posts, nil
}

// Update rewrites a post's mutable fields: section, title, publish date
// and content.
func (r *SQLitePostRepository) Update(ctx context.Context, post *Post) error {
	now := time.Now().UTC().Format(time.RFC3339)
	post.UpdatedAt, _ = time.Parse(time.RFC3339, now)

	result, err := r.db.ExecContext(ctx,
		`UPDATE posts SET section_id = ?, title = ?, publish_date = ?, content = ?, updated_at = ?
		 WHERE id = ?`,
		post.SectionID, post.Title,
		post.PublishDate.UTC().Format(time.RFC3339), post.Content, now, post.ID,
	)
	if err != nil {
		return fmt.Errorf("updating post: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Delete removes a post.
func (r *SQLitePostRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrPostNotFound
	}
	return nil
}

func scanPost(s scanner) (*Post, error) {
	var post Post
	var title sql.NullString
	var publishDate, createdAt, updatedAt string

	if err := s.Scan(&post.ID, &post.SectionID, &title, &publishDate,
		&post.Content, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if title.Valid {
		post.Title = &title.String
	}
	post.PublishDate, _ = time.Parse(time.RFC3339, publishDate)
	post.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	post.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return &post, nil
}
