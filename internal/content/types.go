package content

import (
	"errors"
	"time"
)

// Sentinel errors for the content domain.
var (
	ErrSectionNotFound = errors.New("section not found")
	ErrPostNotFound    = errors.New("post not found")
)

// Section is a top-level grouping of posts, e.g. "blog" or "about".
type Section struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`

	// IsDefault marks the section served when no section is named.
	IsDefault bool `json:"isDefault"`

	// HasTitles controls whether posts in this section carry titles;
	// untitled sections render posts as a plain stream.
	HasTitles bool `json:"hasTitles"`
}

// Post is a single piece of published content within a section.
type Post struct {
	ID          string    `json:"id"`
	SectionID   string    `json:"sectionId"`
	Title       *string   `json:"title,omitempty"`
	PublishDate time.Time `json:"publishDate"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
