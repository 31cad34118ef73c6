package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// testDB creates a temporary SQLite database with the content schema applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "content-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	migrationSQL := `
		CREATE TABLE sections (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			is_default INTEGER NOT NULL DEFAULT 0,
			has_titles INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;

		CREATE TABLE posts (
			id TEXT PRIMARY KEY,
			section_id TEXT NOT NULL,
			title TEXT,
			publish_date TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			FOREIGN KEY (section_id) REFERENCES sections(id) ON DELETE CASCADE
		) STRICT;

		CREATE INDEX idx_posts_section ON posts(section_id);
		CREATE INDEX idx_posts_publish_date ON posts(publish_date);
	`
	if _, err := db.Exec(migrationSQL); err != nil {
		t.Fatalf("applying content migration: %v", err)
	}

	return db
}

func seedSection(t *testing.T, db *sql.DB, title string, isDefault bool) *Section {
	t.Helper()

	section := &Section{Title: title, IsDefault: isDefault, HasTitles: true}
	if err := NewSectionRepository(db).Create(context.Background(), section); err != nil {
		t.Fatalf("creating section %s: %v", title, err)
	}
	return section
}

func strPtr(s string) *string { return &s }

func TestSectionRepositoryCreateAndGet(t *testing.T) {
	db := testDB(t)
	repo := NewSectionRepository(db)
	ctx := context.Background()

	section := &Section{
		Title:       "blog",
		Description: strPtr("long form writing"),
		IsDefault:   true,
		HasTitles:   true,
	}
	if err := repo.Create(ctx, section); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if section.ID == "" {
		t.Fatal("Create did not assign an ID")
	}

	got, err := repo.GetByID(ctx, section.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "blog" || !got.IsDefault || !got.HasTitles {
		t.Errorf("section = %+v", got)
	}
	if got.Description == nil || *got.Description != "long form writing" {
		t.Errorf("description = %v", got.Description)
	}
}

func TestSectionRepositoryNilDescription(t *testing.T) {
	db := testDB(t)
	repo := NewSectionRepository(db)
	ctx := context.Background()

	section := &Section{Title: "notes"}
	if err := repo.Create(ctx, section); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, section.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Description != nil {
		t.Errorf("description = %v, want nil", got.Description)
	}
}

func TestSectionRepositoryList(t *testing.T) {
	db := testDB(t)
	repo := NewSectionRepository(db)
	ctx := context.Background()

	sections, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List on empty table: %v", err)
	}
	if len(sections) != 0 {
		t.Fatalf("expected empty list, got %d", len(sections))
	}

	seedSection(t, db, "zeta", false)
	seedSection(t, db, "main", true)
	seedSection(t, db, "alpha", false)

	sections, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sections) != 3 {
		t.Fatalf("len = %d, want 3", len(sections))
	}
	if !sections[0].IsDefault {
		t.Errorf("default section not first: %+v", sections[0])
	}
	if sections[1].Title != "alpha" || sections[2].Title != "zeta" {
		t.Errorf("non-default sections not title ordered: %s, %s",
			sections[1].Title, sections[2].Title)
	}
}

func TestSectionRepositoryDelete(t *testing.T) {
	db := testDB(t)
	repo := NewSectionRepository(db)
	ctx := context.Background()

	section := seedSection(t, db, "blog", false)

	if err := repo.Delete(ctx, section.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, section.ID); !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("expected ErrSectionNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, section.ID); !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("double delete: expected ErrSectionNotFound, got %v", err)
	}
}

func TestSectionDeleteCascadesPosts(t *testing.T) {
	db := testDB(t)
	sections := NewSectionRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()

	section := seedSection(t, db, "blog", false)
	post := &Post{SectionID: section.ID, Content: "hello"}
	if err := posts.Create(ctx, post); err != nil {
		t.Fatalf("creating post: %v", err)
	}

	if err := sections.Delete(ctx, section.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := posts.GetByID(ctx, post.ID); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("post survived section delete: %v", err)
	}
}

func TestPostRepositoryCreateAndGet(t *testing.T) {
	db := testDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	section := seedSection(t, db, "blog", false)
	post := &Post{
		SectionID: section.ID,
		Title:     strPtr("first post"),
		Content:   "hello world",
	}
	if err := repo.Create(ctx, post); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if post.ID == "" {
		t.Fatal("Create did not assign an ID")
	}
	if post.PublishDate.IsZero() {
		t.Error("Create did not default the publish date")
	}

	got, err := repo.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Content != "hello world" || got.SectionID != section.ID {
		t.Errorf("post = %+v", got)
	}
	if got.Title == nil || *got.Title != "first post" {
		t.Errorf("title = %v", got.Title)
	}
}

func TestPostRepositoryUpdate(t *testing.T) {
	db := testDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	section := seedSection(t, db, "blog", false)
	post := &Post{SectionID: section.ID, Content: "draft"}
	if err := repo.Create(ctx, post); err != nil {
		t.Fatalf("Create: %v", err)
	}

	post.Content = "final"
	post.Title = strPtr("now titled")
	if err := repo.Update(ctx, post); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Content != "final" || got.Title == nil || *got.Title != "now titled" {
		t.Errorf("post = %+v", got)
	}

	missing := &Post{ID: "no-such-post", SectionID: section.ID, Content: "x"}
	if err := repo.Update(ctx, missing); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostRepositoryDelete(t *testing.T) {
	db := testDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	section := seedSection(t, db, "blog", false)
	post := &Post{SectionID: section.ID, Content: "gone soon"}
	if err := repo.Create(ctx, post); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Delete(ctx, post.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, post.ID); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("double delete: expected ErrPostNotFound, got %v", err)
	}
}

func TestPostRepositoryListPaging(t *testing.T) {
	db := testDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	section := seedSection(t, db, "blog", false)
	other := seedSection(t, db, "notes", false)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		post := &Post{
			SectionID:   section.ID,
			Content:     fmt.Sprintf("post %d", i),
			PublishDate: base.Add(time.Duration(i) * time.Hour),
		}
		if err := repo.Create(ctx, post); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := repo.Create(ctx, &Post{SectionID: other.ID, Content: "elsewhere"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	t.Run("newest first", func(t *testing.T) {
		posts, err := repo.List(ctx, section.ID, 0, 10)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(posts) != 5 {
			t.Fatalf("len = %d, want 5", len(posts))
		}
		if posts[0].Content != "post 4" || posts[4].Content != "post 0" {
			t.Errorf("order wrong: first=%q last=%q", posts[0].Content, posts[4].Content)
		}
	})

	t.Run("offset and limit", func(t *testing.T) {
		posts, err := repo.List(ctx, section.ID, 2, 2)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(posts) != 2 {
			t.Fatalf("len = %d, want 2", len(posts))
		}
		if posts[0].Content != "post 2" || posts[1].Content != "post 1" {
			t.Errorf("page wrong: %q, %q", posts[0].Content, posts[1].Content)
		}
	})

	t.Run("all sections", func(t *testing.T) {
		posts, err := repo.List(ctx, "", 0, 10)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(posts) != 6 {
			t.Errorf("len = %d, want 6", len(posts))
		}
	})

	t.Run("offset past end", func(t *testing.T) {
		posts, err := repo.List(ctx, section.ID, 100, 10)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(posts) != 0 {
			t.Errorf("len = %d, want 0", len(posts))
		}
	})

	t.Run("zero limit uses default", func(t *testing.T) {
		posts, err := repo.List(ctx, section.ID, 0, 0)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(posts) != 5 {
			t.Errorf("len = %d, want 5", len(posts))
		}
	})
}
