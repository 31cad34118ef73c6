package auth

import (
	"context"
	"errors"
	"testing"
)

func TestUserRepositoryCreateAndGet(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &User{Username: "alice", PasswordHash: "$argon2id$stub", Admin: true}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID == "" {
		t.Fatal("Create did not assign an ID")
	}

	byID, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.Username != "alice" || !byID.Admin || byID.Blocked {
		t.Errorf("GetByID returned %+v", byID)
	}

	byName, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if byName.ID != user.ID {
		t.Errorf("GetByUsername ID = %q, want %q", byName.ID, user.ID)
	}
}

func TestUserRepositoryUnknownUser(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if _, err := repo.GetByUsername(ctx, "nobody"); !errors.Is(err, ErrUnknownUser) {
		t.Errorf("GetByUsername: expected ErrUnknownUser, got %v", err)
	}
	if _, err := repo.GetByID(ctx, "missing-id"); !errors.Is(err, ErrUnknownUser) {
		t.Errorf("GetByID: expected ErrUnknownUser, got %v", err)
	}
	if err := repo.SetBlocked(ctx, "missing-id", true); !errors.Is(err, ErrUnknownUser) {
		t.Errorf("SetBlocked: expected ErrUnknownUser, got %v", err)
	}
}

func TestUserRepositoryDuplicateUsername(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, &User{Username: "alice", PasswordHash: "h1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := repo.Create(ctx, &User{Username: "alice", PasswordHash: "h2"})
	if !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestUserRepositorySetBlocked(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &User{Username: "alice", PasswordHash: "h"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.SetBlocked(ctx, user.ID, true); err != nil {
		t.Fatalf("SetBlocked(true): %v", err)
	}
	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.Blocked {
		t.Error("user not blocked after SetBlocked(true)")
	}

	if err := repo.SetBlocked(ctx, user.ID, false); err != nil {
		t.Fatalf("SetBlocked(false): %v", err)
	}
	got, _ = repo.GetByID(ctx, user.ID)
	if got.Blocked {
		t.Error("user still blocked after SetBlocked(false)")
	}
}

func TestUserRepositoryList(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List on empty table: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected empty list, got %d users", len(users))
	}

	for _, name := range []string{"alice", "bob", "carol"} {
		if err := repo.Create(ctx, &User{Username: name, PasswordHash: "h"}); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	users, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 3 {
		t.Errorf("List returned %d users, want 3", len(users))
	}
}

func TestUserRepositoryUpsert(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := &User{Username: "admin", PasswordHash: "hash-v1", Admin: true}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("initial Upsert: %v", err)
	}

	stored, err := repo.GetByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}

	// Block the account, then upsert again with a new hash. The blocked
	// flag must survive: bootstrap refreshes credentials, not standing.
	if err := repo.SetBlocked(ctx, stored.ID, true); err != nil {
		t.Fatalf("SetBlocked: %v", err)
	}

	second := &User{Username: "admin", PasswordHash: "hash-v2", Admin: true}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	after, err := repo.GetByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("GetByUsername after upsert: %v", err)
	}
	if after.ID != stored.ID {
		t.Errorf("upsert changed ID from %q to %q", stored.ID, after.ID)
	}
	if after.PasswordHash != "hash-v2" {
		t.Errorf("password hash = %q, want hash-v2", after.PasswordHash)
	}
	if !after.Blocked {
		t.Error("upsert cleared the blocked flag")
	}

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("expected 1 user after two upserts, got %d", len(users))
	}
}
