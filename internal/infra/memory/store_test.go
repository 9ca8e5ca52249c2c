package memory

import (
	"context"
	"errors"
	"testing"

	"classroom-service/internal/domain"
)

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore[domain.Note]()

	_ = store.Create(ctx, domain.Note{ID: "n1", Title: "first", TeacherID: "t1"})
	_ = store.Create(ctx, domain.Note{ID: "n2", Title: "second", TeacherID: "t2"})
	_ = store.Create(ctx, domain.Note{ID: "n3", Title: "third", TeacherID: "t1"})

	all, _ := store.List(ctx)
	if len(all) != 3 || all[0].ID != "n3" || all[2].ID != "n1" {
		t.Fatalf("expected newest first, got %+v", all)
	}

	mine, _ := store.ListByOwner(ctx, "t1")
	if len(mine) != 2 {
		t.Fatalf("expected 2 records for t1, got %d", len(mine))
	}

	many, _ := store.GetMany(ctx, []string{"n1", "missing"})
	if len(many) != 1 || many["n1"].Title != "first" {
		t.Fatalf("unexpected GetMany result %+v", many)
	}

	if err := store.Delete(ctx, "n2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "n2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := store.Update(ctx, domain.Note{ID: "n2"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected update of missing record to fail, got %v", err)
	}
}

func TestUserStoreRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	if err := store.Create(ctx, domain.User{ID: "u1", Email: "a@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := store.Create(ctx, domain.User{ID: "u2", Email: "A@example.com"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for duplicate email, got %v", err)
	}

	user, err := store.GetByEmail(ctx, "a@example.com")
	if err != nil || user.ID != "u1" {
		t.Fatalf("expected u1, got %+v %v", user, err)
	}
	if _, err := store.Get(ctx, "u2"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}
