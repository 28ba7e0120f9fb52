package storage

import (
	"context"
	"errors"
	"testing"
)

func TestNoteRepo_CreateAndGet(t *testing.T) {
	repo := NewNoteRepo(newTestDB(t))
	ctx := context.Background()

	note := &NoteRecord{OwnerID: "owner-1", Title: "Plans", Content: "# Plans\nDo things."}
	if err := repo.Create(ctx, note); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if note.ID == "" {
		t.Fatal("Create() did not generate an ID")
	}

	got, err := repo.GetByIDForOwner(ctx, note.ID, "owner-1")
	if err != nil {
		t.Fatalf("GetByIDForOwner() error = %v", err)
	}
	if got.Title != "Plans" || got.Content != note.Content || got.OwnerID != "owner-1" {
		t.Errorf("GetByIDForOwner() = %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("GetByIDForOwner() timestamps not populated")
	}
}

func TestNoteRepo_Create_KeepsExplicitID(t *testing.T) {
	repo := NewNoteRepo(newTestDB(t))
	ctx := context.Background()

	note := &NoteRecord{ID: "fixed-id", OwnerID: "owner-1", Title: "T", Content: "c"}
	if err := repo.Create(ctx, note); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if note.ID != "fixed-id" {
		t.Errorf("Create() replaced explicit ID with %q", note.ID)
	}
}

func TestNoteRepo_GetByIDForOwner_OwnerScoping(t *testing.T) {
	repo := NewNoteRepo(newTestDB(t))
	ctx := context.Background()

	note := &NoteRecord{OwnerID: "owner-1", Title: "Private", Content: "secret"}
	if err := repo.Create(ctx, note); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := repo.GetByIDForOwner(ctx, note.ID, "owner-2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByIDForOwner() wrong owner error = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetByIDForOwner(ctx, "missing", "owner-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByIDForOwner() missing note error = %v, want ErrNotFound", err)
	}
}

func TestNoteRepo_Update(t *testing.T) {
	repo := NewNoteRepo(newTestDB(t))
	ctx := context.Background()

	note := &NoteRecord{OwnerID: "owner-1", Title: "Before", Content: "old"}
	if err := repo.Create(ctx, note); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	note.Title = "After"
	note.Content = "new"
	if err := repo.Update(ctx, note); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByIDForOwner(ctx, note.ID, "owner-1")
	if err != nil {
		t.Fatalf("GetByIDForOwner() error = %v", err)
	}
	if got.Title != "After" || got.Content != "new" {
		t.Errorf("after Update() note = %+v", got)
	}

	missing := &NoteRecord{ID: "missing", OwnerID: "owner-1"}
	if err := repo.Update(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() missing note error = %v, want ErrNotFound", err)
	}

	note.OwnerID = "owner-2"
	if err := repo.Update(ctx, note); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() wrong owner error = %v, want ErrNotFound", err)
	}
}

func TestNoteRepo_SoftDelete(t *testing.T) {
	repo := NewNoteRepo(newTestDB(t))
	ctx := context.Background()

	note := &NoteRecord{OwnerID: "owner-1", Title: "Gone", Content: "soon"}
	if err := repo.Create(ctx, note); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.SoftDelete(ctx, note.ID, "owner-1"); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}

	if _, err := repo.GetByIDForOwner(ctx, note.ID, "owner-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByIDForOwner() after delete error = %v, want ErrNotFound", err)
	}

	// Already deleted, nothing matches.
	if err := repo.SoftDelete(ctx, note.ID, "owner-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SoftDelete() second call error = %v, want ErrNotFound", err)
	}
}

func TestNoteRepo_ListByOwner(t *testing.T) {
	repo := NewNoteRepo(newTestDB(t))
	ctx := context.Background()

	for _, n := range []*NoteRecord{
		{OwnerID: "owner-1", Title: "One", Content: "a"},
		{OwnerID: "owner-1", Title: "Two", Content: "b"},
		{OwnerID: "owner-2", Title: "Other", Content: "c"},
	} {
		if err := repo.Create(ctx, n); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	deleted := &NoteRecord{OwnerID: "owner-1", Title: "Deleted", Content: "d"}
	if err := repo.Create(ctx, deleted); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.SoftDelete(ctx, deleted.ID, "owner-1"); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}

	notes, err := repo.ListByOwner(ctx, "owner-1")
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("ListByOwner() = %d notes, want 2", len(notes))
	}
	for _, n := range notes {
		if n.OwnerID != "owner-1" {
			t.Errorf("ListByOwner() leaked note for %s", n.OwnerID)
		}
		if n.Title == "Deleted" {
			t.Error("ListByOwner() returned a soft-deleted note")
		}
	}
}
