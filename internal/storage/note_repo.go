package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_note_store.go -package=mocks notemind-ai/internal/storage NoteStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// NoteStore defines the interface for note storage operations.
// All reads and mutations are scoped by owner; soft-deleted notes are invisible.
type NoteStore interface {
	// Create inserts a new note. Generates a UUID if note.ID is empty.
	Create(ctx context.Context, note *NoteRecord) error
	// GetByIDForOwner gets a live note by ID scoped to its owner.
	// Returns nil and ErrNotFound if missing, deleted, or owned by someone else.
	GetByIDForOwner(ctx context.Context, id, ownerID string) (*NoteRecord, error)
	// Update updates title and content of a live note. Returns ErrNotFound when
	// the note is missing, deleted, or not owned by ownerID.
	Update(ctx context.Context, note *NoteRecord) error
	// SoftDelete marks a note deleted. Returns ErrNotFound when nothing matched.
	SoftDelete(ctx context.Context, id, ownerID string) error
	// ListByOwner returns all live notes for an owner, most recently updated first.
	ListByOwner(ctx context.Context, ownerID string) ([]*NoteRecord, error)
}

// NoteRepo provides methods for note operations.
// It implements the NoteStore interface.
type NoteRepo struct {
	db *sql.DB
}

// NewNoteRepo creates a new NoteRepo.
func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{db: db}
}

// Create inserts a new note. Generates a UUID if note.ID is empty.
func (r *NoteRepo) Create(ctx context.Context, note *NoteRecord) error {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (id, owner_id, title, content) VALUES (?, ?, ?, ?)`,
		note.ID, note.OwnerID, note.Title, note.Content,
	)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

// GetByIDForOwner gets a live note by ID scoped to its owner.
func (r *NoteRepo) GetByIDForOwner(ctx context.Context, id, ownerID string) (*NoteRecord, error) {
	var note NoteRecord
	var createdAtStr, updatedAtStr string
	var isDeleted int

	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, title, content, is_deleted, created_at, updated_at
		 FROM notes WHERE id = ? AND owner_id = ? AND is_deleted = 0`,
		id, ownerID,
	).Scan(&note.ID, &note.OwnerID, &note.Title, &note.Content, &isDeleted, &createdAtStr, &updatedAtStr)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query note: %w", err)
	}

	note.IsDeleted = isDeleted != 0
	if note.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
	}
	if note.UpdatedAt, err = parseTimestamp(updatedAtStr); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at timestamp: %w", err)
	}

	return &note, nil
}

// Update updates title and content of a live note.
func (r *NoteRepo) Update(ctx context.Context, note *NoteRecord) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND owner_id = ? AND is_deleted = 0`,
		note.Title, note.Content, note.ID, note.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete marks a note deleted.
func (r *NoteRepo) SoftDelete(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notes SET is_deleted = 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND owner_id = ? AND is_deleted = 0`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to soft-delete note: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByOwner returns all live notes for an owner, most recently updated first.
func (r *NoteRepo) ListByOwner(ctx context.Context, ownerID string) ([]*NoteRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, title, content, is_deleted, created_at, updated_at
		 FROM notes WHERE owner_id = ? AND is_deleted = 0
		 ORDER BY updated_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var notes []*NoteRecord
	for rows.Next() {
		var note NoteRecord
		var createdAtStr, updatedAtStr string
		var isDeleted int

		if err := rows.Scan(&note.ID, &note.OwnerID, &note.Title, &note.Content, &isDeleted, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		note.IsDeleted = isDeleted != 0
		if note.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
		}
		if note.UpdatedAt, err = parseTimestamp(updatedAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse updated_at timestamp: %w", err)
		}
		notes = append(notes, &note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return notes, nil
}
