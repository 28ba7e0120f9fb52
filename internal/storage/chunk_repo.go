package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks notemind-ai/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// ChunkStore defines the interface for chunk storage operations.
type ChunkStore interface {
	// InsertAll inserts a batch of chunks. Chunk IDs must be set by the caller.
	InsertAll(ctx context.Context, chunks []*ChunkRecord) error
	// DeleteByNote deletes all chunks scoped to (noteID, ownerID).
	// Deleting zero chunks is a no-op, not an error.
	DeleteByNote(ctx context.Context, noteID, ownerID string) error
	// ListIDsByNote returns all chunk IDs for a note, ordered by chunk_index.
	ListIDsByNote(ctx context.Context, noteID, ownerID string) ([]string, error)
	// GetByID gets a chunk with its note title. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*Candidate, error)
	// FindCandidates fetches up to 2*limit candidate chunks for scoring.
	// A chunk qualifies when its content contains the full query, its note's
	// title contains the full query, or its content contains any keyword
	// (all case-insensitive). Candidates come back most recent first.
	FindCandidates(ctx context.Context, ownerID, query string, keywords []string, limit int) ([]Candidate, error)
}

// ChunkRepo provides methods for chunk operations.
// It implements the ChunkStore interface.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// InsertAll inserts a batch of chunks. Chunk IDs must be set by the caller.
func (r *ChunkRepo) InsertAll(ctx context.Context, chunks []*ChunkRecord) error {
	for _, chunk := range chunks {
		embedding, err := encodeEmbedding(chunk.Embedding)
		if err != nil {
			return fmt.Errorf("failed to encode embedding: %w", err)
		}

		_, err = r.db.ExecContext(ctx,
			`INSERT INTO chunks (id, note_id, owner_id, chunk_index, heading, content, embedding)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			chunk.ID, chunk.NoteID, chunk.OwnerID, chunk.ChunkIndex, chunk.Heading, chunk.Content, embedding,
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk: %w", err)
		}
	}
	return nil
}

// DeleteByNote deletes all chunks scoped to (noteID, ownerID).
// Used both before re-chunking and when the note itself is deleted.
func (r *ChunkRepo) DeleteByNote(ctx context.Context, noteID, ownerID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM chunks WHERE note_id = ? AND owner_id = ?",
		noteID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete chunks by note: %w", err)
	}
	return nil
}

// ListIDsByNote returns all chunk IDs for a note, ordered by chunk_index.
// Returns an empty slice if no chunks exist (not an error).
// Used to get Qdrant point IDs for deletion before re-chunking.
func (r *ChunkRepo) ListIDsByNote(ctx context.Context, noteID, ownerID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id FROM chunks WHERE note_id = ? AND owner_id = ? ORDER BY chunk_index",
		noteID, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk IDs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan chunk ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// GetByID gets a chunk with its note title. Returns ErrNotFound if not found.
func (r *ChunkRepo) GetByID(ctx context.Context, id string) (*Candidate, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT c.id, c.note_id, c.owner_id, c.chunk_index, c.heading, c.content, c.embedding, c.created_at, n.title
		 FROM chunks c JOIN notes n ON n.id = c.note_id
		 WHERE c.id = ? AND n.is_deleted = 0`,
		id,
	)

	candidate, err := scanCandidate(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk: %w", err)
	}
	return candidate, nil
}

// FindCandidates fetches up to 2*limit candidate chunks for scoring.
// The cap applies before scoring, so a relevant old chunk can lose its slot to
// newer weak matches; that matches the retrieval contract.
func (r *ChunkRepo) FindCandidates(ctx context.Context, ownerID, query string, keywords []string, limit int) ([]Candidate, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0")
	}

	conditions := []string{
		"instr(lower(c.content), lower(?)) > 0",
		"instr(lower(n.title), lower(?)) > 0",
	}
	args := []any{ownerID, query, query}
	for _, kw := range keywords {
		conditions = append(conditions, "instr(lower(c.content), ?) > 0")
		args = append(args, kw)
	}
	args = append(args, 2*limit)

	stmt := fmt.Sprintf(
		`SELECT c.id, c.note_id, c.owner_id, c.chunk_index, c.heading, c.content, c.embedding, c.created_at, n.title
		 FROM chunks c JOIN notes n ON n.id = c.note_id
		 WHERE c.owner_id = ? AND n.is_deleted = 0 AND (%s)
		 ORDER BY c.created_at DESC, c.chunk_index ASC
		 LIMIT ?`,
		strings.Join(conditions, " OR "),
	)

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var candidates []Candidate
	for rows.Next() {
		candidate, err := scanCandidate(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *candidate)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return candidates, nil
}

// scanCandidate scans a chunk row joined with its note title.
func scanCandidate(scan func(dest ...any) error) (*Candidate, error) {
	var candidate Candidate
	var heading sql.NullString
	var embedding string
	var createdAtStr string

	err := scan(
		&candidate.Chunk.ID, &candidate.Chunk.NoteID, &candidate.Chunk.OwnerID,
		&candidate.Chunk.ChunkIndex, &heading, &candidate.Chunk.Content,
		&embedding, &createdAtStr, &candidate.NoteTitle,
	)
	if err != nil {
		return nil, err
	}

	candidate.Chunk.Heading = heading.String
	if candidate.Chunk.Embedding, err = decodeEmbedding(embedding); err != nil {
		return nil, fmt.Errorf("failed to decode embedding: %w", err)
	}
	if candidate.Chunk.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
	}

	return &candidate, nil
}

// encodeEmbedding serializes a vector as JSON for the embedding column.
// An empty vector is stored as the empty string (text-search-only mode).
func encodeEmbedding(vec []float32) (string, error) {
	if len(vec) == 0 {
		return "", nil
	}
	data, err := json.Marshal(vec)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeEmbedding deserializes the embedding column.
func decodeEmbedding(value string) ([]float32, error) {
	if value == "" {
		return nil, nil
	}
	var vec []float32
	if err := json.Unmarshal([]byte(value), &vec); err != nil {
		return nil, err
	}
	return vec, nil
}
