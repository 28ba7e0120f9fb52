package indexer

import (
	"context"
	"fmt"
	"log/slog"

	"notemind-ai/internal/contextutil"
	"notemind-ai/internal/llm"
	"notemind-ai/internal/storage"
	"notemind-ai/internal/vectorstore"
)

// Pipeline turns note content into retrievable chunks: chunk, embed, store.
type Pipeline struct {
	noteRepo    storage.NoteStore
	chunkRepo   storage.ChunkStore
	gateway     *llm.Gateway
	vectorStore vectorstore.VectorStore
	collection  string
	opts        Options
	logger      *slog.Logger
}

// NewPipeline creates a new note processing pipeline.
func NewPipeline(
	noteRepo storage.NoteStore,
	chunkRepo storage.ChunkStore,
	gateway *llm.Gateway,
	vectorStore vectorstore.VectorStore,
	collection string,
) *Pipeline {
	return &Pipeline{
		noteRepo:    noteRepo,
		chunkRepo:   chunkRepo,
		gateway:     gateway,
		vectorStore: vectorStore,
		collection:  collection,
		opts:        DefaultOptions(),
		logger:      slog.Default(),
	}
}

// ProcessNote (re-)chunks a note's content and replaces its stored chunks.
//
// Old chunks are always deleted before new ones are inserted, so re-processing
// is idempotent and never mixes chunk generations. A note that is missing,
// deleted, or owned by someone else returns storage.ErrNotFound to the caller;
// embedding failures never do: the gateway degrades to empty vectors and the
// chunks are stored for text search only. Blank content clears existing chunks
// and produces none, which is a no-op rather than an error.
func (p *Pipeline) ProcessNote(ctx context.Context, noteID, ownerID string) error {
	logger := contextutil.LoggerFromContext(ctx)

	note, err := p.noteRepo.GetByIDForOwner(ctx, noteID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to load note %s: %w", noteID, err)
	}

	if err := p.clearChunks(ctx, noteID, ownerID); err != nil {
		return err
	}

	chunks := ChunkText(note.Content, noteID, p.opts)
	if len(chunks) == 0 {
		logger.DebugContext(ctx, "no chunks produced", "note_id", noteID)
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	// One vector per chunk; all empty when embeddings are disabled or the
	// provider call failed mid-flight.
	vectors := p.gateway.EmbedTexts(ctx, texts)

	records := make([]*storage.ChunkRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = &storage.ChunkRecord{
			ID:         chunk.ID,
			NoteID:     noteID,
			OwnerID:    ownerID,
			ChunkIndex: chunk.Index,
			Heading:    chunk.Heading,
			Content:    chunk.Content,
			Embedding:  vectors[i],
		}
	}

	if err := p.chunkRepo.InsertAll(ctx, records); err != nil {
		return fmt.Errorf("failed to insert chunks: %w", err)
	}

	if len(vectors) > 0 && len(vectors[0]) > 0 {
		points := make([]vectorstore.Point, len(chunks))
		for i, chunk := range chunks {
			points[i] = vectorstore.Point{
				ID:  vectorstore.PointID(chunk.ID),
				Vec: vectors[i],
				Meta: map[string]any{
					"chunk_id":    chunk.ID,
					"note_id":     noteID,
					"owner_id":    ownerID,
					"note_title":  note.Title,
					"heading":     chunk.Heading,
					"chunk_index": chunk.Index,
				},
			}
		}
		// The sqlite chunks are the source of truth; a vector index failure
		// only costs semantic retrieval until the next re-process.
		if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
			logger.WarnContext(ctx, "failed to upsert vectors", "note_id", noteID, "error", err)
		}
	}

	logger.InfoContext(ctx, "processed note", "note_id", noteID, "chunks", len(chunks), "embedded", p.gateway.IsEnabled())
	return nil
}

// DeleteNoteChunks removes all stored chunks and vector points for a note.
// Called before a note is soft-deleted so deleted notes fall out of retrieval.
// Safe to call when the note has no chunks.
func (p *Pipeline) DeleteNoteChunks(ctx context.Context, noteID, ownerID string) error {
	return p.clearChunks(ctx, noteID, ownerID)
}

func (p *Pipeline) clearChunks(ctx context.Context, noteID, ownerID string) error {
	logger := contextutil.LoggerFromContext(ctx)

	ids, err := p.chunkRepo.ListIDsByNote(ctx, noteID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to list chunk IDs: %w", err)
	}

	if len(ids) > 0 {
		pointIDs := make([]string, len(ids))
		for i, id := range ids {
			pointIDs[i] = vectorstore.PointID(id)
		}
		if err := p.vectorStore.Delete(ctx, p.collection, pointIDs); err != nil {
			// Stale points only surface through the vector path, which hydrates
			// from sqlite and skips ids that no longer resolve.
			logger.WarnContext(ctx, "failed to delete vector points", "note_id", noteID, "count", len(ids), "error", err)
		}
	}

	if err := p.chunkRepo.DeleteByNote(ctx, noteID, ownerID); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}

	return nil
}
