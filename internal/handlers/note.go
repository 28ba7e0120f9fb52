package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"notemind-ai/internal/contextutil"
	"notemind-ai/internal/indexer"
	"notemind-ai/internal/storage"
	"notemind-ai/internal/suggest"
	"notemind-ai/internal/tasks"
)

// NoteHandler handles the note lifecycle endpoints. Create and update dispatch
// RAG processing as a detached task; delete clears chunks synchronously so a
// deleted note can never come back in retrieval.
type NoteHandler struct {
	noteRepo storage.NoteStore
	pipeline *indexer.Pipeline
	runner   *tasks.Runner
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(noteRepo storage.NoteStore, pipeline *indexer.Pipeline, runner *tasks.Runner) *NoteHandler {
	return &NoteHandler{
		noteRepo: noteRepo,
		pipeline: pipeline,
		runner:   runner,
	}
}

// NoteRequest represents the HTTP payload for creating or updating a note.
type NoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NoteResponse represents a note in HTTP responses.
type NoteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func noteResponse(note *storage.NoteRecord) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// Create handles POST /api/notes.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	ownerID := contextutil.OwnerFromContext(ctx)

	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		// Untitled notes get the first markdown heading of their body.
		title = indexer.ExtractTitle([]byte(req.Content))
	}
	if title == "" {
		title = "Untitled"
	}

	note := &storage.NoteRecord{
		OwnerID: ownerID,
		Title:   title,
		Content: req.Content,
	}
	if err := h.noteRepo.Create(ctx, note); err != nil {
		writeServiceError(w, r, err, "Failed to create note")
		return
	}

	h.dispatchProcessing(note.ID, ownerID)

	created, err := h.noteRepo.GetByIDForOwner(ctx, note.ID, ownerID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load created note")
		return
	}

	logger.InfoContext(ctx, "note created", "note_id", note.ID, "title", title)
	writeJSON(w, http.StatusCreated, noteResponse(created))
}

// Update handles PUT /api/notes/{id}.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	ownerID := contextutil.OwnerFromContext(ctx)
	noteID := chi.URLParam(r, "id")

	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	existing, err := h.noteRepo.GetByIDForOwner(ctx, noteID, ownerID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load note")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = existing.Title
	}

	note := &storage.NoteRecord{
		ID:      noteID,
		OwnerID: ownerID,
		Title:   title,
		Content: req.Content,
	}
	if err := h.noteRepo.Update(ctx, note); err != nil {
		writeServiceError(w, r, err, "Failed to update note")
		return
	}

	// Re-chunk only when the body changed; a pure title edit doesn't move
	// chunk boundaries.
	if existing.Content != req.Content {
		h.dispatchProcessing(noteID, ownerID)
	}

	updated, err := h.noteRepo.GetByIDForOwner(ctx, noteID, ownerID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load updated note")
		return
	}

	logger.InfoContext(ctx, "note updated", "note_id", noteID, "content_changed", existing.Content != req.Content)
	writeJSON(w, http.StatusOK, noteResponse(updated))
}

// Delete handles DELETE /api/notes/{id}.
// Chunks are cleared before the soft-delete so no retrievable chunks of a
// deleted note can survive.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	ownerID := contextutil.OwnerFromContext(ctx)
	noteID := chi.URLParam(r, "id")

	if _, err := h.noteRepo.GetByIDForOwner(ctx, noteID, ownerID); err != nil {
		writeServiceError(w, r, err, "Failed to load note")
		return
	}

	if err := h.pipeline.DeleteNoteChunks(ctx, noteID, ownerID); err != nil {
		writeServiceError(w, r, err, "Failed to delete note chunks")
		return
	}

	if err := h.noteRepo.SoftDelete(ctx, noteID, ownerID); err != nil {
		writeServiceError(w, r, err, "Failed to delete note")
		return
	}

	logger.InfoContext(ctx, "note deleted", "note_id", noteID)
	w.WriteHeader(http.StatusNoContent)
}

// Get handles GET /api/notes/{id}.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := contextutil.OwnerFromContext(ctx)
	noteID := chi.URLParam(r, "id")

	note, err := h.noteRepo.GetByIDForOwner(ctx, noteID, ownerID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load note")
		return
	}

	writeJSON(w, http.StatusOK, noteResponse(note))
}

// List handles GET /api/notes.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := contextutil.OwnerFromContext(ctx)

	notes, err := h.noteRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to list notes")
		return
	}

	resp := make([]NoteResponse, 0, len(notes))
	for _, note := range notes {
		resp = append(resp, noteResponse(note))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Suggestions handles GET /api/notes/{id}/suggestions.
// Existing tags can be passed as a comma-separated "existing" query parameter.
func (h *NoteHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := contextutil.OwnerFromContext(ctx)
	noteID := chi.URLParam(r, "id")

	note, err := h.noteRepo.GetByIDForOwner(ctx, noteID, ownerID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load note")
		return
	}

	var existing []string
	if raw := r.URL.Query().Get("existing"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				existing = append(existing, tag)
			}
		}
	}

	writeJSON(w, http.StatusOK, suggest.Suggest(note.Content, existing))
}

// dispatchProcessing submits RAG processing as a fire-and-forget task.
// Failures are logged by the runner and never reach the HTTP response path.
func (h *NoteHandler) dispatchProcessing(noteID, ownerID string) {
	h.runner.Submit("process-note", func(ctx context.Context) error {
		return h.pipeline.ProcessNote(ctx, noteID, ownerID)
	})
}
