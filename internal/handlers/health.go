package handlers

import (
	"database/sql"
	"net/http"
)

// EmbeddingStatus reports whether the embedding gateway is still live.
type EmbeddingStatus interface {
	IsEnabled() bool
}

// HealthHandler reports service liveness and dependency status.
type HealthHandler struct {
	db       *sql.DB
	embNotes EmbeddingStatus
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB, embeddings EmbeddingStatus) *HealthHandler {
	return &HealthHandler{db: db, embNotes: embeddings}
}

// HealthResponse represents the health check payload.
type HealthResponse struct {
	Status     string `json:"status"`
	Database   string `json:"database"`
	Embeddings string `json:"embeddings"`
}

// ServeHTTP handles GET /health.
// A disabled embedding gateway is degraded, not unhealthy: the service keeps
// answering via text search.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Database: "ok", Embeddings: "enabled"}
	status := http.StatusOK

	if err := h.db.PingContext(r.Context()); err != nil {
		resp.Status = "unhealthy"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}

	if !h.embNotes.IsEnabled() {
		resp.Embeddings = "disabled"
	}

	writeJSON(w, status, resp)
}
