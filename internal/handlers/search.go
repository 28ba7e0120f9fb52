package handlers

import (
	"encoding/json"
	"net/http"

	"notemind-ai/internal/contextutil"
	"notemind-ai/internal/rag"
)

// SearchHandler handles direct retrieval requests.
type SearchHandler struct {
	engine rag.Engine
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(engine rag.Engine) *SearchHandler {
	return &SearchHandler{engine: engine}
}

// SearchRequest represents the HTTP request payload for search.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// SearchResponse represents the HTTP response payload for search.
type SearchResponse struct {
	Results []rag.RetrievalResult `json:"results"`
}

// ServeHTTP handles POST /api/search.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	ownerID := contextutil.OwnerFromContext(ctx)

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	results, err := h.engine.Search(ctx, req.Query, ownerID, req.Limit)
	if err != nil {
		writeServiceError(w, r, err, "Failed to search")
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
