package handlers

import (
	"encoding/json"
	"net/http"

	"notemind-ai/internal/contextutil"
	"notemind-ai/internal/rag"
	"notemind-ai/internal/service"
)

// ChatHandler handles HTTP requests for chat.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ChatRequest represents the HTTP request payload for chat.
type ChatRequest struct {
	Question  string `json:"question"`
	MaxTokens int    `json:"max_tokens,omitempty"`
}

// ChatResponse represents the HTTP response payload for chat.
type ChatResponse struct {
	Answer    string         `json:"answer"`
	Citations []rag.Citation `json:"citations"`
}

// ServeHTTP handles POST /api/chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.chatService.Ask(ctx, service.AskRequest{
		Question:  req.Question,
		OwnerID:   contextutil.OwnerFromContext(ctx),
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		writeServiceError(w, r, err, "Failed to process chat request")
		return
	}

	citations := resp.Citations
	if citations == nil {
		citations = []rag.Citation{}
	}
	writeJSON(w, http.StatusOK, ChatResponse{Answer: resp.Answer, Citations: citations})
}
