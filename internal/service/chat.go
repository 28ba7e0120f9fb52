package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService notemind-ai/internal/service ChatService

import (
	"context"
	"fmt"
	"log/slog"

	"notemind-ai/internal/contextutil"
	"notemind-ai/internal/llm"
	"notemind-ai/internal/rag"
)

// defaultContextTokens is the context budget when the request doesn't set one.
// Calibrated against the ceil(chars/4) estimate, not a real tokenizer.
const defaultContextTokens = 2000

const contextSystemPrompt = "You are a helpful assistant that answers questions based on the provided " +
	"context from the user's notes. Answer using only the information from the context below. If the " +
	"context doesn't contain enough information to answer the question, say so. Cite note titles when possible."

const genericSystemPrompt = "You are a helpful assistant for a personal note-taking app. The user's notes " +
	"contained nothing relevant to this question, so answer from general knowledge and say that no matching " +
	"notes were found."

// AskRequest represents a chat question in the domain layer.
type AskRequest struct {
	Question  string
	OwnerID   string
	MaxTokens int
}

// AskResponse represents a chat answer with its source citations.
type AskResponse struct {
	Answer    string
	Citations []rag.Citation
}

// ChatService answers questions grounded in the owner's notes.
type ChatService interface {
	// Ask builds retrieval context for the question and generates an answer.
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)
}

// chatService implements ChatService.
type chatService struct {
	engine    rag.Engine
	llmClient llm.ChatClient
	logger    *slog.Logger
}

// NewChatService creates a new ChatService.
func NewChatService(engine rag.Engine, llmClient llm.ChatClient) ChatService {
	return &chatService{
		engine:    engine,
		llmClient: llmClient,
		logger:    slog.Default(),
	}
}

// Ask answers a question using retrieved note context.
// When retrieval finds nothing, the LLM is still called with a generic prompt;
// embedding unavailability never fails a question, it only lowers result quality.
func (s *chatService) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if req.Question == "" {
		logger.WarnContext(ctx, "empty question in ask request")
		return AskResponse{}, &ValidationError{Field: "question", Message: "cannot be empty"}
	}
	if req.OwnerID == "" {
		return AskResponse{}, &ValidationError{Field: "owner", Message: "cannot be empty"}
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultContextTokens
	}

	chatCtx, err := s.engine.BuildChatContext(ctx, req.Question, req.OwnerID, maxTokens)
	if err != nil {
		logger.ErrorContext(ctx, "failed to build chat context", "error", err)
		return AskResponse{}, WrapError(err, "failed to build chat context")
	}

	var messages []llm.ChatMessage
	if chatCtx.Context == "" {
		messages = []llm.ChatMessage{
			{Role: "system", Content: genericSystemPrompt},
			{Role: "user", Content: req.Question},
		}
	} else {
		messages = []llm.ChatMessage{
			{Role: "system", Content: contextSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("%s\n\n--- Context from notes ---\n%s", req.Question, chatCtx.Context)},
		}
	}

	answer, err := s.llmClient.ChatWithMessages(ctx, messages)
	if err != nil {
		logger.ErrorContext(ctx, "failed to get LLM response", "error", err)
		return AskResponse{}, WrapError(err, "failed to get LLM response")
	}

	logger.InfoContext(ctx, "ask request processed",
		"question_length", len(req.Question),
		"citations", len(chatCtx.Citations),
		"answer_length", len(answer),
	)

	return AskResponse{
		Answer:    answer,
		Citations: chatCtx.Citations,
	}, nil
}
