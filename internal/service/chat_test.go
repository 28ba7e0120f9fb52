package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	llm_mocks "notemind-ai/internal/llm/mocks"
	"notemind-ai/internal/rag"
	rag_mocks "notemind-ai/internal/rag/mocks"

	"go.uber.org/mock/gomock"

	"notemind-ai/internal/llm"
)

func TestChatService_Ask_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewChatService(rag_mocks.NewMockEngine(ctrl), llm_mocks.NewMockChatClient(ctrl))

	tests := []struct {
		name string
		req  AskRequest
	}{
		{name: "empty question", req: AskRequest{OwnerID: "owner-1"}},
		{name: "empty owner", req: AskRequest{Question: "what?"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Ask(context.Background(), tt.req)
			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Errorf("Ask() error = %v, want ValidationError", err)
			}
		})
	}
}

func TestChatService_Ask_WithContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := rag_mocks.NewMockEngine(ctrl)
	mockClient := llm_mocks.NewMockChatClient(ctrl)
	svc := NewChatService(mockEngine, mockClient)

	ctx := context.Background()
	citations := []rag.Citation{{Title: "Work Log", Heading: "Standup"}}
	mockEngine.EXPECT().
		BuildChatContext(ctx, "what did I plan?", "owner-1", 500).
		Return(rag.ChatContext{Context: "--- Work Log > Standup ---\nship it", Citations: citations}, nil)
	mockClient.EXPECT().
		ChatWithMessages(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, messages []llm.ChatMessage) (string, error) {
			if len(messages) != 2 {
				t.Fatalf("got %d messages, want 2", len(messages))
			}
			if messages[0].Role != "system" || !strings.Contains(messages[0].Content, "provided context") {
				t.Errorf("system message = %+v, want context prompt", messages[0])
			}
			if !strings.Contains(messages[1].Content, "--- Context from notes ---") ||
				!strings.Contains(messages[1].Content, "ship it") {
				t.Errorf("user message = %q, missing context block", messages[1].Content)
			}
			return "You planned to ship it.", nil
		})

	resp, err := svc.Ask(ctx, AskRequest{Question: "what did I plan?", OwnerID: "owner-1", MaxTokens: 500})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if resp.Answer != "You planned to ship it." {
		t.Errorf("Answer = %q", resp.Answer)
	}
	if len(resp.Citations) != 1 || resp.Citations[0].Title != "Work Log" {
		t.Errorf("Citations = %+v", resp.Citations)
	}
}

func TestChatService_Ask_NoContextUsesGenericPrompt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := rag_mocks.NewMockEngine(ctrl)
	mockClient := llm_mocks.NewMockChatClient(ctrl)
	svc := NewChatService(mockEngine, mockClient)

	ctx := context.Background()
	// Default budget applies when the request leaves MaxTokens unset.
	mockEngine.EXPECT().
		BuildChatContext(ctx, "anything?", "owner-1", defaultContextTokens).
		Return(rag.ChatContext{Context: "", Citations: []rag.Citation{}}, nil)
	mockClient.EXPECT().
		ChatWithMessages(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, messages []llm.ChatMessage) (string, error) {
			if !strings.Contains(messages[0].Content, "no matching") {
				t.Errorf("system message = %q, want generic prompt", messages[0].Content)
			}
			if messages[1].Content != "anything?" {
				t.Errorf("user message = %q, want bare question", messages[1].Content)
			}
			return "General knowledge answer.", nil
		})

	resp, err := svc.Ask(ctx, AskRequest{Question: "anything?", OwnerID: "owner-1"})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if resp.Answer != "General knowledge answer." {
		t.Errorf("Answer = %q", resp.Answer)
	}
	if resp.Citations == nil || len(resp.Citations) != 0 {
		t.Errorf("Citations = %v, want empty non-nil", resp.Citations)
	}
}

func TestChatService_Ask_LLMFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := rag_mocks.NewMockEngine(ctrl)
	mockClient := llm_mocks.NewMockChatClient(ctrl)
	svc := NewChatService(mockEngine, mockClient)

	ctx := context.Background()
	mockEngine.EXPECT().
		BuildChatContext(ctx, "question", "owner-1", defaultContextTokens).
		Return(rag.ChatContext{Context: "", Citations: []rag.Citation{}}, nil)
	mockClient.EXPECT().
		ChatWithMessages(ctx, gomock.Any()).
		Return("", errors.New("provider timeout"))

	if _, err := svc.Ask(ctx, AskRequest{Question: "question", OwnerID: "owner-1"}); err == nil {
		t.Fatal("Ask() expected error when LLM fails")
	}
}

func TestChatService_Ask_RetrievalFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEngine := rag_mocks.NewMockEngine(ctrl)
	mockClient := llm_mocks.NewMockChatClient(ctrl)
	svc := NewChatService(mockEngine, mockClient)

	ctx := context.Background()
	mockEngine.EXPECT().
		BuildChatContext(ctx, "question", "owner-1", defaultContextTokens).
		Return(rag.ChatContext{}, errors.New("database locked"))

	if _, err := svc.Ask(ctx, AskRequest{Question: "question", OwnerID: "owner-1"}); err == nil {
		t.Fatal("Ask() expected error when retrieval fails")
	}
}
