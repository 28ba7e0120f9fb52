package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks notemind-ai/internal/rag Engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"notemind-ai/internal/contextutil"
	"notemind-ai/internal/indexer"
	"notemind-ai/internal/llm"
	"notemind-ai/internal/storage"
	"notemind-ai/internal/vectorstore"
)

const (
	// defaultLimit is the result count when the caller doesn't specify one.
	defaultLimit = 5
	// contextCandidates is how many ranked chunks the assembler considers.
	contextCandidates = 10
	// chunkOverheadTokens is the fixed per-chunk budget cost for the header
	// line added around each included chunk.
	chunkOverheadTokens = 20
)

// Engine retrieves relevant chunks and assembles LLM context from them.
type Engine interface {
	// Search returns up to limit chunks ranked by relevance to the query.
	Search(ctx context.Context, query, ownerID string, limit int) ([]RetrievalResult, error)
	// BuildChatContext packs ranked chunks into a token-bounded context block.
	// Zero matching chunks yields {Context: "", Citations: []} so the caller
	// can fall back to a generic prompt.
	BuildChatContext(ctx context.Context, query, ownerID string, maxTokens int) (ChatContext, error)
}

// engine implements the Engine interface.
type engine struct {
	chunkRepo   storage.ChunkStore
	gateway     *llm.Gateway
	vectorStore vectorstore.VectorStore
	collection  string
	logger      *slog.Logger
}

// NewEngine creates a new retrieval engine.
func NewEngine(
	chunkRepo storage.ChunkStore,
	gateway *llm.Gateway,
	vectorStore vectorstore.VectorStore,
	collection string,
) Engine {
	return &engine{
		chunkRepo:   chunkRepo,
		gateway:     gateway,
		vectorStore: vectorStore,
		collection:  collection,
		logger:      slog.Default(),
	}
}

// Search prefers vector similarity when the embedding gateway is live, and
// falls back to scored text matching whenever vectors are unavailable, the
// vector search fails, or it finds nothing. Retrieval degrades, it never fails
// outright: a blank query returns empty results, not an error.
func (e *engine) Search(ctx context.Context, query, ownerID string, limit int) ([]RetrievalResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	query = strings.TrimSpace(query)
	if query == "" {
		return []RetrievalResult{}, nil
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	if e.gateway.IsEnabled() {
		vectors := e.gateway.EmbedTexts(ctx, []string{query})
		if len(vectors) > 0 && len(vectors[0]) > 0 {
			results, err := e.vectorSearch(ctx, vectors[0], ownerID, limit)
			if err != nil {
				logger.WarnContext(ctx, "vector search failed, falling back to text search", "error", err)
			} else if len(results) > 0 {
				logger.DebugContext(ctx, "vector search completed", "results", len(results))
				return results, nil
			}
		}
	}

	return e.textSearch(ctx, query, ownerID, limit)
}

// vectorSearch queries the vector index and hydrates chunk content from the
// chunk store. Points whose chunk no longer resolves (stale index entries,
// deleted notes) are skipped.
func (e *engine) vectorSearch(ctx context.Context, queryVec []float32, ownerID string, limit int) ([]RetrievalResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	hits, err := e.vectorStore.Search(ctx, e.collection, queryVec, limit, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to search vector store: %w", err)
	}

	results := make([]RetrievalResult, 0, len(hits))
	for _, hit := range hits {
		chunkID, _ := hit.Meta["chunk_id"].(string)
		if chunkID == "" {
			continue
		}

		candidate, err := e.chunkRepo.GetByID(ctx, chunkID)
		if err != nil {
			logger.WarnContext(ctx, "skipping unresolvable chunk", "chunk_id", chunkID, "error", err)
			continue
		}

		results = append(results, RetrievalResult{
			ChunkID:    candidate.Chunk.ID,
			NoteID:     candidate.Chunk.NoteID,
			NoteTitle:  candidate.NoteTitle,
			Heading:    candidate.Chunk.Heading,
			ChunkIndex: candidate.Chunk.ChunkIndex,
			Content:    candidate.Chunk.Content,
			Similarity: clampSimilarity(float64(hit.Score)),
		})
	}

	return results, nil
}

// textSearch is the scored keyword fallback and the path that must always work.
// Candidates arrive capped at 2*limit in recency order; scoring is stable, so
// equal scores keep that recency order.
func (e *engine) textSearch(ctx context.Context, query, ownerID string, limit int) ([]RetrievalResult, error) {
	keywords := tokenizeQuery(query)

	candidates, err := e.chunkRepo.FindCandidates(ctx, ownerID, query, keywords, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}

	results := make([]RetrievalResult, 0, len(candidates))
	for _, candidate := range candidates {
		similarity := scoreCandidate(query, keywords, candidate)
		if similarity <= noiseFloor {
			continue
		}
		results = append(results, RetrievalResult{
			ChunkID:    candidate.Chunk.ID,
			NoteID:     candidate.Chunk.NoteID,
			NoteTitle:  candidate.NoteTitle,
			Heading:    candidate.Chunk.Heading,
			ChunkIndex: candidate.Chunk.ChunkIndex,
			Content:    candidate.Chunk.Content,
			Similarity: similarity,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// BuildChatContext greedily packs ranked chunks into a context string.
//
// Packing walks candidates in rank order and stops at the first chunk that
// would exceed the budget; lower-ranked chunks are discarded even if they
// would individually fit, which keeps the highest-relevance content at the
// front of the model's context window. Each included chunk costs its estimated
// tokens plus a fixed header overhead against the budget.
func (e *engine) BuildChatContext(ctx context.Context, query, ownerID string, maxTokens int) (ChatContext, error) {
	logger := contextutil.LoggerFromContext(ctx)

	results, err := e.Search(ctx, query, ownerID, contextCandidates)
	if err != nil {
		return ChatContext{}, err
	}
	if len(results) == 0 {
		return ChatContext{Context: "", Citations: []Citation{}}, nil
	}

	var parts []string
	citations := make([]Citation, 0, len(results))
	running := 0

	for _, result := range results {
		cost := indexer.EstimateTokens(result.Content)
		if running+cost > maxTokens {
			break
		}

		header := result.NoteTitle
		if result.Heading != "" {
			header += " > " + result.Heading
		}
		parts = append(parts, fmt.Sprintf("--- %s ---\n%s", header, result.Content))
		citations = append(citations, Citation{Title: result.NoteTitle, Heading: result.Heading})
		running += cost + chunkOverheadTokens
	}

	logger.DebugContext(ctx, "assembled chat context", "chunks", len(citations), "candidates", len(results), "tokens_estimate", running)

	return ChatContext{
		Context:   strings.Join(parts, "\n\n"),
		Citations: citations,
	}, nil
}

// clampSimilarity clamps a raw vector score into [0, 1] so RetrievalResult
// carries one similarity contract across both retrieval paths.
func clampSimilarity(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
