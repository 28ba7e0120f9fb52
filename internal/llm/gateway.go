package llm

import (
	"context"
	"log/slog"
	"sync/atomic"

	"notemind-ai/internal/contextutil"
)

// Gateway wraps an Embedder with a disable-on-failure policy.
//
// The gateway starts enabled only when the provider credential passed the
// configuration check. The first call failure trips it for the remainder of
// the process lifetime; tripped calls short-circuit and return one empty
// vector per input so callers degrade to text-search-only mode. There is no
// automatic re-enable: the only way back is a fresh construction.
type Gateway struct {
	embedder Embedder
	disabled atomic.Bool
	logger   *slog.Logger
}

// NewGateway creates a new embedding gateway.
// enabled reflects the credential check at configuration time; when false the
// gateway never contacts the provider.
func NewGateway(embedder Embedder, enabled bool) *Gateway {
	g := &Gateway{
		embedder: embedder,
		logger:   slog.Default(),
	}
	g.disabled.Store(!enabled)
	return g
}

// IsEnabled reports whether the gateway will attempt provider calls.
func (g *Gateway) IsEnabled() bool {
	return !g.disabled.Load()
}

// EmbedTexts returns one vector per input text, in input order.
// Vectors are either provider-dimensional (call succeeded) or empty
// (gateway disabled, or the call failed and tripped it). Failures never
// propagate; a concurrent caller that raced past the flag just trips it again,
// which is harmless since the transition is monotonic.
func (g *Gateway) EmbedTexts(ctx context.Context, texts []string) [][]float32 {
	if len(texts) == 0 {
		return [][]float32{}
	}

	if g.disabled.Load() {
		return emptyVectors(len(texts))
	}

	vectors, err := g.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		logger := contextutil.LoggerFromContext(ctx)
		logger.WarnContext(ctx, "embedding call failed, disabling embeddings for this process", "error", err, "batch_size", len(texts))
		g.disabled.Store(true)
		return emptyVectors(len(texts))
	}

	return vectors
}

func emptyVectors(n int) [][]float32 {
	vectors := make([][]float32, n)
	for i := range vectors {
		vectors[i] = []float32{}
	}
	return vectors
}
