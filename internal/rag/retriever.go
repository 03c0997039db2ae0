package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopez/supportbot/internal/vector"
)

// Embedder embeds a single query text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher performs similarity search over the vector index.
type Searcher interface {
	Search(ctx context.Context, queryVector []float32, limit int) ([]vector.Result, error)
}

// Retriever answers similarity queries against the policy knowledge index.
type Retriever struct {
	embedder Embedder
	index    Searcher
	topK     int
	logger   *slog.Logger
}

// NewRetriever creates a Retriever. topK is the default result count used
// when Retrieve is called with a non-positive limit.
func NewRetriever(embedder Embedder, index Searcher, topK int, logger *slog.Logger) *Retriever {
	if topK < 1 {
		topK = 5
	}
	return &Retriever{
		embedder: embedder,
		index:    index,
		topK:     topK,
		logger:   logger.With("component", "retriever"),
	}
}

// Retrieve embeds query and returns the limit most similar chunks, best
// first. An empty index yields an empty slice.
func (r *Retriever) Retrieve(ctx context.Context, query string, limit int) ([]vector.Result, error) {
	if limit < 1 {
		limit = r.topK
	}

	queryVector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	results, err := r.index.Search(ctx, queryVector, limit)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	r.logger.Debug("retrieval completed", "query_len", len(query), "hits", len(results))
	return results, nil
}
