package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/ai"
	"google.golang.org/genai"
)

// Embedder bridges a Genkit ai.Embedder to the raw float32 vectors the
// vector store works with.
//
// gemini-embedding-001 emits 3072 dimensions natively; every request asks
// for OutputDimensionality so the vectors match the size the collection was
// created with.
type Embedder struct {
	embedder  ai.Embedder
	dimension int32
	timeout   time.Duration
	logger    *slog.Logger
}

// NewEmbedder creates an Embedder producing vectors of the given dimension.
// The timeout bounds each embedding call.
func NewEmbedder(embedder ai.Embedder, dimension int, timeout time.Duration, logger *slog.Logger) *Embedder {
	return &Embedder{
		embedder:  embedder,
		dimension: int32(dimension),
		timeout:   timeout,
		logger:    logger.With("component", "embedder"),
	}
}

// Embed returns the embedding vector for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch returns one vector per input text, in input order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	docs := make([]*ai.Document, len(texts))
	for i, text := range texts {
		docs[i] = ai.DocumentFromText(text, nil)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	dim := e.dimension
	resp, err := e.embedder.Embed(ctx, &ai.EmbedRequest{
		Input:   docs,
		Options: &genai.EmbedContentConfig{OutputDimensionality: &dim},
	})
	if err != nil {
		return nil, fmt.Errorf("embed failed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed returned %d vectors for %d texts", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if len(emb.Embedding) == 0 {
			return nil, fmt.Errorf("embed returned empty vector at index %d", i)
		}
		vectors[i] = emb.Embedding
	}
	return vectors, nil
}
