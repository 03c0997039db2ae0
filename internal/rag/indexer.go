// Package rag connects document ingestion, embeddings, and the vector store
// into the retrieval pipeline behind policy answers.
package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopez/supportbot/internal/ingest"
)

// embedBatchSize bounds how many chunk texts are embedded per API call.
const embedBatchSize = 32

// VectorIndex is the vector store surface the indexer depends on.
type VectorIndex interface {
	EnsureCollection(ctx context.Context) (created bool, err error)
	UpsertChunks(ctx context.Context, chunks []ingest.Chunk, vectors [][]float32) error
}

// BatchEmbedder embeds several texts in one call.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// DocumentLoader reads documents from a folder.
type DocumentLoader interface {
	Load(dir string) ([]ingest.Document, error)
}

// Indexer builds the policy knowledge index on startup.
type Indexer struct {
	loader   DocumentLoader
	splitter *ingest.Splitter
	embedder BatchEmbedder
	index    VectorIndex
	dir      string
	logger   *slog.Logger
}

// NewIndexer creates an Indexer over the documents in dir.
func NewIndexer(loader DocumentLoader, splitter *ingest.Splitter, embedder BatchEmbedder,
	index VectorIndex, dir string, logger *slog.Logger) *Indexer {
	return &Indexer{
		loader:   loader,
		splitter: splitter,
		embedder: embedder,
		index:    index,
		dir:      dir,
		logger:   logger.With("component", "indexer"),
	}
}

// Bootstrap ensures the collection exists and, only when this run created it,
// ingests the document folder: load, split, embed, upsert. Re-running against
// an existing collection is a no-op, which makes startup idempotent.
//
// An unreachable vector store surfaces as vector.ErrUnavailable from
// EnsureCollection; the caller treats that as fatal. Ingestion failures after
// the collection exists are returned for the caller to log and survive.
func (ix *Indexer) Bootstrap(ctx context.Context) error {
	created, err := ix.index.EnsureCollection(ctx)
	if err != nil {
		return fmt.Errorf("ensuring collection: %w", err)
	}
	if !created {
		ix.logger.Debug("collection already populated, skipping ingestion")
		return nil
	}

	docs, err := ix.loader.Load(ix.dir)
	if err != nil {
		return fmt.Errorf("loading documents: %w", err)
	}
	if len(docs) == 0 {
		ix.logger.Warn("document folder is empty, index will have no knowledge", "folder", ix.dir)
		return nil
	}

	chunks := ingest.ChunkAll(docs, ix.splitter)
	if len(chunks) == 0 {
		ix.logger.Warn("documents produced no chunks", "folder", ix.dir)
		return nil
	}

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := min(start+embedBatchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := ix.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding chunks %d-%d: %w", start, end-1, err)
		}
		if err := ix.index.UpsertChunks(ctx, batch, vectors); err != nil {
			return fmt.Errorf("indexing chunks %d-%d: %w", start, end-1, err)
		}
	}

	ix.logger.Info("knowledge index built",
		"documents", len(docs),
		"chunks", len(chunks),
	)
	return nil
}
