// Package vector provides the Qdrant-backed similarity index for policy chunks.
package vector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/shopez/supportbot/internal/ingest"
)

var (
	// ErrUnavailable indicates the vector store cannot be reached.
	// This is the only startup error treated as fatal by the application.
	ErrUnavailable = errors.New("vector store unavailable")

	// ErrDimensionMismatch indicates a vector batch does not match the chunk batch.
	ErrDimensionMismatch = errors.New("chunk and vector counts differ")
)

// Result is one similarity search hit.
type Result struct {
	Text     string
	SourceID string
	Position int
	Score    float32
}

// Client is the subset of the Qdrant client the store depends on.
// *qdrant.Client satisfies it; tests substitute a mock.
type Client interface {
	ListCollections(ctx context.Context) ([]string, error)
	CreateCollection(ctx context.Context, req *qdrant.CreateCollection) error
	Upsert(ctx context.Context, req *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, req *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	Close() error
}

// Config holds the store's connection and collection settings.
type Config struct {
	Host       string
	Port       int
	Collection string
	// Dimension is the vector size the collection is created with.
	Dimension int
	// Timeout bounds every call to the vector store.
	Timeout time.Duration
}

// Store wraps a Qdrant collection of embedded policy chunks.
type Store struct {
	client     Client
	collection string
	dimension  uint64
	timeout    time.Duration
	logger     *slog.Logger
}

// Connect dials Qdrant over gRPC and returns a Store.
// A connection failure is wrapped in ErrUnavailable; callers treat it as fatal.
func Connect(cfg Config, logger *slog.Logger) (*Store, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.Host,
		Port: cfg.Port,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to %s:%d: %v", ErrUnavailable, cfg.Host, cfg.Port, err)
	}
	return New(client, cfg, logger), nil
}

// New creates a Store over an existing client. Used directly by tests.
func New(client Client, cfg Config, logger *slog.Logger) *Store {
	return &Store{
		client:     client,
		collection: cfg.Collection,
		dimension:  uint64(cfg.Dimension),
		timeout:    cfg.Timeout,
		logger:     logger.With("component", "vector"),
	}
}

// EnsureCollection makes sure the collection exists, creating it with cosine
// distance when absent. It reports whether this call created the collection,
// which drives one-time ingestion.
//
// A concurrent creator winning the race surfaces as an "already exists"
// error from Qdrant; that is treated as the collection pre-existing.
func (s *Store) EnsureCollection(ctx context.Context) (created bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	existing, err := s.client.ListCollections(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: listing collections: %v", ErrUnavailable, err)
	}
	for _, name := range existing {
		if name == s.collection {
			s.logger.Debug("collection exists", "collection", s.collection)
			return false, nil
		}
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "already exists") {
			s.logger.Debug("collection created concurrently", "collection", s.collection)
			return false, nil
		}
		return false, fmt.Errorf("%w: creating collection %s: %v", ErrUnavailable, s.collection, err)
	}

	s.logger.Info("collection created", "collection", s.collection, "dimension", s.dimension)
	return true, nil
}

// UpsertChunks writes chunks and their vectors to the collection.
// Point IDs are derived deterministically from source and position, so
// re-ingesting the same documents overwrites rather than duplicates.
func (s *Store) UpsertChunks(ctx context.Context, chunks []ingest.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks, %d vectors", ErrDimensionMismatch, len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(PointID(chunk)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"text":      chunk.Text,
				"source_id": chunk.SourceID,
				"position":  int64(chunk.Position),
			}),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	}); err != nil {
		return fmt.Errorf("upserting %d points: %w", len(points), err)
	}

	s.logger.Info("chunks indexed", "collection", s.collection, "count", len(points))
	return nil
}

// Search returns the limit nearest chunks to queryVector, best first.
// An empty collection yields an empty slice, never an error.
func (s *Store) Search(ctx context.Context, queryVector []float32, limit int) ([]Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	topK := uint64(limit)
	hits, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          &topK,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("querying collection %s: %w", s.collection, err)
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		payload := hit.GetPayload()
		if payload == nil {
			continue
		}
		r := Result{Score: hit.GetScore()}
		if v, ok := payload["text"]; ok {
			r.Text = v.GetStringValue()
		}
		if v, ok := payload["source_id"]; ok {
			r.SourceID = v.GetStringValue()
		}
		if v, ok := payload["position"]; ok {
			r.Position = int(v.GetIntegerValue())
		}
		results = append(results, r)
	}

	s.logger.Debug("search completed", "collection", s.collection, "hits", len(results))
	return results, nil
}

// Close releases the underlying client connection.
func (s *Store) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("closing vector store client: %w", err)
	}
	return nil
}

// PointID derives the stable point identifier for a chunk.
// UUIDv5 over source and position keeps IDs equal across runs.
func PointID(chunk ingest.Chunk) string {
	key := fmt.Sprintf("%s:%d", chunk.SourceID, chunk.Position)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}
