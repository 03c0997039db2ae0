package vector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/shopez/supportbot/internal/ingest"
	"github.com/shopez/supportbot/internal/log"
)

// mockClient implements Client with call tracking.
type mockClient struct {
	collections []string
	listErr     error

	createErr    error
	createCalls  int
	lastCreate   *qdrant.CreateCollection
	upsertErr    error
	upsertCalls  int
	lastUpsert   *qdrant.UpsertPoints
	queryHits    []*qdrant.ScoredPoint
	queryErr     error
	queryCalls   int
	lastQuery    *qdrant.QueryPoints
	closedCalled bool
}

func (m *mockClient) ListCollections(ctx context.Context) ([]string, error) {
	return m.collections, m.listErr
}

func (m *mockClient) CreateCollection(ctx context.Context, req *qdrant.CreateCollection) error {
	m.createCalls++
	m.lastCreate = req
	return m.createErr
}

func (m *mockClient) Upsert(ctx context.Context, req *qdrant.UpsertPoints) (*qdrant.UpdateResult, error) {
	m.upsertCalls++
	m.lastUpsert = req
	return nil, m.upsertErr
}

func (m *mockClient) Query(ctx context.Context, req *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error) {
	m.queryCalls++
	m.lastQuery = req
	return m.queryHits, m.queryErr
}

func (m *mockClient) Close() error {
	m.closedCalled = true
	return nil
}

func testConfig() Config {
	return Config{
		Host:       "localhost",
		Port:       6334,
		Collection: "e-commerce-compliance",
		Dimension:  768,
		Timeout:    30 * time.Second,
	}
}

func TestEnsureCollectionCreatesWhenAbsent(t *testing.T) {
	client := &mockClient{collections: []string{"other"}}
	store := New(client, testConfig(), log.NewNop())

	created, err := store.EnsureCollection(context.Background())
	if err != nil {
		t.Fatalf("EnsureCollection() error = %v", err)
	}
	if !created {
		t.Error("EnsureCollection() created = false, want true")
	}
	if client.createCalls != 1 {
		t.Errorf("CreateCollection called %d times, want 1", client.createCalls)
	}
	if client.lastCreate.CollectionName != "e-commerce-compliance" {
		t.Errorf("created collection %q, want e-commerce-compliance", client.lastCreate.CollectionName)
	}
}

func TestEnsureCollectionIdempotent(t *testing.T) {
	client := &mockClient{collections: []string{"e-commerce-compliance"}}
	store := New(client, testConfig(), log.NewNop())

	created, err := store.EnsureCollection(context.Background())
	if err != nil {
		t.Fatalf("EnsureCollection() error = %v", err)
	}
	if created {
		t.Error("EnsureCollection() created = true for existing collection")
	}
	if client.createCalls != 0 {
		t.Errorf("CreateCollection called %d times, want 0", client.createCalls)
	}
}

func TestEnsureCollectionToleratesCreationRace(t *testing.T) {
	// Another process creates the collection between the list and create calls.
	client := &mockClient{createErr: errors.New("collection `e-commerce-compliance` already exists")}
	store := New(client, testConfig(), log.NewNop())

	created, err := store.EnsureCollection(context.Background())
	if err != nil {
		t.Fatalf("EnsureCollection() should tolerate the race, got %v", err)
	}
	if created {
		t.Error("EnsureCollection() created = true, want false when losing the race")
	}
}

func TestEnsureCollectionUnavailable(t *testing.T) {
	client := &mockClient{listErr: errors.New("connection refused")}
	store := New(client, testConfig(), log.NewNop())

	_, err := store.EnsureCollection(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("EnsureCollection() error = %v, want ErrUnavailable", err)
	}
}

func TestUpsertChunks(t *testing.T) {
	client := &mockClient{}
	store := New(client, testConfig(), log.NewNop())

	chunks := []ingest.Chunk{
		{SourceID: "returns.txt", Position: 0, Text: "Returns within 30 days."},
		{SourceID: "returns.txt", Position: 1, Text: "Refunds in 5-7 days."},
	}
	vectors := [][]float32{{0.1, 0.2}, {0.3, 0.4}}

	if err := store.UpsertChunks(context.Background(), chunks, vectors); err != nil {
		t.Fatalf("UpsertChunks() error = %v", err)
	}
	if client.upsertCalls != 1 {
		t.Fatalf("Upsert called %d times, want 1", client.upsertCalls)
	}
	if got := len(client.lastUpsert.Points); got != 2 {
		t.Fatalf("upserted %d points, want 2", got)
	}
}

func TestUpsertChunksCountMismatch(t *testing.T) {
	store := New(&mockClient{}, testConfig(), log.NewNop())

	err := store.UpsertChunks(context.Background(),
		[]ingest.Chunk{{SourceID: "a", Position: 0, Text: "x"}},
		[][]float32{{0.1}, {0.2}})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("UpsertChunks() error = %v, want ErrDimensionMismatch", err)
	}
}

func TestUpsertChunksEmptyBatch(t *testing.T) {
	client := &mockClient{}
	store := New(client, testConfig(), log.NewNop())

	if err := store.UpsertChunks(context.Background(), nil, nil); err != nil {
		t.Fatalf("UpsertChunks() on empty batch error = %v", err)
	}
	if client.upsertCalls != 0 {
		t.Errorf("Upsert called %d times for empty batch, want 0", client.upsertCalls)
	}
}

func TestSearch(t *testing.T) {
	client := &mockClient{
		queryHits: []*qdrant.ScoredPoint{
			{
				Score: 0.91,
				Payload: qdrant.NewValueMap(map[string]interface{}{
					"text":      "Returns within 30 days.",
					"source_id": "returns.txt",
					"position":  int64(0),
				}),
			},
			{
				Score: 0.72,
				Payload: qdrant.NewValueMap(map[string]interface{}{
					"text":      "Refunds in 5-7 days.",
					"source_id": "returns.txt",
					"position":  int64(1),
				}),
			},
		},
	}
	store := New(client, testConfig(), log.NewNop())

	results, err := store.Search(context.Background(), []float32{0.1, 0.2}, 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Search() = %d results, want 2", len(results))
	}
	if results[0].Score < results[1].Score {
		t.Error("results not ordered best first")
	}
	if results[0].Text != "Returns within 30 days." || results[0].SourceID != "returns.txt" {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if got := *client.lastQuery.Limit; got != 5 {
		t.Errorf("query limit = %d, want 5", got)
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	store := New(&mockClient{}, testConfig(), log.NewNop())

	results, err := store.Search(context.Background(), []float32{0.1}, 5)
	if err != nil {
		t.Fatalf("Search() on empty index error = %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("Search() on empty index = %d results, want 0", len(results))
	}
}

func TestPointIDDeterministic(t *testing.T) {
	chunk := ingest.Chunk{SourceID: "returns.txt", Position: 3, Text: "irrelevant"}

	a := PointID(chunk)
	b := PointID(chunk)
	if a != b {
		t.Fatalf("PointID not stable: %s vs %s", a, b)
	}

	other := PointID(ingest.Chunk{SourceID: "returns.txt", Position: 4})
	if a == other {
		t.Error("distinct chunks share a point ID")
	}
}

func TestClose(t *testing.T) {
	client := &mockClient{}
	store := New(client, testConfig(), log.NewNop())

	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !client.closedCalled {
		t.Error("Close() did not close the client")
	}
}
