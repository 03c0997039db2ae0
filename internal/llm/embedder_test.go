package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
	"google.golang.org/genai"

	"github.com/shopez/supportbot/internal/log"
)

// mockEmbedder implements ai.Embedder for testing.
type mockEmbedder struct {
	embedErr    error
	returnEmpty bool
	vector      []float32
	callCount   int
	lastInput   string
	lastOptions any
}

func (m *mockEmbedder) Name() string { return "mock-embedder" }

func (m *mockEmbedder) Register(r api.Registry) {}

func (m *mockEmbedder) Embed(ctx context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	m.callCount++
	m.lastOptions = req.Options
	if len(req.Input) > 0 && len(req.Input[0].Content) > 0 {
		m.lastInput = req.Input[0].Content[0].Text
	}
	if m.embedErr != nil {
		return nil, m.embedErr
	}

	resp := &ai.EmbedResponse{}
	for range req.Input {
		vec := m.vector
		if m.returnEmpty {
			vec = nil
		}
		resp.Embeddings = append(resp.Embeddings, &ai.Embedding{Embedding: vec})
	}
	return resp, nil
}

const testDimension = 768

func TestEmbed(t *testing.T) {
	mock := &mockEmbedder{vector: []float32{0.1, 0.2, 0.3}}
	e := NewEmbedder(mock, testDimension, time.Second, log.NewNop())

	vec, err := e.Embed(context.Background(), "what is the return policy?")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("Embed() vector len = %d, want 3", len(vec))
	}
	if mock.lastInput != "what is the return policy?" {
		t.Errorf("embedder received %q", mock.lastInput)
	}
}

func TestEmbedRequestsConfiguredDimension(t *testing.T) {
	// The collection is created at the configured dimension, so every
	// request must ask the model to truncate its native output to match.
	mock := &mockEmbedder{vector: []float32{0.1}}
	e := NewEmbedder(mock, testDimension, time.Second, log.NewNop())

	if _, err := e.Embed(context.Background(), "text"); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	opts, ok := mock.lastOptions.(*genai.EmbedContentConfig)
	if !ok {
		t.Fatalf("EmbedRequest.Options = %T, want *genai.EmbedContentConfig", mock.lastOptions)
	}
	if opts.OutputDimensionality == nil {
		t.Fatal("OutputDimensionality not set on the embed request")
	}
	if *opts.OutputDimensionality != testDimension {
		t.Errorf("OutputDimensionality = %d, want %d", *opts.OutputDimensionality, testDimension)
	}
}

func TestEmbedBatch(t *testing.T) {
	mock := &mockEmbedder{vector: []float32{0.5}}
	e := NewEmbedder(mock, testDimension, time.Second, log.NewNop())

	vectors, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}
	if len(vectors) != 3 {
		t.Fatalf("EmbedBatch() = %d vectors, want 3", len(vectors))
	}
	if mock.callCount != 1 {
		t.Errorf("embedder called %d times, want 1 (single batch)", mock.callCount)
	}
}

func TestEmbedBatchEmptyInput(t *testing.T) {
	mock := &mockEmbedder{vector: []float32{0.5}}
	e := NewEmbedder(mock, testDimension, time.Second, log.NewNop())

	vectors, err := e.EmbedBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("EmbedBatch(nil) error = %v", err)
	}
	if vectors != nil {
		t.Errorf("EmbedBatch(nil) = %v, want nil", vectors)
	}
	if mock.callCount != 0 {
		t.Errorf("embedder called %d times for empty input, want 0", mock.callCount)
	}
}

func TestEmbedError(t *testing.T) {
	mock := &mockEmbedder{embedErr: errors.New("quota exceeded")}
	e := NewEmbedder(mock, testDimension, time.Second, log.NewNop())

	if _, err := e.Embed(context.Background(), "text"); err == nil {
		t.Fatal("Embed() should propagate embedder errors")
	}
}

func TestEmbedEmptyVector(t *testing.T) {
	mock := &mockEmbedder{returnEmpty: true}
	e := NewEmbedder(mock, testDimension, time.Second, log.NewNop())

	if _, err := e.Embed(context.Background(), "text"); err == nil {
		t.Fatal("Embed() should reject empty vectors")
	}
}
