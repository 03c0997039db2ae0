package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"

	"github.com/shopez/supportbot/internal/config"
	"github.com/shopez/supportbot/internal/ingest"
	"github.com/shopez/supportbot/internal/llm"
	"github.com/shopez/supportbot/internal/orders"
	"github.com/shopez/supportbot/internal/rag"
	"github.com/shopez/supportbot/internal/respond"
	"github.com/shopez/supportbot/internal/router"
	"github.com/shopez/supportbot/internal/vector"
)

// Setup creates and initializes the application.
// Returns an App with embedded cleanup; call Close() to release.
//
// An unreachable vector store (vector.ErrUnavailable) aborts setup: the
// assistant cannot answer policy questions without its index. Ingestion
// failures after the index exists are logged and survived; the assistant
// starts with whatever knowledge made it in.
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, retErr error) {
	a := &App{Config: cfg, logger: logger.With("component", "app")}

	// On error, release everything already opened
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	g, err := provideGenkit(ctx, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	embedder, err := provideEmbedder(g, cfg)
	if err != nil {
		return nil, err
	}

	store, err := vector.Connect(vector.Config{
		Host:       cfg.QdrantHost,
		Port:       cfg.QdrantPort,
		Collection: cfg.CollectionName,
		Dimension:  cfg.EmbedderDimension,
		Timeout:    cfg.RequestTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	a.Vector = store

	ordersStore, err := orders.Open(cfg.OrdersDBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("opening orders store: %w", err)
	}
	a.Orders = ordersStore

	client := llm.NewClient(g, cfg, logger)
	batchEmbedder := llm.NewEmbedder(embedder, cfg.EmbedderDimension, cfg.RequestTimeout, logger)

	if err := bootstrapIndex(ctx, cfg, batchEmbedder, store, logger); err != nil {
		return nil, err
	}

	retriever := rag.NewRetriever(batchEmbedder, store, cfg.MaxRetrievalDocs, logger)
	intentRouter := router.New(g, client, logger)

	a.Service = respond.NewService(
		respond.NewRewriter(client, logger),
		intentRouter,
		respond.NewOrderResponder(ordersStore, client, logger),
		respond.NewPolicyResponder(retriever, client, logger),
		respond.NewChitchatResponder(client, logger),
		logger,
	)

	return a, nil
}

// provideGenkit initializes Genkit with the Google AI plugin.
// The plugin reads GEMINI_API_KEY from the environment itself.
func provideGenkit(ctx context.Context, logger *slog.Logger) (*genkit.Genkit, error) {
	g := genkit.Init(ctx,
		genkit.WithPlugins(&googlegenai.GoogleAI{}),
	)
	if g == nil {
		return nil, errors.New("initializing genkit with gemini provider")
	}
	logger.Debug("genkit initialized")
	return g, nil
}

// provideEmbedder looks up the embedder registered by the Google AI plugin.
func provideEmbedder(g *genkit.Genkit, cfg *config.Config) (ai.Embedder, error) {
	embedder := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found", cfg.EmbedderModel)
	}
	return embedder, nil
}

// bootstrapIndex ensures the policy knowledge index exists and is populated.
// Only an unreachable vector store is fatal.
func bootstrapIndex(ctx context.Context, cfg *config.Config, embedder rag.BatchEmbedder,
	store *vector.Store, logger *slog.Logger) error {
	indexer := rag.NewIndexer(
		ingest.NewLoader(logger),
		ingest.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap),
		embedder,
		store,
		cfg.DocumentsDir,
		logger,
	)

	if err := indexer.Bootstrap(ctx); err != nil {
		if errors.Is(err, vector.ErrUnavailable) {
			return fmt.Errorf("bootstrapping knowledge index: %w", err)
		}
		logger.Error("knowledge ingestion failed, continuing with partial index",
			"folder", cfg.DocumentsDir,
			"error", err,
		)
	}
	return nil
}
