package config

import "fmt"

// Validate performs comprehensive range checks on the configuration.
// Called by Load immediately after unmarshalling (fail-fast); a Config that
// reaches a component constructor has already passed validation.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if c.Provider != ProviderGemini && c.Provider != ProviderGoogleAI {
		return fmt.Errorf("%w: unsupported provider %q", ErrInvalidModelName, c.Provider)
	}
	if c.ModelName == "" {
		return fmt.Errorf("%w: model name must not be empty", ErrInvalidModelName)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: %.2f (must be 0.0-2.0)", ErrInvalidTemperature, c.Temperature)
	}

	if c.EmbedderModel == "" {
		return fmt.Errorf("%w: embedder model must not be empty", ErrInvalidEmbedderModel)
	}
	if c.EmbedderDimension <= 0 {
		return fmt.Errorf("%w: %d (must be positive)", ErrInvalidEmbedderDimension, c.EmbedderDimension)
	}

	if c.QdrantHost == "" {
		return fmt.Errorf("%w: host must not be empty", ErrInvalidQdrantHost)
	}
	if c.QdrantPort < 1 || c.QdrantPort > 65535 {
		return fmt.Errorf("%w: %d (must be 1-65535)", ErrInvalidQdrantPort, c.QdrantPort)
	}
	if c.CollectionName == "" {
		return fmt.Errorf("%w: collection name must not be empty", ErrInvalidCollectionName)
	}

	if c.DocumentsDir == "" {
		return fmt.Errorf("%w: documents directory must not be empty", ErrInvalidDocumentsDir)
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("%w: %d (must be at least 1)", ErrInvalidChunkSize, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: %d (must be 0 <= overlap < chunk size %d)",
			ErrInvalidChunkOverlap, c.ChunkOverlap, c.ChunkSize)
	}

	if c.MaxRetrievalDocs < 1 {
		return fmt.Errorf("%w: %d (must be at least 1)", ErrInvalidRetrievalDocs, c.MaxRetrievalDocs)
	}
	if c.MaxHistoryTurns < 2 {
		return fmt.Errorf("%w: %d (must hold at least one exchange)", ErrInvalidHistoryTurns, c.MaxHistoryTurns)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: %v (must be positive)", ErrInvalidRequestTimeout, c.RequestTimeout)
	}

	if c.OrdersDBPath == "" {
		return fmt.Errorf("%w: path must not be empty", ErrInvalidOrdersDBPath)
	}

	return nil
}
