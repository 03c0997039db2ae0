// Package config provides application configuration management with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (./config.yaml or ~/.shopez/config.yaml)
//  3. Default values (sensible defaults for quick start)
//
// Main configuration categories:
//   - AI: Model selection, temperature, embedder
//   - Vector: Qdrant connection and collection settings
//   - Ingestion: document folder, chunk size and overlap
//   - Orders: SQLite database path
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidModelName indicates the model name is empty or malformed.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature value is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidEmbedderModel indicates the embedder model is invalid.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidEmbedderDimension indicates the embedder vector dimension is invalid.
	ErrInvalidEmbedderDimension = errors.New("invalid embedder dimension")

	// ErrInvalidQdrantHost indicates the Qdrant host is empty.
	ErrInvalidQdrantHost = errors.New("invalid Qdrant host")

	// ErrInvalidQdrantPort indicates the Qdrant gRPC port is out of range.
	ErrInvalidQdrantPort = errors.New("invalid Qdrant port")

	// ErrInvalidCollectionName indicates the vector collection name is empty.
	ErrInvalidCollectionName = errors.New("invalid collection name")

	// ErrInvalidChunkSize indicates the chunk size is out of range.
	ErrInvalidChunkSize = errors.New("invalid chunk size")

	// ErrInvalidChunkOverlap indicates the chunk overlap is out of range.
	ErrInvalidChunkOverlap = errors.New("invalid chunk overlap")

	// ErrInvalidRetrievalDocs indicates the retrieval document count is out of range.
	ErrInvalidRetrievalDocs = errors.New("invalid retrieval document count")

	// ErrInvalidHistoryTurns indicates the conversation history limit is out of range.
	ErrInvalidHistoryTurns = errors.New("invalid history turn limit")

	// ErrInvalidRequestTimeout indicates the model call timeout is out of range.
	ErrInvalidRequestTimeout = errors.New("invalid request timeout")

	// ErrInvalidOrdersDBPath indicates the orders database path is empty.
	ErrInvalidOrdersDBPath = errors.New("invalid orders database path")

	// ErrInvalidDocumentsDir indicates the documents folder path is empty.
	ErrInvalidDocumentsDir = errors.New("invalid documents directory")
)

const (
	// DefaultGeminiEmbedderModel is the default Gemini embedder model.
	// gemini-embedding-001 outputs 3072 dimensions by default, but supports
	// truncation to 768 via OutputDimensionality (Matryoshka Representation Learning).
	// The Qdrant collection is created with EmbedderDimension; see vector.Store.
	DefaultGeminiEmbedderModel = "gemini-embedding-001"

	// DefaultEmbedderDimension is the vector size the Qdrant collection is created with.
	DefaultEmbedderDimension = 768

	// DefaultMaxHistoryTurns bounds the in-memory conversation history.
	DefaultMaxHistoryTurns = 10
)

// AI provider identifiers used in Config.Provider.
const (
	ProviderGemini   = "gemini"
	ProviderGoogleAI = "googleai"
)

// Config stores application configuration.
type Config struct {
	// AI provider and model configuration
	Provider    string  `mapstructure:"provider" json:"provider"`
	ModelName   string  `mapstructure:"model_name" json:"model_name"`
	Temperature float32 `mapstructure:"temperature" json:"temperature"`

	// Embedding configuration
	EmbedderModel     string `mapstructure:"embedder_model" json:"embedder_model"`
	EmbedderDimension int    `mapstructure:"embedder_dimension" json:"embedder_dimension"`

	// Qdrant vector store configuration
	QdrantHost     string `mapstructure:"qdrant_host" json:"qdrant_host"`
	QdrantPort     int    `mapstructure:"qdrant_port" json:"qdrant_port"`
	CollectionName string `mapstructure:"collection_name" json:"collection_name"`

	// Document ingestion configuration
	DocumentsDir string `mapstructure:"documents_dir" json:"documents_dir"`
	ChunkSize    int    `mapstructure:"chunk_size" json:"chunk_size"`
	ChunkOverlap int    `mapstructure:"chunk_overlap" json:"chunk_overlap"`

	// Retrieval configuration
	MaxRetrievalDocs int `mapstructure:"max_retrieval_docs" json:"max_retrieval_docs"`

	// Conversation configuration
	MaxHistoryTurns int `mapstructure:"max_history_turns" json:"max_history_turns"`

	// RequestTimeout bounds every model and vector store call.
	RequestTimeout time.Duration `mapstructure:"request_timeout" json:"request_timeout"`

	// Orders database configuration
	OrdersDBPath string `mapstructure:"orders_db_path" json:"orders_db_path"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	// Configuration directory: ~/.shopez/
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".shopez")

	// Configure Viper
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also support current directory

	// Set default values
	setDefaults()

	// Bind environment variables
	bindEnvVariables()

	// Read configuration file (if exists)
	if err := viper.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	// Use Unmarshal to automatically map to struct (type-safe)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// CRITICAL: Validate immediately (fail-fast)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	// AI defaults
	viper.SetDefault("provider", ProviderGemini)
	viper.SetDefault("model_name", "gemini-2.0-flash")
	viper.SetDefault("temperature", 0.3)

	// Embedding defaults
	viper.SetDefault("embedder_model", DefaultGeminiEmbedderModel)
	viper.SetDefault("embedder_dimension", DefaultEmbedderDimension)

	// Qdrant defaults (gRPC port; the HTTP API listens on 6333)
	viper.SetDefault("qdrant_host", "localhost")
	viper.SetDefault("qdrant_port", 6334)
	viper.SetDefault("collection_name", "e-commerce-compliance")

	// Ingestion defaults
	viper.SetDefault("documents_dir", "artefacts")
	viper.SetDefault("chunk_size", 500)
	viper.SetDefault("chunk_overlap", 50)

	// Retrieval defaults
	viper.SetDefault("max_retrieval_docs", 5)

	// Conversation defaults
	viper.SetDefault("max_history_turns", DefaultMaxHistoryTurns)

	// Model call timeout
	viper.SetDefault("request_timeout", "30s")

	// Orders database defaults
	viper.SetDefault("orders_db_path", filepath.Join("data", "orders.db"))
}

// bindEnvVariables binds environment variable overrides explicitly.
func bindEnvVariables() {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail)
	// If this panics, it's a BUG in our code, not a runtime error
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("provider", "SHOPEZ_PROVIDER")
	mustBind("model_name", "SHOPEZ_MODEL_NAME")
	mustBind("qdrant_host", "SHOPEZ_QDRANT_HOST")
	mustBind("qdrant_port", "SHOPEZ_QDRANT_PORT")
	mustBind("collection_name", "SHOPEZ_COLLECTION_NAME")
	mustBind("documents_dir", "SHOPEZ_DOCUMENTS_DIR")
	mustBind("orders_db_path", "SHOPEZ_ORDERS_DB_PATH")

	// NOTE: GEMINI_API_KEY is read directly by Genkit, not via Viper.
}

// FullModelName returns the provider-qualified model name for Genkit.
// Example: "googleai/gemini-2.0-flash".
// If ModelName already contains a "/", it is returned as-is.
func (c *Config) FullModelName() string {
	if strings.Contains(c.ModelName, "/") {
		return c.ModelName
	}
	return ProviderGoogleAI + "/" + c.ModelName
}
