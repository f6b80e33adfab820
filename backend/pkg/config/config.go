package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	apperrors "github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Dataset layout
	DatasetRoot    string
	CSVPath        string
	PDFDir         string
	ContentListDir string
	SummaryDir     string

	// Graph build
	PersistDir          string
	Rebuild             bool
	MaxTripletsPerChunk int
	ChunkSize           int
	ChunkOverlap        int
	BuildConcurrency    int

	// LLM (OpenAI-compatible endpoint, e.g. LiteLLM)
	LLMBaseURL string
	LLMAPIKey  string
	ModelID    string

	// Neo4j snapshot store (optional; empty URI disables it)
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Query bounds enforced at the HTTP boundary
	MaxNodesCap     int
	EgoMaxNodesCap  int
	TripletLimitCap int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	root := getEnv("DATASET_ROOT", "publications_dataset")

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("ENV", "development"),
		DatasetRoot:         root,
		CSVPath:             getEnv("DOCUMENTS_CSV", filepath.Join(root, "documents.csv")),
		PDFDir:              getEnv("PDF_DIR", filepath.Join(root, "pdf")),
		ContentListDir:      getEnv("CONTENT_LIST_DIR", filepath.Join(root, "content_list")),
		SummaryDir:          getEnv("SUMMARY_DIR", filepath.Join(root, "summary")),
		PersistDir:          getEnv("PERSIST_DIR", ".kg_store"),
		Rebuild:             getEnvBool("REBUILD_KG", false),
		MaxTripletsPerChunk: getEnvInt("MAX_TRIPLETS_PER_CHUNK", 5),
		ChunkSize:           getEnvInt("CHUNK_SIZE", 5012),
		ChunkOverlap:        getEnvInt("CHUNK_OVERLAP", 120),
		BuildConcurrency:    getEnvInt("BUILD_CONCURRENCY", 4),
		LLMBaseURL:          getEnv("LITELLM_URL", "http://localhost:4000"),
		LLMAPIKey:           getEnv("LLM_API_KEY", ""),
		ModelID:             getEnv("MODEL_ID", "gemini/gemini-2.5-flash-lite"),
		Neo4jURI:            getEnv("NEO4J_URI", ""),
		Neo4jUser:           getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:       getEnv("NEO4J_PASSWORD", ""),
		MaxNodesCap:         getEnvInt("MAX_NODES_CAP", 20000),
		EgoMaxNodesCap:      getEnvInt("EGO_MAX_NODES_CAP", 5000),
		TripletLimitCap:     getEnvInt("TRIPLET_LIMIT_CAP", 2000),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set and sane
func (c *Config) Validate() error {
	if c.SummaryDir == "" {
		return apperrors.NewConfigMissingRequired("SUMMARY_DIR")
	}
	if c.PersistDir == "" {
		return apperrors.NewConfigMissingRequired("PERSIST_DIR")
	}
	if c.LLMBaseURL == "" {
		return apperrors.NewConfigMissingRequired("LITELLM_URL")
	}
	if c.ModelID == "" {
		return apperrors.NewConfigMissingRequired("MODEL_ID")
	}
	if c.MaxTripletsPerChunk < 1 {
		return fmt.Errorf("MAX_TRIPLETS_PER_CHUNK must be >= 1")
	}
	if c.BuildConcurrency < 1 {
		return fmt.Errorf("BUILD_CONCURRENCY must be >= 1")
	}
	if c.Neo4jURI != "" && c.Neo4jPassword == "" {
		return fmt.Errorf("NEO4J_PASSWORD is required when NEO4J_URI is set")
	}
	// LLM API key is optional: LiteLLM-style proxies accept a dummy key
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "yes":
		return true
	case "0", "false", "FALSE", "no":
		return false
	}
	return defaultValue
}
