package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Vector backends selectable with VECTOR_BACKEND.
const (
	BackendSQLiteVec = "sqlitevec"
	BackendQdrant    = "qdrant"
	BackendMemory    = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	DBPath string

	VectorBackend string
	VectorDir     string
	QdrantURL     string
	Collection    string
	VectorSize    int

	EmbeddingBaseURL   string
	EmbeddingModelName string
	EmbeddingAPIKey    string
	EmbeddingRateLimit float64
	EmbeddingAutoload  bool

	ResultLimit      int
	DedupFileRecords bool

	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or a parent, it is loaded first.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		DBPath:             getEnv("DB_PATH", "./data/vectorvision.db"),
		VectorBackend:      strings.ToLower(getEnv("VECTOR_BACKEND", BackendSQLiteVec)),
		VectorDir:          getEnv("VECTOR_DIR", "./data/vectors"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		Collection:         getEnv("COLLECTION", "image_collection"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "ViT-H-14"),
		EmbeddingAPIKey:    getEnv("EMBEDDING_API_KEY", ""),
		APIPort:            getEnv("API_PORT", "9000"),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	switch cfg.VectorBackend {
	case BackendSQLiteVec, BackendQdrant, BackendMemory:
	default:
		return nil, fmt.Errorf("VECTOR_BACKEND must be one of %s, %s, %s: got %q",
			BackendSQLiteVec, BackendQdrant, BackendMemory, cfg.VectorBackend)
	}

	// VECTOR_SIZE must match the output size of the embedding model
	// (1024 for ViT-H-14). Changing it requires a new collection.
	vectorSizeStr := getEnv("VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		return nil, fmt.Errorf("VECTOR_SIZE is required")
	}
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("VECTOR_SIZE must be greater than 0")
	}
	cfg.VectorSize = vectorSize

	if cfg.EmbeddingRateLimit, err = strconv.ParseFloat(getEnv("EMBEDDING_RATE_LIMIT", "0"), 64); err != nil {
		return nil, fmt.Errorf("EMBEDDING_RATE_LIMIT must be a number: %w", err)
	}
	if cfg.EmbeddingRateLimit < 0 {
		return nil, fmt.Errorf("EMBEDDING_RATE_LIMIT must not be negative")
	}

	if cfg.EmbeddingAutoload, err = strconv.ParseBool(getEnv("EMBEDDING_AUTOLOAD", "false")); err != nil {
		return nil, fmt.Errorf("EMBEDDING_AUTOLOAD must be a boolean: %w", err)
	}

	if cfg.ResultLimit, err = strconv.Atoi(getEnv("RESULT_LIMIT", "10")); err != nil {
		return nil, fmt.Errorf("RESULT_LIMIT must be a valid integer: %w", err)
	}
	if cfg.ResultLimit <= 0 {
		return nil, fmt.Errorf("RESULT_LIMIT must be greater than 0")
	}

	if cfg.DedupFileRecords, err = strconv.ParseBool(getEnv("DEDUP_FILE_RECORDS", "true")); err != nil {
		return nil, fmt.Errorf("DEDUP_FILE_RECORDS must be a boolean: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json: got %q", cfg.LogFormat)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if cfg.VectorBackend == BackendSQLiteVec {
		if err := os.MkdirAll(cfg.VectorDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create vector directory: %w", err)
		}
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
