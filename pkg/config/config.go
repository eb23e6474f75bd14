package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// App
	Env string

	// Data layout
	DataDir   string // root directory for inputs and fold outputs
	GraphData string // tab-separated drug-id / graph-JSON file
	DDIData   string // drug-drug-interaction CSV
	QM9Labels string // tab-separated drug-id / label-array file

	// Split parameters
	NFold     int
	Threshold int   // minimum pair count for a side effect to be kept
	Seed      int64 // sampling and shuffle seed

	// Fetch
	IndexURL string // dataset index page scraped for download links

	// Neo4j (optional export target)
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Env:           getEnv("ENV", "development"),
		DataDir:       getEnv("DATA_DIR", "./data/"),
		GraphData:     getEnv("GRAPH_DATA", "drug.feat.wo_h.self_loop.idx.jsonl"),
		DDIData:       getEnv("DDI_DATA", "bio-decagon-combo.csv"),
		QM9Labels:     getEnv("QM9_LABELS", "drug.labels.jsonl"),
		NFold:         getEnvInt("N_FOLD", 10),
		Threshold:     getEnvInt("SE_THRESHOLD", 498),
		Seed:          int64(getEnvInt("SPLIT_SEED", 1)),
		IndexURL:      getEnv("DATASET_INDEX_URL", "https://snap.stanford.edu/decagon/"),
		Neo4jURI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:     getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword: getEnv("NEO4J_PASSWORD", "password"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are usable
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.NFold < 1 {
		return fmt.Errorf("N_FOLD must be at least 1, got %d", c.NFold)
	}
	if c.Threshold < 0 {
		return fmt.Errorf("SE_THRESHOLD must not be negative, got %d", c.Threshold)
	}
	// Neo4j settings are only checked when the export is requested
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
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
