package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all process-wide settings. It is loaded once at startup
// and treated as immutable for the lifetime of the process.
type Config struct {
	// Application
	AppName    string `env:"APP_NAME" envDefault:"Medical Bot API"`
	AppVersion string `env:"APP_VERSION" envDefault:"1.0.0"`
	Debug      bool   `env:"DEBUG" envDefault:"false"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"INFO"`
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`

	// Google Generative AI
	GoogleAPIKey   string  `env:"GOOGLE_API_KEY,required"`
	EmbeddingModel string  `env:"EMBEDDING_MODEL" envDefault:"text-embedding-004"`
	LLMModel       string  `env:"LLM_MODEL" envDefault:"gemini-2.0-flash"`
	LLMTemperature float64 `env:"LLM_TEMPERATURE" envDefault:"0.2"`

	// ChromaDB vector store
	ChromaHost       string        `env:"CHROMA_HOST" envDefault:"localhost"`
	ChromaPort       int           `env:"CHROMA_PORT" envDefault:"8000"`
	ChromaTenant     string        `env:"CHROMA_TENANT" envDefault:"default_tenant"`
	ChromaDatabase   string        `env:"CHROMA_DATABASE" envDefault:"default_database"`
	ChromaCollection string        `env:"CHROMA_COLLECTION" envDefault:"medical-docs"`
	ChromaTimeout    time.Duration `env:"CHROMA_TIMEOUT" envDefault:"30s"`

	// Redis document registry
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	// Document processing
	ChunkSize    int `env:"CHUNK_SIZE" envDefault:"1000"`
	ChunkOverlap int `env:"CHUNK_OVERLAP" envDefault:"100"`
	MaxDocuments int `env:"MAX_DOCUMENTS" envDefault:"1000"`

	// CORS
	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://localhost:5173"`
}

// Load parses configuration from environment variables. Missing
// required credentials are a fatal startup condition.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	validLevels := map[string]bool{"DEBUG": true, "INFO": true, "WARNING": true, "ERROR": true, "CRITICAL": true}
	c.LogLevel = strings.ToUpper(c.LogLevel)
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	if c.ChunkSize < 100 || c.ChunkSize > 4000 {
		return fmt.Errorf("chunk size must be between 100 and 4000, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap > 500 {
		return fmt.Errorf("chunk overlap must be between 0 and 500, got %d", c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	if c.MaxDocuments < 1 {
		return fmt.Errorf("max documents must be at least 1, got %d", c.MaxDocuments)
	}
	return nil
}

// GetAllowedOrigins splits the comma-separated origins list.
func (c *Config) GetAllowedOrigins() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
