package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. LITREVIEW_LLM_MODEL.
const EnvPrefix = "LITREVIEW_"

// DefaultPath is the config file read when no path is given.
const DefaultPath = "litreview.yaml"

// Config holds all configuration for the application.
type Config struct {
	StorePath string `yaml:"store_path" koanf:"store_path"`
	LogLevel  string `yaml:"log_level" koanf:"log_level"`
	LogFormat string `yaml:"log_format" koanf:"log_format"`

	LLMProvider string `yaml:"llm_provider" koanf:"llm_provider"`
	LLMBaseURL  string `yaml:"llm_base_url" koanf:"llm_base_url"`
	LLMModel    string `yaml:"llm_model" koanf:"llm_model"`
	LLMAPIKey   string `yaml:"llm_api_key" koanf:"llm_api_key"`

	EmbeddingsEnabled  bool          `yaml:"embeddings_enabled" koanf:"embeddings_enabled"`
	EmbeddingProvider  string        `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingBaseURL   string        `yaml:"embedding_base_url" koanf:"embedding_base_url"`
	EmbeddingModel     string        `yaml:"embedding_model" koanf:"embedding_model"`
	EmbeddingAPIKey    string        `yaml:"embedding_api_key" koanf:"embedding_api_key"`
	EmbeddingTimeout   time.Duration `yaml:"embedding_timeout" koanf:"embedding_timeout"`
	EmbeddingBatchSize int           `yaml:"embedding_batch_size" koanf:"embedding_batch_size"`

	ChunkChars     int `yaml:"chunk_chars" koanf:"chunk_chars"`
	MaxChunks      int `yaml:"max_chunks" koanf:"max_chunks"`
	TopK           int `yaml:"top_k" koanf:"top_k"`
	MaxSourceChars int `yaml:"max_source_chars" koanf:"max_source_chars"`
	DailyCallLimit int `yaml:"daily_call_limit" koanf:"daily_call_limit"`

	ExtractionTemplatePath string `yaml:"extraction_template_path" koanf:"extraction_template_path"`
	SummaryTemplatePath    string `yaml:"summary_template_path" koanf:"summary_template_path"`
	LibraryPattern         string `yaml:"library_pattern" koanf:"library_pattern"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		StorePath: "./data/litreview.json",
		LogLevel:  "info",
		LogFormat: "text",

		LLMProvider: "local",
		LLMBaseURL:  "http://localhost:8080",
		LLMModel:    "Llama-3.1-8B-Instruct",

		EmbeddingsEnabled:  true,
		EmbeddingProvider:  "local",
		EmbeddingBaseURL:   "http://localhost:8081",
		EmbeddingModel:     "granite-embedding-278m-multilingual",
		EmbeddingTimeout:   30 * time.Second,
		EmbeddingBatchSize: 16,

		ChunkChars:     1200,
		MaxChunks:      60,
		TopK:           4,
		MaxSourceChars: 24000,
		DailyCallLimit: 200,
	}
}

// Load builds the configuration in layers: defaults, then the YAML file at
// path (skipped when it does not exist), then LITREVIEW_* environment
// variables. A .env file in the working directory or one of its parents is
// loaded first; variables already set take precedence over it.
func Load(path string) (*Config, error) {
	loadDotEnv()

	if path == "" {
		path = DefaultPath
	}

	k := koanf.New(".")
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to access config %s: %w", path, err)
	}

	// LITREVIEW_LLM_MODEL -> llm_model
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = os.Getenv(APIKeyEnvVar(cfg.LLMProvider))
	}
	if cfg.EmbeddingAPIKey == "" {
		cfg.EmbeddingAPIKey = os.Getenv(APIKeyEnvVar(cfg.EmbeddingProvider))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv loads the nearest .env file, searching the working directory
// and up to four parents.
func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ { // Limit search depth
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return // Reached filesystem root
		}
		dir = parent
	}
}

var validProviders = map[string]bool{
	"local":  true,
	"openai": true,
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.StorePath) == "" {
		return fmt.Errorf("store_path is required")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log_format %q: must be text or json", c.LogFormat)
	}

	if !validProviders[c.LLMProvider] {
		return fmt.Errorf("invalid llm_provider %q: must be local or openai", c.LLMProvider)
	}
	if c.LLMModel == "" {
		return fmt.Errorf("llm_model is required")
	}

	if c.EmbeddingsEnabled {
		if !validProviders[c.EmbeddingProvider] {
			return fmt.Errorf("invalid embedding_provider %q: must be local or openai", c.EmbeddingProvider)
		}
		if c.EmbeddingModel == "" {
			return fmt.Errorf("embedding_model is required when embeddings are enabled")
		}
	}
	if c.EmbeddingTimeout < 0 {
		return fmt.Errorf("embedding_timeout must be non-negative")
	}

	for name, v := range map[string]int{
		"embedding_batch_size": c.EmbeddingBatchSize,
		"chunk_chars":          c.ChunkChars,
		"max_chunks":           c.MaxChunks,
		"top_k":                c.TopK,
		"max_source_chars":     c.MaxSourceChars,
		"daily_call_limit":     c.DailyCallLimit,
	} {
		if v < 0 {
			return fmt.Errorf("%s must be non-negative", name)
		}
	}
	return nil
}

// SlogLevel returns the configured log level. Validate has already
// rejected unknown names, so errors fall back to info.
func (c *Config) SlogLevel() slog.Level {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLogLevel maps debug, info, warn and error (case-insensitive) to slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return level, nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider string) string {
	switch provider {
	case "openai":
		return "OPENAI_API_KEY"
	default:
		return "LLM_API_KEY"
	}
}
