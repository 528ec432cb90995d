// Package config provides application configuration with multi-source
// priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.dionysus/config.yaml)
//  3. Default values
//
// Error handling uses sentinel errors so callers can check with errors.Is().
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidProvider indicates the AI provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrMissingAPIKey indicates a required API key is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidOllamaHost indicates the Ollama host is invalid.
	ErrInvalidOllamaHost = errors.New("invalid Ollama host")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is invalid.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is invalid.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")

	// ErrInvalidStreamDelay indicates the stream word delay is negative.
	ErrInvalidStreamDelay = errors.New("invalid stream word delay")

	// ErrInvalidMaxTurns indicates the tool-call turn bound is out of range.
	ErrInvalidMaxTurns = errors.New("invalid max turns")

	// ErrInvalidRateLimit indicates the request rate limit is negative.
	ErrInvalidRateLimit = errors.New("invalid rate limit")
)

// AI provider identifiers used in Config.Provider.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config stores application configuration.
type Config struct {
	// AI provider and model configuration
	Provider  string `mapstructure:"provider" json:"provider"`     // "gemini" (default), "openai", "ollama"
	ModelName string `mapstructure:"model_name" json:"model_name"` // e.g. "gemini-2.5-flash", "gpt-4o", "llama3.3"
	MaxTurns  int    `mapstructure:"max_turns" json:"max_turns"`

	// Ollama configuration (only used when provider is "ollama")
	OllamaHost string `mapstructure:"ollama_host" json:"ollama_host"`

	// Wine catalogue storage
	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"-"` // SENSITIVE
	PostgresDBName   string `mapstructure:"postgres_db_name" json:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode" json:"postgres_ssl_mode"`

	// Preference memory service. Empty URL disables memory.
	MemoryServiceURL string `mapstructure:"memory_service_url" json:"memory_service_url"`
	MemoryAPIKey     string `mapstructure:"memory_api_key" json:"-"` // SENSITIVE

	// HTTP serving
	Addr              string   `mapstructure:"addr" json:"addr"`
	CORSOrigins       []string `mapstructure:"cors_origins" json:"cors_origins"`
	StreamWordDelayMS int      `mapstructure:"stream_word_delay_ms" json:"stream_word_delay_ms"`
	RequestsPerSecond float64  `mapstructure:"requests_per_second" json:"requests_per_second"`
	RateBurst         int      `mapstructure:"rate_burst" json:"rate_burst"`

	// Observability. Empty endpoint disables trace export.
	OTLPEndpoint string `mapstructure:"otlp_endpoint" json:"otlp_endpoint"`
	Environment  string `mapstructure:"environment" json:"environment"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".dionysus")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL overrides the individual postgres settings
	if err := cfg.parseDatabaseURL(os.Getenv("DATABASE_URL")); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	viper.SetDefault("provider", ProviderGemini)
	viper.SetDefault("model_name", "gemini-2.5-flash")
	viper.SetDefault("max_turns", 8)

	viper.SetDefault("ollama_host", "http://localhost:11434")

	viper.SetDefault("postgres_host", "localhost")
	viper.SetDefault("postgres_port", 5432)
	viper.SetDefault("postgres_user", "dionysus")
	viper.SetDefault("postgres_password", "dionysus_dev_password")
	viper.SetDefault("postgres_db_name", "dionysus")
	viper.SetDefault("postgres_ssl_mode", "disable")

	viper.SetDefault("addr", "127.0.0.1:8084")
	viper.SetDefault("cors_origins", []string{})
	viper.SetDefault("stream_word_delay_ms", 30)
	viper.SetDefault("requests_per_second", 5.0)
	viper.SetDefault("rate_burst", 10)

	viper.SetDefault("environment", "dev")
}

// bindEnvVariables binds environment overrides explicitly.
// GEMINI_API_KEY and OPENAI_API_KEY are read directly by the genkit plugins,
// not via viper; Validate only checks their presence.
func bindEnvVariables() {
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("provider", "DIONYSUS_PROVIDER")
	mustBind("model_name", "DIONYSUS_MODEL_NAME")
	mustBind("ollama_host", "DIONYSUS_OLLAMA_HOST")
	mustBind("addr", "DIONYSUS_ADDR")
	mustBind("cors_origins", "DIONYSUS_CORS_ORIGINS")
	mustBind("stream_word_delay_ms", "DIONYSUS_STREAM_WORD_DELAY_MS")
	mustBind("memory_service_url", "MEMORY_SERVICE_URL")
	mustBind("memory_api_key", "MEMORY_API_KEY")
	mustBind("otlp_endpoint", "OTLP_ENDPOINT")
}

// Validate checks the configuration for consistency. Called by Load; exposed
// for tests and for callers that build a Config directly.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini:
		if os.Getenv("GEMINI_API_KEY") == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY not set for provider %q", ErrMissingAPIKey, c.Provider)
		}
	case ProviderOpenAI:
		if os.Getenv("OPENAI_API_KEY") == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY not set for provider %q", ErrMissingAPIKey, c.Provider)
		}
	case ProviderOllama:
		if c.OllamaHost == "" {
			return fmt.Errorf("%w: empty host", ErrInvalidOllamaHost)
		}
	default:
		return fmt.Errorf("%w: %q (want %s, %s or %s)",
			ErrInvalidProvider, c.Provider, ProviderGemini, ProviderOpenAI, ProviderOllama)
	}

	if c.PostgresHost == "" {
		return fmt.Errorf("%w: empty host", ErrInvalidPostgresHost)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPostgresPort, c.PostgresPort)
	}
	if c.PostgresDBName == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPostgresDBName)
	}

	if c.StreamWordDelayMS < 0 {
		return fmt.Errorf("%w: %d ms", ErrInvalidStreamDelay, c.StreamWordDelayMS)
	}
	if c.MaxTurns < 1 || c.MaxTurns > 32 {
		return fmt.Errorf("%w: %d (want 1-32)", ErrInvalidMaxTurns, c.MaxTurns)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRateLimit, c.RequestsPerSecond)
	}

	return nil
}
