// Package platform wires the generation server together from configuration.
package platform

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/achneerov/dreamrender/pkg/generate"
	"github.com/achneerov/dreamrender/pkg/llm/gemini"
	"github.com/achneerov/dreamrender/pkg/llm/openai"
	"github.com/achneerov/dreamrender/pkg/session"
)

// Model providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvPort          = "PORT"
	EnvCerebrasKey   = "CEREBRAS_API_KEY"
	EnvGeminiKey     = "GEMINI_API_KEY"
	EnvPixabayKey    = "PIXABAY_API_KEY"
	EnvDatabaseDSN   = "DREAMRENDER_DATABASE_DSN"
	EnvModelProvider = "DREAMRENDER_MODEL_PROVIDER"
)

const (
	defaultPort              = "3000"
	defaultReadHeaderTimeout = 10 * time.Second
	defaultShutdownTimeout   = 25 * time.Second
	defaultMaxOpenConns      = 10
	defaultRetentionDays     = 30
	defaultAuditCleanup      = time.Hour
)

// Config holds the complete server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Model    ModelConfig    `yaml:"model"`
	Images   ImagesConfig   `yaml:"images"`
	Sessions SessionsConfig `yaml:"sessions"`
	Keywords KeywordsConfig `yaml:"keywords"`
	Database DatabaseConfig `yaml:"database"`
	Audit    AuditConfig    `yaml:"audit"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Address           string        `yaml:"address"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// ModelConfig selects and tunes the completion provider.
type ModelConfig struct {
	Provider    string  `yaml:"provider"` // openai, gemini
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	TopP        float64 `yaml:"top_p"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// ImagesConfig configures the image search provider.
type ImagesConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// SessionsConfig configures the generation context store.
type SessionsConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// KeywordsConfig points at a theme keyword list. The embedded list is used
// when Path is empty.
type KeywordsConfig struct {
	Path string `yaml:"path"`
}

// DatabaseConfig configures the database connection.
type DatabaseConfig struct {
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// AuditConfig configures the generation log.
type AuditConfig struct {
	Enabled         bool          `yaml:"enabled"`
	RetentionDays   int           `yaml:"retention_days"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// LoadConfig loads configuration from a YAML file. ${VAR} references are
// expanded from the environment before parsing.
func LoadConfig(path string) (*Config, error) {
	// #nosec G304 -- path is from CLI args, controlled by admin
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	data = []byte(expandEnvVars(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// ConfigFromEnv builds a configuration from environment variables alone.
// Without a DSN the generation log stays disabled.
func ConfigFromEnv() *Config {
	port := os.Getenv(EnvPort)
	if port == "" {
		port = defaultPort
	}

	cfg := &Config{
		Server: ServerConfig{Address: ":" + port},
		Model: ModelConfig{
			Provider: os.Getenv(EnvModelProvider),
			APIKey:   os.Getenv(EnvCerebrasKey),
		},
		Images:   ImagesConfig{APIKey: os.Getenv(EnvPixabayKey)},
		Database: DatabaseConfig{DSN: os.Getenv(EnvDatabaseDSN)},
	}
	if cfg.Model.Provider == ProviderGemini {
		cfg.Model.APIKey = os.Getenv(EnvGeminiKey)
	}
	cfg.Audit.Enabled = cfg.Database.DSN != ""

	applyDefaults(cfg)
	return cfg
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in the string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// applyDefaults applies default values to the configuration.
func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":" + defaultPort
	}
	if cfg.Server.ReadHeaderTimeout == 0 {
		cfg.Server.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	applyModelDefaults(&cfg.Model)
	if cfg.Sessions.TTL == 0 {
		cfg.Sessions.TTL = session.DefaultTTL
	}
	if cfg.Sessions.SweepInterval == 0 {
		cfg.Sessions.SweepInterval = session.DefaultSweepInterval
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = defaultMaxOpenConns
	}
	if cfg.Audit.RetentionDays == 0 {
		cfg.Audit.RetentionDays = defaultRetentionDays
	}
	if cfg.Audit.CleanupInterval == 0 {
		cfg.Audit.CleanupInterval = defaultAuditCleanup
	}
}

func applyModelDefaults(m *ModelConfig) {
	if m.Provider == "" {
		m.Provider = ProviderOpenAI
	}
	if m.Model == "" {
		switch m.Provider {
		case ProviderGemini:
			m.Model = gemini.DefaultModel
		default:
			m.Model = openai.DefaultModel
		}
	}
	if m.Provider == ProviderOpenAI && m.BaseURL == "" {
		m.BaseURL = openai.DefaultBaseURL
	}
	if m.Temperature == 0 {
		m.Temperature = generate.DefaultTemperature
	}
	if m.TopP == 0 {
		m.TopP = generate.DefaultTopP
	}
	if m.MaxTokens == 0 {
		m.MaxTokens = generate.DefaultMaxTokens
	}
}
