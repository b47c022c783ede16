package platform

import (
	"fmt"
	"log/slog"
	"strings"
)

var validLogLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	switch c.Model.Provider {
	case ProviderOpenAI:
		if c.Model.BaseURL == "" {
			errs = append(errs, "model.base_url is required for the openai provider")
		}
	case ProviderGemini:
		if c.Model.APIKey == "" {
			errs = append(errs, "model.api_key is required for the gemini provider")
		}
	default:
		errs = append(errs, fmt.Sprintf("model.provider %q is not supported", c.Model.Provider))
	}

	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		errs = append(errs, "model.temperature must be between 0 and 2")
	}
	if c.Model.TopP < 0 || c.Model.TopP > 1 {
		errs = append(errs, "model.top_p must be between 0 and 1")
	}
	if c.Model.MaxTokens < 0 {
		errs = append(errs, "model.max_tokens must not be negative")
	}

	if c.Audit.Enabled && c.Database.DSN == "" {
		errs = append(errs, "database.dsn is required when audit is enabled")
	}
	if c.Audit.RetentionDays < 0 {
		errs = append(errs, "audit.retention_days must not be negative")
	}

	if c.Sessions.TTL < 0 || c.Sessions.SweepInterval < 0 {
		errs = append(errs, "sessions durations must not be negative")
	}

	if _, ok := validLogLevels[strings.ToLower(c.Logging.Level)]; !ok {
		errs = append(errs, fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	if f := c.Logging.Format; f != "text" && f != "json" {
		errs = append(errs, fmt.Sprintf("logging.format %q must be text or json", f))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// SlogLevel returns the configured log level. Unknown levels map to info.
func (l LoggingConfig) SlogLevel() slog.Level {
	if lvl, ok := validLogLevels[strings.ToLower(l.Level)]; ok {
		return lvl
	}
	return slog.LevelInfo
}
