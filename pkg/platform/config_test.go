package platform

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/achneerov/dreamrender/pkg/generate"
	"github.com/achneerov/dreamrender/pkg/llm/gemini"
	"github.com/achneerov/dreamrender/pkg/llm/openai"
	"github.com/achneerov/dreamrender/pkg/session"
)

const (
	cfgTestFilePerms     = 0o600
	cfgTestRetentionDays = 7
	cfgTestMaxTokens     = 4096
	cfgTestSessionTTL    = 30 * time.Minute
	cfgTestSweep         = time.Minute
	cfgTestAddress       = ":8080"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dreamrender.yaml")
	if err := os.WriteFile(path, []byte(content), cfgTestFilePerms); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("TEST_MODEL_KEY", "sk-from-env")
	t.Setenv("TEST_DSN", "postgres://dream@localhost/dream")

	path := writeConfig(t, `
server:
  address: ":8080"
logging:
  level: debug
  format: json
model:
  provider: openai
  api_key: ${TEST_MODEL_KEY}
  max_tokens: 4096
sessions:
  ttl: 30m
  sweep_interval: 1m
keywords:
  path: /etc/dreamrender/keywords.json
database:
  dsn: ${TEST_DSN}
audit:
  enabled: true
  retention_days: 7
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Address != cfgTestAddress {
		t.Errorf("Server.Address = %q, want %q", cfg.Server.Address, cfgTestAddress)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Model.APIKey != "sk-from-env" {
		t.Errorf("Model.APIKey = %q, want expanded env value", cfg.Model.APIKey)
	}
	if cfg.Model.MaxTokens != cfgTestMaxTokens {
		t.Errorf("Model.MaxTokens = %d, want %d", cfg.Model.MaxTokens, cfgTestMaxTokens)
	}
	if cfg.Model.BaseURL != openai.DefaultBaseURL {
		t.Errorf("Model.BaseURL = %q, want default", cfg.Model.BaseURL)
	}
	if cfg.Sessions.TTL != cfgTestSessionTTL || cfg.Sessions.SweepInterval != cfgTestSweep {
		t.Errorf("Sessions = %+v", cfg.Sessions)
	}
	if cfg.Keywords.Path != "/etc/dreamrender/keywords.json" {
		t.Errorf("Keywords.Path = %q", cfg.Keywords.Path)
	}
	if cfg.Database.DSN != "postgres://dream@localhost/dream" {
		t.Errorf("Database.DSN = %q, want expanded env value", cfg.Database.DSN)
	}
	if !cfg.Audit.Enabled || cfg.Audit.RetentionDays != cfgTestRetentionDays {
		t.Errorf("Audit = %+v", cfg.Audit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig() expected error for missing file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [unterminated")
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() expected error for invalid YAML")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_EXPAND_A", "alpha")

	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"${TEST_EXPAND_A}", "alpha"},
		{"x-${TEST_EXPAND_A}-y", "x-alpha-y"},
		{"${TEST_EXPAND_UNSET_VARIABLE}", ""},
		{"$TEST_EXPAND_A", "$TEST_EXPAND_A"},
	}
	for _, tt := range tests {
		if got := expandEnvVars(tt.in); got != tt.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	if cfg.Server.Address != ":3000" {
		t.Errorf("Server.Address = %q, want :3000", cfg.Server.Address)
	}
	if cfg.Server.ReadHeaderTimeout != defaultReadHeaderTimeout {
		t.Errorf("Server.ReadHeaderTimeout = %v", cfg.Server.ReadHeaderTimeout)
	}
	if cfg.Server.ShutdownTimeout != defaultShutdownTimeout {
		t.Errorf("Server.ShutdownTimeout = %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Model.Provider != ProviderOpenAI || cfg.Model.Model != openai.DefaultModel {
		t.Errorf("Model = %+v", cfg.Model)
	}
	if cfg.Model.Temperature != generate.DefaultTemperature ||
		cfg.Model.TopP != generate.DefaultTopP ||
		cfg.Model.MaxTokens != generate.DefaultMaxTokens {
		t.Errorf("Model sampling = %+v", cfg.Model)
	}
	if cfg.Sessions.TTL != session.DefaultTTL || cfg.Sessions.SweepInterval != session.DefaultSweepInterval {
		t.Errorf("Sessions = %+v", cfg.Sessions)
	}
	if cfg.Database.MaxOpenConns != defaultMaxOpenConns {
		t.Errorf("Database.MaxOpenConns = %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Audit.RetentionDays != defaultRetentionDays || cfg.Audit.CleanupInterval != defaultAuditCleanup {
		t.Errorf("Audit = %+v", cfg.Audit)
	}
}

func TestApplyDefaults_Gemini(t *testing.T) {
	cfg := &Config{Model: ModelConfig{Provider: ProviderGemini}}
	applyDefaults(cfg)

	if cfg.Model.Model != gemini.DefaultModel {
		t.Errorf("Model.Model = %q, want %q", cfg.Model.Model, gemini.DefaultModel)
	}
	if cfg.Model.BaseURL != "" {
		t.Errorf("Model.BaseURL = %q, want empty for gemini", cfg.Model.BaseURL)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvCerebrasKey, "csk-test")
	t.Setenv(EnvPixabayKey, "px-test")
	t.Setenv(EnvGeminiKey, "gm-test")
	t.Setenv(EnvModelProvider, "")
	t.Setenv(EnvDatabaseDSN, "")

	cfg := ConfigFromEnv()

	if cfg.Server.Address != ":8081" {
		t.Errorf("Server.Address = %q, want :8081", cfg.Server.Address)
	}
	if cfg.Model.Provider != ProviderOpenAI || cfg.Model.APIKey != "csk-test" {
		t.Errorf("Model = %+v", cfg.Model)
	}
	if cfg.Images.APIKey != "px-test" {
		t.Errorf("Images.APIKey = %q", cfg.Images.APIKey)
	}
	if cfg.Audit.Enabled {
		t.Error("Audit.Enabled = true without a DSN")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestConfigFromEnv_GeminiAndAudit(t *testing.T) {
	t.Setenv(EnvPort, "")
	t.Setenv(EnvCerebrasKey, "csk-test")
	t.Setenv(EnvGeminiKey, "gm-test")
	t.Setenv(EnvModelProvider, ProviderGemini)
	t.Setenv(EnvDatabaseDSN, "postgres://localhost/dream")

	cfg := ConfigFromEnv()

	if cfg.Server.Address != ":3000" {
		t.Errorf("Server.Address = %q, want :3000", cfg.Server.Address)
	}
	if cfg.Model.APIKey != "gm-test" {
		t.Errorf("Model.APIKey = %q, want the gemini key", cfg.Model.APIKey)
	}
	if !cfg.Audit.Enabled {
		t.Error("Audit.Enabled = false with a DSN")
	}
}
