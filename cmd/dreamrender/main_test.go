package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/achneerov/dreamrender/pkg/platform"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-config", "/etc/dreamrender.yaml", "-address", ":9000", "-version"})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if opts.configPath != "/etc/dreamrender.yaml" {
		t.Errorf("configPath = %q", opts.configPath)
	}
	if opts.address != ":9000" {
		t.Errorf("address = %q", opts.address)
	}
	if !opts.showVersion {
		t.Error("showVersion = false")
	}
}

func TestParseFlags_Unknown(t *testing.T) {
	if _, err := parseFlags([]string{"-transport", "stdio"}); err == nil {
		t.Error("parseFlags() expected error for unknown flag")
	}
}

func TestApplyConfigOverrides(t *testing.T) {
	cfg := &platform.Config{Server: platform.ServerConfig{Address: ":3000"}}

	applyConfigOverrides(cfg, serverOptions{})
	if cfg.Server.Address != ":3000" {
		t.Errorf("address = %q, want unchanged", cfg.Server.Address)
	}

	applyConfigOverrides(cfg, serverOptions{address: ":9000"})
	if cfg.Server.Address != ":9000" {
		t.Errorf("address = %q, want :9000", cfg.Server.Address)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv(platform.EnvPort, "4000")

	cfg, err := loadConfig(serverOptions{})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Server.Address != ":4000" {
		t.Errorf("address = %q, want :4000", cfg.Server.Address)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  address: \":9090\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(serverOptions{configPath: path})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Server.Address != ":9090" {
		t.Errorf("address = %q, want :9090", cfg.Server.Address)
	}

	if _, err := loadConfig(serverOptions{configPath: path + ".missing"}); err == nil {
		t.Error("loadConfig() expected error for missing file")
	}
}
