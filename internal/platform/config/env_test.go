package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Path string `env:"DUSK_MERIDIAN_TEST_DB_PATH" envDefault:"data/codex-cache.db"`
	Max  int    `env:"DUSK_MERIDIAN_TEST_MAX" envDefault:"7"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Path != "data/codex-cache.db" {
		t.Fatalf("expected default path, got %q", cfg.Path)
	}
	if cfg.Max != 7 {
		t.Fatalf("expected default max 7, got %d", cfg.Max)
	}
}

func TestParseEnvOverride(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("DUSK_MERIDIAN_TEST_DB_PATH", "/tmp/other.db")

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Path != "/tmp/other.db" {
		t.Fatalf("expected override path, got %q", cfg.Path)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("DUSK_MERIDIAN_TEST_MAX", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
