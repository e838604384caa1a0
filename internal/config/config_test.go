package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsComplete(t *testing.T) {
	cfg := Default()

	if cfg.HTTP.Addr == "" {
		t.Fatal("default http addr must be set")
	}
	if cfg.Privacy.FactsCacheTTL <= 0 {
		t.Fatal("default facts cache ttl must be positive")
	}
	if cfg.Limits.FreeInterestsPerDay <= 0 {
		t.Fatal("default free interests per day must be positive")
	}
	if cfg.Limits.DefaultTimezone == "" {
		t.Fatal("default timezone must be set")
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != Default().HTTP.Addr {
		t.Fatalf("expected default addr, got %q", cfg.HTTP.Addr)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("http:\n  addr: \":9090\"\nprivacy:\n  facts_cache_ttl: 90s\nlimits:\n  free_interests_per_day: 3\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("yaml override lost: %q", cfg.HTTP.Addr)
	}
	if cfg.Privacy.FactsCacheTTL != 90*time.Second {
		t.Fatalf("yaml ttl override lost: %v", cfg.Privacy.FactsCacheTTL)
	}
	if cfg.Limits.FreeInterestsPerDay != 3 {
		t.Fatalf("yaml limit override lost: %d", cfg.Limits.FreeInterestsPerDay)
	}
	if cfg.Redis.Addr != Default().Redis.Addr {
		t.Fatalf("untouched section must keep defaults, got %q", cfg.Redis.Addr)
	}
}

func TestEnvOverridesWinOverYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("http:\n  addr: \":9090\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("env override lost: %q", cfg.HTTP.Addr)
	}
	if cfg.Auth.JWTSecret != "env-secret" {
		t.Fatalf("env secret override lost: %q", cfg.Auth.JWTSecret)
	}
}

func TestEnvOverrideRejectsBadDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "soon")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for malformed duration override")
	}
}
