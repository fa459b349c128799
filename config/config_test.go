package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.Storage != StorageSQLite {
		t.Fatalf("Storage = %q, want sqlite", cfg.Storage)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("CacheTTL = %v, want 5m", cfg.CacheTTL)
	}
	if cfg.RateLimit != 5 || cfg.RateWindow != time.Minute {
		t.Fatalf("rate limit = %d/%v", cfg.RateLimit, cfg.RateWindow)
	}
}

func TestLoadEnvFileAndOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "COSTSEER_STORAGE=memory\nCOSTSEER_HTTP_ADDR=:9000\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("COSTSEER_HTTP_ADDR", ":7000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage != StorageMemory {
		t.Fatalf("Storage = %q, want memory from file", cfg.Storage)
	}
	if cfg.HTTPAddr != ":7000" {
		t.Fatalf("HTTPAddr = %q, want process env to win", cfg.HTTPAddr)
	}
}

func TestLoadSkipsMissingEnvFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("load: %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("COSTSEER_STORAGE", "postgres")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "COSTSEER_STORAGE") {
		t.Fatalf("expected storage error, got %v", err)
	}

	t.Setenv("COSTSEER_STORAGE", "memory")
	t.Setenv("COSTSEER_CACHE_TTL", "soon")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}
