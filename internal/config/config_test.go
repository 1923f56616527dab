package config

import (
	"testing"
	"time"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "PORT", "DB_PATH", "CATALOG_SOURCE", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "KAFKA_ENABLED", "KAFKA_BROKERS", "KAFKA_TOPIC_QUOTES",
		"UPSTREAM_BASE_URL", "UPSTREAM_TIMEOUT", "UPSTREAM_RETRIES", "UPSTREAM_BACKOFF", "UPSTREAM_CACHE_TTL",
	} {
		unsetEnv(t, key)
	}
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg := Load()

	if cfg.Port != defaultPort || cfg.DBPath != defaultDBPath {
		t.Fatalf("unexpected defaults: port=%q db=%q", cfg.Port, cfg.DBPath)
	}
	if !cfg.IsDev() {
		t.Fatalf("expected development env by default")
	}
	if cfg.CatalogSource != CatalogSQL {
		t.Fatalf("CatalogSource=%q, want %q", cfg.CatalogSource, CatalogSQL)
	}
	if cfg.Redis.Enabled() {
		t.Fatalf("redis should be disabled without REDIS_ADDR")
	}
	if cfg.Upstream.Timeout != 5*time.Second || cfg.Upstream.Retries != 2 {
		t.Fatalf("unexpected upstream defaults: %+v", cfg.Upstream)
	}
	if len(cfg.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", cfg.Warnings)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("CATALOG_SOURCE", "HTTP")
	t.Setenv("UPSTREAM_BASE_URL", "http://pricing.internal/")
	t.Setenv("UPSTREAM_TIMEOUT", "2s")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")

	cfg := Load()

	if cfg.IsDev() {
		t.Fatalf("production should not be dev")
	}
	if cfg.CatalogSource != CatalogHTTP {
		t.Fatalf("CatalogSource=%q, want http", cfg.CatalogSource)
	}
	if cfg.Upstream.BaseURL != "http://pricing.internal" {
		t.Fatalf("BaseURL=%q", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.Timeout != 2*time.Second {
		t.Fatalf("Timeout=%v", cfg.Upstream.Timeout)
	}
	if !cfg.Redis.Enabled() {
		t.Fatalf("redis should be enabled")
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "b:9092" {
		t.Fatalf("Brokers=%v", cfg.Kafka.Brokers)
	}
}

func TestLoad_HTTPSourceWithoutURLFallsBack(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CATALOG_SOURCE", "http")

	cfg := Load()

	if cfg.CatalogSource != CatalogSQL {
		t.Fatalf("CatalogSource=%q, want sql fallback", cfg.CatalogSource)
	}
	if len(cfg.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", cfg.Warnings)
	}
}
