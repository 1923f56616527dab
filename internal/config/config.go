package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultDBPath        = "./dev.db"
	defaultPort          = "8080"
	defaultEnv           = "development"
	defaultCatalogSource = "sql"
)

// Catalog sources.
const (
	CatalogSQL  = "sql"
	CatalogHTTP = "http"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string
	Port          string
	DBPath        string
	CatalogSource string
	Logger        LoggerConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	Upstream      UpstreamConfig

	// Warnings collects non-fatal problems found while loading, to be logged
	// once a logger exists.
	Warnings []string
}

// LoggerConfig configures the structured logger.
type LoggerConfig struct {
	Level  string
	Format string
	File   string
}

// RedisConfig configures the upstream response cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis address is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// KafkaConfig configures quote event publishing.
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// UpstreamConfig configures the product-data service client.
type UpstreamConfig struct {
	BaseURL  string
	Timeout  time.Duration
	Retries  int
	Backoff  time.Duration
	CacheTTL time.Duration
}

// IsDev reports whether the service runs in local development mode.
func (c Config) IsDev() bool {
	return c.Env == defaultEnv || c.Env == "dev"
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: production injects real environment variables.
	_ = loadDotEnv(".env")

	cfg := Config{
		Env:           getEnv("APP_ENV", defaultEnv),
		Port:          getEnv("PORT", defaultPort),
		DBPath:        getEnv("DB_PATH", defaultDBPath),
		CatalogSource: strings.ToLower(getEnv("CATALOG_SOURCE", defaultCatalogSource)),
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			File:   getEnv("LOG_FILE", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvAsBool("KAFKA_ENABLED", false),
			Brokers: splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			Topic:   getEnv("KAFKA_TOPIC_QUOTES", "quotes"),
		},
		Upstream: UpstreamConfig{
			BaseURL:  strings.TrimRight(getEnv("UPSTREAM_BASE_URL", ""), "/"),
			Timeout:  getEnvAsDuration("UPSTREAM_TIMEOUT", 5*time.Second),
			Retries:  getEnvAsInt("UPSTREAM_RETRIES", 2),
			Backoff:  getEnvAsDuration("UPSTREAM_BACKOFF", 200*time.Millisecond),
			CacheTTL: getEnvAsDuration("UPSTREAM_CACHE_TTL", 10*time.Minute),
		},
	}

	switch cfg.CatalogSource {
	case CatalogSQL:
	case CatalogHTTP:
		if cfg.Upstream.BaseURL == "" {
			cfg.Warnings = append(cfg.Warnings, "CATALOG_SOURCE=http but UPSTREAM_BASE_URL is not set; falling back to sql")
			cfg.CatalogSource = CatalogSQL
		}
	default:
		cfg.Warnings = append(cfg.Warnings, "unknown CATALOG_SOURCE "+strconv.Quote(cfg.CatalogSource)+"; using sql")
		cfg.CatalogSource = CatalogSQL
	}
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) == 0 {
		cfg.Warnings = append(cfg.Warnings, "KAFKA_ENABLED is set without KAFKA_BROKERS; quote events are disabled")
		cfg.Kafka.Enabled = false
	}
	if cfg.Upstream.Retries < 0 {
		cfg.Upstream.Retries = 0
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	switch strings.ToLower(getEnv(key, "")) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil && value > 0 {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
