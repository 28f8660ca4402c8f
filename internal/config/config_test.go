package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/loyalty")
	t.Setenv("JWT_SECRET", "secret")

	cfg := Load()
	if cfg.PlayerPort != "8080" || cfg.AdminPort != "8081" {
		t.Fatalf("unexpected ports %s/%s", cfg.PlayerPort, cfg.AdminPort)
	}
	if cfg.CatalogCacheTTL != 0 {
		t.Fatalf("catalog cache should be disabled by default, got %v", cfg.CatalogCacheTTL)
	}
	if cfg.ClaimRateWindow != time.Minute {
		t.Fatalf("claim window = %v", cfg.ClaimRateWindow)
	}
	if cfg.EventsChannel != "loyalty:events" {
		t.Fatalf("events channel = %s", cfg.EventsChannel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/loyalty")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CATALOG_CACHE_TTL_SECONDS", "30")
	t.Setenv("CLAIM_RATE_LIMIT", "3")
	t.Setenv("API_RATE_LIMIT", "not-a-number")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("LOG_JSON", "true")

	cfg := Load()
	if cfg.CatalogCacheTTL != 30*time.Second {
		t.Fatalf("catalog ttl = %v", cfg.CatalogCacheTTL)
	}
	if cfg.ClaimRateLimit != 3 {
		t.Fatalf("claim rate limit = %d", cfg.ClaimRateLimit)
	}
	if cfg.APIRateLimit != 120 {
		t.Fatalf("invalid API_RATE_LIMIT should fall back to default, got %d", cfg.APIRateLimit)
	}
	if !reflect.DeepEqual(cfg.KafkaBrokers, []string{"k1:9092", "k2:9092"}) {
		t.Fatalf("kafka brokers = %v", cfg.KafkaBrokers)
	}
	if !cfg.LogJSON {
		t.Fatalf("expected json logging")
	}
}
