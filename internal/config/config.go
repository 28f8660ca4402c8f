package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"casino_loyalty/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	PlayerPort  string
	AdminPort   string
	DatabaseURL string
	JWTSecret   string
	Version     string

	// Redis (rate limiting, catalog cache, event pub/sub)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limits
	APIRateLimit    int
	APIRateWindow   time.Duration
	ClaimRateLimit  int
	ClaimRateWindow time.Duration
	CatalogCacheTTL time.Duration
	AllowedOrigin   string

	// Events
	EventsChannel string
	KafkaBrokers  []string
	KafkaTopic    string

	// Logging
	LogLevel string
	LogJSON  bool
	LogFile  string
}

// Загрузка конфига из env
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	cfg := &Config{
		PlayerPort:      envString("PLAYER_PORT", "8080"),
		AdminPort:       envString("ADMIN_PORT", "8081"),
		DatabaseURL:     dbURL,
		JWTSecret:       jwtSecret,
		Version:         envString("APP_VERSION", "dev"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         envInt("REDIS_DB", 0),
		APIRateLimit:    envInt("API_RATE_LIMIT", 120),
		APIRateWindow:   envSeconds("API_RATE_WINDOW_SECONDS", time.Minute),
		ClaimRateLimit:  envInt("CLAIM_RATE_LIMIT", 10),
		ClaimRateWindow: envSeconds("CLAIM_RATE_WINDOW_SECONDS", time.Minute),
		CatalogCacheTTL: envSeconds("CATALOG_CACHE_TTL_SECONDS", 0),
		AllowedOrigin:   os.Getenv("ALLOWED_ORIGIN"),
		EventsChannel:   envString("EVENTS_CHANNEL", "loyalty:events"),
		KafkaTopic:      envString("KAFKA_TOPIC", "loyalty.events"),
		LogLevel:        envString("LOG_LEVEL", "info"),
		LogJSON:         os.Getenv("LOG_JSON") == "true",
		LogFile:         os.Getenv("LOG_FILE"),
	}

	// брокеры kafka !! ЧЕРЕЗ ЗАПЯТУЮ В ENV !!
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envInt returns def when the variable is unset or not a non-negative integer
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envSeconds(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
