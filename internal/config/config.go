package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppPort         = "8080"
	defaultUpstreamURL     = "http://127.0.0.1:8000"
	defaultUpstreamTimeout = 15 * time.Second
)

type Config struct {
	AppPort           string
	AppEnv            string
	UpstreamAPIURL    string
	UpstreamTimeout   time.Duration
	HierarchyFile     string
	JWTSecret         string
	InternalSecretKey string
	AllowedOrigins    []string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:           getEnv("APP_PORT", defaultAppPort),
		AppEnv:            os.Getenv("APP_ENV"),
		UpstreamAPIURL:    strings.TrimRight(getEnv("UPSTREAM_API_URL", getEnv("DJANGO_API_URL", defaultUpstreamURL)), "/"),
		UpstreamTimeout:   defaultUpstreamTimeout,
		HierarchyFile:     os.Getenv("CATEGORY_HIERARCHY_FILE"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		InternalSecretKey: os.Getenv("INTERNAL_SECRET_KEY"),
		AllowedOrigins:    splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	if raw := os.Getenv("UPSTREAM_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.UpstreamTimeout = d
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
