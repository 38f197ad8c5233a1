package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		// t.Setenv restores the previous value when the test ends.
		t.Setenv("APP_PORT", "9090")
		t.Setenv("APP_ENV", "test")
		t.Setenv("UPSTREAM_API_URL", "http://catalog.internal:8000/")
		t.Setenv("UPSTREAM_TIMEOUT", "3s")
		t.Setenv("CATEGORY_HIERARCHY_FILE", "/etc/buildmart/hierarchy.yaml")
		t.Setenv("JWT_SECRET", "jwt_secret")
		t.Setenv("INTERNAL_SECRET_KEY", "internal_secret")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://buildmart.example, http://localhost:3000 ,")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "9090", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, "http://catalog.internal:8000", cfg.UpstreamAPIURL)
		assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
		assert.Equal(t, "/etc/buildmart/hierarchy.yaml", cfg.HierarchyFile)
		assert.Equal(t, "jwt_secret", cfg.JWTSecret)
		assert.Equal(t, "internal_secret", cfg.InternalSecretKey)
		assert.Equal(t, []string{"https://buildmart.example", "http://localhost:3000"}, cfg.AllowedOrigins)
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("APP_PORT", "")
		t.Setenv("UPSTREAM_API_URL", "")
		t.Setenv("DJANGO_API_URL", "")
		t.Setenv("UPSTREAM_TIMEOUT", "not-a-duration")
		t.Setenv("CORS_ALLOWED_ORIGINS", "")

		cfg := LoadConfig()

		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, "http://127.0.0.1:8000", cfg.UpstreamAPIURL)
		assert.Equal(t, 15*time.Second, cfg.UpstreamTimeout)
		assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	})

	t.Run("Legacy upstream variable", func(t *testing.T) {
		t.Setenv("UPSTREAM_API_URL", "")
		t.Setenv("DJANGO_API_URL", "http://django:8000")

		cfg := LoadConfig()

		assert.Equal(t, "http://django:8000", cfg.UpstreamAPIURL)
	})
}
