package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "PORT", "DATABASE_URL", "DB_HOST", "REDIS_ADDR", "COUNTRIES_CACHE_TTL", "CORS_ALLOWED_ORIGINS", "DEFAULT_LOCALE", "RATE_LIMIT_PER_MINUTE", "VALIDATE_RATE_LIMIT_PER_MINUTE"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	if cfg.Env != "dev" || cfg.Port != 8080 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DBURL != "" {
		t.Fatalf("expected no database by default, got %q", cfg.DBURL)
	}
	if cfg.CountriesCacheTTL != 10*time.Minute {
		t.Fatalf("unexpected ttl %s", cfg.CountriesCacheTTL)
	}
	if cfg.DefaultLocale != "es" {
		t.Fatalf("unexpected locale %q", cfg.DefaultLocale)
	}
	if cfg.RateLimitPerMinute != 30 || cfg.ValidateRateLimitPerMinute != 300 {
		t.Fatalf("unexpected rate limits: submit=%d validate=%d", cfg.RateLimitPerMinute, cfg.ValidateRateLimitPerMinute)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("DB_NAME", "n")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_SSLMODE", "")
	t.Setenv("COUNTRIES_CACHE_TTL", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("OTEL_ENABLED", "true")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Fatalf("port = %d", cfg.Port)
	}
	if want := "postgres://u:p@db:5432/n?sslmode=disable"; cfg.DBURL != want {
		t.Fatalf("DBURL = %q, want %q", cfg.DBURL, want)
	}
	if cfg.CountriesCacheTTL != 30*time.Second {
		t.Fatalf("ttl = %s", cfg.CountriesCacheTTL)
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.CORSAllowedOrigins, want) {
		t.Fatalf("origins = %v", cfg.CORSAllowedOrigins)
	}
	if !cfg.OTELEnabled {
		t.Fatalf("expected otel enabled")
	}
}

func TestBadValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "eighty")
	t.Setenv("COUNTRIES_CACHE_TTL", "soon")
	t.Setenv("OTEL_ENABLED", "maybe")

	cfg := Load()

	if cfg.Port != 8080 || cfg.CountriesCacheTTL != 10*time.Minute || cfg.OTELEnabled {
		t.Fatalf("expected fallbacks, got %+v", cfg)
	}
}
