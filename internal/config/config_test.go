package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("JWT_EXPIRATION", "")
	t.Setenv("AI_MODEL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.Driver != StorageCouch {
		t.Errorf("Storage.Driver = %q, want %q", cfg.Storage.Driver, StorageCouch)
	}
	if cfg.JWT.Expiration != 15*time.Minute {
		t.Errorf("JWT.Expiration = %v", cfg.JWT.Expiration)
	}
	if cfg.AI.Model != "gemini-2.5-flash" {
		t.Errorf("AI.Model = %q", cfg.AI.Model)
	}
	if cfg.CORS.AllowedOrigins != "http://localhost:3000" {
		t.Errorf("CORS.AllowedOrigins = %q, want a concrete dev origin", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", StorageMemory)
	t.Setenv("JWT_EXPIRATION", "1h")
	t.Setenv("AI_MODEL", "gemini-2.0-flash")
	t.Setenv("AI_API_KEY", "")
	t.Setenv("GOOGLE_AI_API_KEY", "legacy-key")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.Driver != StorageMemory {
		t.Errorf("Storage.Driver = %q", cfg.Storage.Driver)
	}
	if cfg.JWT.Expiration != time.Hour {
		t.Errorf("JWT.Expiration = %v", cfg.JWT.Expiration)
	}
	if cfg.AI.Model != "gemini-2.0-flash" {
		t.Errorf("AI.Model = %q", cfg.AI.Model)
	}
	if cfg.AI.APIKey != "legacy-key" {
		t.Errorf("AI.APIKey = %q, want fallback to GOOGLE_AI_API_KEY", cfg.AI.APIKey)
	}
	if cfg.RateLimit.Enabled {
		t.Error("RateLimit.Enabled should be false")
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("Redis.DB = %d", cfg.Redis.DB)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad duration", env: map[string]string{"JWT_EXPIRATION": "soon"}},
		{name: "bad storage driver", env: map[string]string{"STORAGE_DRIVER": "mongo"}},
		{name: "default secret in production", env: map[string]string{"ENV": "production", "JWT_SECRET": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("Load() expected error but got none")
			}
		})
	}
}

func TestDatabaseURL(t *testing.T) {
	db := DatabaseConfig{Host: "couch", Port: "5984", User: "admin", Password: "pw"}
	if got := db.URL(); got != "http://admin:pw@couch:5984" {
		t.Errorf("URL() = %q", got)
	}
}
