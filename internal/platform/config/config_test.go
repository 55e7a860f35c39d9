package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks all TUBE_ environment variables for a clean test.
func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"TUBE_CONFIG_FILE",
		"TUBE_SERVER_PORT",
		"TUBE_SERVER_HOST",
		"TUBE_SERVER_ALLOWED_ORIGINS",
		"TUBE_SERVER_SESSION_IDLE",
		"TUBE_BACKEND_URL",
		"TUBE_STORE_DRIVER",
		"TUBE_STORE_PATH",
		"TUBE_DATABASE_URL",
		"TUBE_DATABASE_MAX_CONNS",
		"TUBE_DATABASE_MIN_CONNS",
		"TUBE_CACHE_URL",
		"TUBE_CACHE_PREFIX",
		"TUBE_EXPORT_DIR",
		"TUBE_EXPORT_FORMAT",
		"TUBE_EXPORT_S3_BUCKET",
		"TUBE_EXPORT_S3_REGION",
		"TUBE_EXPORT_S3_ENDPOINT",
		"TUBE_EXPORT_S3_ACCESS_KEY",
		"TUBE_EXPORT_S3_SECRET_KEY",
		"TUBE_EXPORT_S3_PREFIX",
		"TUBE_LOG_LEVEL",
		"TUBE_LOG_FORMAT",
		"TUBE_UI_LANGUAGE",
		"TUBE_UI_NO_COLOR",
	}
	for _, v := range envVars {
		t.Setenv(v, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Backend.URL != "http://127.0.0.1:8000" {
		t.Errorf("Backend.URL = %q, want http://127.0.0.1:8000", cfg.Backend.URL)
	}
	if cfg.Server.SessionIdle != 30*time.Minute {
		t.Errorf("Server.SessionIdle = %s, want 30m", cfg.Server.SessionIdle)
	}
	if cfg.Store.Driver != StoreFile {
		t.Errorf("Store.Driver = %q, want file", cfg.Store.Driver)
	}
	if cfg.Cache.URL != "redis://localhost:6379" {
		t.Errorf("Cache.URL = %q, want redis://localhost:6379", cfg.Cache.URL)
	}
	if cfg.Export.Format != "json" {
		t.Errorf("Export.Format = %q, want json", cfg.Export.Format)
	}
	if cfg.UI.Language != "en" {
		t.Errorf("UI.Language = %q, want en", cfg.UI.Language)
	}
	if cfg.HasS3Export() {
		t.Error("HasS3Export() should be false by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v; defaults should pass", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)

	t.Setenv("TUBE_SERVER_PORT", "9090")
	t.Setenv("TUBE_BACKEND_URL", "http://backend:8000")
	t.Setenv("TUBE_STORE_DRIVER", "redis")
	t.Setenv("TUBE_SERVER_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("TUBE_EXPORT_S3_BUCKET", "exports")
	t.Setenv("TUBE_UI_NO_COLOR", "1")
	t.Setenv("TUBE_SERVER_SESSION_IDLE", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Backend.URL != "http://backend:8000" {
		t.Errorf("Backend.URL = %q, want http://backend:8000", cfg.Backend.URL)
	}
	if cfg.Store.Driver != StoreRedis {
		t.Errorf("Store.Driver = %q, want redis", cfg.Store.Driver)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("Server.AllowedOrigins = %v, want two trimmed origins", cfg.Server.AllowedOrigins)
	}
	if !cfg.HasS3Export() {
		t.Error("HasS3Export() should be true when a bucket is set")
	}
	if !cfg.UI.NoColor {
		t.Error("UI.NoColor should be true")
	}
	if cfg.Server.SessionIdle != 5*time.Minute {
		t.Errorf("Server.SessionIdle = %s, want 5m", cfg.Server.SessionIdle)
	}
}

func TestLoad_ConfigFileOverlay(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "tube.yaml")
	data := []byte("backend:\n  url: http://from-file:8000\nstore:\n  driver: sqlite\n  path: /tmp/tube.db\nui:\n  language: ms\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TUBE_CONFIG_FILE", path)
	t.Setenv("TUBE_BACKEND_URL", "http://from-env:8000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Backend.URL != "http://from-env:8000" {
		t.Errorf("Backend.URL = %q, env should override file", cfg.Backend.URL)
	}
	if cfg.Store.Driver != StoreSQLite || cfg.Store.Path != "/tmp/tube.db" {
		t.Errorf("Store = %+v, want sqlite at /tmp/tube.db", cfg.Store)
	}
	if cfg.UI.Language != "ms" {
		t.Errorf("UI.Language = %q, want ms", cfg.UI.Language)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, unset keys should keep defaults", cfg.Server.Port)
	}
}

func TestLoad_ConfigFileErrors(t *testing.T) {
	clearEnv(t)

	t.Run("missing", func(t *testing.T) {
		t.Setenv("TUBE_CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
		if _, err := Load(); err == nil {
			t.Fatal("Load() should fail for a missing config file")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("server: [unclosed"), 0o600); err != nil {
			t.Fatal(err)
		}
		t.Setenv("TUBE_CONFIG_FILE", path)
		if _, err := Load(); err == nil {
			t.Fatal("Load() should fail for invalid YAML")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"missing backend", func(c *Config) { c.Backend.URL = "" }, true},
		{"unknown store", func(c *Config) { c.Store.Driver = "mongo" }, true},
		{"sqlite without path", func(c *Config) { c.Store.Driver = StoreSQLite; c.Store.Path = "" }, true},
		{"memory without path", func(c *Config) { c.Store.Driver = StoreMemory; c.Store.Path = "" }, false},
		{"xlsx export", func(c *Config) { c.Export.Format = "xlsx" }, false},
		{"csv export", func(c *Config) { c.Export.Format = "csv" }, true},
		{"upper-case level", func(c *Config) { c.Log.Level = "DEBUG" }, false},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, true},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"malay", func(c *Config) { c.UI.Language = "ms" }, false},
		{"french", func(c *Config) { c.UI.Language = "fr" }, true},
		{"no session expiry", func(c *Config) { c.Server.SessionIdle = 0 }, false},
		{"negative session idle", func(c *Config) { c.Server.SessionIdle = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNoColorParsing(t *testing.T) {
	tests := []struct {
		name string
		val  string
		want bool
	}{
		{"true", "true", true},
		{"TRUE", "TRUE", true},
		{"false", "false", false},
		{"1", "1", true},
		{"0", "0", false},
		{"empty", "", false},
		{"invalid", "notabool", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if tt.val != "" {
				t.Setenv("TUBE_UI_NO_COLOR", tt.val)
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.UI.NoColor != tt.want {
				t.Errorf("UI.NoColor = %v, want %v", cfg.UI.NoColor, tt.want)
			}
		})
	}
}
