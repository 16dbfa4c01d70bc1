package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PERMITDESK_ADDR", "PERMITDESK_JWT_SECRET", "PERMITDESK_DATABASE_PATH", "PERMITDESK_UPLOAD_DIR"} {
		t.Setenv(k, "")
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.Addr)
	}
	if cfg.DatabasePath != "permitdesk.db" {
		t.Errorf("expected default database path, got %q", cfg.DatabasePath)
	}
	if cfg.UploadDir != "uploads" {
		t.Errorf("expected default upload dir, got %q", cfg.UploadDir)
	}
	if cfg.APITimeout != 15*time.Second {
		t.Errorf("expected 15s timeout, got %v", cfg.APITimeout)
	}
	if cfg.TokenDuration != time.Hour {
		t.Errorf("expected 1h token duration, got %v", cfg.TokenDuration)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PERMITDESK_ADDR", ":9999")
	t.Setenv("PERMITDESK_JWT_SECRET", "from-env")
	t.Setenv("PERMITDESK_DATABASE_PATH", "/tmp/other.db")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.JWTSecret != "from-env" || cfg.DatabasePath != "/tmp/other.db" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
addr: ":7070"
jwt_secret: "file-secret"
database_path: "file.db"
upload_dir: "file-uploads"
token_duration: 30m
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.JWTSecret != "file-secret" || cfg.DatabasePath != "file.db" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.UploadDir != "file-uploads" {
		t.Fatalf("expected upload dir from file, got %q", cfg.UploadDir)
	}
	if cfg.TokenDuration != 30*time.Minute {
		t.Fatalf("expected 30m token duration, got %v", cfg.TokenDuration)
	}
}

func TestLoadConfigBadDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("token_duration: soon\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unparseable duration")
	}
}

func TestLoadConfigBadPath(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("addr: [unclosed"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for bad yaml")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Addr:         ":8080",
			JWTSecret:    "real-secret",
			DatabasePath: "permitdesk.db",
			UploadDir:    "uploads",
		}
	}

	t.Run("valid", func(t *testing.T) {
		if err := base().Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("default secret outside development", func(t *testing.T) {
		t.Setenv("PERMITDESK_ENV", "production")
		cfg := base()
		cfg.JWTSecret = "supersecretkey"
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error for default secret")
		}
	})

	t.Run("default secret in development", func(t *testing.T) {
		t.Setenv("PERMITDESK_ENV", "development")
		cfg := base()
		cfg.JWTSecret = "supersecretkey"
		if err := cfg.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing database path", func(t *testing.T) {
		cfg := base()
		cfg.DatabasePath = ""
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error for empty database_path")
		}
	})

	t.Run("missing upload dir", func(t *testing.T) {
		cfg := base()
		cfg.UploadDir = ""
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error for empty upload_dir")
		}
	})
}
