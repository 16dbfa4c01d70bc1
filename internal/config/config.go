package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"-"`
	DatabasePath  string        `yaml:"database_path"`
	UploadDir     string        `yaml:"upload_dir"`
	TokenDuration time.Duration `yaml:"-"`

	// duration fields come in as strings ("15s", "1h") and are parsed
	// after decoding
	RawAPITimeout    string `yaml:"timeout"`
	RawTokenDuration string `yaml:"token_duration"`
}

func LoadConfig(path string) (*Config, error) {
	apiTimeout := 15 * time.Second
	tokenDuration := 1 * time.Hour

	cfg := &Config{
		Addr:          getEnv("PERMITDESK_ADDR", ":8080"),
		JWTSecret:     getEnv("PERMITDESK_JWT_SECRET", "supersecretkey"),
		APITimeout:    apiTimeout,
		DatabasePath:  getEnv("PERMITDESK_DATABASE_PATH", "permitdesk.db"),
		UploadDir:     getEnv("PERMITDESK_UPLOAD_DIR", "uploads"),
		TokenDuration: tokenDuration,
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.RawAPITimeout != "" {
		d, err := time.ParseDuration(cfg.RawAPITimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", cfg.RawAPITimeout, err)
		}
		cfg.APITimeout = d
	}
	if cfg.RawTokenDuration != "" {
		d, err := time.ParseDuration(cfg.RawTokenDuration)
		if err != nil {
			return nil, fmt.Errorf("invalid token_duration %q: %w", cfg.RawTokenDuration, err)
		}
		cfg.TokenDuration = d
	}

	return cfg, nil
}

// Validate rejects configurations that must not reach production. The
// default JWT secret is only tolerated when PERMITDESK_ENV=development.
func (c *Config) Validate() error {
	if c.JWTSecret == "supersecretkey" && os.Getenv("PERMITDESK_ENV") != "development" {
		return fmt.Errorf("refusing to run with the default jwt_secret outside development")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.UploadDir == "" {
		return fmt.Errorf("upload_dir is required")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
