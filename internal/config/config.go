package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Tally"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"tally"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
		AuthRateLimit  float64       `envconfig:"AUTH_RATE_LIMIT" default:"1"`
		AuthRateBurst  int           `envconfig:"AUTH_RATE_BURST" default:"5"`
	}

	Auth struct {
		JWTSecret string        `envconfig:"JWT_SECRET" default:"changeme"`
		TokenTTL  time.Duration `envconfig:"JWT_TOKEN_TTL" default:"24h"`
	}

	Import struct {
		MaxUploadBytes   int64 `envconfig:"IMPORT_MAX_UPLOAD_BYTES" default:"10485760"`
		WriteConcurrency int   `envconfig:"IMPORT_WRITE_CONCURRENCY" default:"8"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}

	if cfg.Import.WriteConcurrency < 1 {
		return nil, fmt.Errorf("IMPORT_WRITE_CONCURRENCY must be at least 1, got %d", cfg.Import.WriteConcurrency)
	}

	return &cfg, nil
}
