package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Port    string `envconfig:"PORT" default:"8080"`
		GinMode string `envconfig:"GIN_MODE" default:"debug"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:"postgres"`
		Name     string `envconfig:"DB_NAME" default:"barter"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	}

	Auth struct {
		JWTSecret     string `envconfig:"JWT_SECRET"`
		AdminPassword string `envconfig:"ADMIN_PASSWORD"` // seeds the default admin on first boot
	}

	CORS struct {
		AllowOrigins []string `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:5173,http://127.0.0.1:5173"`
	}
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

// Load reads configs/.env when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		if cfg.App.GinMode == "release" {
			return nil, fmt.Errorf("JWT_SECRET is required in release mode")
		}
		cfg.Auth.JWTSecret = "default_super_secret_key" // development fallback only
	}

	return &cfg, nil
}
