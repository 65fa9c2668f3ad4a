package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	NATS     NATSConfig
}

type AppConfig struct {
	Port     string
	MenuPath string
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MigrationsPath  string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type NATSConfig struct {
	URL string
}

// Enabled reports whether a database was configured at all. With no DB_HOST
// the service falls back to the in-memory order store (dev mode).
func (c PostgresConfig) Enabled() bool {
	return c.Host != ""
}

func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{}
	cfg.App.Port = getEnv("APP_PORT", "8080")
	cfg.App.MenuPath = getEnv("MENU_PATH", "")

	cfg.Postgres.Host = getEnv("DB_HOST", "")
	cfg.Postgres.Port = getEnv("DB_PORT", "5432")
	cfg.Postgres.User = getEnv("DB_USER", "postgres")
	cfg.Postgres.Password = getEnv("DB_PASSWORD", "")
	cfg.Postgres.DBName = getEnv("DB_NAME", "orderbot")
	cfg.Postgres.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Postgres.MigrationsPath = getEnv("DB_MIGRATIONS_PATH", "migrations")
	cfg.Postgres.MaxConns = 10
	cfg.Postgres.MinConns = 2
	cfg.Postgres.MaxConnLifetime = 30 * time.Minute

	cfg.NATS.URL = getEnv("NATS_URL", "")

	if cfg.Postgres.Enabled() {
		if cfg.Postgres.User == "" {
			return nil, fmt.Errorf("DB_USER is required when DB_HOST is set")
		}
		if cfg.Postgres.DBName == "" {
			return nil, fmt.Errorf("DB_NAME is required when DB_HOST is set")
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
