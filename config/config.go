// Package config builds server configuration from flags and environment.
//
// Precedence: flag > environment > .env file > default. The .env file is
// read from ENV_FILE (default ".env") when it exists.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port int

	// DatabaseURL is a SQLite path, ":memory:", or a postgres:// DSN.
	DatabaseURL string

	// SeedFile is a goal document loaded when the store is empty.
	SeedFile string

	// Scenario is a demo scenario loaded when the store is empty.
	Scenario string

	CORSOrigins []string

	AdviceAPIKey   string
	AdviceModel    string
	AdviceEndpoint string
	AdviceTimeout  time.Duration
}

// Load reads the .env file (if any), then parses args.
func Load(args []string) (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
	}

	cfg := &Config{}
	var origins string

	fs := flag.NewFlagSet("goal-server", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", getEnvInt("PORT", 8080), "HTTP server port")
	fs.StringVar(&cfg.DatabaseURL, "db", getEnv("DATABASE_URL", "goals.db"), "SQLite path, :memory:, or postgres:// DSN")
	fs.StringVar(&cfg.SeedFile, "seed", getEnv("SEED_FILE", ""), "goal document (YAML/JSON) loaded into an empty store")
	fs.StringVar(&cfg.Scenario, "scenario", getEnv("SCENARIO", ""), "demo scenario loaded into an empty store")
	fs.StringVar(&origins, "cors", getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:8080"), "comma-separated allowed origins")
	fs.StringVar(&cfg.AdviceAPIKey, "advice-key", getEnv("GEMINI_API_KEY", ""), "API key for the advice model")
	fs.StringVar(&cfg.AdviceModel, "advice-model", getEnv("GEMINI_MODEL", ""), "advice model name")
	fs.StringVar(&cfg.AdviceEndpoint, "advice-endpoint", getEnv("ADVICE_ENDPOINT", ""), "advice API base URL")
	fs.DurationVar(&cfg.AdviceTimeout, "advice-timeout", getEnvDuration("ADVICE_TIMEOUT", 20*time.Second), "advice request timeout")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.CORSOrigins = splitList(origins)
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	return cfg, nil
}

// UsesPostgres reports whether DatabaseURL points at PostgreSQL.
func (c *Config) UsesPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
