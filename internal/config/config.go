package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort        = "8080"
	defaultDatabaseDSN = "host=localhost port=5432 dbname=banking_accounts user=postgres password=postgres sslmode=disable"

	defaultInternalQueryTimeoutMS = 5000
)

type Config struct {
	ListenAddr    string
	DatabaseDSN   string
	MigrationsDir string

	// Self-query gateway settings. The timeout bounds both the connect and
	// the read phase of each call; retry attempts default to zero, keeping
	// internal queries single-attempt.
	InternalQueryBaseURL       string
	InternalQueryTimeout       time.Duration
	InternalQueryRetryAttempts int
}

func Load() (Config, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = defaultPort
	}

	dsn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if dsn == "" {
		dsn = defaultDatabaseDSN
	}

	migrationsDir := strings.TrimSpace(os.Getenv("MIGRATIONS_DIR"))
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}

	baseURL := strings.TrimSpace(os.Getenv("INTERNAL_QUERY_BASE_URL"))
	if baseURL == "" {
		baseURL = "http://localhost:" + port + "/api/v1"
	}

	timeoutMS, err := intEnv("INTERNAL_QUERY_TIMEOUT_MS", defaultInternalQueryTimeoutMS)
	if err != nil {
		return Config{}, err
	}

	retryAttempts, err := intEnv("INTERNAL_QUERY_RETRY_ATTEMPTS", 0)
	if err != nil {
		return Config{}, err
	}

	return Config{
		ListenAddr:                 ":" + port,
		DatabaseDSN:                dsn,
		MigrationsDir:              migrationsDir,
		InternalQueryBaseURL:       strings.TrimRight(baseURL, "/"),
		InternalQueryTimeout:       time.Duration(timeoutMS) * time.Millisecond,
		InternalQueryRetryAttempts: retryAttempts,
	}, nil
}

func intEnv(name string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s cannot be negative", name)
	}

	return value, nil
}
