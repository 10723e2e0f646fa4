package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds everything the process needs at startup.
type Config struct {
	Port     int
	Database Database
}

// Database describes how to reach the relational store.
type Database struct {
	Driver string

	// SQLitePath is a file path or a "file:" URI.
	SQLitePath string

	Host     string
	Port     string
	Username string
	Password string
	Name     string
	SSLMode  string

	// LogLevel is one of silent, error, warn, info.
	LogLevel string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Now is the store clock used for created_at/updated_at and for "today".
	// Nil means time.Now.
	Now func() time.Time
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := &Config{
		Port: envInt("PORT", 8080),
		Database: Database{
			Driver:          strings.ToLower(envString("DB_DRIVER", DriverSQLite)),
			SQLitePath:      envString("SQLITE_PATH", "todo.db"),
			Host:            os.Getenv("BLUEPRINT_DB_HOST"),
			Port:            envString("BLUEPRINT_DB_PORT", "5432"),
			Username:        os.Getenv("BLUEPRINT_DB_USERNAME"),
			Password:        os.Getenv("BLUEPRINT_DB_PASSWORD"),
			Name:            os.Getenv("BLUEPRINT_DB_DATABASE"),
			SSLMode:         envString("BLUEPRINT_DB_SSLMODE", "disable"),
			LogLevel:        strings.ToLower(envString("DB_LOG_LEVEL", "warn")),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: time.Hour,
		},
	}

	if err := cfg.Database.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected driver has what it needs.
func (d Database) Validate() error {
	switch d.Driver {
	case DriverSQLite:
		if d.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH must be set for the sqlite driver")
		}
	case DriverPostgres:
		if d.Host == "" || d.Name == "" {
			return fmt.Errorf("BLUEPRINT_DB_HOST and BLUEPRINT_DB_DATABASE must be set for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", d.Driver)
	}
	switch d.LogLevel {
	case "", "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("unsupported DB_LOG_LEVEL %q", d.LogLevel)
	}
	return nil
}

// PostgresDSN builds a key=value connection string for the postgres driver.
// Example: "host=localhost user=gorm password=gorm dbname=gorm port=5432 sslmode=disable"
func (d Database) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.Username, d.Password, d.Name, d.Port, d.SSLMode)
}

// Clock returns the configured clock, defaulting to time.Now.
func (d Database) Clock() func() time.Time {
	if d.Now != nil {
		return d.Now
	}
	return time.Now
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Printf("Warning: invalid %s value %q, using default %d", key, raw, fallback)
		return fallback
	}
	return v
}
