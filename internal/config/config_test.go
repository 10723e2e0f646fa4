package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DB_DRIVER", "SQLITE_PATH", "DB_LOG_LEVEL",
		"BLUEPRINT_DB_HOST", "BLUEPRINT_DB_PORT", "BLUEPRINT_DB_USERNAME",
		"BLUEPRINT_DB_PASSWORD", "BLUEPRINT_DB_DATABASE", "BLUEPRINT_DB_SSLMODE",
		"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "todo.db", cfg.Database.SQLitePath)
	assert.Equal(t, "warn", cfg.Database.LogLevel)
	assert.Equal(t, 100, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
}

func TestLoadInvalidPortFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-port")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoadPostgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("BLUEPRINT_DB_HOST", "db.local")
	t.Setenv("BLUEPRINT_DB_PORT", "6543")
	t.Setenv("BLUEPRINT_DB_USERNAME", "todo")
	t.Setenv("BLUEPRINT_DB_PASSWORD", "secret")
	t.Setenv("BLUEPRINT_DB_DATABASE", "todos")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t,
		"host=db.local user=todo password=secret dbname=todos port=6543 sslmode=disable",
		cfg.Database.PostgresDSN())
}

func TestLoadPostgresRequiresHost(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "postgres")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	require.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_LOG_LEVEL", "loud")

	_, err := Load()
	require.ErrorContains(t, err, "DB_LOG_LEVEL")
}

func TestClockDefaultsToTimeNow(t *testing.T) {
	var d Database
	before := time.Now()
	got := d.Clock()()
	assert.False(t, got.Before(before))

	fixed := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	d.Now = func() time.Time { return fixed }
	assert.Equal(t, fixed, d.Clock()())
}
