package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Setenv("TEST_DB_USER", "syncer")
	path := writeConfig(t, `
database:
  user: ${TEST_DB_USER}
  dbname: webinars
encryption:
  master_key: MDEyMzQ1Njc4OWFiY2RlZg==
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "syncer", cfg.Database.User)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 2, cfg.Sync.Concurrency)
	assert.Equal(t, 50, cfg.Sync.BatchSize)
	assert.Equal(t, 90, cfg.Sync.DefaultWindowDays)
	assert.Equal(t, 2, cfg.RateLimit.PerSecond)
	assert.Equal(t, 30, cfg.RateLimit.PerMinute)
	assert.Equal(t, "postgres", cfg.Pagination.Backend)
	assert.Equal(t, 15*time.Minute, cfg.Pagination.TokenTTL)
	assert.Equal(t, []string{"approved"}, cfg.Provider.RegistrantStatuses)
	assert.Equal(t, "webinar_sync", cfg.RabbitMQ.Exchange)
	assert.Equal(t, "progress", cfg.RabbitMQ.RoutingKey)
	assert.Equal(t, "webinar-sync-credentials", cfg.Encryption.Context)
	assert.Equal(t, "host=localhost port=5432 user=syncer password= dbname=webinars sslmode=disable", cfg.Database.DSN())
}

func TestLoad_RejectsOutOfRangeConcurrency(t *testing.T) {
	path := writeConfig(t, `
database:
  user: syncer
  dbname: webinars
sync:
  concurrency: 9
encryption:
  master_key: MDEyMzQ1Njc4OWFiY2RlZg==
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "validate config")
}

func TestLoad_RequiresMasterKey(t *testing.T) {
	path := writeConfig(t, `
database:
  user: syncer
  dbname: webinars
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "MasterKey")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config file")
}

func TestLoad_PerMinuteNeverBelowPerSecond(t *testing.T) {
	path := writeConfig(t, `
database:
  user: syncer
  dbname: webinars
rate_limit:
  per_second: 5
  per_minute: 3
encryption:
  master_key: MDEyMzQ1Njc4OWFiY2RlZg==
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.RateLimit.PerMinute)
}

func TestSyncConfig_Window(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	start, end := SyncConfig{DefaultWindowDays: 10}.Window(now)

	assert.Equal(t, time.Date(2026, 1, 22, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC), end)
}
