package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/billing-admin-service/internal/config"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// clearSecrets makes sure credentials from the developer's shell don't leak into a test.
func clearSecrets(t *testing.T) {
	for _, k := range []string{
		"APP_DATABASE_USER", "APP_DATABASE_PASSWORD", "APP_DATABASE_DBNAME",
		"DB_USER", "DB_PASSWORD", "DB_NAME",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_FromYAMLAndEnv(t *testing.T) {
	clearSecrets(t)
	path := writeTempConfig(t, `
app:
  name: billing-admin-service
  version: 0.1.0
  env: test
  port: 18080

logger:
  level: info
  format: json

database:
  driver: mysql
  host: 127.0.0.1
  port: 3306
  max_conns: 5
  min_conns: 1

pagination:
  per_page: 30
  strategy: advanced
`)
	t.Setenv("APP_DATABASE_USER", "billing")
	t.Setenv("APP_DATABASE_PASSWORD", "secret")
	t.Setenv("DB_NAME", "billing_test") // legacy name still honoured

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 18080, cfg.App.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "billing", cfg.Database.User)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "billing_test", cfg.Database.DBName)
	assert.Equal(t, 30, cfg.Pagination.PerPage)
	assert.Equal(t, "advanced", cfg.Pagination.Strategy)
}

func TestLoad_Defaults(t *testing.T) {
	clearSecrets(t)
	path := writeTempConfig(t, "app:\n  name: x\n")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("DB_NAME", "d")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 100, cfg.Pagination.PerPage)
	assert.Equal(t, "simple", cfg.Pagination.Strategy)
	assert.Equal(t, "admin", cfg.Views.Type)
	assert.Equal(t, "themes/admin_default", cfg.Views.ThemeDir)
	assert.False(t, cfg.Views.Watch)
}

func TestLoad_MissingSecretsFail(t *testing.T) {
	clearSecrets(t)
	path := writeTempConfig(t, `
database:
  host: localhost
  port: 5432
`)
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownStrategyAndDriver(t *testing.T) {
	clearSecrets(t)
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("DB_NAME", "d")

	_, err := config.Load(writeTempConfig(t, "pagination:\n  strategy: cursor\n"))
	assert.ErrorContains(t, err, "Strategy")

	_, err = config.Load(writeTempConfig(t, "database:\n  driver: sqlite\n"))
	assert.ErrorContains(t, err, "Driver")

	_, err = config.Load(writeTempConfig(t, "pagination:\n  per_page: 0\n"))
	assert.ErrorContains(t, err, "PerPage")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
