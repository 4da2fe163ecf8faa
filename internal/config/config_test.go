package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/existflow/journal/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("JOURNAL_HOME", t.TempDir())

	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "gpt-4-0125-preview", cfg.OpenAI.Model)
	assert.Equal(t, 7, cfg.PeriodicDays)
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("JOURNAL_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := config.DefaultConfig()
	cfg.OpenAI.Model = "gpt-4o-mini"
	cfg.Server.TokenHash = "$2a$10$abc"
	cfg.PeriodicDays = 14
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", loaded.OpenAI.Model)
	assert.Equal(t, "$2a$10$abc", loaded.Server.TokenHash)
	assert.Equal(t, 14, loaded.PeriodicDays)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("JOURNAL_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: DEBUG\n"), 0644))

	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("JOURNAL_HOME", t.TempDir())
	t.Setenv("JOURNAL_DB_DRIVER", "postgres")
	t.Setenv("JOURNAL_DATABASE_URL", "postgres://localhost/journal")
	t.Setenv("JOURNAL_PERIODIC_DAYS", "30")

	cfg := config.DefaultConfig()
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/journal", cfg.Database.DSN)
	assert.Equal(t, 30, cfg.PeriodicDays)
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Setenv("JOURNAL_HOME", t.TempDir())

	cfg := config.DefaultConfig()
	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = config.DefaultConfig()
	cfg.Database.Driver = "postgres"
	cfg.Database.DSN = ""
	assert.Error(t, cfg.Validate())

	cfg = config.DefaultConfig()
	cfg.PeriodicDays = 0
	assert.Error(t, cfg.Validate())
}
