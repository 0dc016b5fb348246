package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Database.DSN)
	require.NoError(t, cfg.Finalize())
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, DefaultSQLiteDSN, cfg.Database.DSN)
	assert.True(t, cfg.Database.Migrate)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileThenEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	yaml := "server:\n  addr: \":9090\"\ndatabase:\n  driver: postgres\n  migrate: false\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("DATABASE_URL", "postgres://minbot@localhost:5432/minbot")
	t.Setenv("DISCORD_BOT_TOKEN", "token-from-env")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.Finalize())
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://minbot@localhost:5432/minbot", cfg.Database.DSN)
	assert.False(t, cfg.Database.Migrate)
	assert.Equal(t, "token-from-env", cfg.Discord.Token)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestPostgresNeedsDSN(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_DRIVER", "postgres")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Error(t, cfg.Finalize())
}

func TestOverridesAppliedBeforeFinalize(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_DRIVER", "postgres")

	// A postgres environment without a DSN is completed by a later override.
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Database.DSN = "postgres://minbot@localhost:5432/minbot"
	require.NoError(t, cfg.Finalize())
	assert.Equal(t, "postgres://minbot@localhost:5432/minbot", cfg.Database.DSN)

	// Switching a default sqlite config to postgres must not keep the sqlite file path.
	t.Setenv("DATABASE_DRIVER", "")
	cfg, err = Load("")
	require.NoError(t, err)
	cfg.Database.Driver = "Postgres"
	assert.Error(t, cfg.Finalize())
	assert.Empty(t, cfg.Database.DSN)

	cfg.Database.Driver = "sqlite"
	require.NoError(t, cfg.Finalize())
	assert.Equal(t, DefaultSQLiteDSN, cfg.Database.DSN)
}
