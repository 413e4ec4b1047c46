package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Reads values from file", func(t *testing.T) {
		// Given: a config file with every section
		path := writeConfig(t, `
log-level: debug
storage: sqlite
sqlite-storage-path: /tmp/games.db
redis:
  host: redis.local
  port: "6380"
`)

		// When: the config is loaded
		conf, err := Load(path)

		// Then: the values come from the file
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, StorageSQLite, conf.Storage)
		assert.Equal(t, "/tmp/games.db", conf.SQLiteStoragePath)
		assert.Equal(t, "redis.local:6380", conf.Redis.GetRedisAddr())
	})

	t.Run("Applies defaults", func(t *testing.T) {
		// Given: an empty config file
		path := writeConfig(t, "{}\n")

		// When: the config is loaded
		conf, err := Load(path)

		// Then: defaults are used
		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, StorageRedis, conf.Storage)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("Environment overrides file", func(t *testing.T) {
		// Given: a config file and an environment override
		path := writeConfig(t, "storage: redis\n")
		t.Setenv("STORAGE", StorageSQLite)

		// When: the config is loaded
		conf, err := Load(path)

		// Then: the environment wins
		require.NoError(t, err)
		assert.Equal(t, StorageSQLite, conf.Storage)
	})

	t.Run("Missing file", func(t *testing.T) {
		// When: a missing file is loaded
		_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		// Then: an error is returned and MustLoad panics
		require.Error(t, err)
		assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "missing.yml")) })
	})
}

func TestRedis_GetRedisAddr(t *testing.T) {
	assert.Equal(t, "", (&Redis{Host: "localhost"}).GetRedisAddr())
	assert.Equal(t, "localhost:6379", (&Redis{Host: "localhost", Port: "6379"}).GetRedisAddr())
}
