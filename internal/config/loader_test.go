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
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")
	err := os.WriteFile(configPath, []byte(content), 0644)
	require.NoError(t, err)
	return configPath
}

func TestLoad(t *testing.T) {
	t.Run("loads valid TOML config", func(t *testing.T) {
		configPath := writeConfig(t, `
rpc_url = "https://rpc.example.com"
approve_future = true
interval = "10m"
log_level = "debug"
`)

		cfg, err := Load(configPath)
		require.NoError(t, err)

		assert.Equal(t, "https://rpc.example.com", cfg.RPCUrl)
		assert.True(t, cfg.ApproveFuture)
		assert.Equal(t, "10m", cfg.Interval)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("defaults are applied", func(t *testing.T) {
		configPath := writeConfig(t, `
rpc_url = "https://rpc.example.com"
`)

		cfg, err := Load(configPath)
		require.NoError(t, err)

		assert.Equal(t, "info", cfg.LogLevel)
		assert.False(t, cfg.ApproveFuture)
		assert.Empty(t, cfg.Interval)
		assert.Equal(t, 8080, cfg.HTTPPort)
	})

	t.Run("environment variables override config file", func(t *testing.T) {
		configPath := writeConfig(t, `
rpc_url = "https://file-rpc.example.com"
log_level = "info"
`)

		t.Setenv("GYRO_LOG_LEVEL", "debug")
		t.Setenv("GYRO_RPC_URL", "https://env-rpc.example.com")

		cfg, err := Load(configPath)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "https://env-rpc.example.com", cfg.RPCUrl)
	})

	t.Run("config from env vars only without config file", func(t *testing.T) {
		configPath := writeConfig(t, "")
		t.Setenv("GYRO_RPC_URL", "https://rpc.example.com")

		cfg, err := Load(configPath)
		require.NoError(t, err)
		assert.Equal(t, "https://rpc.example.com", cfg.RPCUrl)
	})

	t.Run("missing rpc_url fails validation", func(t *testing.T) {
		configPath := writeConfig(t, `
log_level = "info"
`)

		_, err := Load(configPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation")
	})

	t.Run("invalid log level fails validation", func(t *testing.T) {
		configPath := writeConfig(t, `
rpc_url = "https://rpc.example.com"
log_level = "shout"
`)

		_, err := Load(configPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation")
	})

	t.Run("malformed TOML fails", func(t *testing.T) {
		configPath := writeConfig(t, `rpc_url = [broken`)

		_, err := Load(configPath)
		require.Error(t, err)
	})
}

func TestLoadWithDatabase(t *testing.T) {
	t.Run("requires DATABASE_URL", func(t *testing.T) {
		configPath := writeConfig(t, `
rpc_url = "https://rpc.example.com"
`)
		os.Unsetenv("DATABASE_URL")

		_, _, err := LoadWithDatabase(configPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL")
	})

	t.Run("returns DATABASE_URL from environment", func(t *testing.T) {
		configPath := writeConfig(t, `
rpc_url = "https://rpc.example.com"
`)
		t.Setenv("DATABASE_URL", "postgres://localhost/gyro")

		cfg, dsn, err := LoadWithDatabase(configPath)
		require.NoError(t, err)
		assert.NotNil(t, cfg)
		assert.Equal(t, "postgres://localhost/gyro", dsn)
	})
}
