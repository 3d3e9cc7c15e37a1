package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "no-such-file.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8003, cfg.Server.Port)
	assert.Equal(t, "/api/live", cfg.Server.BasePath)
	assert.Equal(t, "dev", cfg.Server.Env)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, "live:events", cfg.Redis.Channel)
	assert.Equal(t, "*", cfg.WebSocket.AllowedOrigin)
	assert.Equal(t, int64(8192), cfg.WebSocket.MaxMessageSize)
	assert.Equal(t, 1000, cfg.WebSocket.Reconnect.DelayMS)
	assert.Equal(t, 30000, cfg.WebSocket.Reconnect.MaxDelayMS)
	assert.Equal(t, 10, cfg.WebSocket.Reconnect.MaxAttempts)
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9100
  env: production
redis:
  host: redis.internal
  channel: live:staging
websocket:
  max_message_size: 16384
  reconnect:
    max_attempts: 5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Env)
	assert.Equal(t, "redis.internal", cfg.Redis.Host)
	assert.Equal(t, "live:staging", cfg.Redis.Channel)
	assert.Equal(t, int64(16384), cfg.WebSocket.MaxMessageSize)
	assert.Equal(t, 5, cfg.WebSocket.Reconnect.MaxAttempts)

	// Untouched keys keep their defaults.
	assert.Equal(t, "/api/live", cfg.Server.BasePath)
	assert.Equal(t, 6379, cfg.Redis.Port)
}

func TestEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9100\n"), 0o644))

	t.Setenv("PORT", "9200")
	t.Setenv("REDIS_HOST", "redis.prod")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("WS_ALLOWED_ORIGIN", "https://app.example.com")
	t.Setenv("WS_RECONNECT_DELAY_MS", "250")
	t.Setenv("SECRET_KEY", "test-secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Server.Port, "env wins over yaml")
	assert.Equal(t, "redis.prod", cfg.Redis.Host)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "https://app.example.com", cfg.WebSocket.AllowedOrigin)
	assert.Equal(t, 250, cfg.WebSocket.Reconnect.DelayMS)
	assert.Equal(t, "test-secret", cfg.Auth.SecretKey)
}

func TestInvalidNumericEnvIsIgnored(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("WS_MAX_MESSAGE_SIZE", "huge")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8003, cfg.Server.Port)
	assert.Equal(t, int64(8192), cfg.WebSocket.MaxMessageSize)
}

func TestMalformedYAMLIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
