package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MONGODB_URL", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "test-secret-key-at-least-32-characters!!")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "blood_donation", cfg.DBName)
	assert.Equal(t, int64(10000), cfg.MaxWebSocketConnections)
	assert.Equal(t, 20, cfg.MaxConnectionsPerIP)
}

func TestLoad_MissingMongoURL(t *testing.T) {
	t.Setenv("MONGODB_URL", "")
	t.Setenv("JWT_SECRET", "test-secret-key-at-least-32-characters!!")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGODB_URL")
}

func TestLoad_ShortJWTSecret(t *testing.T) {
	t.Setenv("MONGODB_URL", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_InvalidConnectionCap(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MAX_WEBSOCKET_CONNECTIONS", "-1")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "30s", cfg.ShutdownTimeout.String())
}
