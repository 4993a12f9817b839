package config_test

import (
	"testing"
	"time"

	"procure-to-pay/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	t.Setenv("BACKEND_TIMEOUT", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/api", cfg.BackendURL)
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Error(t, cfg.ValidateServer(), "JWT secret is mandatory for the server")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://erp.example.com/api")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.BackendTimeout)
	assert.NoError(t, cfg.ValidateServer())
	assert.Equal(t, "json", cfg.LoggerConfig().Format)
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("BACKEND_TIMEOUT", "soon")
	_, err := config.Load()
	assert.Error(t, err)
}
