package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenExpiry)
	assert.Equal(t, 12*time.Hour, cfg.RefreshTokenExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenExpiryKeepLoggedIn)
	assert.NotEqual(t, cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
}

func TestParseEnv_Overlay(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "env-access")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "30m")
	t.Setenv("BREVO_API_KEY", "env-brevo")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "env-access", cfg.JWTAccessSecret)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenExpiry)
	assert.Equal(t, "env-brevo", cfg.BrevoAPIKey)
	// unset vars must not clobber defaults
	assert.Equal(t, "refreshSecret", cfg.JWTRefreshSecret)
	assert.Equal(t, ":8080", cfg.EndpointAddr)
}

func TestParseJson_Overlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.json")

	content, err := json.Marshal(map[string]any{
		"endpoint_addr":       ":9090",
		"access_token_expiry": "20m",
		"database_dsn":        "postgres://json",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":9090", cfg.EndpointAddr)
	assert.Equal(t, 20*time.Minute, cfg.AccessTokenExpiry)
	assert.Equal(t, "postgres://json", cfg.DatabaseDSN)
	assert.Equal(t, "accessSecret", cfg.JWTAccessSecret)
}

func TestParseFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-a", ":7070", "-t", "5"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddr)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenExpiry)
}
