package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
name: sp500-dashboard
host: 127.0.0.1
port: 8501
`

func TestParseFillsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "1 year", cfg.DefaultWindow)
	assert.Equal(t, DefaultCatalogURL, cfg.Catalog.URL)
	assert.Equal(t, DefaultHistoryBaseURL, cfg.History.BaseURL)
	assert.Equal(t, "1d", cfg.History.Interval)
	assert.Equal(t, "memory", cfg.Catalog.Cache.Backend)
	assert.Equal(t, 1440, cfg.Catalog.TTLMinutes)
	assert.Equal(t, 15, cfg.Network.RequestTimeout)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty name", func(c *Config) { c.Name = "" }},
		{"low port", func(c *Config) { c.Port = 80 }},
		{"grpc same as http", func(c *Config) { c.GrpcPort = c.Port }},
		{"unknown window", func(c *Config) { c.DefaultWindow = "3 years" }},
		{"negative retries", func(c *Config) { c.Network.MaxRetries = -1 }},
		{"redis without addr", func(c *Config) { c.Catalog.Cache.Backend = "redis" }},
		{"unknown cache", func(c *Config) { c.Catalog.Cache.Backend = "memcached" }},
		{"sqlite without path", func(c *Config) { c.Storage.Enabled = true; c.Storage.DBType = "sqlite" }},
		{"postgres without dsn", func(c *Config) { c.Storage.Enabled = true; c.Storage.DBType = "postgres" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(minimalYAML))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	env := map[string]string{
		"DASHBOARD_PORT":       "9000",
		"DASHBOARD_REDIS_ADDR": "localhost:6379",
		"DASHBOARD_DB_DSN":     "postgres://localhost/dashboard",
	}
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "redis", cfg.Catalog.Cache.Backend)
	assert.Equal(t, "localhost:6379", cfg.Catalog.Cache.RedisAddr)
	assert.True(t, cfg.Storage.Enabled)
	assert.Equal(t, "postgres", cfg.Storage.DBType)
	require.NoError(t, cfg.Validate())

	assert.Error(t, cfg.ApplyEnv(func(k string) string {
		if k == "DASHBOARD_PORT" {
			return "not-a-port"
		}
		return ""
	}))
}

func TestNewConfigAndSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML), 0644))

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	cfg.DefaultWindow = "5 years"
	out := filepath.Join(dir, "saved.yaml")
	require.NoError(t, cfg.Save(out))

	reloaded, err := NewConfig(out)
	require.NoError(t, err)
	assert.Equal(t, "5 years", reloaded.DefaultWindow)
}

func TestDefaultConfigFileIsValid(t *testing.T) {
	cfg, err := NewConfig(filepath.Join("..", "..", "config", "default.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 50051, cfg.GrpcPort)
}
