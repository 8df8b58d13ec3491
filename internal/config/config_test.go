package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigContent = `
[development]
host = ""
port = 8000
log_level = "trace"
logs_path = ""
log_to_stdout = true
sentry_enabled = false
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "compass_cms_db"
prometheus_metrics_host = ""
prometheus_metrics_port = "2112"

[production]
host = ""
port = 9000
log_level = "debug"
logs_path = "/var/log/cms/service.log"
log_to_stdout = false
sentry_enabled = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "compass_cms_db"
prometheus_metrics_host = ""
prometheus_metrics_port = "2112"
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigContent), 0600))
	return path
}

func TestLoad_Development(t *testing.T) {
	path := writeTestConfig(t)

	for _, env := range []string{"dev", "development", "Development"} {
		cfg, err := Load(env, path)
		require.NoError(t, err, env)
		assert.Equal(t, env, cfg.Environment)
		assert.Equal(t, 8000, cfg.Port)
		assert.Equal(t, "trace", cfg.LogLevel)
		assert.True(t, cfg.LogToStdout)
		assert.False(t, cfg.SentryEnabled)
		assert.Equal(t, "compass_cms_db", cfg.PostgresDBName)
	}
}

func TestLoad_Production(t *testing.T) {
	path := writeTestConfig(t)

	cfg, err := Load("production", path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "/var/log/cms/service.log", cfg.LogsPath)
	assert.False(t, cfg.LogToStdout)
	assert.True(t, cfg.SentryEnabled)
}

func TestLoad_UnknownEnv(t *testing.T) {
	path := writeTestConfig(t)

	cfg, err := Load("staging", path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load("development", "/nonexistent/config.toml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_PortEnvOverride(t *testing.T) {
	path := writeTestConfig(t)

	t.Setenv("PORT", "8123")
	cfg, err := Load("development", path)
	require.NoError(t, err)
	assert.Equal(t, 8123, cfg.Port)

	t.Setenv("PORT", "not-a-number")
	cfg, err = Load("development", path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}
