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

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8060, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "request_manager", cfg.Database.DBName)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "current_user", cfg.Identity.DefaultUser)
	assert.Equal(t, "default_group", cfg.Identity.DefaultUserGroup)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
debug: true
server:
  host: 127.0.0.1
  port: 9090
  cors_origins:
    - http://app.internal:3000
database:
  host: db.internal
  user: tms
  dbname: tms_requests
redis:
  enabled: true
  address: redis.internal:6379
identity:
  default_user: svc_tms
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"http://app.internal:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "tms", cfg.Database.User)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Address)
	assert.Equal(t, "svc_tms", cfg.Identity.DefaultUser)
	// Untouched sections keep defaults.
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestEnvOverridesWin(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  host: db.internal
`)

	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("DB_HOST", "other.internal")
	t.Setenv("REDIS_EVENTS_ENABLED", "yes")
	t.Setenv("CORS_ORIGINS", "http://a.internal, http://b.internal")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "other.internal", cfg.Database.Host)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"http://a.internal", "http://b.internal"}, cfg.Server.CORSOrigins)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a map")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	require.NoError(t, cfg.Validate())

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())
}

func TestPath(t *testing.T) {
	assert.Equal(t, "config.yml", Path("config.yml"))
	t.Setenv("CONFIG_PATH", "/etc/tms/config.yml")
	assert.Equal(t, "/etc/tms/config.yml", Path("config.yml"))
}
