package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoadConfig_FileAndDefaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: 8080
jwt:
  secret: file-secret
pagination:
  max_limit: 50
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, 168, cfg.JWT.ExpiryHours)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.Expiry())
	assert.Zero(t, cfg.JWT.ActorCacheTTL)
	assert.Equal(t, 50, cfg.Pagination.MaxLimit)
	assert.Equal(t, SequenceBackendPostgres, cfg.Sequence.Backend)
	assert.True(t, cfg.Server.ExposeInternalErrors)
	assert.False(t, cfg.Email.Enabled())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := writeConfig(t, `
jwt:
  secret: file-secret
`)
	t.Setenv("HOSPITAL_JWT_SECRET", "env-secret")
	t.Setenv("HOSPITAL_PORT", "9090")
	t.Setenv("HOSPITAL_DATABASE_URL", "postgres://u:p@db/hospital")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://u:p@db/hospital", cfg.Database.URL)
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: 8080
`)

	_, err := LoadConfig(dir)
	assert.EqualError(t, err, "jwt.secret is required")
}

func TestValidate_Sequence(t *testing.T) {
	cfg := Config{JWT: JWTConfig{Secret: "s", ExpiryHours: 1}}

	cfg.Sequence.Backend = "memcached"
	assert.Error(t, cfg.Validate())

	cfg.Sequence.Backend = SequenceBackendRedis
	assert.Error(t, cfg.Validate())

	cfg.Redis.URL = "redis://localhost:6379/0"
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_ActorCacheTTL(t *testing.T) {
	dir := writeConfig(t, `
jwt:
  secret: file-secret
  actor_cache_ttl: 30s
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.JWT.ActorCacheTTL)

	cfg.JWT.ActorCacheTTL = -time.Second
	assert.EqualError(t, cfg.Validate(), "jwt.actor_cache_ttl must not be negative")
}
