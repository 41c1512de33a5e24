package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
env:
  env: test
  serviceName: quill
  log:
    level: info
http:
  port: 8080
postgres:
  host: localhost
  port: "5432"
  userName: quill
  password: quill
  database: quill
secretKey:
  access: yaml-secret
auth:
  bcryptCost: 12
`

func writeConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(testYAML), 0o600))

	return dir
}

func TestLoadWithEnv_OverlaysEnvironment(t *testing.T) {
	t.Chdir(writeConfig(t))
	t.Setenv("SECRETKEY_ACCESS", "env-secret")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("AUTH_TOKENTTL", "15m")
	t.Setenv("POSTGRES_PASSWORD", "env-pass")

	cfg, err := LoadWithEnv[Config]("config")
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.SecretKey.Access)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	require.NotNil(t, cfg.Auth)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	require.NotNil(t, cfg.Postgres)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, "5432", cfg.Postgres.Port)
	assert.Equal(t, "quill", cfg.Postgres.UserName)
	assert.Equal(t, "env-pass", cfg.Postgres.Password)
	assert.Equal(t, "quill", cfg.Postgres.Database)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.yaml not found")
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{Postgres: &PostgresConfig{}}
	cfg.applyDefaults()

	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, DefaultBcryptCost, cfg.Auth.BcryptCost)
	assert.Equal(t, DefaultTokenTTL, cfg.Auth.TokenTTL)
	assert.Equal(t, DefaultPasswordMinLength, cfg.PasswordStrength.MinLength)
	assert.Equal(t, DefaultPasswordMaxLength, cfg.PasswordStrength.MaxLength)
	assert.Equal(t, DefaultRateLimitRequests, cfg.RateLimit.Requests)
	assert.Equal(t, DefaultRateLimitWindow, cfg.RateLimit.Window)
	assert.Equal(t, DefaultPostgresSSLMode, cfg.Postgres.SSLMode)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestApplyDefaults_ClampsPasswordMaxLength(t *testing.T) {
	cfg := &Config{PasswordStrength: &PasswordStrengthConfig{MinLength: 10, MaxLength: 500}}
	cfg.applyDefaults()

	assert.Equal(t, 10, cfg.PasswordStrength.MinLength)
	assert.Equal(t, DefaultPasswordMaxLength, cfg.PasswordStrength.MaxLength)
}

func TestBuildReplicasFromEnv(t *testing.T) {
	t.Setenv("POSTGRES_REPLICAS_0_HOST", "replica-a")
	t.Setenv("POSTGRES_REPLICAS_0_PORT", "5433")
	t.Setenv("POSTGRES_REPLICAS_0_USERNAME", "reader")
	t.Setenv("POSTGRES_REPLICAS_1_HOST", "replica-b")

	replicas := buildReplicasFromEnv()

	require.Len(t, replicas, 1)
	assert.Equal(t, ConnectionConfig{Host: "replica-a", Port: "5433", UserName: "reader"}, replicas[0])
}

func TestNew_ShippedConfig(t *testing.T) {
	t.Setenv("SECRETKEY_ACCESS", "")

	cfg, err := New()
	require.NoError(t, err)

	require.NotNil(t, cfg.Postgres)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, "5432", cfg.Postgres.Port)
	assert.Equal(t, "quill", cfg.Postgres.UserName)
	assert.Equal(t, "quill", cfg.Postgres.Password)
	assert.Empty(t, cfg.SecretKey.Access, "no usable signing secret may ship in config.yaml")
}
