package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "API_KEY", "REQUIRE_HTTPS", "CORS_ORIGINS", "LOG_LEVEL",
	"DB_DRIVER", "DB_DSN", "FMCSA_API_KEY", "FMCSA_BASE_URL", "FMCSA_TIMEOUT",
	"REDIS_ADDR", "REDIS_PASSWORD", "VERIFICATION_CACHE_TTL",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"MYSQL_USER", "MYSQL_PWD", "MYSQL_HOST", "MYSQL_DATABASE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, defaultAPIKey, cfg.APIKey)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Contains(t, cfg.Database.DSN, "carrier_engagement.db")
	assert.Equal(t, uint64(5), cfg.Database.MaxRetries)
	assert.Equal(t, 10*time.Second, cfg.FMCSA.Timeout)
	assert.Zero(t, cfg.Redis.CacheTTL)
	assert.Equal(t, 20, cfg.RateLimitRPS)
	assert.Equal(t, 40, cfg.RateLimitBurst)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
  cors_origins: [https://a.example, https://b.example]
  log_level: debug
database:
  driver: mysql
  mysql:
    user: carrier
    host: tcp(db:3306)
fmcsa:
  timeout: "2"
redis:
  addr: localhost:6379
  cache_ttl: 5m
`), 0o600))

	t.Setenv("PORT", "7000")
	t.Setenv("MYSQL_PWD", "s3cret")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "carrier:s3cret@tcp(db:3306)/carrier_db?parseTime=true&loc=Local", cfg.Database.DSN)
	assert.Equal(t, 2*time.Second, cfg.FMCSA.Timeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, 20, cfg.RateLimitRPS)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config")

	t.Setenv("FMCSA_TIMEOUT", "soon")
	_, err = Load("")
	assert.ErrorContains(t, err, "FMCSA_TIMEOUT")
}

func TestSecurityIssues(t *testing.T) {
	weak := &Config{APIKey: defaultAPIKey}
	assert.Equal(t, []string{"using default/weak API key", "HTTPS not required"}, weak.SecurityIssues())

	short := &Config{APIKey: "test-key", RequireHTTPS: true}
	assert.Equal(t, []string{
		"API key is too short (8 chars, minimum 32)",
		"using default/weak API key",
	}, short.SecurityIssues())

	strong := &Config{APIKey: "0123456789abcdef0123456789abcdef", RequireHTTPS: true}
	assert.Empty(t, strong.SecurityIssues())
}
