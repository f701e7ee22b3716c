package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inTempDir runs the test from an empty working directory
func inTempDir(t *testing.T) {
	t.Helper()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(oldWd) })
}

func TestLoad_Defaults(t *testing.T) {
	inTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:8000", cfg.Server.Address())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 0.65, cfg.Matcher.Threshold)
	assert.Equal(t, "chandas_db.json", cfg.Catalogue.Path)
	assert.True(t, cfg.Catalogue.Watch)
	assert.False(t, cfg.Catalogue.UsesSQL())
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "localhost:6379", cfg.Cache.Redis.Addr)
	assert.Empty(t, cfg.Auth.Secret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "gemini-1.5-flash", cfg.Generator.Model)
	assert.Equal(t, 5, cfg.Generator.MaxAttempts)
	assert.Equal(t, "memory", cfg.RateLimit.Backend)
	assert.Equal(t, 10, cfg.RateLimit.Limit)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	inTempDir(t)

	content := `
server:
  host: 0.0.0.0
  port: 9000
  write_timeout: 45s
  profiling: true
matcher:
  threshold: 0.5
catalogue:
  driver: sqlite3
  dsn: file:meters.db
  watch: false
cache:
  backend: redis
  redis:
    addr: cache:6379
    db: 2
ratelimit:
  backend: redis
  limit: 3
  window: 30s
cors:
  allowed_origins:
    - http://localhost:5173
log:
  level: debug
  development: true
`
	require.NoError(t, os.WriteFile("chandas.yaml", []byte(content), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Address())
	assert.Equal(t, 45*time.Second, cfg.Server.WriteTimeout)
	assert.True(t, cfg.Server.Profiling)
	assert.Equal(t, 0.5, cfg.Matcher.Threshold)
	assert.True(t, cfg.Catalogue.UsesSQL())
	assert.Equal(t, "file:meters.db", cfg.Catalogue.DSN)
	assert.False(t, cfg.Catalogue.Watch)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "cache:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, 2, cfg.Cache.Redis.DB)
	assert.Equal(t, "redis", cfg.RateLimit.Backend)
	assert.Equal(t, 3, cfg.RateLimit.Limit)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Log.Development)
}

func TestLoad_YMLExtension(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.WriteFile("chandas.yml", []byte("server:\n  port: 7000\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestLoad_Environment(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.WriteFile("chandas.yaml", []byte("server:\n  port: 7000\n"), 0644))

	t.Setenv("CHANDAS_SERVER_PORT", "7100")
	t.Setenv("CHANDAS_CACHE_BACKEND", "none")
	t.Setenv("SIMILARITY_THRESHOLD", "0.8")
	t.Setenv("GEMINI_API_KEY", "key-from-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7100, cfg.Server.Port)
	assert.Equal(t, "none", cfg.Cache.Backend)
	assert.Equal(t, 0.8, cfg.Matcher.Threshold)
	assert.Equal(t, "key-from-env", cfg.Generator.APIKey)
}

func TestLoad_PrefixedThresholdWins(t *testing.T) {
	inTempDir(t)
	t.Setenv("CHANDAS_MATCHER_THRESHOLD", "0.7")
	t.Setenv("SIMILARITY_THRESHOLD", "0.8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.7, cfg.Matcher.Threshold)
}

func TestLoad_InvalidFile(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.WriteFile("chandas.yaml", []byte("server: [unclosed"), 0644))

	_, err := Load()
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"threshold above one", "matcher:\n  threshold: 1.5\n", "matcher.threshold"},
		{"negative threshold", "matcher:\n  threshold: -0.1\n", "matcher.threshold"},
		{"port out of range", "server:\n  port: 70000\n", "server.port"},
		{"half tls", "server:\n  tls_cert: cert.pem\n", "tls_key"},
		{"unknown cache", "cache:\n  backend: memcached\n", "cache.backend"},
		{"unknown driver", "catalogue:\n  driver: mysql\n  dsn: x\n", "catalogue.driver"},
		{"driver without dsn", "catalogue:\n  driver: postgres\n", "catalogue.dsn"},
		{"no catalogue path", "catalogue:\n  path: \"\"\n", "catalogue.path"},
		{"unknown rate limiter", "ratelimit:\n  backend: leaky\n", "ratelimit.backend"},
		{"zero rate limit", "ratelimit:\n  limit: 0\n", "ratelimit.limit"},
		{"zero attempts", "generator:\n  max_attempts: 0\n", "generator.max_attempts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inTempDir(t)
			require.NoError(t, os.WriteFile("chandas.yaml", []byte(tt.content), 0644))

			_, err := Load()
			assert.ErrorContains(t, err, tt.message)
		})
	}
}
