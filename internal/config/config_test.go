package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"tenantdash/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MYSQL_DSN", "user:pass@/db")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_DB_NAME", "tenantdash")
}

func TestFromEnv_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.FromEnv()

	require.NoError(t, err)
	assert.Equal(t, ":8082", cfg.Addr)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, config.StoreMySQL, cfg.SessionStore)
	assert.Equal(t, "http://localhost:8082", cfg.SiteURL)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestFromEnv_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("SITE_URL", "https://dash.example.com")

	cfg, err := config.FromEnv()

	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
	assert.Equal(t, config.StoreRedis, cfg.SessionStore)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "https://dash.example.com", cfg.SiteURL)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := map[string]struct {
		key, value string
	}{
		"missing secret": {"JWT_SECRET", ""},
		"missing dsn":    {"MYSQL_DSN", ""},
		"missing mongo":  {"MONGO_URI", ""},
		"missing db":     {"MONGO_DB_NAME", ""},
		"bad ttl":        {"SESSION_TTL", "soon"},
		"negative ttl":   {"SESSION_TTL", "-1m"},
		"bad store":      {"SESSION_STORE", "memcached"},
		"bad redis db":   {"REDIS_DB", "zero"},
		"bad bool":       {"COOKIE_SECURE", "maybe"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(test.key, test.value)

			_, err := config.FromEnv()

			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env-test")
	content := "JWT_SECRET=fromfile\nMYSQL_DSN=dsn\nMONGO_URI=mongodb://m\nMONGO_DB_NAME=db\nADDR=:9000\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	for _, key := range []string{"JWT_SECRET", "MYSQL_DSN", "MONGO_URI", "MONGO_DB_NAME", "ADDR"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("START", file)

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.JWTSecret)
	assert.Equal(t, ":9000", cfg.Addr)

	t.Setenv("START", filepath.Join(dir, "missing"))
	_, err = config.Load()
	assert.Error(t, err)
}
