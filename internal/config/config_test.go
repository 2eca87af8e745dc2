package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"ENV", "CRAWLER_CONFIG", "GMB_BASE_URL", "GMB_HTTP_TIMEOUT", "GMB_FANOUT_LIMIT",
	"GMB_COORD_CACHE_TTL", "STORE_DRIVER", "DB_USER", "DB_PASS", "DB_HOST", "DB_PORT",
	"DB_NAME", "DB_SKIP_SCHEMA", "CRAWL_SCHEDULE", "CRAWL_TIMEZONE", "CRAWL_BUDGET",
	"CRAWL_ON_START", "PORT", "JWT_SECRET", "JWT_TTL", "ADMIN_PASSWORD_HASH", "DEBUG_DASHBOARD",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_NAME", "gmb")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.Source.BaseURL)
	assert.Equal(t, DefaultBudget, cfg.Source.Timeout)
	assert.Equal(t, DefaultFanOut, cfg.Source.FanOutLimit)
	assert.Zero(t, cfg.Source.CoordCacheTTL)
	assert.Equal(t, "mysql", cfg.Store.Driver)
	assert.Equal(t, "127.0.0.1", cfg.Store.Host)
	assert.Equal(t, "3306", cfg.Store.Port)
	assert.Equal(t, "0 0 * * *", cfg.Schedule.Cron)
	assert.Equal(t, "Asia/Hong_Kong", cfg.Schedule.Timezone)
	assert.Equal(t, 540*time.Second, cfg.Schedule.Budget)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, devJWTSecret, cfg.Server.JWTSecret)
	assert.False(t, cfg.Production())
}

func TestLoadYAMLThenEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, `
env: staging
source:
  base_url: http://localhost:9000
  timeout: 30s
  fanout_limit: 4
  coord_cache_ttl: 10m
store:
  driver: memory
schedule:
  cron: "30 1 * * *"
  budget: 2m
server:
  port: "9090"
  jwt_secret: 0123456789abcdef0123456789abcdef
`)
	t.Setenv("GMB_FANOUT_LIMIT", "8")
	t.Setenv("CRAWL_ON_START", "true")
	t.Setenv("DEBUG_DASHBOARD", "1")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, "http://localhost:9000", cfg.Source.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 8, cfg.Source.FanOutLimit)
	assert.Equal(t, 10*time.Minute, cfg.Source.CoordCacheTTL)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "30 1 * * *", cfg.Schedule.Cron)
	assert.Equal(t, 2*time.Minute, cfg.Schedule.Budget)
	assert.True(t, cfg.Schedule.OnStart)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Server.DebugDashboard)
}

func TestLoadUsesCrawlerConfigEnv(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, "store:\n  driver: memory\n")
	t.Setenv("CRAWLER_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Driver)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "firestore"}},
		{"mysql without database", map[string]string{"STORE_DRIVER": "mysql"}},
		{"fan-out too large", map[string]string{"STORE_DRIVER": "memory", "GMB_FANOUT_LIMIT": "1000"}},
		{"fan-out not a number", map[string]string{"STORE_DRIVER": "memory", "GMB_FANOUT_LIMIT": "many"}},
		{"bad duration", map[string]string{"STORE_DRIVER": "memory", "CRAWL_BUDGET": "forever"}},
		{"bad bool", map[string]string{"STORE_DRIVER": "memory", "CRAWL_ON_START": "perhaps"}},
		{"bad timezone", map[string]string{"STORE_DRIVER": "memory", "CRAWL_TIMEZONE": "Mars/Olympus"}},
		{"bad base url", map[string]string{"STORE_DRIVER": "memory", "GMB_BASE_URL": "not a url"}},
		{"short secret", map[string]string{"STORE_DRIVER": "memory", "JWT_SECRET": "short"}},
		{"production without secret", map[string]string{"STORE_DRIVER": "memory", "ENV": "production"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, "source: [unterminated\n")
	_, err := Load(path)
	assert.Error(t, err)
}
