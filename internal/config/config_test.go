package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PAGE_SIZE", "")
	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 24, cfg.PageSize)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("PAGE_SIZE", "50")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestFromEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("PAGE_SIZE", "zero")
	t.Setenv("RATE_LIMIT_RPS", "-1")
	cfg := FromEnv()
	assert.Equal(t, 24, cfg.PageSize)
	assert.Equal(t, float64(20), cfg.RateLimitRPS)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shelfsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte("page_size: 50\ncatalog_source: /srv/books.json\nhttp_addr: \":7000\"\n"), 0o600))
	t.Setenv("SHELFSYNC_CONFIG", path)
	t.Setenv("HTTP_ADDR", ":7001")
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("CATALOG_SOURCE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, "/srv/books.json", cfg.CatalogSource)
	assert.Equal(t, ":7001", cfg.HTTPAddr)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("SHELFSYNC_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.Error(t, err)
}
