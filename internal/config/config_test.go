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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9090
  read_timeout: 5s
  allowed_origins:
    - https://blog.example.com
database:
  driver: postgres
  dsn: postgres://localhost/blog?sslmode=disable
auth:
  secret: super-secret
  token_ttl: 1h
uploads:
  dir: /tmp/blog-uploads
logging:
  level: debug
  format: text
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr())
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	// Unset fields keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "postgres://localhost/blog?sslmode=disable", cfg.Database.DSN)
	assert.Equal(t, "super-secret", cfg.Auth.Secret)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "/tmp/blog-uploads", cfg.Uploads.Dir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"https://blog.example.com"}, cfg.Server.AllowedOrigins)
}

func TestLoadFromPathMissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadFromPathInvalidPort(t *testing.T) {
	path := writeConfig(t, "server:\n  port: -1\n")
	_, err := LoadFromPath(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BLOG_SERVER_PORT", "7070")
	t.Setenv("BLOG_AUTH_SECRET", "from-env")
	t.Setenv("BLOG_DATABASE_DSN", "postgres://env/blog")
	t.Setenv("BLOG_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	path := writeConfig(t, "server:\n  port: 9090\n")
	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Auth.Secret)
	assert.Equal(t, "postgres://env/blog", cfg.Database.DSN)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Empty(t, cfg.Database.DSN)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
}
