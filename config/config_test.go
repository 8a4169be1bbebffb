// file: config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeTempConfig(t, `
[server]
addr = ":8080"
mode = "release"

[database]
dsn = "user:pass@tcp(127.0.0.1:3306)/astractf?charset=utf8mb4&parseTime=True"

[redis]
addr = "127.0.0.1:6379"

[auth]
jwt_secret = "0123456789abcdef0123456789abcdef"
token_ttl = "24h"

[instance]
enabled = true
lifetime = "2h"
max_renewals = 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	assert.Equal(t, 100, cfg.Database.MaxOpenConns)
	assert.Equal(t, "./uploads", cfg.Upload.Dir)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
	assert.Equal(t, 2*time.Hour, cfg.InstanceLifetime())
	assert.Equal(t, uint(5), cfg.Instance.MaxRenewals)
}

func TestLoadDefaultsDurations(t *testing.T) {
	path := writeTempConfig(t, `
[server]
addr = ":8080"

[database]
dsn = "dsn"

[redis]
addr = "127.0.0.1:6379"

[auth]
jwt_secret = "0123456789abcdef0123456789abcdef"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL())
	assert.Equal(t, time.Hour, cfg.InstanceLifetime())
}

func TestLoadRejectsMissingRequired(t *testing.T) {
	path := writeTempConfig(t, `
[server]
addr = ":8080"
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsShortSecret(t *testing.T) {
	path := writeTempConfig(t, `
[server]
addr = ":8080"

[database]
dsn = "dsn"

[redis]
addr = "127.0.0.1:6379"

[auth]
jwt_secret = "short"
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	assert.Error(t, err)
}
