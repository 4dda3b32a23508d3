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
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[database]
url = "postgres://localhost/tradesync"

[trademaster]
api_key = "secret"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 250, cfg.Sync.PageSize)
	assert.Equal(t, 5, cfg.Sync.OrderBatch)
	assert.Equal(t, 30, cfg.Sync.IntervalMinutes)
	assert.Equal(t, "https://api.trademaster.pro", cfg.TradeMaster.Host)
	assert.Equal(t, "2", cfg.TradeMaster.Version)
	assert.Equal(t, "RUB", cfg.TradeMaster.Currency)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9090"

[database]
url = "postgres://localhost/tradesync"

[sync]
page_size = 100

[trademaster]
api_key = "secret"
host = "https://staging.trademaster.pro"
storage = 7
auto_generate_address = true
file_caching = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 100, cfg.Sync.PageSize)
	assert.Equal(t, "https://staging.trademaster.pro", cfg.TradeMaster.Host)
	assert.Equal(t, 7, cfg.TradeMaster.Storage)
	assert.True(t, cfg.TradeMaster.AutoGenerateAddress)
	assert.True(t, cfg.TradeMaster.FileCaching)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/tradesync")
	t.Setenv("TRADEMASTER_API_KEY", "env-key")

	path := writeConfig(t, `
[database]
url = "postgres://file/tradesync"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env/tradesync", cfg.Database.URL)
	assert.Equal(t, "env-key", cfg.TradeMaster.APIKey)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TRADEMASTER_API_KEY", "")

	path := writeConfig(t, `
[trademaster]
api_key = "secret"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database url")
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TRADEMASTER_API_KEY", "")

	path := writeConfig(t, `
[database]
url = "postgres://localhost/tradesync"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
