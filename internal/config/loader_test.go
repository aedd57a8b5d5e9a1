package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TELEGRAM_TOKEN", "123:abc")

	cfg, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Poller.Interval)
	assert.Equal(t, 8, cfg.Poller.Workers)
	assert.Equal(t, 3000, cfg.Deduplication.HighWater)
	assert.Equal(t, 1000, cfg.Deduplication.LowWater)
	assert.Equal(t, "deny", cfg.Deduplication.OnBackendError)
	assert.Equal(t, []string{"xrp.cafe"}, cfg.Marketplace.CollectionHosts)
	assert.Equal(t, "https://xrp.cafe/logo.png", cfg.Telegram.FallbackImageURL)
	assert.Equal(t, "en", cfg.Subscriptions.DefaultLocale)
	assert.Equal(t, 1.0, cfg.Telegram.PerChatRPS)
	assert.Equal(t, 3, cfg.Telegram.PerChatBurst)
	assert.Equal(t, 3, cfg.Broker.NATS.Retry.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.Broker.NATS.Retry.InitialInterval)
}

func TestLoadConfig_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.yaml")
	yaml := `
telegram:
  token: from-file
poller:
  interval: 30s
  workers: 2
marketplace:
  collection_hosts: ["xrp.cafe", "nft.example"]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("PORT", "8081")

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Telegram.Token)
	assert.Equal(t, 30*time.Second, cfg.Poller.Interval)
	assert.Equal(t, 2, cfg.Poller.Workers)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, []string{"xrp.cafe", "nft.example"}, cfg.Marketplace.CollectionHosts)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TELEGRAM_TOKEN=from-dotenv\n"), 0o600))
	os.Unsetenv("TELEGRAM_TOKEN")
	t.Cleanup(func() { os.Unsetenv("TELEGRAM_TOKEN") })

	cfg, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Telegram.Token)
}

func TestLoadConfig_MissingToken(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TELEGRAM_TOKEN", "")

	_, err := LoadConfig("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.token")
}
