package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://api.appstoreconnect.apple.com/v1", cfg.AppStore.BaseURL)
	assert.Equal(t, 30, cfg.AppStore.TimeoutSeconds)
	assert.Equal(t, 1200, cfg.AppStore.TokenTTLSeconds)
	assert.Equal(t, "USA", cfg.Catalog.BaseTerritory)
	assert.Equal(t, 50, cfg.Catalog.PriceDelayMs)
	assert.Equal(t, 30, cfg.Release.PollIntervalSeconds)
	assert.Equal(t, 2400, cfg.Release.PollTimeoutSeconds)
	assert.Equal(t, 900, cfg.Release.TokenRefreshSeconds)
	assert.False(t, cfg.Storage.Enabled)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "en-US", cfg.App.PrimaryLocale)
	assert.Equal(t, 0, cfg.App.PriceTier)
	assert.False(t, cfg.App.ThirdPartyContent)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APPSTORE_KEY_ID", "KEY123")
	t.Setenv("CATALOG_BASE_TERRITORY", "DEU")
	t.Setenv("RELEASE_POLL_INTERVAL_SECONDS", "5")
	t.Setenv("STORAGE_ENABLED", "true")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "KEY123", cfg.AppStore.KeyID)
	assert.Equal(t, "DEU", cfg.Catalog.BaseTerritory)
	assert.Equal(t, 5, cfg.Release.PollIntervalSeconds)
	assert.True(t, cfg.Storage.Enabled)
}

func TestLoadConfig_LegacyAliases(t *testing.T) {
	t.Setenv("APP_STORE_CONNECT_KEY_IDENTIFIER", "LEGACYKEY")
	t.Setenv("APP_STORE_CONNECT_ISSUER_ID", "issuer")
	t.Setenv("BUNDLE_ID", "com.example.app")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "LEGACYKEY", cfg.AppStore.KeyID)
	assert.Equal(t, "issuer", cfg.AppStore.IssuerID)
	assert.Equal(t, "com.example.app", cfg.AppStore.BundleID)
}

func TestLoadConfig_CanonicalWinsOverAlias(t *testing.T) {
	t.Setenv("APPSTORE_BUNDLE_ID", "com.example.new")
	t.Setenv("BUNDLE_ID", "com.example.old")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "com.example.new", cfg.AppStore.BundleID)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CATALOG_PATH=custom.yaml\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("CATALOG_PATH") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "custom.yaml", cfg.Catalog.Path)
}

func TestLoadConfig_AppSetupAliases(t *testing.T) {
	t.Setenv("APP_NAME", "Example")
	t.Setenv("SKU", "EX1")
	t.Setenv("PRICE_TIER", "3")
	t.Setenv("CONTENT_RIGHTS_THIRD_PARTY", "true")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "Example", cfg.App.Name)
	assert.Equal(t, "EX1", cfg.App.SKU)
	assert.Equal(t, 3, cfg.App.PriceTier)
	assert.True(t, cfg.App.ThirdPartyContent)
}
