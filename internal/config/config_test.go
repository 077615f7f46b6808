package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WOOCOMMERCE_BASE_URL", "https://store.example/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "https://store.example", cfg.WooCommerce.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, cfg.WooCommerce.BaseURL, cfg.Auth.BaseURL, "auth defaults to the store site")
	assert.Equal(t, 400*time.Millisecond, cfg.Validation.QuietPeriod)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 15*time.Minute, cfg.Worker.CatalogSyncInterval)
	assert.Equal(t, []string{"localhost:3000", "127.0.0.1:3000"}, cfg.WooCommerce.AllowedHosts)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WOOCOMMERCE_BASE_URL", "https://store.example")
	t.Setenv("AUTH_BASE_URL", "https://auth.example")
	t.Setenv("SKU_QUIET_PERIOD", "250ms")
	t.Setenv("CORS_ALLOWED_HOSTS", "dash.example, admin.example ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://auth.example", cfg.Auth.BaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Validation.QuietPeriod)
	assert.Equal(t, []string{"dash.example", "admin.example"}, cfg.WooCommerce.AllowedHosts)
}

func TestLoadMissingStoreURL(t *testing.T) {
	t.Setenv("WOOCOMMERCE_BASE_URL", "")

	_, err := Load()
	assert.ErrorContains(t, err, "WOOCOMMERCE_BASE_URL")
}

func TestLoadInvalidQuietPeriod(t *testing.T) {
	t.Setenv("WOOCOMMERCE_BASE_URL", "https://store.example")
	t.Setenv("SKU_QUIET_PERIOD", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "SKU_QUIET_PERIOD")
}
