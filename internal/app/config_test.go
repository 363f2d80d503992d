package app

import (
	"testing"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoaderConfig() aconfig.Config {
	return aconfig.Config{
		EnvPrefix: "STOREFRONT",
		SkipFiles: true,
		SkipFlags: true,
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := loadConfig(testLoaderConfig())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr)
	assert.Empty(t, cfg.CatalogPath)
	assert.Equal(t, 10, cfg.LowStock)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, time.Minute, cfg.Session.SweepInterval)
	assert.Equal(t, 100, cfg.RateLimit.Max)
	assert.Equal(t, []string{"*"}, cfg.CORS.Origins)
	assert.Equal(t, 15*time.Second, cfg.Graceful.ShutdownTimeout)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STOREFRONT_CATALOG_PATH", "/srv/catalog.json.gz")
	t.Setenv("STOREFRONT_SESSION_TTL", "5m")
	t.Setenv("STOREFRONT_RATE_LIMIT_MAX", "0")

	cfg, err := loadConfig(testLoaderConfig())
	require.NoError(t, err)

	assert.Equal(t, "/srv/catalog.json.gz", cfg.CatalogPath)
	assert.Equal(t, 5*time.Minute, cfg.Session.TTL)
	assert.Zero(t, cfg.RateLimit.Max)
}

func TestLoadConfig_PlatformPort(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := loadConfig(testLoaderConfig())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Addr)
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{
		Addr:      "",
		LowStock:  -1,
		RateLimit: RateLimitConfig{Max: 10},
	}

	err := cfg.Validate()

	require.Error(t, err)
	for _, msg := range []string{
		"addr is required",
		"session ttl must be positive",
		"session sweep interval must be positive",
		"rate limit window must be positive",
		"low stock threshold must not be negative",
	} {
		assert.ErrorContains(t, err, msg)
	}
}
