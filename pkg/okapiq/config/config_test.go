package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearOkapiqEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"OKAPIQ_MAPS_PRIMARY_API_KEY", "OKAPIQ_WEB_CRAWL_USER_AGENT", "OKAPIQ_GEOCODER_BASE_URL",
		"OKAPIQ_CACHE_TTL_SECONDS", "OKAPIQ_LOG_LEVEL", "OKAPIQ_LISTEN_ADDR", "DATABASE_URL", "OKAPIQ_REDIS_ADDR",
	}
	for _, k := range keys {
		original, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, original)
			}
		})
	}
}

func TestLoad_DefaultsWhenEnvAbsent(t *testing.T) {
	clearOkapiqEnv(t)
	cfg := Load()

	assert.Equal(t, "okapiq-crawler/1.0", cfg.WebCrawlUserAgent)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.GeocoderBaseURL)
	assert.Equal(t, 6*3600, cfg.CacheTTLSeconds)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Empty(t, cfg.MapsPrimaryAPIKey)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	clearOkapiqEnv(t)
	os.Setenv("OKAPIQ_LOG_LEVEL", "debug")
	os.Setenv("OKAPIQ_CACHE_TTL_SECONDS", "120")
	os.Setenv("OKAPIQ_MAPS_PRIMARY_API_KEY", "test-key")

	cfg := Load()

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 120, cfg.CacheTTLSeconds)
	assert.Equal(t, "test-key", cfg.MapsPrimaryAPIKey)
}

func TestLoad_InvalidIntEnvFallsBackToDefault(t *testing.T) {
	clearOkapiqEnv(t)
	os.Setenv("OKAPIQ_CACHE_TTL_SECONDS", "not-a-number")
	cfg := Load()
	assert.Equal(t, 6*3600, cfg.CacheTTLSeconds)
}
