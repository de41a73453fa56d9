// Package config loads the environment-provided credentials and
// deployment knobs the pipeline's adapters and cache tiers need. It is
// deliberately tolerant: every field may be empty, in which case the
// affected adapter or cache tier degrades per spec §6.2 rather than
// failing to start.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every environment-like dependency named in spec §6.2.
type Config struct {
	// Map/search credentials
	MapsPrimaryAPIKey   string
	MapsSecondaryActorToken string
	SearchSERPAPIKey    string

	// Review / signals credentials
	ReviewsAPIKey string
	SocialSignalsToken string

	// Demographic / registry credentials
	DemographicsAPIKey string
	RegistryAPIKey      string
	BizRegistryAPIKey   string
	StateRegistryAPIKey string

	// Content / text-analysis
	WebCrawlUserAgent string
	TextAnalysisLLMAPIKey string // google.golang.org/genai key; empty -> fallback analyzer

	// Public geocoder
	GeocoderBaseURL string

	// Cache tiers
	RedisAddr      string
	PostgresDSN    string
	CacheTTLSeconds int

	// Logging
	LogLevel string

	// HTTP server
	ListenAddr string
}

// Load reads a .env file (if present, via godotenv) and then populates
// Config from the environment. No field is required; absence is a
// supported, documented degradation per spec §6.2.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		MapsPrimaryAPIKey:      os.Getenv("OKAPIQ_MAPS_PRIMARY_API_KEY"),
		MapsSecondaryActorToken: os.Getenv("OKAPIQ_MAPS_SECONDARY_ACTOR_TOKEN"),
		SearchSERPAPIKey:        os.Getenv("OKAPIQ_SEARCH_SERP_API_KEY"),
		ReviewsAPIKey:           os.Getenv("OKAPIQ_REVIEWS_API_KEY"),
		SocialSignalsToken:      os.Getenv("OKAPIQ_SOCIAL_SIGNALS_TOKEN"),
		DemographicsAPIKey:      os.Getenv("OKAPIQ_DEMOGRAPHICS_API_KEY"),
		RegistryAPIKey:          os.Getenv("OKAPIQ_REGISTRY_API_KEY"),
		BizRegistryAPIKey:       os.Getenv("OKAPIQ_BIZ_REGISTRY_API_KEY"),
		StateRegistryAPIKey:     os.Getenv("OKAPIQ_STATE_REGISTRY_API_KEY"),
		WebCrawlUserAgent:       envOrDefault("OKAPIQ_WEB_CRAWL_USER_AGENT", "okapiq-crawler/1.0"),
		TextAnalysisLLMAPIKey:   os.Getenv("OKAPIQ_TEXT_ANALYSIS_LLM_API_KEY"),
		GeocoderBaseURL:         envOrDefault("OKAPIQ_GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		RedisAddr:               os.Getenv("OKAPIQ_REDIS_ADDR"),
		PostgresDSN:             os.Getenv("DATABASE_URL"),
		CacheTTLSeconds:         envOrDefaultInt("OKAPIQ_CACHE_TTL_SECONDS", 6*3600),
		LogLevel:                envOrDefault("OKAPIQ_LOG_LEVEL", "info"),
		ListenAddr:              envOrDefault("OKAPIQ_LISTEN_ADDR", ":8080"),
	}
	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
