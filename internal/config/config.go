package config

import (
	"errors"
	"net/url"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Nominatim geocoding provider configuration.
	NominatimURL       string
	NominatimUserAgent string
	NominatimLanguage  string
	NominatimTimeout   time.Duration
	NominatimRateLimit float64 // requests per second

	GeocodeCacheSize int
	SearchLimit      int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	timeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("NOMINATIM_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		return nil, errors.New("invalid NOMINATIM_TIMEOUT")
	}

	rateLimit, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("NOMINATIM_RATE_LIMIT", "1"), 64)
	if err != nil || rateLimit <= 0 {
		return nil, errors.New("invalid NOMINATIM_RATE_LIMIT: must be a positive number")
	}

	searchLimit, err := strconv.Atoi(sharedcfg.EnvOrDefault("SEARCH_LIMIT", "5"))
	if err != nil || searchLimit < 1 || searchLimit > 50 {
		return nil, errors.New("invalid SEARCH_LIMIT: must be between 1 and 50")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		NominatimURL:       sharedcfg.EnvOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: sharedcfg.EnvOrDefault("NOMINATIM_USER_AGENT", "pg-locator/1.0"),
		NominatimLanguage:  sharedcfg.EnvOrDefault("NOMINATIM_LANGUAGE", "en"),
		NominatimTimeout:   timeout,
		NominatimRateLimit: rateLimit,

		GeocodeCacheSize: parseCacheSize(),
		SearchLimit:      searchLimit,
	}

	if u, err := url.Parse(cfg.NominatimURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("invalid NOMINATIM_URL")
	}

	return cfg, nil
}

func parseCacheSize() int {
	if s := os.Getenv("GEOCODE_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
