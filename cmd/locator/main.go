// Command locator serves the geocoding API used by the location picker:
// cached, rate-limited forward and reverse lookups against Nominatim.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/pg-locator/internal/adapter/http"
	"github.com/couchcryptid/pg-locator/internal/adapter/nominatim"
	"github.com/couchcryptid/pg-locator/internal/config"
	"github.com/couchcryptid/pg-locator/internal/observability"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	client := nominatim.NewClient(nominatim.Options{
		BaseURL:   cfg.NominatimURL,
		UserAgent: cfg.NominatimUserAgent,
		Language:  cfg.NominatimLanguage,
		Timeout:   cfg.NominatimTimeout,
		RateLimit: cfg.NominatimRateLimit,
	}, metrics, logger)
	geocoder := nominatim.NewCachedGeocoder(client, cfg.GeocodeCacheSize, metrics)
	logger.Info("nominatim geocoding configured",
		"url", cfg.NominatimURL,
		"cache_size", cfg.GeocodeCacheSize,
		"rate_limit", cfg.NominatimRateLimit,
		"timeout", cfg.NominatimTimeout,
	)

	srv := httpadapter.NewServer(cfg.HTTPAddr, client, geocoder, cfg.SearchLimit, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
