// Command pgpick is a terminal stand-in for the listing form's location
// card. It runs the picker against a Nominatim-compatible provider (use
// cmd/fakegeo for offline work) with a fixed device position.
//
// Usage:
//
//	go run ./cmd/pgpick --nominatim-url http://localhost:8090
//	go run ./cmd/pgpick --lat 12.9716 --lon 77.5946 --deny-location
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/couchcryptid/pg-locator/internal/adapter/nominatim"
	"github.com/couchcryptid/pg-locator/internal/config"
	"github.com/couchcryptid/pg-locator/internal/device"
	"github.com/couchcryptid/pg-locator/internal/domain"
	"github.com/couchcryptid/pg-locator/internal/observability"
	"github.com/couchcryptid/pg-locator/internal/picker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	nominatimURL  string
	start         domain.Coordinate
	address       string
	device        domain.Coordinate
	deviceLatency time.Duration
	denyLocation  bool
	logFile       string
	logLevel      string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := pflag.NewFlagSet("pgpick", pflag.ContinueOnError)
	fs.StringVar(&o.nominatimURL, "nominatim-url", "", "geocoding provider base URL (default: $NOMINATIM_URL)")
	fs.Float64Var(&o.start.Latitude, "lat", 26.9124, "initial pin latitude")
	fs.Float64Var(&o.start.Longitude, "lon", 75.7873, "initial pin longitude")
	fs.StringVar(&o.address, "address", "", "initial address (empty resolves it from the pin)")
	fs.Float64Var(&o.device.Latitude, "device-lat", 12.9352, "simulated device latitude")
	fs.Float64Var(&o.device.Longitude, "device-lon", 77.6245, "simulated device longitude")
	fs.DurationVar(&o.deviceLatency, "device-latency", 750*time.Millisecond, "simulated time to a position fix")
	fs.BoolVar(&o.denyLocation, "deny-location", false, "start with location permission denied")
	fs.StringVar(&o.logFile, "log-file", "pgpick.log", "log file (rotated)")
	fs.StringVar(&o.logLevel, "log-level", "info", "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if err := o.start.Validate(); err != nil {
		return options{}, fmt.Errorf("--lat/--lon: %w", err)
	}
	return o, nil
}

func run() error {
	// A missing .env is normal.
	_ = godotenv.Load()

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.nominatimURL != "" {
		cfg.NominatimURL = opts.nominatimURL
	}

	logOut := &lumberjack.Logger{
		Filename:   opts.logFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     7, // days
	}
	defer logOut.Close()
	logger := observability.NewLogger(opts.logLevel, "json", logOut)
	metrics := observability.NewMetrics()

	client := nominatim.NewClient(nominatim.Options{
		BaseURL:   cfg.NominatimURL,
		UserAgent: cfg.NominatimUserAgent,
		Language:  cfg.NominatimLanguage,
		Timeout:   cfg.NominatimTimeout,
		RateLimit: cfg.NominatimRateLimit,
	}, metrics, logger)
	geocoder := nominatim.NewCachedGeocoder(client, cfg.GeocodeCacheSize, metrics)

	position, err := device.NewFixed(opts.device, opts.deviceLatency, nil)
	if err != nil {
		return fmt.Errorf("--device-lat/--device-lon: %w", err)
	}

	b := newBridge()
	p, err := picker.New(picker.Config{
		Coordinate:    opts.start,
		Address:       opts.address,
		Geocoder:      geocoder,
		Host:          b,
		Map:           b,
		Alerts:        b,
		Permission:    device.NewPermission(!opts.denyLocation),
		Position:      position,
		Logger:        logger,
		Metrics:       metrics,
		OnStateChange: b.stateChanged,
	})
	if err != nil {
		return err
	}
	defer p.Close()

	logger.Info("picker started", "provider", cfg.NominatimURL, "lat", opts.start.Latitude, "lon", opts.start.Longitude)

	program := tea.NewProgram(newModel(p, b, opts.start, opts.address), tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return err
	}

	if m, ok := final.(model); ok {
		fmt.Printf("coordinate: %s\naddress: %s\n", m.coordinate, m.address)
	}
	return nil
}
